// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps a history of applied author links in SQLite so
// later sessions can suggest the article an author was linked to before.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/pdiddy/citelink/pkg/types"
)

const (
	defaultListLimit = 50

	// timeLayout is fixed width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the link history database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at cfg.Path and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = types.DefaultConfig().Store.Path
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS links (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			page TEXT,
			author_name TEXT NOT NULL,
			author_key TEXT NOT NULL,
			author_index INTEGER NOT NULL,
			target TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_links_author_key ON links(author_key)`,
		`CREATE INDEX IF NOT EXISTS idx_links_session ON links(session_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// authorKey folds case and inner whitespace so "jane  Smith" and
// "Jane Smith" share history.
func authorKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Record stores one applied link. An empty ID is filled with a new ULID
// and a zero CreatedAt with the current time.
func (s *Store) Record(ctx context.Context, rec types.LinkRecord) error {
	if rec.ID == "" {
		rec.ID = ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0)).String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.Page = types.NormalizeTitle(rec.Page)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO links (id, session_id, page, author_name, author_key, author_index, target, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.Page, rec.AuthorName, authorKey(rec.AuthorName),
		rec.AuthorIndex, rec.Target, string(rec.Source), rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording link for %s: %w", rec.AuthorName, err)
	}
	return nil
}

// Suggest returns up to limit targets previously chosen for authorName,
// most used first, ties broken by most recent use.
func (s *Store) Suggest(ctx context.Context, authorName string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT target FROM links WHERE author_key = ?
		 GROUP BY target
		 ORDER BY count(*) DESC, max(created_at) DESC
		 LIMIT ?`,
		authorKey(authorName), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying suggestions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("scanning suggestion: %w", err)
		}
		out = append(out, target)
	}
	return out, rows.Err()
}

// ListOptions narrows List. Zero values match everything.
type ListOptions struct {
	Author    string
	Page      string
	SessionID string
	Limit     int
}

// List returns recorded links, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.LinkRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.Author != "" {
		where = append(where, "author_key = ?")
		args = append(args, authorKey(opts.Author))
	}
	if opts.Page != "" {
		where = append(where, "page = ?")
		args = append(args, types.NormalizeTitle(opts.Page))
	}
	if opts.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, opts.SessionID)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, session_id, page, author_name, author_index, target, source, created_at FROM links`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	var out []types.LinkRecord
	for rows.Next() {
		var (
			rec       types.LinkRecord
			page      sql.NullString
			source    string
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &page, &rec.AuthorName,
			&rec.AuthorIndex, &rec.Target, &source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		rec.Page = page.String
		rec.Source = types.LinkSource(source)
		if t, err := time.Parse(timeLayout, createdAt); err == nil {
			rec.CreatedAt = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
