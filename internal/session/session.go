// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session runs one author-linking pass over a document: it
// collects citations with unlinked authors, searches the wiki for each
// author concurrently, and applies the chosen links back into the
// document while tracking per-citation progress.
package session

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citelink/internal/apperr"
	"github.com/pdiddy/citelink/internal/wikitext"
	"github.com/pdiddy/citelink/pkg/types"
)

// Searcher looks up article titles for an author name.
type Searcher interface {
	Search(ctx context.Context, req types.SearchRequest) ([]types.SearchHit, error)
}

// Recorder persists applied links and offers earlier choices for a name.
type Recorder interface {
	Record(ctx context.Context, rec types.LinkRecord) error
	Suggest(ctx context.Context, authorName string, limit int) ([]string, error)
}

// State is the progress of one citation.
type State int

const (
	// Pending citations have authors left and no link applied yet.
	Pending State = iota
	// Modified citations have at least one link applied and authors left.
	Modified
	// Completed citations have every author linked. Terminal.
	Completed
	// Skipped citations were dismissed by the user. Terminal.
	Skipped
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Modified:
		return "modified"
	case Completed:
		return "completed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText renders the state by name in JSON and YAML output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Options configures a session.
type Options struct {
	// Page is the title of the document being edited. Search results
	// with this title are dropped.
	Page string

	// Search sets the per-author query limit, namespace and concurrency.
	Search types.SearchConfig

	// Extractor finds candidates and writes links. Nil uses the default.
	Extractor *wikitext.Extractor

	// Searcher resolves names to titles. Nil leaves every author without hits.
	Searcher Searcher

	// Recorder, when set, receives every applied link and supplies
	// suggestions from earlier sessions.
	Recorder Recorder

	// Summary is the edit summary to extend; SummaryTag marks our part of it.
	Summary    string
	SummaryTag string

	Logger *zap.Logger
}

// Stats are the session counters.
type Stats struct {
	AuthorsTotal       int `json:"authors_total" yaml:"authors_total"`
	AuthorsCompleted   int `json:"authors_completed" yaml:"authors_completed"`
	CitationsTotal     int `json:"citations_total" yaml:"citations_total"`
	CitationsCompleted int `json:"citations_completed" yaml:"citations_completed"`
	CitationsSkipped   int `json:"citations_skipped" yaml:"citations_skipped"`
	CitationsModified  int `json:"citations_modified" yaml:"citations_modified"`
}

type author struct {
	candidate   types.AuthorCandidate
	searched    bool
	hits        []types.SearchHit
	suggestions []string
	err         error
	target      string
}

type entry struct {
	citation  types.Citation
	authors   []*author
	processed int
	modified  bool
	state     State
}

// Session is one linking pass over a document. All methods are safe for
// concurrent use; each counter update happens under one lock.
type Session struct {
	id        string
	opts      Options
	extractor *wikitext.Extractor
	logger    *zap.Logger

	mu      sync.Mutex
	doc     string
	entries []*entry
	stats   Stats
	summary string
	results []types.ArticleLinkResult
	closed  bool
}

// New scans document and returns a session over the citations that have
// at least one linkable author. A document without any returns a
// NoCitations error.
func New(document string, opts Options) (*Session, error) {
	ex := opts.Extractor
	if ex == nil {
		ex = wikitext.DefaultExtractor()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		id:        newID(),
		opts:      opts,
		extractor: ex,
		logger:    logger,
		doc:       document,
		summary:   opts.Summary,
	}

	for _, c := range wikitext.FindCitations(document) {
		cands := ex.Candidates(c)
		if len(cands) == 0 {
			continue
		}
		e := &entry{citation: c}
		for _, cand := range cands {
			e.authors = append(e.authors, &author{candidate: cand})
		}
		s.entries = append(s.entries, e)
		s.stats.AuthorsTotal += len(cands)
	}
	s.stats.CitationsTotal = len(s.entries)

	if len(s.entries) == 0 {
		return nil, apperr.New(apperr.NoCitations, "no citations with linkable authors found")
	}
	logger.Debug("session started",
		zap.String("session", s.id),
		zap.String("page", opts.Page),
		zap.Int("citations", s.stats.CitationsTotal),
		zap.Int("authors", s.stats.AuthorsTotal))
	return s, nil
}

func newID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Close ends the session. Later calls that change state return a
// SessionClosed error.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SearchAll searches every author concurrently, bounded by
// Search.Concurrency. A failed search is stored on that author only;
// SearchAll returns an error only when ctx ends first.
func (s *Session) SearchAll(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return apperr.New(apperr.SessionClosed, "session %s is closed", s.id)
	}
	type job struct{ ci, ai int }
	var jobs []job
	for ci, e := range s.entries {
		for ai := range e.authors {
			jobs = append(jobs, job{ci, ai})
		}
	}
	s.mu.Unlock()

	limit := s.opts.Search.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, j := range jobs {
		g.Go(func() error {
			s.searchOne(gctx, j.ci, j.ai)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Session) searchOne(ctx context.Context, ci, ai int) {
	s.mu.Lock()
	a := s.entries[ci].authors[ai]
	name := a.candidate.Name
	s.mu.Unlock()

	var (
		hits        []types.SearchHit
		suggestions []string
		err         error
	)
	if s.opts.Searcher != nil {
		hits, err = s.opts.Searcher.Search(ctx, types.SearchRequest{
			Query:        name,
			Limit:        s.opts.Search.Limit,
			Namespace:    s.opts.Search.Namespace,
			ExcludeTitle: s.opts.Page,
		})
	}
	if s.opts.Recorder != nil {
		var recErr error
		suggestions, recErr = s.opts.Recorder.Suggest(ctx, name, 3)
		if recErr != nil {
			s.logger.Warn("loading link suggestions", zap.String("author", name), zap.Error(recErr))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a.searched = true
	a.suggestions = suggestions
	if err != nil {
		a.err = apperr.Wrap(apperr.SearchFailed, err, "searching %q", name)
		s.logger.Warn("author search failed", zap.String("author", name), zap.Error(err))
		return
	}
	a.hits = hits
}

// Select links author ai of citation ci to title. The citation text must
// still be present in the current document; otherwise a StaleCitation
// error is returned and nothing changes. Selecting an already linked
// author again corrects its link without counting it twice.
func (s *Session) Select(ctx context.Context, ci, ai int, title string, source types.LinkSource) (types.ArticleLinkResult, error) {
	s.mu.Lock()
	result, rec, err := s.selectLocked(ci, ai, title, source)
	s.mu.Unlock()
	if err != nil {
		return types.ArticleLinkResult{}, err
	}

	if s.opts.Recorder != nil {
		if err := s.opts.Recorder.Record(ctx, rec); err != nil {
			s.logger.Warn("recording link", zap.String("author", rec.AuthorName), zap.Error(err))
		}
	}
	return result, nil
}

func (s *Session) selectLocked(ci, ai int, title string, source types.LinkSource) (types.ArticleLinkResult, types.LinkRecord, error) {
	var none types.LinkRecord
	if s.closed {
		return types.ArticleLinkResult{}, none, apperr.New(apperr.SessionClosed, "session %s is closed", s.id)
	}
	e, a, err := s.lookup(ci, ai)
	if err != nil {
		return types.ArticleLinkResult{}, none, err
	}
	if e.state == Skipped {
		return types.ArticleLinkResult{}, none, apperr.New(apperr.InvalidRequest, "citation %d was skipped", ci+1)
	}

	doc, err := s.extractor.Apply(s.doc, &e.citation, a.candidate, title)
	if err != nil {
		return types.ArticleLinkResult{}, none, err
	}
	s.doc = doc

	if !a.candidate.Linked {
		a.candidate.Linked = true
		e.processed++
		s.stats.AuthorsCompleted++
	}
	a.target = title

	if !e.modified {
		e.modified = true
		s.stats.CitationsModified++
		s.summary = wikitext.MergeEditSummary(s.summary, s.stats.CitationsModified, s.opts.SummaryTag)
	}

	switch {
	case e.state == Completed:
	case e.processed >= len(e.authors):
		e.state = Completed
		s.stats.CitationsCompleted++
	default:
		e.state = Modified
	}

	result := types.ArticleLinkResult{
		CitationIndex: ci,
		AuthorIndex:   a.candidate.Index,
		AuthorName:    a.candidate.Name,
		Title:         title,
		Source:        source,
	}
	s.results = append(s.results, result)
	s.logger.Info("author linked",
		zap.String("author", a.candidate.Name),
		zap.String("target", title),
		zap.String("source", string(source)))

	rec := types.LinkRecord{
		SessionID:   s.id,
		Page:        s.opts.Page,
		AuthorName:  a.candidate.Name,
		AuthorIndex: a.candidate.Index,
		Target:      title,
		Source:      source,
		CreatedAt:   time.Now().UTC(),
	}
	return result, rec, nil
}

// Skip marks citation ci as skipped. Skipping twice is a no-op; a
// completed citation cannot be skipped.
func (s *Session) Skip(ci int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperr.New(apperr.SessionClosed, "session %s is closed", s.id)
	}
	if ci < 0 || ci >= len(s.entries) {
		return apperr.New(apperr.InvalidRequest, "no citation %d", ci+1)
	}
	e := s.entries[ci]
	switch e.state {
	case Skipped:
		return nil
	case Completed:
		return apperr.New(apperr.InvalidRequest, "citation %d is already completed", ci+1)
	}
	e.state = Skipped
	s.stats.CitationsSkipped++
	return nil
}

func (s *Session) lookup(ci, ai int) (*entry, *author, error) {
	if ci < 0 || ci >= len(s.entries) {
		return nil, nil, apperr.New(apperr.InvalidRequest, "no citation %d", ci+1)
	}
	e := s.entries[ci]
	if ai < 0 || ai >= len(e.authors) {
		return nil, nil, apperr.New(apperr.InvalidRequest, "citation %d has no author %d", ci+1, ai+1)
	}
	return e, e.authors[ai], nil
}

// Document returns the current document text.
func (s *Session) Document() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// SetDocument replaces the working document, e.g. after the user edited
// it outside the session. Citations whose text no longer appears become
// stale and reject further links.
func (s *Session) SetDocument(doc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
}

// Summary returns the edit summary with the modified-citation count merged in.
func (s *Session) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Stats returns a snapshot of the counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Done reports whether every citation is completed or skipped.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.CitationsCompleted+s.stats.CitationsSkipped >= s.stats.CitationsTotal
}

// StatusLine renders the progress counters for display.
func (s *Session) StatusLine() string {
	st := s.Stats()
	return fmt.Sprintf("Progress: %d/%d citations (%d completed, %d skipped) | Authors: %d/%d",
		st.CitationsCompleted+st.CitationsSkipped, st.CitationsTotal,
		st.CitationsCompleted, st.CitationsSkipped,
		st.AuthorsCompleted, st.AuthorsTotal)
}

// Results returns the links applied so far, in order.
func (s *Session) Results() []types.ArticleLinkResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ArticleLinkResult(nil), s.results...)
}
