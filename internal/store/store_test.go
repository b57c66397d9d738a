// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citelink/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{Path: filepath.Join(t.TempDir(), "data", "citelink.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func record(t *testing.T, s *Store, author, target string, offset time.Duration) {
	t.Helper()
	err := s.Record(context.Background(), types.LinkRecord{
		SessionID:   "sess-1",
		Page:        "Alan_Turing",
		AuthorName:  author,
		AuthorIndex: 1,
		Target:      target,
		Source:      types.SourceSearch,
		CreatedAt:   base.Add(offset),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
}

func TestNewStoreReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citelink.db")
	s, err := NewStore(types.StoreConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	record(t, s, "Jane Smith", "Jane Smith (author)", 0)
	s.Close()

	s, err = NewStore(types.StoreConfig{Path: path})
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer s.Close()
	got, err := s.List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("List after reopen = %d records, want 1", len(got))
	}
}

func TestRecordAssignsIDAndNormalizesPage(t *testing.T) {
	s := testStore(t)
	record(t, s, "Jane Smith", "Jane Smith (author)", 0)

	got, err := s.List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	rec := got[0]
	if len(rec.ID) != 26 {
		t.Errorf("ID = %q, want a ULID", rec.ID)
	}
	if rec.Page != "Alan Turing" {
		t.Errorf("Page = %q, want %q", rec.Page, "Alan Turing")
	}
	if !rec.CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v, want %v", rec.CreatedAt, base)
	}
	if rec.Source != types.SourceSearch {
		t.Errorf("Source = %q, want %q", rec.Source, types.SourceSearch)
	}
}

func TestSuggest(t *testing.T) {
	s := testStore(t)
	record(t, s, "Jane Smith", "Jane Smith (author)", 0)
	record(t, s, "jane  smith", "Jane Smith (author)", time.Minute)
	record(t, s, "Jane Smith", "Jane Smith (painter)", 2*time.Minute)
	record(t, s, "Jane Smith", "Jane Smith (poet)", 3*time.Minute)
	record(t, s, "John Doe", "John Doe", 0)

	got, err := s.Suggest(context.Background(), "JANE SMITH", 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Jane Smith (author)", "Jane Smith (poet)"}
	if len(got) != len(want) {
		t.Fatalf("Suggest = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Suggest[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	none, err := s.Suggest(context.Background(), "Nobody", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("Suggest(Nobody) = %v, want empty", none)
	}
}

func TestListFilters(t *testing.T) {
	s := testStore(t)
	record(t, s, "Jane Smith", "A", 0)
	record(t, s, "John Doe", "B", time.Minute)
	record(t, s, "Jane Smith", "C", 2*time.Minute)

	tests := []struct {
		name    string
		opts    ListOptions
		targets []string
	}{
		{"all newest first", ListOptions{}, []string{"C", "B", "A"}},
		{"by author", ListOptions{Author: "jane smith"}, []string{"C", "A"}},
		{"by page", ListOptions{Page: "Alan Turing"}, []string{"C", "B", "A"}},
		{"other page", ListOptions{Page: "Ada Lovelace"}, nil},
		{"limit", ListOptions{Limit: 1}, []string{"C"}},
		{"session", ListOptions{SessionID: "sess-2"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(context.Background(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.targets) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.targets))
			}
			for i, rec := range got {
				if rec.Target != tt.targets[i] {
					t.Errorf("record %d target = %q, want %q", i, rec.Target, tt.targets[i])
				}
			}
		})
	}
}

func TestExport(t *testing.T) {
	s := testStore(t)
	record(t, s, "Jane Smith", "Jane Smith (author)", 0)
	record(t, s, "John Doe", "John Doe", time.Minute)
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "history.yaml")
	n, err := s.Export(context.Background(), yamlPath, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("exported %d, want 2", n)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML []types.LinkRecord
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatalf("parsing YAML export: %v", err)
	}
	if len(fromYAML) != 2 || fromYAML[0].AuthorName != "John Doe" {
		t.Errorf("YAML export = %+v", fromYAML)
	}

	jsonPath := filepath.Join(dir, "history.json")
	if _, err := s.Export(context.Background(), jsonPath, ListOptions{Author: "Jane Smith"}); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON []types.LinkRecord
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("parsing JSON export: %v", err)
	}
	if len(fromJSON) != 1 || fromJSON[0].Target != "Jane Smith (author)" {
		t.Errorf("JSON export = %+v", fromJSON)
	}
}
