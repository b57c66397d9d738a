// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SearchRequest is a full-text title search against the wiki.
type SearchRequest struct {
	// Query is the text to search for, usually an author name.
	Query string `json:"query" yaml:"query"`

	// Limit caps the number of results requested (srlimit).
	Limit int `json:"limit" yaml:"limit"`

	// Namespace restricts results to one namespace (0 is articles).
	Namespace int `json:"namespace" yaml:"namespace"`

	// ExcludeTitle drops a result with this title, typically the page
	// being edited.
	ExcludeTitle string `json:"exclude_title,omitempty" yaml:"exclude_title,omitempty"`
}

// SearchHit is one search result.
type SearchHit struct {
	Title   string `json:"title" yaml:"title"`
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// Page is the current wikitext of a page and the revision timestamp it
// was read at, used to detect edit conflicts on save.
type Page struct {
	Title     string    `json:"title" yaml:"title"`
	Wikitext  string    `json:"wikitext" yaml:"wikitext"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// EditRequest saves new wikitext to a page.
type EditRequest struct {
	Title         string
	Text          string
	Summary       string
	BaseTimestamp time.Time
	Minor         bool
}

// EditResult is the outcome of a saved edit.
type EditResult struct {
	Result   string `json:"result"`
	NewRevID int64  `json:"newrevid"`
	NoChange bool   `json:"nochange"`
}

// Contribution is one entry of a user's contribution list.
type Contribution struct {
	User      string    `json:"user" yaml:"user"`
	Title     string    `json:"title" yaml:"title"`
	Namespace string    `json:"namespace" yaml:"namespace"`
	Summary   string    `json:"summary" yaml:"summary"`
	Tags      []string  `json:"tags" yaml:"tags"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	RevID     int64     `json:"revid" yaml:"revid"`
}

// ContribsRequest selects one user's recent contributions.
type ContribsRequest struct {
	User  string `json:"user" yaml:"user"`
	Limit int    `json:"limit,omitempty" yaml:"limit,omitempty"`
	// Namespace is passed through as ucnamespace, e.g. "0" or "0|1".
	// Empty means all namespaces.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// LinkRecord is one applied author link persisted in the history store.
type LinkRecord struct {
	ID          string     `json:"id" yaml:"id"`
	SessionID   string     `json:"session_id" yaml:"session_id"`
	Page        string     `json:"page" yaml:"page"`
	AuthorName  string     `json:"author_name" yaml:"author_name"`
	AuthorIndex int        `json:"author_index" yaml:"author_index"`
	Target      string     `json:"target" yaml:"target"`
	Source      LinkSource `json:"source" yaml:"source"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
}
