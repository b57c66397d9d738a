// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for citelink: citations
// found in wikitext, the author candidates extracted from them, the
// links chosen for those authors, and the records exchanged with the
// wiki API.
package types

import (
	"strconv"
	"strings"
)

// Param is one named parameter of a citation template.
type Param struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Citation is a citation template occurrence inside a document.
type Citation struct {
	// Raw is the exact matched text. It is kept in sync with the
	// document after each applied edit so it can be found verbatim.
	Raw string `json:"raw" yaml:"raw"`

	// Offset is the byte offset of Raw in the document it was scanned from.
	Offset int `json:"offset" yaml:"offset"`

	// Name is the template name as written, e.g. "cite web" or "citation".
	Name string `json:"name" yaml:"name"`

	// Params lists named parameters in order of first appearance.
	// A duplicated name keeps the last value.
	Params []Param `json:"params" yaml:"params"`
}

// Get returns the value of the named parameter and whether it exists.
// Names are compared exactly.
func (c Citation) Get(name string) (string, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// AuthorCandidate is one author slot of a citation that has a name but
// no author-link parameter.
type AuthorCandidate struct {
	// Name is the author parameter, or "first last" when no author is set.
	Name string `json:"name" yaml:"name"`

	// Index is the 1-based author position. Position 1 covers both the
	// unsuffixed parameters (author=) and the "1" suffix (author1=).
	Index int `json:"index" yaml:"index"`

	// Linked reports whether a link has been applied during the session.
	Linked bool `json:"linked" yaml:"linked"`
}

// Suffix returns the parameter suffix for this position: empty for the
// first author, the decimal index otherwise.
func (a AuthorCandidate) Suffix() string {
	return IndexSuffix(a.Index)
}

// Label returns a human label like "author 1" or "author 3".
func (a AuthorCandidate) Label() string {
	return "author " + strconv.Itoa(a.Index)
}

// IndexSuffix renders an author index as it appears in parameter names.
func IndexSuffix(index int) string {
	if index <= 1 {
		return ""
	}
	return strconv.Itoa(index)
}

// LinkSource records where a link target came from.
type LinkSource string

const (
	SourceSearch     LinkSource = "search"
	SourceManual     LinkSource = "manual"
	SourceSuggestion LinkSource = "history"
)

// ArticleLinkResult is a target article applied to one author of one citation.
type ArticleLinkResult struct {
	CitationIndex int        `json:"citation_index" yaml:"citation_index"`
	AuthorIndex   int        `json:"author_index" yaml:"author_index"`
	AuthorName    string     `json:"author_name" yaml:"author_name"`
	Title         string     `json:"title" yaml:"title"`
	Source        LinkSource `json:"source" yaml:"source"`
}

// RefInfo is the summary of a single reference: either a citation
// template or a bare URL.
type RefInfo struct {
	// TemplateName is empty when the reference is not a template.
	TemplateName string `json:"template_name,omitempty" yaml:"template_name,omitempty"`
	URL          string `json:"url,omitempty" yaml:"url,omitempty"`
	AccessDate   string `json:"access_date,omitempty" yaml:"access_date,omitempty"`
	IsBareRef    bool   `json:"is_bare_ref" yaml:"is_bare_ref"`
}

// NormalizeTitle converts underscores to spaces and trims, so page
// names from URLs compare equal to search result titles.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(strings.ReplaceAll(title, "_", " "))
}
