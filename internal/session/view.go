// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import "github.com/pdiddy/citelink/pkg/types"

// Author is a snapshot of one author slot.
type Author struct {
	types.AuthorCandidate
	Searched    bool              `json:"searched" yaml:"searched"`
	Hits        []types.SearchHit `json:"hits,omitempty" yaml:"hits,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Err         error             `json:"-" yaml:"-"`
	Target      string            `json:"target,omitempty" yaml:"target,omitempty"`
}

// Citation is a snapshot of one citation and its authors.
type Citation struct {
	Index    int            `json:"index" yaml:"index"`
	Citation types.Citation `json:"citation" yaml:"citation"`
	State    State          `json:"state" yaml:"state"`
	Authors  []Author       `json:"authors" yaml:"authors"`
}

// Citations returns a snapshot of every citation in the session.
func (s *Session) Citations() []Citation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Citation, len(s.entries))
	for i, e := range s.entries {
		c := Citation{
			Index:    i,
			Citation: e.citation,
			State:    e.state,
			Authors:  make([]Author, len(e.authors)),
		}
		c.Citation.Params = append([]types.Param(nil), e.citation.Params...)
		for j, a := range e.authors {
			c.Authors[j] = Author{
				AuthorCandidate: a.candidate,
				Searched:        a.searched,
				Hits:            append([]types.SearchHit(nil), a.hits...),
				Suggestions:     append([]string(nil), a.suggestions...),
				Err:             a.err,
				Target:          a.target,
			}
		}
		out[i] = c
	}
	return out
}
