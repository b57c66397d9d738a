// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikitext

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/citelink/pkg/types"
)

// DefaultMinNameLength is the shortest author name worth searching for.
// One- and two-character names are usually bare initials.
const DefaultMinNameLength = 3

// authorParamRe matches author, last and first parameters with an
// optional numeric suffix. The value stops at the next pipe or brace.
var authorParamRe = regexp.MustCompile(`(?i)\|\s*(author|last|first)(\d*)\s*=\s*([^|}]+)`)

// Extractor finds unlinked authors in citations and writes links back.
type Extractor struct {
	aliases *AliasSet
	minLen  int
}

// NewExtractor builds an Extractor from link settings.
func NewExtractor(cfg types.LinkConfig) (*Extractor, error) {
	aliases, err := NewAliasSet(cfg.Aliases)
	if err != nil {
		return nil, err
	}
	minLen := cfg.MinNameLength
	if minLen <= 0 {
		minLen = DefaultMinNameLength
	}
	return &Extractor{aliases: aliases, minLen: minLen}, nil
}

var defaultExtractor = func() *Extractor {
	e, err := NewExtractor(types.LinkConfig{})
	if err != nil {
		panic(err)
	}
	return e
}()

// DefaultExtractor returns the extractor with built-in aliases and
// minimum name length.
func DefaultExtractor() *Extractor { return defaultExtractor }

// Aliases returns the extractor's alias set.
func (e *Extractor) Aliases() *AliasSet { return e.aliases }

// ExtractAuthorCandidates returns the unlinked authors of c using the
// default extractor.
func ExtractAuthorCandidates(c types.Citation) []types.AuthorCandidate {
	return defaultExtractor.Candidates(c)
}

type nameParts struct {
	author, first, last string
}

func (p nameParts) compose() string {
	if p.author != "" {
		return p.author
	}
	return strings.TrimSpace(p.first + " " + p.last)
}

// Candidates returns the authors of c that have a usable name and no
// author-link parameter, in ascending index order.
func (e *Extractor) Candidates(c types.Citation) []types.AuthorCandidate {
	groups := make(map[int]*nameParts)
	for _, m := range authorParamRe.FindAllStringSubmatch(c.Raw, -1) {
		kind := strings.ToLower(m[1])
		value := strings.TrimSpace(m[3])
		if value == "" || strings.HasPrefix(value, "{{") {
			continue
		}
		index, ok := parseIndex(m[2])
		if !ok {
			continue
		}
		g := groups[index]
		if g == nil {
			g = &nameParts{}
			groups[index] = g
		}
		switch kind {
		case "author":
			g.author = value
		case "first":
			g.first = value
		case "last":
			g.last = value
		}
	}

	indexes := make([]int, 0, len(groups))
	for i := range groups {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	var out []types.AuthorCandidate
	for _, i := range indexes {
		name := groups[i].compose()
		if strings.HasPrefix(name, "{{") {
			continue
		}
		if e.aliases.Present(c.Raw, i) {
			continue
		}
		if utf8.RuneCountInString(name) < e.minLen {
			continue
		}
		out = append(out, types.AuthorCandidate{Name: name, Index: i})
	}
	return out
}

// parseIndex converts a parameter suffix to an author index. An empty
// suffix is the first author; zero and overflowing suffixes are rejected.
func parseIndex(s string) (int, bool) {
	if s == "" {
		return 1, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
