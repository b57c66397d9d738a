// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikitext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// DefaultAliases are the accepted spellings of an author-link parameter.
// "{n}" stands for the author index. For the first author it matches an
// optional "1", so author-link, authorlink, author-link1, author1-link
// and author1link all count.
var DefaultAliases = []string{
	`author-?link{n}`,
	`author{n}-?link`,
}

// AliasSet matches author-link parameters for a given author index.
type AliasSet struct {
	templates []string

	mu    sync.Mutex
	cache map[int]*regexp.Regexp
}

// NewAliasSet compiles templates into an alias set. An empty list uses
// DefaultAliases. Every template must contain "{n}" and form a valid
// regular expression.
func NewAliasSet(templates []string) (*AliasSet, error) {
	if len(templates) == 0 {
		templates = DefaultAliases
	}
	for _, t := range templates {
		if !strings.Contains(t, "{n}") {
			return nil, fmt.Errorf("alias %q has no {n} placeholder", t)
		}
		if _, err := regexp.Compile(expandAlias(t, 2)); err != nil {
			return nil, fmt.Errorf("alias %q: %w", t, err)
		}
	}
	return &AliasSet{
		templates: append([]string(nil), templates...),
		cache:     make(map[int]*regexp.Regexp),
	}, nil
}

// Templates returns the alias templates in use.
func (a *AliasSet) Templates() []string {
	return append([]string(nil), a.templates...)
}

// Present reports whether raw contains an author-link parameter for index.
func (a *AliasSet) Present(raw string, index int) bool {
	return a.keyRegexp(index).MatchString(raw)
}

// keyLoc returns the span of the first "|<alias> =" for index, or nil.
func (a *AliasSet) keyLoc(raw string, index int) []int {
	return a.keyRegexp(index).FindStringIndex(raw)
}

func (a *AliasSet) keyRegexp(index int) *regexp.Regexp {
	a.mu.Lock()
	defer a.mu.Unlock()
	if re, ok := a.cache[index]; ok {
		return re
	}
	alts := make([]string, len(a.templates))
	for i, t := range a.templates {
		alts[i] = expandAlias(t, index)
	}
	re := regexp.MustCompile(`(?i)\|\s*(?:` + strings.Join(alts, "|") + `)\s*=`)
	a.cache[index] = re
	return re
}

func expandAlias(template string, index int) string {
	n := "1?"
	if index > 1 {
		n = strconv.Itoa(index)
	}
	return strings.ReplaceAll(template, "{n}", n)
}
