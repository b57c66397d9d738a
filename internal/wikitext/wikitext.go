// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wikitext finds citation templates in wikitext and reconciles
// their author and author-link parameters.
//
// The scanner is regex based and deliberately narrow. It does not parse
// wikitext: a citation ends at the first "}}" after it starts, so a
// template nested inside a parameter value truncates the match. Callers
// only depend on FindCitations, ExtractAuthorCandidates and
// ApplyAuthorLink, so a grammar-based parser can replace the scanner
// without changing them.
package wikitext

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citelink/pkg/types"
)

// citationRe matches {{cite <word>|...}} and {{citation|...}} through the
// first closing braces. "." does not cross newlines; only the single
// character after the first pipe may.
var citationRe = regexp.MustCompile(`(?i)\{\{(?:cite\s+\w+|citation)\s*\|[^}].*?\}\}`)

// FindCitations returns the citation templates in text in document order.
// Each citation's Raw is the exact matched substring.
func FindCitations(text string) []types.Citation {
	locs := citationRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	citations := make([]types.Citation, 0, len(locs))
	for _, loc := range locs {
		raw := text[loc[0]:loc[1]]
		name, params := parseTemplate(raw)
		citations = append(citations, types.Citation{
			Raw:    raw,
			Offset: loc[0],
			Name:   name,
			Params: params,
		})
	}
	return citations
}

// parseTemplate splits "{{name|a=1|b=2}}" into its name and parameters.
// Pieces without "=" (positional parameters) are dropped. A repeated
// parameter keeps its first position and its last value.
func parseTemplate(raw string) (string, []types.Param) {
	body := strings.TrimSpace(raw)
	body = strings.TrimPrefix(body, "{{")
	body = strings.TrimSuffix(body, "}}")

	pieces := strings.Split(body, "|")
	name := strings.Join(strings.Fields(pieces[0]), " ")

	var params []types.Param
	pos := make(map[string]int)
	for _, piece := range pieces[1:] {
		eq := strings.IndexByte(piece, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(piece[:eq])
		value := strings.TrimSpace(piece[eq+1:])
		if i, ok := pos[key]; ok {
			params[i].Value = value
			continue
		}
		pos[key] = len(params)
		params = append(params, types.Param{Name: key, Value: value})
	}
	return name, params
}
