// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikitext

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citelink/internal/apperr"
	"github.com/pdiddy/citelink/pkg/types"
)

// closingRe matches the closing braces of a template and the whitespace
// before them.
var closingRe = regexp.MustCompile(`\s*\}\}$`)

// LinkCitation returns raw with the author-link for index set to title,
// using the default extractor's aliases.
func LinkCitation(raw string, index int, title string) string {
	return defaultExtractor.LinkCitation(raw, index, title)
}

// ApplyAuthorLink links cand in c to title inside document, using the
// default extractor's aliases.
func ApplyAuthorLink(document string, c *types.Citation, cand types.AuthorCandidate, title string) (string, error) {
	return defaultExtractor.Apply(document, c, cand, title)
}

// LinkCitation returns raw with the author-link parameter for index set
// to title. An existing parameter (any alias) has its value replaced in
// place; otherwise " |author-link<n>=<title>" is inserted before the
// closing braces. All other bytes are preserved.
func (e *Extractor) LinkCitation(raw string, index int, title string) string {
	if loc := e.aliases.keyLoc(raw, index); loc != nil {
		start := loc[1]
		end := start + valueEnd(raw[start:])
		segment := raw[start:end]
		trimmed := strings.TrimSpace(segment)
		lead, trail := segment, ""
		if trimmed != "" {
			lead = segment[:strings.Index(segment, trimmed)]
			trail = segment[len(lead)+len(trimmed):]
		}
		return raw[:start] + lead + title + trail + raw[end:]
	}

	param := " |author-link" + types.IndexSuffix(index) + "=" + title
	if loc := closingRe.FindStringIndex(raw); loc != nil {
		return raw[:loc[0]] + param + raw[loc[0]:]
	}
	return raw + param
}

// valueEnd returns the offset where the parameter value at the start of s
// ends: the first '|' or '}' outside nested [[links]] and {{templates}}.
func valueEnd(s string) int {
	links, templates := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "[["):
			links++
			i++
		case links > 0 && strings.HasPrefix(s[i:], "]]"):
			links--
			i++
		case strings.HasPrefix(s[i:], "{{"):
			templates++
			i++
		case templates > 0 && strings.HasPrefix(s[i:], "}}"):
			templates--
			i++
		case links == 0 && templates == 0 && (s[i] == '|' || s[i] == '}'):
			return i
		}
	}
	return len(s)
}

// Apply writes an author link for cand into the document. The citation's
// Raw must still appear verbatim in document; if it does not, the
// document changed since the scan and a StaleCitation error is returned
// with nothing modified. On success c.Raw, c.Offset and c.Params describe
// the updated citation.
func (e *Extractor) Apply(document string, c *types.Citation, cand types.AuthorCandidate, title string) (string, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return document, err
	}

	offset := strings.Index(document, c.Raw)
	if c.Raw == "" || offset < 0 {
		return document, apperr.New(apperr.StaleCitation, "citation may have changed; link for %s not applied", cand.Name)
	}

	updated := e.LinkCitation(c.Raw, cand.Index, title)
	document = document[:offset] + updated + document[offset+len(c.Raw):]

	c.Raw = updated
	c.Offset = offset
	c.Name, c.Params = parseTemplate(updated)
	return document, nil
}

// validateTitle rejects titles that would break the template markup.
func validateTitle(title string) error {
	if title == "" {
		return apperr.New(apperr.InvalidRequest, "article title is empty")
	}
	if strings.ContainsAny(title, "|{}") {
		return apperr.New(apperr.InvalidRequest, "article title %q contains template markup", title)
	}
	return nil
}
