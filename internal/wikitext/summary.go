// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikitext

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultSummaryTag follows the count phrase in edit summaries.
const DefaultSummaryTag = "using citelink."

var modifiedRe = regexp.MustCompile(`Modified \d+ citations?`)

// ModifiedPhrase returns "Modified 1 citation" or "Modified N citations".
func ModifiedPhrase(n int) string {
	if n == 1 {
		return "Modified 1 citation"
	}
	return fmt.Sprintf("Modified %d citations", n)
}

// MergeEditSummary folds the modified-citation count into an existing
// edit summary. An empty summary becomes "<phrase> <tag>". A summary
// that already carries tag has its count updated in place. Anything
// else gets "; <phrase> <tag>" appended.
func MergeEditSummary(current string, modified int, tag string) string {
	if tag == "" {
		tag = DefaultSummaryTag
	}
	current = strings.TrimSpace(current)
	phrase := ModifiedPhrase(modified)

	switch {
	case current == "":
		return phrase + " " + tag
	case strings.Contains(current, tag):
		if loc := modifiedRe.FindStringIndex(current); loc != nil {
			return current[:loc[0]] + phrase + current[loc[1]:]
		}
		return current
	default:
		return current + "; " + phrase + " " + tag
	}
}
