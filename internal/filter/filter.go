// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter narrows a contributions list by namespace, tag and
// edit summary.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/citelink/internal/apperr"
	"github.com/pdiddy/citelink/pkg/types"
)

// NoTag selects contributions that carry no tags.
const NoTag = "none"

// Criteria selects contributions. Empty fields match everything.
type Criteria struct {
	Namespaces []string `json:"namespaces,omitempty" yaml:"namespaces,omitempty"`
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary    string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	UseRegex   bool     `json:"use_regex,omitempty" yaml:"use_regex,omitempty"`
}

// Apply returns the contributions matching c, in input order. When the
// summary regex does not compile, Apply returns an InvalidFilter error
// and an empty result.
func Apply(items []types.Contribution, c Criteria) ([]types.Contribution, error) {
	match, err := c.summaryMatcher()
	if err != nil {
		return []types.Contribution{}, err
	}

	namespaces := toSet(c.Namespaces)
	tags := toSet(c.Tags)

	out := make([]types.Contribution, 0, len(items))
	for _, it := range items {
		if len(namespaces) > 0 && !namespaces[it.Namespace] {
			continue
		}
		if len(tags) > 0 && !matchTags(it.Tags, tags) {
			continue
		}
		if match != nil && !match(it.Summary) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (c Criteria) summaryMatcher() (func(string) bool, error) {
	if c.Summary == "" {
		return nil, nil
	}
	if c.UseRegex {
		re, err := regexp.Compile("(?i)" + c.Summary)
		if err != nil {
			return nil, apperr.Wrap(apperr.InvalidFilter, err, "invalid summary expression %q", c.Summary)
		}
		return re.MatchString, nil
	}
	needle := strings.ToLower(c.Summary)
	return func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}, nil
}

func matchTags(itemTags []string, want map[string]bool) bool {
	if len(itemTags) == 0 {
		return want[NoTag]
	}
	for _, t := range itemTags {
		if want[t] {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Label describes how many of total items are visible.
func Label(visible, total int) string {
	if visible == total {
		return fmt.Sprintf("Showing all %d items", total)
	}
	return fmt.Sprintf("Showing %d of %d items", visible, total)
}

// Options lists the namespaces and tags present in items, in first-seen
// order, for building filter choices. Untagged items add NoTag.
func Options(items []types.Contribution) (namespaces, tags []string) {
	seenNS := map[string]bool{}
	seenTag := map[string]bool{}
	for _, it := range items {
		if !seenNS[it.Namespace] {
			seenNS[it.Namespace] = true
			namespaces = append(namespaces, it.Namespace)
		}
		if len(it.Tags) == 0 && !seenTag[NoTag] {
			seenTag[NoTag] = true
			tags = append(tags, NoTag)
		}
		for _, t := range it.Tags {
			if !seenTag[t] {
				seenTag[t] = true
				tags = append(tags, t)
			}
		}
	}
	return namespaces, tags
}
