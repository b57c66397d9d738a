// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citelink/internal/apperr"
	"github.com/pdiddy/citelink/pkg/types"
)

var contribs = []types.Contribution{
	{Title: "Alan Turing", Namespace: "Main", Summary: "Modified 2 citations using citelink.", Tags: []string{"citelink"}, RevID: 1},
	{Title: "Talk:Alan Turing", Namespace: "Talk", Summary: "reply", RevID: 2},
	{Title: "Ada Lovelace", Namespace: "Main", Summary: "copyedit", Tags: []string{"mobile edit", "visualeditor"}, RevID: 3},
	{Title: "User:Example", Namespace: "User", Summary: "Sandbox", RevID: 4},
}

func revIDs(items []types.Contribution) []int64 {
	ids := []int64{}
	for _, it := range items {
		ids = append(ids, it.RevID)
	}
	return ids
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []int64
	}{
		{"empty criteria keeps all", Criteria{}, []int64{1, 2, 3, 4}},
		{"namespace", Criteria{Namespaces: []string{"Main"}}, []int64{1, 3}},
		{"several namespaces", Criteria{Namespaces: []string{"Talk", "User"}}, []int64{2, 4}},
		{"tag", Criteria{Tags: []string{"visualeditor"}}, []int64{3}},
		{"untagged", Criteria{Tags: []string{NoTag}}, []int64{2, 4}},
		{"tag or untagged", Criteria{Tags: []string{NoTag, "citelink"}}, []int64{1, 2, 4}},
		{"summary substring ignores case", Criteria{Summary: "SANDBOX"}, []int64{4}},
		{"summary regex", Criteria{Summary: `^modified \d+`, UseRegex: true}, []int64{1}},
		{"regex metachars literal without UseRegex", Criteria{Summary: `^modified`}, []int64{}},
		{"combined", Criteria{Namespaces: []string{"Main"}, Summary: "copy"}, []int64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(contribs, tt.criteria)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, revIDs(got)); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_InvalidRegexHidesEverything(t *testing.T) {
	got, err := Apply(contribs, Criteria{Summary: "(unclosed", UseRegex: true})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.InvalidFilter))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Showing all 4 items", Label(4, 4))
	assert.Equal(t, "Showing 1 of 4 items", Label(1, 4))
	assert.Equal(t, "Showing all 0 items", Label(0, 0))
}

func TestOptions(t *testing.T) {
	ns, tags := Options(contribs)
	assert.Equal(t, []string{"Main", "Talk", "User"}, ns)
	assert.Equal(t, []string{"citelink", NoTag, "mobile edit", "visualeditor"}, tags)
}
