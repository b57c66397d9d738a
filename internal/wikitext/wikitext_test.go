// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikitext

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citelink/pkg/types"
)

const sampleArticle = `'''Example''' is a thing.<ref>{{cite web|url=https://example.com|title=Home|access-date=2024-01-01}}</ref>
It was studied.<ref>{{Cite journal |last=Smith |first=Jane |title=A Study |journal=Nature}}</ref>
See also <ref>{{citation|author=Alan Turing|title=Computing Machinery}}</ref>.
Not a citation: {{Infobox person|name=X}} and {{cite}}.`

func TestFindCitations_DocumentOrder(t *testing.T) {
	got := FindCitations(sampleArticle)
	require.Len(t, got, 3)

	assert.Equal(t, "cite web", got[0].Name)
	assert.Equal(t, "Cite journal", got[1].Name)
	assert.Equal(t, "citation", got[2].Name)

	for _, c := range got {
		assert.Equal(t, c.Raw, sampleArticle[c.Offset:c.Offset+len(c.Raw)])
		assert.True(t, strings.HasSuffix(c.Raw, "}}"))
	}
}

func TestFindCitations_RoundTrip(t *testing.T) {
	docs := []string{
		sampleArticle,
		"{{cite book|title=A}}{{cite book|title=B}}",
		"text {{CITE NEWS | url = x | title = y }} more text",
		"no citations here",
		"",
	}
	for _, doc := range docs {
		var b strings.Builder
		prev := 0
		for _, c := range FindCitations(doc) {
			b.WriteString(doc[prev:c.Offset])
			b.WriteString(c.Raw)
			prev = c.Offset + len(c.Raw)
		}
		b.WriteString(doc[prev:])
		assert.Equal(t, doc, b.String())
	}
}

func TestFindCitations_Params(t *testing.T) {
	got := FindCitations("{{cite web |url=https://example.com/?a=b |title= First |title=Second |positional}}")
	require.Len(t, got, 1)

	want := []types.Param{
		{Name: "url", Value: "https://example.com/?a=b"},
		{Name: "title", Value: "Second"},
	}
	if diff := cmp.Diff(want, got[0].Params); diff != "" {
		t.Errorf("Params mismatch (-want +got):\n%s", diff)
	}

	v, ok := got[0].Get("url")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/?a=b", v)
	_, ok = got[0].Get("missing")
	assert.False(t, ok)
}

func TestFindCitations_FirstClosingBracesWins(t *testing.T) {
	doc := "{{cite web|title={{lang|fr|Titre}}|url=https://example.com}}"
	got := FindCitations(doc)
	require.Len(t, got, 1)
	assert.Equal(t, "{{cite web|title={{lang|fr|Titre}}", got[0].Raw)
}

func TestFindCitations_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"cite without type", "{{cite|title=x}}"},
		{"no pipe", "{{cite web}}"},
		{"pipe then closing", "{{cite web|}}"},
		{"other template", "{{citation needed|date=May 2024}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, FindCitations(tt.doc))
		})
	}
}

func TestFindCitations_DoesNotCrossNewlineAfterFirstChar(t *testing.T) {
	doc := "{{cite web|url=x\n|title=y}}"
	assert.Empty(t, FindCitations(doc))

	doc = "{{cite web|\n}}"
	got := FindCitations(doc)
	require.Len(t, got, 1)
	assert.Equal(t, doc, got[0].Raw)
}
