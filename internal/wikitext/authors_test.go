// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikitext

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citelink/pkg/types"
)

func citation(t *testing.T, raw string) types.Citation {
	t.Helper()
	got := FindCitations(raw)
	require.Len(t, got, 1, "expected exactly one citation in %q", raw)
	return got[0]
}

func TestExtractAuthorCandidates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []types.AuthorCandidate
	}{
		{
			name: "author param",
			raw:  "{{cite web|author=Alan Turing|title=X}}",
			want: []types.AuthorCandidate{{Name: "Alan Turing", Index: 1}},
		},
		{
			name: "first and last",
			raw:  "{{cite journal|last=Lovelace|first=Ada|title=Notes}}",
			want: []types.AuthorCandidate{{Name: "Ada Lovelace", Index: 1}},
		},
		{
			name: "author preferred over first and last",
			raw:  "{{cite book|first=A.|last=Person|author=Real Name}}",
			want: []types.AuthorCandidate{{Name: "Real Name", Index: 1}},
		},
		{
			name: "author1 is index 1",
			raw:  "{{cite book|last1=Hopper|first1=Grace|last2=Knuth|first2=Donald}}",
			want: []types.AuthorCandidate{
				{Name: "Grace Hopper", Index: 1},
				{Name: "Donald Knuth", Index: 2},
			},
		},
		{
			name: "numeric ordering not lexical",
			raw:  "{{cite book|last10=Tenth|last2=Second|last1=First|last9=Ninth}}",
			want: []types.AuthorCandidate{
				{Name: "First", Index: 1},
				{Name: "Second", Index: 2},
				{Name: "Ninth", Index: 9},
				{Name: "Tenth", Index: 10},
			},
		},
		{
			name: "case-insensitive parameter names",
			raw:  "{{Cite web|Author=Grace Hopper}}",
			want: []types.AuthorCandidate{{Name: "Grace Hopper", Index: 1}},
		},
		{
			name: "templated value ignored",
			raw:  "{{cite web|author={{lang|fr|Victor Hugo}}|title=X}}",
			want: nil,
		},
		{
			name: "templated first falls back to last",
			raw:  "{{cite web|last=Valjean|first={{nowrap|Jean}}}}",
			want: []types.AuthorCandidate{{Name: "Valjean", Index: 1}},
		},
		{
			name: "short composed name rejected",
			raw:  "{{cite web|first=|last=Li}}",
			want: nil,
		},
		{
			name: "two-character author rejected",
			raw:  "{{cite web|author=AB}}",
			want: nil,
		},
		{
			name: "three-character author kept",
			raw:  "{{cite web|author=Abe}}",
			want: []types.AuthorCandidate{{Name: "Abe", Index: 1}},
		},
		{
			name: "author0 ignored",
			raw:  "{{cite web|author0=Nobody Here}}",
			want: nil,
		},
		{
			name: "no authors",
			raw:  "{{cite web|url=https://example.com|title=X}}",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAuthorCandidates(citation(t, tt.raw))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("candidates mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractAuthorCandidates_ExistingLinkFirstAuthor(t *testing.T) {
	for _, link := range []string{
		"author-link", "authorlink", "author-link1", "author1-link",
		"Author-Link", "AUTHORLINK1", "author1link",
	} {
		for _, names := range []string{
			"author=Alan Turing",
			"first=Alan|last=Turing",
			"author1=Alan Turing",
		} {
			raw := "{{cite web|" + names + "|" + link + "=Alan Turing|title=X}}"
			got := ExtractAuthorCandidates(citation(t, raw))
			assert.Empty(t, got, "link %q with %q", link, names)
		}
	}
}

func TestExtractAuthorCandidates_ExistingLinkOtherIndex(t *testing.T) {
	raw := "{{cite book|last1=Hopper|first1=Grace|last2=Knuth|first2=Donald|author2-link=Donald Knuth|last3=Liskov|first3=Barbara}}"
	got := ExtractAuthorCandidates(citation(t, raw))
	want := []types.AuthorCandidate{
		{Name: "Grace Hopper", Index: 1},
		{Name: "Barbara Liskov", Index: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractAuthorCandidates_LinkForTenDoesNotHideOne(t *testing.T) {
	raw := "{{cite book|last1=First|last10=Tenth|author-link10=Tenth Person}}"
	got := ExtractAuthorCandidates(citation(t, raw))
	assert.Equal(t, []types.AuthorCandidate{{Name: "First", Index: 1}}, got)
}

func TestNewExtractor_CustomAliases(t *testing.T) {
	e, err := NewExtractor(types.LinkConfig{
		Aliases:       []string{`author-?link{n}`, `author{n}-?link`, `authormask{n}`},
		MinNameLength: 5,
	})
	require.NoError(t, err)

	got := e.Candidates(citation(t, "{{cite web|author=Alan Turing|authormask=2}}"))
	assert.Empty(t, got)

	got = e.Candidates(citation(t, "{{cite web|author=Alan}}"))
	assert.Empty(t, got, "name shorter than configured minimum")

	got = e.Candidates(citation(t, "{{cite web|author=Alonzo Church}}"))
	assert.Equal(t, []types.AuthorCandidate{{Name: "Alonzo Church", Index: 1}}, got)
}

func TestNewAliasSet_Invalid(t *testing.T) {
	_, err := NewAliasSet([]string{"author-link"})
	assert.ErrorContains(t, err, "placeholder")

	_, err = NewAliasSet([]string{"author(link{n}"})
	assert.Error(t, err)

	a, err := NewAliasSet(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultAliases, a.Templates())
}

func TestAuthorCandidate_Suffix(t *testing.T) {
	assert.Equal(t, "", types.AuthorCandidate{Index: 1}.Suffix())
	assert.Equal(t, "2", types.AuthorCandidate{Index: 2}.Suffix())
	assert.Equal(t, "12", types.AuthorCandidate{Index: 12}.Suffix())
	assert.Equal(t, "author 3", types.AuthorCandidate{Index: 3}.Label())
}
