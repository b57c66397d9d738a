// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package contribs fetches the recent contributions of several users and
// merges them into one newest-first list.
package contribs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citelink/internal/apperr"
	"github.com/pdiddy/citelink/pkg/types"
)

// MaxUsers bounds how many users one request may name.
const MaxUsers = 50

const defaultConcurrency = 4

// Fetcher returns the contributions of a single user.
type Fetcher interface {
	UserContribs(ctx context.Context, req types.ContribsRequest) ([]types.Contribution, error)
}

// Options controls a multi-user fetch.
type Options struct {
	// Limit is the number of contributions fetched per user.
	Limit int
	// Namespace is passed through as ucnamespace; empty means all.
	Namespace string
	// Concurrency bounds in-flight requests (default 4).
	Concurrency int
}

// Users normalizes a list of user names: each entry may hold several
// names separated by newlines, a "User:" prefix is dropped, underscores
// become spaces and the first letter is upper-cased. Blank entries and
// repeats are removed, keeping first-seen order.
func Users(raw []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, entry := range raw {
		for _, line := range strings.Split(entry, "\n") {
			name := normalizeUser(line)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func normalizeUser(s string) string {
	s = types.NormalizeTitle(s)
	if len(s) >= 5 && strings.EqualFold(s[:5], "user:") {
		s = strings.TrimSpace(s[5:])
	}
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Fetch loads the contributions of every user concurrently and returns
// them merged newest first. users should already be normalized with
// Users. Any failed request fails the whole fetch.
func Fetch(ctx context.Context, f Fetcher, users []string, opts Options) ([]types.Contribution, error) {
	if len(users) == 0 {
		return nil, apperr.New(apperr.InvalidRequest, "no users given")
	}
	if len(users) > MaxUsers {
		return nil, apperr.New(apperr.InvalidRequest, "%d users exceeds the limit of %d", len(users), MaxUsers)
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	lists := make([][]types.Contribution, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, user := range users {
		g.Go(func() error {
			items, err := f.UserContribs(gctx, types.ContribsRequest{
				User:      user,
				Limit:     opts.Limit,
				Namespace: opts.Namespace,
			})
			if err != nil {
				return fmt.Errorf("contributions of %s: %w", user, err)
			}
			lists[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(lists...), nil
}

// Merge concatenates lists and sorts the result newest first. Entries
// with equal timestamps keep their input order.
func Merge(lists ...[]types.Contribution) []types.Contribution {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	out := make([]types.Contribution, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
