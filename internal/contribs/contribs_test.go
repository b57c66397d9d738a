// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package contribs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pdiddy/citelink/internal/apperr"
	"github.com/pdiddy/citelink/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func at(day int) time.Time {
	return time.Date(2024, 5, day, 12, 0, 0, 0, time.UTC)
}

type fakeFetcher struct {
	mu       sync.Mutex
	byUser   map[string][]types.Contribution
	errs     map[string]error
	requests []types.ContribsRequest
}

func (f *fakeFetcher) UserContribs(_ context.Context, req types.ContribsRequest) ([]types.Contribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if err := f.errs[req.User]; err != nil {
		return nil, err
	}
	return f.byUser[req.User], nil
}

func TestUsers(t *testing.T) {
	got := Users([]string{
		"Example",
		"user:example",
		" second_user \n\nThird user",
		"User:Second user",
		"  ",
		"éclair",
	})
	assert.Equal(t, []string{"Example", "Second user", "Third user", "Éclair"}, got)
	assert.Empty(t, Users(nil))
}

func TestFetch_MergesNewestFirst(t *testing.T) {
	f := &fakeFetcher{byUser: map[string][]types.Contribution{
		"Alice": {
			{User: "Alice", Title: "A3", Timestamp: at(3)},
			{User: "Alice", Title: "A1", Timestamp: at(1)},
		},
		"Bob": {
			{User: "Bob", Title: "B4", Timestamp: at(4)},
			{User: "Bob", Title: "B3", Timestamp: at(3)},
			{User: "Bob", Title: "B2", Timestamp: at(2)},
		},
	}}

	got, err := Fetch(context.Background(), f, Users([]string{"Alice", "Bob", "alice"}),
		Options{Limit: 20, Namespace: "0"})
	require.NoError(t, err)

	var titles []string
	for _, c := range got {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"B4", "A3", "B3", "B2", "A1"}, titles)

	require.Len(t, f.requests, 2, "duplicate user fetched once")
	for _, req := range f.requests {
		assert.Equal(t, 20, req.Limit)
		assert.Equal(t, "0", req.Namespace)
	}
}

func TestFetch_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Fetch(ctx, &fakeFetcher{}, nil, Options{})
	assert.True(t, apperr.Is(err, apperr.InvalidRequest))

	many := make([]string, MaxUsers+1)
	for i := range many {
		many[i] = string(rune('A'+i%26)) + string(rune('a'+i/26))
	}
	_, err = Fetch(ctx, &fakeFetcher{}, many, Options{})
	assert.True(t, apperr.Is(err, apperr.InvalidRequest))

	f := &fakeFetcher{errs: map[string]error{"Bob": errors.New("boom")}}
	_, err = Fetch(ctx, f, []string{"Alice", "Bob"}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contributions of Bob: boom")
}

func TestMerge_StableOnTies(t *testing.T) {
	got := Merge(
		[]types.Contribution{{RevID: 1, Timestamp: at(2)}},
		nil,
		[]types.Contribution{{RevID: 2, Timestamp: at(2)}, {RevID: 3, Timestamp: at(5)}},
	)
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[0].RevID)
	assert.Equal(t, int64(1), got[1].RevID)
	assert.Equal(t, int64(2), got[2].RevID)
}
