// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mediawiki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/citelink/internal/apperr"
	"github.com/pdiddy/citelink/pkg/types"
)

// Search runs a full-text search (list=search) and returns hits in the
// order the wiki ranked them, without req.ExcludeTitle.
func (c *Client) Search(ctx context.Context, req types.SearchRequest) ([]types.SearchHit, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{
		"action":      {"query"},
		"list":        {"search"},
		"srsearch":    {req.Query},
		"srlimit":     {strconv.Itoa(limit)},
		"srnamespace": {strconv.Itoa(req.Namespace)},
		"srprop":      {"snippet"},
	}

	var resp struct {
		Query struct {
			Search []struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	exclude := types.NormalizeTitle(req.ExcludeTitle)
	hits := make([]types.SearchHit, 0, len(resp.Query.Search))
	for _, r := range resp.Query.Search {
		if exclude != "" && types.NormalizeTitle(r.Title) == exclude {
			continue
		}
		hits = append(hits, types.SearchHit{Title: r.Title, Snippet: r.Snippet})
	}
	return hits, nil
}

// Page returns the current wikitext of title and its revision timestamp.
func (c *Client) Page(ctx context.Context, title string) (types.Page, error) {
	params := url.Values{
		"action":  {"query"},
		"prop":    {"revisions"},
		"rvprop":  {"content|timestamp"},
		"rvslots": {"main"},
		"titles":  {title},
	}

	var resp struct {
		Query struct {
			Pages []struct {
				Title     string `json:"title"`
				Missing   bool   `json:"missing"`
				Invalid   bool   `json:"invalid"`
				Revisions []struct {
					Timestamp time.Time `json:"timestamp"`
					Slots     struct {
						Main struct {
							Content string `json:"content"`
						} `json:"main"`
					} `json:"slots"`
				} `json:"revisions"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return types.Page{}, err
	}

	if len(resp.Query.Pages) == 0 {
		return types.Page{}, apperr.New(apperr.WikiAPI, "no page returned for %q", title)
	}
	p := resp.Query.Pages[0]
	if p.Missing || p.Invalid || len(p.Revisions) == 0 {
		return types.Page{}, apperr.New(apperr.WikiAPI, "page %q does not exist", title)
	}
	rev := p.Revisions[0]
	return types.Page{
		Title:     p.Title,
		Wikitext:  rev.Slots.Main.Content,
		Timestamp: rev.Timestamp,
	}, nil
}

// Parse renders wikitext in the context of title and returns the HTML.
func (c *Client) Parse(ctx context.Context, text, title string) (string, error) {
	params := url.Values{
		"action":             {"parse"},
		"text":               {text},
		"contentmodel":       {"wikitext"},
		"prop":               {"text"},
		"disablelimitreport": {"1"},
	}
	if title != "" {
		params.Set("title", title)
	}

	var resp struct {
		Parse struct {
			Text string `json:"text"`
		} `json:"parse"`
	}
	if err := c.post(ctx, params, &resp); err != nil {
		return "", err
	}
	return resp.Parse.Text, nil
}

// Namespaces returns the wiki's namespace names keyed by ID. The main
// namespace is reported as "Main". The result is cached.
func (c *Client) Namespaces(ctx context.Context) (map[int]string, error) {
	c.mu.Lock()
	cached := c.namespaces
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	params := url.Values{
		"action": {"query"},
		"meta":   {"siteinfo"},
		"siprop": {"namespaces"},
	}
	var resp struct {
		Query struct {
			Namespaces map[string]struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"namespaces"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	ns := make(map[int]string, len(resp.Query.Namespaces))
	for _, n := range resp.Query.Namespaces {
		name := n.Name
		if n.ID == 0 {
			name = "Main"
		}
		ns[n.ID] = name
	}

	c.mu.Lock()
	c.namespaces = ns
	c.mu.Unlock()
	return ns, nil
}

// UserContribs returns up to req.Limit recent contributions of req.User,
// newest first, with namespace names resolved.
func (c *Client) UserContribs(ctx context.Context, req types.ContribsRequest) ([]types.Contribution, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	namespaces, err := c.Namespaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading namespaces: %w", err)
	}

	params := url.Values{
		"action":  {"query"},
		"list":    {"usercontribs"},
		"ucuser":  {req.User},
		"uclimit": {strconv.Itoa(limit)},
		"ucprop":  {"ids|title|timestamp|comment|tags"},
	}
	if req.Namespace != "" {
		params.Set("ucnamespace", req.Namespace)
	}
	var resp struct {
		Query struct {
			UserContribs []struct {
				RevID     int64     `json:"revid"`
				NS        int       `json:"ns"`
				Title     string    `json:"title"`
				Timestamp time.Time `json:"timestamp"`
				Comment   string    `json:"comment"`
				Tags      []string  `json:"tags"`
			} `json:"usercontribs"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	out := make([]types.Contribution, 0, len(resp.Query.UserContribs))
	for _, uc := range resp.Query.UserContribs {
		ns, ok := namespaces[uc.NS]
		if !ok {
			ns = strconv.Itoa(uc.NS)
		}
		out = append(out, types.Contribution{
			User:      req.User,
			Title:     uc.Title,
			Namespace: ns,
			Summary:   uc.Comment,
			Tags:      uc.Tags,
			Timestamp: uc.Timestamp,
			RevID:     uc.RevID,
		})
	}
	return out, nil
}
