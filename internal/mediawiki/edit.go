// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mediawiki

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pdiddy/citelink/internal/apperr"
	"github.com/pdiddy/citelink/pkg/types"
)

// token fetches a token of the given type (login, csrf).
func (c *Client) token(ctx context.Context, kind string) (string, error) {
	params := url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {kind},
	}
	var resp struct {
		Query struct {
			Tokens map[string]string `json:"tokens"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return "", err
	}
	tok := resp.Query.Tokens[kind+"token"]
	if tok == "" {
		return "", apperr.New(apperr.WikiAPI, "no %s token in response", kind)
	}
	return tok, nil
}

// Login authenticates with a bot password (Special:BotPasswords). The
// session cookie is kept in the client's cookie jar.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("login requires a username and bot password")
	}
	tok, err := c.token(ctx, "login")
	if err != nil {
		return fmt.Errorf("fetching login token: %w", err)
	}

	params := url.Values{
		"action":     {"login"},
		"lgname":     {username},
		"lgpassword": {password},
		"lgtoken":    {tok},
	}
	var resp struct {
		Login struct {
			Result   string `json:"result"`
			Reason   string `json:"reason"`
			Username string `json:"lgusername"`
		} `json:"login"`
	}
	if err := c.post(ctx, params, &resp); err != nil {
		return err
	}
	if resp.Login.Result != "Success" {
		return apperr.New(apperr.WikiAPI, "login failed: %s %s", resp.Login.Result, resp.Login.Reason)
	}

	c.mu.Lock()
	c.csrfToken = ""
	c.mu.Unlock()
	return nil
}

// CSRFToken returns the edit token for the current session, fetching
// it on first use.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	tok := c.csrfToken
	c.mu.Unlock()
	if tok != "" {
		return tok, nil
	}

	tok, err := c.token(ctx, "csrf")
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.csrfToken = tok
	c.mu.Unlock()
	return tok, nil
}

// Edit saves new page text. When BaseTimestamp is set the wiki rejects
// the edit if the page changed since it was read.
func (c *Client) Edit(ctx context.Context, req types.EditRequest) (types.EditResult, error) {
	tok, err := c.CSRFToken(ctx)
	if err != nil {
		return types.EditResult{}, fmt.Errorf("fetching edit token: %w", err)
	}

	params := url.Values{
		"action":   {"edit"},
		"title":    {req.Title},
		"text":     {req.Text},
		"summary":  {req.Summary},
		"nocreate": {"1"},
		"token":    {tok},
	}
	if !req.BaseTimestamp.IsZero() {
		params.Set("basetimestamp", req.BaseTimestamp.UTC().Format(time.RFC3339))
	}
	if req.Minor {
		params.Set("minor", "1")
	}

	var resp struct {
		Edit types.EditResult `json:"edit"`
	}
	if err := c.post(ctx, params, &resp); err != nil {
		return types.EditResult{}, err
	}
	if resp.Edit.Result != "Success" {
		return resp.Edit, apperr.New(apperr.WikiAPI, "edit of %q returned %q", req.Title, resp.Edit.Result)
	}
	return resp.Edit, nil
}
