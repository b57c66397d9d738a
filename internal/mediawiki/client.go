// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mediawiki is a small client for the MediaWiki Action API
// (api.php): title search, page wikitext, bot-password login, edits,
// wikitext rendering and user contributions.
package mediawiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/citelink/internal/apperr"
	"github.com/pdiddy/citelink/internal/httputil"
	"github.com/pdiddy/citelink/pkg/types"
)

const (
	// DefaultRateLimit is requests per second when none is configured.
	DefaultRateLimit = 5.0

	// maxResponseBytes bounds a decoded API response.
	maxResponseBytes = 32 << 20
)

// APIError is the "error" object of an Action API response.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Info)
}

// Client is a rate-limited Action API client. It keeps a cookie jar so a
// successful Login authenticates later edits.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiURL     string
	userAgent  string
	maxRetries int
	logger     *zap.Logger

	mu         sync.Mutex
	csrfToken  string
	namespaces map[int]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Its cookie jar is used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAPIURL sets the api.php endpoint (for testing or another wiki).
func WithAPIURL(u string) Option {
	return func(c *Client) {
		c.apiURL = u
	}
}

// WithRateLimit sets the maximum requests per second.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client from wiki settings, then applies opts.
func NewClient(cfg types.WikiConfig, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout, Jar: jar},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		apiURL:     cfg.APIURL,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		logger:     zap.NewNop(),
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues a GET request and decodes the response into out.
func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params = withDefaults(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(ctx, req, params.Get("action"), out)
}

// post issues a form POST request and decodes the response into out.
func (c *Client) post(ctx context.Context, params url.Values, out any) error {
	params = withDefaults(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(ctx, req, params.Get("action"), out)
}

func (c *Client) do(ctx context.Context, req *http.Request, action string, out any) error {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("api request", zap.String("method", req.Method), zap.String("action", action))

	resp, err := httputil.DoWithRetryLimit(ctx, c.httpClient, req, c.maxRetries, c.limiter, c.logger)
	if err != nil {
		return fmt.Errorf("MediaWiki API request (%s): %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperr.New(apperr.WikiAPI, "%s returned HTTP %d", action, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", action, err)
	}

	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("parsing %s response: %w", action, err)
	}
	if envelope.Error != nil {
		return apperr.Wrap(apperr.WikiAPI, envelope.Error, "%s failed", action)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s response: %w", action, err)
	}
	return nil
}

func withDefaults(params url.Values) url.Values {
	p := url.Values{}
	for k, v := range params {
		p[k] = v
	}
	p.Set("format", "json")
	p.Set("formatversion", "2")
	return p
}
