// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// WikiConfig holds settings for the MediaWiki API client.
type WikiConfig struct {
	// APIURL is the api.php endpoint, e.g. "https://en.wikipedia.org/w/api.php".
	APIURL string `json:"api_url" yaml:"api_url" mapstructure:"api_url"`

	// UserAgent is sent with every request. Wikimedia requires a
	// descriptive agent with contact information.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// RateLimit is the maximum number of requests per second.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// MaxRetries bounds retries on HTTP 429 and 503 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Username and Password are bot-password credentials used for edits.
	Username string `json:"username,omitempty" yaml:"username,omitempty" mapstructure:"username"`
	Password string `json:"-" yaml:"-" mapstructure:"password"`
}

// SearchConfig holds settings for author-name searches.
type SearchConfig struct {
	// Limit is the number of results requested per author (default 5).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`

	// Namespace restricts results (default 0, the article namespace).
	Namespace int `json:"namespace" yaml:"namespace" mapstructure:"namespace"`

	// Concurrency bounds in-flight searches per session (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
}

// LinkConfig holds settings for author extraction and link writing.
type LinkConfig struct {
	// MinNameLength is the minimum author name length in characters
	// (default 3, so one- and two-letter names are ignored).
	MinNameLength int `json:"min_name_length" yaml:"min_name_length" mapstructure:"min_name_length"`

	// Aliases are regex templates for author-link parameter names. "{n}"
	// is replaced with the author index. Empty means the built-in set.
	Aliases []string `json:"aliases" yaml:"aliases" mapstructure:"aliases"`

	// SummaryTag follows the "Modified N citations" phrase in edit summaries.
	SummaryTag string `json:"summary_tag" yaml:"summary_tag" mapstructure:"summary_tag"`
}

// StoreConfig holds settings for the link history database.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ServerConfig holds settings for the local HTTP service.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// Config groups all settings.
type Config struct {
	Wiki   WikiConfig   `json:"wiki" yaml:"wiki" mapstructure:"wiki"`
	Search SearchConfig `json:"search" yaml:"search" mapstructure:"search"`
	Link   LinkConfig   `json:"link" yaml:"link" mapstructure:"link"`
	Store  StoreConfig  `json:"store" yaml:"store" mapstructure:"store"`
	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Wiki: WikiConfig{
			APIURL:     "https://en.wikipedia.org/w/api.php",
			UserAgent:  "citelink/0.1 (https://github.com/pdiddy/citelink)",
			Timeout:    30 * time.Second,
			RateLimit:  5,
			MaxRetries: 5,
		},
		Search: SearchConfig{
			Limit:       5,
			Namespace:   0,
			Concurrency: 4,
		},
		Link: LinkConfig{
			MinNameLength: 3,
			SummaryTag:    "using citelink.",
		},
		Store: StoreConfig{
			Path: "citelink.db",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8089",
		},
	}
}
