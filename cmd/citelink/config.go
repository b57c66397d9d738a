// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/citelink/internal/mediawiki"
	"github.com/pdiddy/citelink/internal/secrets"
	"github.com/pdiddy/citelink/internal/store"
	"github.com/pdiddy/citelink/internal/wikitext"
	"github.com/pdiddy/citelink/pkg/types"
)

// setConfigDefaults registers every key so AutomaticEnv can override
// it and Unmarshal sees it.
func setConfigDefaults() {
	d := types.DefaultConfig()
	viper.SetDefault("wiki.api_url", d.Wiki.APIURL)
	viper.SetDefault("wiki.user_agent", d.Wiki.UserAgent)
	viper.SetDefault("wiki.timeout", d.Wiki.Timeout)
	viper.SetDefault("wiki.rate_limit", d.Wiki.RateLimit)
	viper.SetDefault("wiki.max_retries", d.Wiki.MaxRetries)
	viper.SetDefault("wiki.username", "")
	viper.SetDefault("wiki.password", "")
	viper.SetDefault("search.limit", d.Search.Limit)
	viper.SetDefault("search.namespace", d.Search.Namespace)
	viper.SetDefault("search.concurrency", d.Search.Concurrency)
	viper.SetDefault("link.min_name_length", d.Link.MinNameLength)
	viper.SetDefault("link.aliases", d.Link.Aliases)
	viper.SetDefault("link.summary_tag", d.Link.SummaryTag)
	viper.SetDefault("store.path", d.Store.Path)
	viper.SetDefault("server.addr", d.Server.Addr)
}

// loadConfig merges defaults, config file, environment and secrets.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	secrets.ApplyWiki(&cfg.Wiki, loadedSecrets)
	return cfg, nil
}

func newWikiClient(cfg types.Config) *mediawiki.Client {
	return mediawiki.NewClient(cfg.Wiki, mediawiki.WithLogger(logger))
}

func newExtractor(cfg types.Config) (*wikitext.Extractor, error) {
	ex, err := wikitext.NewExtractor(cfg.Link)
	if err != nil {
		return nil, fmt.Errorf("link.aliases: %w", err)
	}
	return ex, nil
}

// openStore opens the link history. An empty path disables history.
func openStore(cfg types.Config) (*store.Store, error) {
	if cfg.Store.Path == "" || cfg.Store.Path == "none" {
		return nil, nil
	}
	return store.NewStore(cfg.Store)
}

// lazyClient defers building the API client until a command needs it.
func lazyClient(cfg types.Config) func() *mediawiki.Client {
	var c *mediawiki.Client
	return func() *mediawiki.Client {
		if c == nil {
			c = newWikiClient(cfg)
		}
		return c
	}
}
