// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citelink/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the citation operations over HTTP",
	Long: `Serve starts a local HTTP service exposing citation scanning, link
writing, reference summaries, edit summary merging and author search as
JSON endpoints under /api. It stops cleanly on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ex, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Extractor:  ex,
		Searcher:   newWikiClient(cfg),
		Search:     cfg.Search,
		SummaryTag: cfg.Link.SummaryTag,
		Logger:     logger,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
