// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citelink/internal/mediawiki"
	"github.com/pdiddy/citelink/pkg/types"
)

// source is the document a command works on.
type source struct {
	Text string
	// Page is set when the text was fetched from the wiki, or named with --title.
	Page types.Page
	// Fetched reports whether Text came from the API.
	Fetched bool
}

// addInputFlags registers the flags readSource understands.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("page", "", "fetch the current wikitext of this page from the wiki")
	cmd.Flags().String("title", "", "page title of a local file (excluded from author searches)")
}

// readSource loads wikitext from --page, a file argument, or stdin ("-" or no argument).
func readSource(ctx context.Context, cmd *cobra.Command, args []string, client func() *mediawiki.Client) (source, error) {
	page, _ := cmd.Flags().GetString("page")
	title, _ := cmd.Flags().GetString("title")

	if page != "" {
		if len(args) > 0 {
			return source{}, fmt.Errorf("use either --page or a file argument, not both")
		}
		p, err := client().Page(ctx, page)
		if err != nil {
			return source{}, err
		}
		return source{Text: p.Wikitext, Page: p, Fetched: true}, nil
	}

	var (
		data []byte
		err  error
	)
	switch {
	case readsStdin(args):
		data, err = io.ReadAll(cmd.InOrStdin())
	default:
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return source{}, fmt.Errorf("reading input: %w", err)
	}
	return source{Text: string(data), Page: types.Page{Title: types.NormalizeTitle(title)}}, nil
}

// readsStdin reports whether readSource takes the document from stdin.
func readsStdin(args []string) bool {
	return len(args) == 0 || args[0] == "-"
}
