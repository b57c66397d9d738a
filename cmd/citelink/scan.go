// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citelink/internal/wikitext"
	"github.com/pdiddy/citelink/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan [file|-]",
	Short: "List citations with unlinked authors",
	Long: `Scan finds citation templates in wikitext and lists the authors that
have a name but no author-link parameter. Nothing is searched or changed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	addInputFlags(scanCmd)
	scanCmd.Flags().Bool("json", false, "output results as JSON")
	scanCmd.Flags().Bool("all", false, "include citations without unlinked authors")

	rootCmd.AddCommand(scanCmd)
}

type scanEntry struct {
	Citation   types.Citation          `json:"citation"`
	Candidates []types.AuthorCandidate `json:"candidates"`
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ex, err := newExtractor(cfg)
	if err != nil {
		return err
	}
	src, err := readSource(context.Background(), cmd, args, lazyClient(cfg))
	if err != nil {
		return err
	}

	all, _ := cmd.Flags().GetBool("all")
	entries := scanDocument(ex, src.Text, all)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatScanOutput(cmd.OutOrStdout(), entries, jsonOutput)
}

func scanDocument(ex *wikitext.Extractor, text string, all bool) []scanEntry {
	entries := []scanEntry{}
	for _, c := range wikitext.FindCitations(text) {
		cands := ex.Candidates(c)
		if len(cands) == 0 && !all {
			continue
		}
		entries = append(entries, scanEntry{Citation: c, Candidates: cands})
	}
	return entries
}

func formatScanOutput(w io.Writer, entries []scanEntry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No citations with linkable authors found.")
		return nil
	}

	authors := 0
	for i, e := range entries {
		fmt.Fprintf(w, "%3d. %s\n", i+1, truncate(e.Citation.Raw, 100))
		for _, a := range e.Candidates {
			fmt.Fprintf(w, "       %-9s %s\n", a.Label(), a.Name)
		}
		authors += len(e.Candidates)
	}
	fmt.Fprintf(w, "\n%d citations, %d unlinked authors\n", len(entries), authors)
	return nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
