// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citelink/internal/store"
	"github.com/pdiddy/citelink/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the history of applied author links",
	Long: `History reads the local SQLite database of links applied by earlier
link sessions. The same history supplies "used before" choices while
linking.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded links, newest first",
	RunE:  runHistoryList,
}

var historyExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export recorded links to YAML or JSON",
	Long: `Export writes recorded links to a file. A .json extension writes JSON;
anything else writes YAML. The list filters apply.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryExport,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	st, err := historyStore()
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.List(context.Background(), listOptsFromFlags(cmd))
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistoryOutput(cmd.OutOrStdout(), records, jsonOutput)
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	st, err := historyStore()
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.Export(context.Background(), args[0], listOptsFromFlags(cmd))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d links to %s\n", n, args[0])
	return nil
}

func historyStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("link history is disabled (store.path is empty)")
	}
	return st, nil
}

func listOptsFromFlags(cmd *cobra.Command) store.ListOptions {
	author, _ := cmd.Flags().GetString("author")
	page, _ := cmd.Flags().GetString("page")
	session, _ := cmd.Flags().GetString("session")
	limit, _ := cmd.Flags().GetInt("limit")
	return store.ListOptions{Author: author, Page: page, SessionID: session, Limit: limit}
}

func formatHistoryOutput(w io.Writer, records []types.LinkRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No links recorded.")
		return nil
	}
	fmt.Fprintf(w, "%-16s  %-25s  %-30s  %-8s  %s\n", "Time", "Author", "Target", "Source", "Page")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, r := range records {
		fmt.Fprintf(w, "%-16s  %-25s  %-30s  %-8s  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"), truncate(r.AuthorName, 25),
			truncate(r.Target, 30), r.Source, r.Page)
	}
	fmt.Fprintf(w, "\n%d links\n", len(records))
	return nil
}

func init() {
	// Filters are shared by list and export.
	historyCmd.PersistentFlags().String("author", "", "filter by author name (case-insensitive)")
	historyCmd.PersistentFlags().String("page", "", "filter by page title")
	historyCmd.PersistentFlags().String("session", "", "filter by session ID")

	historyListCmd.Flags().Int("limit", 50, "maximum links to list")
	historyListCmd.Flags().Bool("json", false, "output results as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
