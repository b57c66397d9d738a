// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citelink/internal/contribs"
	"github.com/pdiddy/citelink/internal/filter"
	"github.com/pdiddy/citelink/pkg/types"
)

var contribsCmd = &cobra.Command{
	Use:   "contribs <user>...",
	Short: "List and filter the recent contributions of one or more users",
	Long: `Contribs fetches the recent edits of each user (repeated names are
fetched once), merges them newest first and filters them by namespace,
tag and edit summary. --limit applies per user; --ns restricts the API
query to namespace numbers such as 0 or 0|1.

Several --namespace and --tag values select any of them; --tag none
selects untagged edits. --summary matches a case-insensitive substring,
or a regular expression with --regex.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runContribs,
}

func init() {
	contribsCmd.Flags().Int("limit", 50, "number of contributions to fetch per user")
	contribsCmd.Flags().String("ns", "", "namespace numbers to query, e.g. 0 or 0|1 (default all)")
	contribsCmd.Flags().StringSlice("namespace", nil, "namespace names to keep (e.g. Main, Talk)")
	contribsCmd.Flags().StringSlice("tag", nil, "tags to keep; \"none\" keeps untagged edits")
	contribsCmd.Flags().String("summary", "", "keep edits whose summary contains this text")
	contribsCmd.Flags().Bool("regex", false, "treat --summary as a regular expression")
	contribsCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(contribsCmd)
}

func runContribs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	ns, _ := cmd.Flags().GetString("ns")
	users := contribs.Users(args)
	items, err := contribs.Fetch(cmd.Context(), newWikiClient(cfg), users, contribs.Options{
		Limit:       limit,
		Namespace:   ns,
		Concurrency: cfg.Search.Concurrency,
	})
	if err != nil {
		return err
	}

	namespaces, _ := cmd.Flags().GetStringSlice("namespace")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	summary, _ := cmd.Flags().GetString("summary")
	useRegex, _ := cmd.Flags().GetBool("regex")

	visible, err := filter.Apply(items, filter.Criteria{
		Namespaces: namespaces,
		Tags:       tags,
		Summary:    summary,
		UseRegex:   useRegex,
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatContribsOutput(cmd.OutOrStdout(), visible, len(items), len(users) > 1, jsonOutput)
}

func formatContribsOutput(w io.Writer, visible []types.Contribution, total int, showUser, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(visible)
	}

	fmt.Fprintln(w, filter.Label(len(visible), total))
	if len(visible) == 0 {
		return nil
	}
	user := func(string) string { return "" }
	if showUser {
		user = func(name string) string { return fmt.Sprintf("%-20s  ", truncate(name, 20)) }
	}
	fmt.Fprintf(w, "%-20s  %s%-10s  %-30s  %s\n", "Time", user("User"), "Namespace", "Title", "Summary")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, c := range visible {
		fmt.Fprintf(w, "%-20s  %s%-10s  %-30s  %s\n",
			c.Timestamp.Format("2006-01-02 15:04"), user(c.User), truncate(c.Namespace, 10), truncate(c.Title, 30), truncate(c.Summary, 60))
	}
	return nil
}
