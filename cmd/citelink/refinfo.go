// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citelink/internal/refinfo"
)

var refinfoCmd = &cobra.Command{
	Use:   "refinfo <page>",
	Short: "Show reference statistics for a page",
	Long: `Refinfo renders {{Ref info}} for a page through the wiki's parser and
prints the result as text: counts of citation templates, archived and bare
references, and date formats.`,
	Args: cobra.ExactArgs(1),
	RunE: runRefinfo,
}

func init() {
	rootCmd.AddCommand(refinfoCmd)
}

func runRefinfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lines, err := refinfo.Fetch(context.Background(), newWikiClient(cfg), args[0])
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), l)
	}
	return nil
}
