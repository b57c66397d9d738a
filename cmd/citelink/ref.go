// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citelink/internal/wikitext"
	"github.com/pdiddy/citelink/pkg/types"
)

var refCmd = &cobra.Command{
	Use:   "ref [reference text]",
	Short: "Summarize a single reference",
	Long: `Ref reports the template name, the URL a reader should follow and the
access date of one reference (the contents of a <ref> tag). The archive URL
is preferred unless the original URL is marked live. A reference without a
template is reported as a bare reference when it contains a URL.

With no argument the reference is read from stdin.`,
	RunE: runRef,
}

func init() {
	refCmd.Flags().Bool("json", false, "output the summary as JSON")

	rootCmd.AddCommand(refCmd)
}

func runRef(cmd *cobra.Command, args []string) error {
	raw := strings.Join(args, " ")
	if raw == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading reference: %w", err)
		}
		raw = string(data)
	}

	info := wikitext.ParseRef(raw)
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRefOutput(cmd.OutOrStdout(), info, jsonOutput)
}

func formatRefOutput(w io.Writer, info types.RefInfo, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	switch {
	case info.IsBareRef:
		fmt.Fprintln(w, "Bare reference")
	case info.TemplateName != "":
		fmt.Fprintf(w, "Template:    %s\n", info.TemplateName)
	default:
		fmt.Fprintln(w, "No template or URL found.")
		return nil
	}
	if info.URL != "" {
		fmt.Fprintf(w, "URL:         %s\n", info.URL)
	}
	if info.AccessDate != "" {
		fmt.Fprintf(w, "Access date: %s\n", info.AccessDate)
	}
	return nil
}
