// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/citelink/internal/apperr"
	"github.com/pdiddy/citelink/internal/mediawiki"
	"github.com/pdiddy/citelink/internal/secrets"
	"github.com/pdiddy/citelink/internal/session"
	"github.com/pdiddy/citelink/pkg/types"
)

var linkCmd = &cobra.Command{
	Use:   "link [file|-]",
	Short: "Search for and link citation authors interactively",
	Long: `Link scans wikitext for citations with unlinked authors, searches the
wiki for every author concurrently, then walks through the citations one by
one. For each author pick a search result, a title used before, or type one.

The modified wikitext is written to --output, saved to the wiki with --save
(requires --page and credentials), or printed to stdout. Prompts and
progress go to stderr.

With --auto no prompts are shown: an author is linked only when a title
from earlier sessions exists or a search result matches the name exactly.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLink,
}

func init() {
	addInputFlags(linkCmd)
	linkCmd.Flags().StringP("output", "o", "", "write the modified wikitext to this file")
	linkCmd.Flags().Bool("save", false, "save the modified page to the wiki (requires --page)")
	linkCmd.Flags().String("summary", "", "edit summary to extend with the modified-citation count")
	linkCmd.Flags().Bool("minor", false, "mark the saved edit as minor")
	linkCmd.Flags().Bool("auto", false, "link only exact matches and earlier choices, without prompting")
	linkCmd.Flags().String("report", "", "write a YAML report of the session to this file")

	rootCmd.AddCommand(linkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	auto, _ := cmd.Flags().GetBool("auto")
	page, _ := cmd.Flags().GetString("page")
	if !auto && page == "" && readsStdin(args) {
		// Prompts are read from stdin too, which the document would exhaust.
		return apperr.New(apperr.InvalidRequest, "interactive link needs a file argument or --page (use --auto to read the document from stdin)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ex, err := newExtractor(cfg)
	if err != nil {
		return err
	}
	client := lazyClient(cfg)

	save, _ := cmd.Flags().GetBool("save")
	if save {
		if page == "" {
			return fmt.Errorf("--save requires --page")
		}
		if !secrets.HasWikiLogin(cfg.Wiki) {
			return fmt.Errorf("--save requires wiki credentials (CITELINK_WIKI_USERNAME/CITELINK_WIKI_PASSWORD or .secrets/)")
		}
	}

	src, err := readSource(ctx, cmd, args, client)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	summary, _ := cmd.Flags().GetString("summary")
	opts := session.Options{
		Page:       src.Page.Title,
		Search:     cfg.Search,
		Extractor:  ex,
		Searcher:   client(),
		Summary:    summary,
		SummaryTag: cfg.Link.SummaryTag,
		Logger:     logger,
	}
	if st != nil {
		defer st.Close()
		opts.Recorder = st
	}

	progress := cmd.ErrOrStderr()
	var ctrl session.Controller
	defer ctrl.Close()

	s, err := ctrl.Start(src.Text, opts)
	if apperr.Is(err, apperr.NoCitations) {
		fmt.Fprintln(progress, "No citations with linkable authors found.")
		return nil
	}
	if err != nil {
		return err
	}

	counts := s.Stats()
	fmt.Fprintf(progress, "Searching %d authors in %d citations...\n", counts.AuthorsTotal, counts.CitationsTotal)
	if err := s.SearchAll(ctx); err != nil {
		return err
	}

	if err := runLinkLoop(ctx, s, cmd.InOrStdin(), progress, auto); err != nil {
		return err
	}

	fmt.Fprintln(progress, s.StatusLine())
	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := s.WriteReport(path); err != nil {
			return err
		}
	}
	if s.Stats().CitationsModified == 0 {
		fmt.Fprintln(progress, "No changes.")
		return nil
	}
	fmt.Fprintf(progress, "Edit summary: %s\n", s.Summary())

	return writeLinkResult(ctx, cmd, cfg, src, s, client)
}

func writeLinkResult(ctx context.Context, cmd *cobra.Command, cfg types.Config, src source, s *session.Session, client func() *mediawiki.Client) error {
	if save, _ := cmd.Flags().GetBool("save"); save {
		c := client()
		if err := c.Login(ctx, cfg.Wiki.Username, cfg.Wiki.Password); err != nil {
			return err
		}
		minor, _ := cmd.Flags().GetBool("minor")
		res, err := c.Edit(ctx, types.EditRequest{
			Title:         src.Page.Title,
			Text:          s.Document(),
			Summary:       s.Summary(),
			BaseTimestamp: src.Page.Timestamp,
			Minor:         minor,
		})
		if err != nil {
			return err
		}
		logger.Info("page saved", zap.String("page", src.Page.Title), zap.Int64("revid", res.NewRevID))
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s (revision %d)\n", src.Page.Title, res.NewRevID)
		return nil
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := os.WriteFile(path, []byte(s.Document()), 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
		return nil
	}

	_, err := io.WriteString(cmd.OutOrStdout(), s.Document())
	return err
}

// runLinkLoop walks the citations of s and applies the user's choices.
// End of input or "q" stops early, keeping the links applied so far.
func runLinkLoop(ctx context.Context, s *session.Session, in io.Reader, w io.Writer, auto bool) error {
	scanner := bufio.NewScanner(in)
	cites := s.Citations()

citations:
	for _, c := range cites {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.State == session.Skipped || c.State == session.Completed {
			continue
		}
		fmt.Fprintf(w, "\n[%d/%d] %s\n", c.Index+1, len(cites), truncate(c.Citation.Raw, 160))

		for ai, a := range c.Authors {
			if a.Linked {
				continue
			}
			if auto {
				linkAuto(ctx, s, w, c.Index, ai, a)
				continue
			}

			for {
				printChoices(w, a)
				fmt.Fprint(w, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(w)
					return scanner.Err()
				}
				act := parseChoice(scanner.Text(), a)
				switch act.kind {
				case actLink:
					_, err := s.Select(ctx, c.Index, ai, act.title, act.source)
					switch {
					case err == nil:
						fmt.Fprintf(w, "  linked %s -> %s\n", a.Name, act.title)
					case apperr.Is(err, apperr.StaleCitation):
						fmt.Fprintln(w, "  citation may have changed; skipping it")
						if err := s.Skip(c.Index); err != nil {
							fmt.Fprintf(w, "  %v\n", err)
						}
						continue citations
					case apperr.Is(err, apperr.InvalidRequest):
						fmt.Fprintf(w, "  %v\n", err)
						continue
					default:
						return err
					}
				case actNext:
				case actSkip:
					if err := s.Skip(c.Index); err != nil {
						fmt.Fprintf(w, "  %v\n", err)
					}
					continue citations
				case actQuit:
					return nil
				default:
					fmt.Fprintln(w, act.msg)
					continue
				}
				break
			}
		}
	}
	return nil
}

// linkAuto links an author to an earlier choice or an exact title match.
func linkAuto(ctx context.Context, s *session.Session, w io.Writer, ci, ai int, a session.Author) {
	title, src, ok := autoPick(a)
	if !ok {
		fmt.Fprintf(w, "  %s: no exact match, left unlinked\n", a.Name)
		return
	}
	if _, err := s.Select(ctx, ci, ai, title, src); err != nil {
		fmt.Fprintf(w, "  %s: %v\n", a.Name, err)
		return
	}
	fmt.Fprintf(w, "  linked %s -> %s (%s)\n", a.Name, title, src)
}

func autoPick(a session.Author) (string, types.LinkSource, bool) {
	if len(a.Suggestions) > 0 {
		return a.Suggestions[0], types.SourceSuggestion, true
	}
	for _, h := range a.Hits {
		if strings.EqualFold(types.NormalizeTitle(h.Title), a.Name) {
			return h.Title, types.SourceSearch, true
		}
	}
	return "", "", false
}

func printChoices(w io.Writer, a session.Author) {
	fmt.Fprintf(w, "  %s: %s\n", a.Label(), a.Name)
	if a.Err != nil {
		fmt.Fprintf(w, "    search failed: %v\n", errors.Unwrap(a.Err))
	} else if len(a.Hits) == 0 {
		fmt.Fprintln(w, "    no search results")
	}
	for i, h := range a.Hits {
		fmt.Fprintf(w, "    %d) %s\n", i+1, h.Title)
	}
	for i, t := range a.Suggestions {
		fmt.Fprintf(w, "    h%d) %s [used before]\n", i+1, t)
	}
}

type actionKind int

const (
	actInvalid actionKind = iota
	actLink
	actNext
	actSkip
	actQuit
)

type action struct {
	kind   actionKind
	title  string
	source types.LinkSource
	msg    string
}

const choiceHelp = "  choose: <n> search result, h<n> earlier title, m <title> manual, Enter/n next author, s skip citation, q finish"

func parseChoice(line string, a session.Author) action {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "", "n":
		return action{kind: actNext}
	case "s":
		return action{kind: actSkip}
	case "q":
		return action{kind: actQuit}
	case "?", "help":
		return action{msg: choiceHelp}
	}

	if rest, ok := strings.CutPrefix(line, "m "); ok {
		title := strings.TrimSpace(rest)
		if title == "" {
			return action{msg: "  m needs a title, e.g. m Jane Smith (author)"}
		}
		return action{kind: actLink, title: title, source: types.SourceManual}
	}
	if rest, ok := strings.CutPrefix(strings.ToLower(line), "h"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= len(a.Suggestions) {
			return action{kind: actLink, title: a.Suggestions[n-1], source: types.SourceSuggestion}
		}
		return action{msg: "  no such earlier title; " + strings.TrimSpace(choiceHelp)}
	}
	if n, err := strconv.Atoi(line); err == nil {
		if n >= 1 && n <= len(a.Hits) {
			return action{kind: actLink, title: a.Hits[n-1].Title, source: types.SourceSearch}
		}
		return action{msg: fmt.Sprintf("  pick a result between 1 and %d", len(a.Hits))}
	}
	return action{msg: choiceHelp}
}
