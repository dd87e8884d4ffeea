package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/brogergvhs/mangascout/internal/extract"
	"github.com/brogergvhs/mangascout/internal/providers"
	"github.com/brogergvhs/mangascout/internal/providers/generic"
)

var (
	flagSearchPage  string
	flagSearchFile  string
	flagSearchQuery string
	flagSearchJSON  bool
	flagSearchPick  bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List manga and chapter links found on a search or listing page",
	Long: "Extract manga and chapter links from a page. The page comes from --url, a saved HTML\n" +
		"file (--file) or a web search for --query using the configured search engine.",
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchPage, "url", "", "search results or chapter listing URL")
	searchCmd.Flags().StringVar(&flagSearchFile, "file", "", "saved HTML page to analyze offline")
	searchCmd.Flags().StringVar(&flagSearchQuery, "query", "", "manga title to search the web for")
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "print entries as JSON")
	searchCmd.Flags().BoolVar(&flagSearchPick, "pick", false, "choose an entry interactively and print its link")
	searchCmd.MarkFlagsMutuallyExclusive("url", "file", "query")
	searchCmd.MarkFlagsOneRequired("url", "file", "query")
	searchCmd.MarkFlagsMutuallyExclusive("json", "pick")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	var (
		entries []providers.Entry
		pageURL = flagSearchPage
	)

	if flagSearchFile != "" {
		raw, err := os.ReadFile(flagSearchFile)
		if err != nil {
			return err
		}

		var xerr error
		entries, xerr = extract.SearchResults(string(raw))
		if xerr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "[WARN]", xerr)
		}
	} else {
		s, err := newSession(baseOptions())
		if err != nil {
			return err
		}

		scr := generic.NewScraper(s.client, s.log, nil)
		if flagSearchQuery != "" {
			pageURL = generic.SearchURL(s.cfg.SearchURL, flagSearchQuery)
			s.log.Debugf("search engine URL: %s\n", pageURL)
		}

		entries, err = scr.Search(cmd.Context(), pageURL)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch {
	case flagSearchJSON:
		return writeJSON(out, entries)
	case flagSearchPick:
		return pickEntry(out, entries, pageURL)
	default:
		printEntries(out, entries)
		return nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEntries(w io.Writer, entries []providers.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}

	fmt.Fprintf(w, "Found %d entries.\n\n", len(entries))
	for i, e := range entries {
		chapter := e.ChapterNumber
		if chapter == "" {
			chapter = "-"
		}
		fmt.Fprintf(w, "%3d) %s  [%s] (%s)\n     %s\n", i+1, e.Title, chapter, e.Source, e.Link)
	}
}

func pickEntry(w io.Writer, entries []providers.Entry, pageURL string) error {
	if len(entries) == 0 {
		return fmt.Errorf("no entries to pick from")
	}

	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = e.Title
		if e.ChapterNumber != "" {
			items[i] += "  [" + e.ChapterNumber + "]"
		}
	}

	prompt := promptui.Select{Label: "Select entry", Items: items, Size: 15}
	idx, _, err := prompt.Run()
	if err != nil {
		return fmt.Errorf("selection cancelled")
	}

	fmt.Fprintln(w, providers.ResolveURL(pageURL, entries[idx].Link))
	return nil
}
