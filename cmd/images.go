package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/brogergvhs/mangascout/internal/extract"
	"github.com/brogergvhs/mangascout/internal/providers"
	"github.com/brogergvhs/mangascout/internal/providers/generic"
)

var (
	flagImagesURL  string
	flagImagesFile string
	flagImagesBase string
	flagImagesJSON bool
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List the page images and the next chapter link of a chapter reader page",
	RunE:  runImages,
}

func init() {
	imagesCmd.Flags().StringVar(&flagImagesURL, "url", "", "chapter reader URL")
	imagesCmd.Flags().StringVar(&flagImagesFile, "file", "", "saved reader HTML to analyze offline")
	imagesCmd.Flags().StringVar(&flagImagesBase, "base", "", "URL the saved page was loaded from; relative images and the next link need it")
	imagesCmd.Flags().BoolVar(&flagImagesJSON, "json", false, "print the result as JSON")
	imagesCmd.MarkFlagsMutuallyExclusive("url", "file")
	imagesCmd.MarkFlagsOneRequired("url", "file")

	rootCmd.AddCommand(imagesCmd)
}

type imagesResult struct {
	URL    string   `json:"url,omitempty"`
	Images []string `json:"images"`
	Tiers  []string `json:"tiers"`
	Next   string   `json:"next,omitempty"`
}

func runImages(cmd *cobra.Command, _ []string) error {
	var page providers.ChapterPage

	if flagImagesFile != "" {
		raw, err := os.ReadFile(flagImagesFile)
		if err != nil {
			return err
		}
		page = chapterFromHTML(string(raw), flagImagesBase)
		if len(page.Images) == 0 {
			return fmt.Errorf("%s: %w", flagImagesFile, generic.ErrNoImages)
		}
	} else {
		s, err := newSession(baseOptions())
		if err != nil {
			return err
		}

		page, err = generic.NewScraper(s.client, s.log, nil).Chapter(cmd.Context(), flagImagesURL)
		if err != nil {
			return err
		}
	}

	res := imagesResult{URL: page.URL, Images: page.Images, Next: page.Next}
	for _, t := range page.Tiers {
		res.Tiers = append(res.Tiers, t.String())
	}

	if flagImagesJSON {
		return writeJSON(cmd.OutOrStdout(), res)
	}

	printImages(cmd.OutOrStdout(), res)
	return nil
}

// chapterFromHTML runs the extractors over an already loaded page.
func chapterFromHTML(html, baseURL string) providers.ChapterPage {
	rep := extract.Default().ChapterImagesReport(html, baseURL)
	next, _ := extract.NextChapterURL(html, baseURL)

	return providers.ChapterPage{URL: baseURL, Images: rep.URLs, Tiers: rep.Tiers, Next: next}
}

func printImages(w io.Writer, res imagesResult) {
	fmt.Fprintf(w, "%d images", len(res.Images))
	if len(res.Tiers) > 0 {
		fmt.Fprintf(w, " (via %v)", res.Tiers)
	}
	fmt.Fprintln(w)

	for i, u := range res.Images {
		fmt.Fprintf(w, "%3d) %s\n", i+1, u)
	}

	if res.Next != "" {
		fmt.Fprintf(w, "\nNext chapter: %s\n", res.Next)
	}
}
