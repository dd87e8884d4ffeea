package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/brogergvhs/mangascout/internal/chapters"
	"github.com/brogergvhs/mangascout/internal/config"
	"github.com/brogergvhs/mangascout/internal/downloader"
	"github.com/brogergvhs/mangascout/internal/extract"
	"github.com/brogergvhs/mangascout/internal/providers"
	"github.com/brogergvhs/mangascout/internal/providers/generic"
	"github.com/brogergvhs/mangascout/internal/ui"
	"github.com/brogergvhs/mangascout/internal/util"
)

var (
	// selection
	flagURL        string
	flagChapterURL string
	flagFollowNext bool
	flagChapter    string
	flagRange      string
	flagList       string
	flagSeries     string

	// runtime
	flagOutput         string
	flagImageWorkers   int
	flagChapterWorkers int
	flagKeepFolders    bool
	flagDryRun         bool
	flagSkipBroken     bool
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download chapters as CBZ files. Uses the defaults from the selected config, overwritten by CLI flags",
		RunE:  runDownload,
	}

	f := downloadCmd.Flags()

	// selection
	f.StringVar(&flagURL, "url", "", "manga chapter listing URL")
	f.StringVar(&flagChapterURL, "chapter-url", "", "download a single chapter reader page")
	f.BoolVar(&flagFollowNext, "follow-next", false, "with --chapter-url, also download the next chapter")
	f.StringVar(&flagChapter, "chapter", "", "download single chapter by label or position (e.g. 28.5 or 5)")
	f.StringVar(&flagRange, "range", "", "download range of chapters by position (e.g. 5-12)")
	f.StringVar(&flagList, "list", "", "download specific chapter positions (e.g. 1,3,5)")
	f.StringVar(&flagSeries, "series", "", "series name stored in ComicInfo.xml (default: from the URL)")

	// runtime
	f.StringVar(&flagOutput, "output", "", "output folder for CBZ files")
	f.IntVar(&flagImageWorkers, "image-workers", 0, "parallel image downloads per chapter")
	f.IntVar(&flagChapterWorkers, "chapter-workers", 0, "parallel chapter downloads")
	f.BoolVar(&flagKeepFolders, "keep-folders", false, "keep the page images next to the CBZ")
	f.BoolVar(&flagDryRun, "dry-run", false, "show what would be downloaded, don't download")
	f.BoolVar(&flagSkipBroken, "skip-broken", false, "skip failed images instead of failing the whole chapter")

	downloadCmd.MarkFlagsMutuallyExclusive("chapter", "range", "list")

	rootCmd.AddCommand(downloadCmd)
}

// job is a chapter to download. page is set when the reader page was
// already fetched while planning.
type job struct {
	ch   chapters.Chapter
	page *providers.ChapterPage
}

func runDownload(cmd *cobra.Command, _ []string) error {
	opts := baseOptions()
	opts.Output = flagOutput
	opts.ImageWorkers = flagImageWorkers
	opts.ChapterWorkers = flagChapterWorkers
	opts.KeepFolders = flagKeepFolders
	opts.DefaultURL = flagURL
	opts.DefaultRange = flagRange
	opts.DefaultList = flagList
	opts.SkipBroken = flagSkipBroken

	s, err := newSession(opts)
	if err != nil {
		return err
	}
	cfg := s.cfg

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config file: %s\n", s.source)
	if cfg.Debug {
		cfg.Print(out)
		fmt.Fprintln(out)
	}

	scr := generic.NewScraper(s.client, s.log, nil)

	var jobs []job
	if flagChapterURL != "" {
		jobs, err = planChapterURL(cmd.Context(), scr, cfg.DefaultURL, flagChapterURL, flagFollowNext, s.log)
	} else {
		jobs, err = planListing(cmd.Context(), scr, cfg, out)
	}
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no chapters selected")
	}

	if flagDryRun {
		fmt.Fprintf(out, "Dry-run: %d chapters selected.\n\n", len(jobs))
		for i, j := range jobs {
			fmt.Fprintf(out, "%3d) %s  [%s]\n    %s\n", i+1, j.ch.Title, j.ch.Label, j.ch.URL)
		}
		return nil
	}

	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return fmt.Errorf("cannot create output folder: %w", err)
	}

	series := flagSeries
	if series == "" {
		series = seriesName(firstNonEmpty(cfg.DefaultURL, flagChapterURL))
	}

	ctx, cancel := util.InterruptContext(cmd.Context(), s.log)
	defer cancel()

	err = downloadAll(ctx, s, scr, jobs, series, out)
	if ctx.Err() != nil {
		// every worker has returned by now
		util.CleanupInterrupted(cfg.Output, s.log)
	}

	return err
}

func planListing(ctx context.Context, scr *generic.Scraper, cfg *config.Config, out io.Writer) ([]job, error) {
	if cfg.DefaultURL == "" {
		return nil, fmt.Errorf("missing --url or --chapter-url and no default_url in config")
	}

	entries, err := scr.Search(ctx, cfg.DefaultURL)
	if err != nil {
		return nil, err
	}

	all := chapters.Wrap(providers.SelectChapters(entries, cfg.DefaultURL))
	if flagChapter == "" && cfg.DefaultRange == "" && cfg.DefaultList == "" {
		fmt.Fprintf(out, "Found %d chapters on the site.\n\n", len(all))
	}

	selected := chapters.Filter(all, flagChapter, cfg.DefaultRange, cfg.DefaultList)
	if flagChapter != "" && len(selected) == 0 {
		return nil, fmt.Errorf("chapter %q not found", flagChapter)
	}

	jobs := make([]job, len(selected))
	for i, ch := range selected {
		jobs[i] = job{ch: ch}
	}

	return jobs, nil
}

// planChapterURL fetches the given reader page up front. With follow the
// next chapter comes from the page's next link or, failing that, from the
// listing at listingURL.
func planChapterURL(ctx context.Context, scr *generic.Scraper, listingURL, chapterURL string, follow bool, log *ui.Logger) ([]job, error) {
	page, err := scr.Chapter(ctx, chapterURL)
	if err != nil {
		return nil, err
	}

	jobs := []job{{ch: chapterFromURL(chapterURL, providers.UnnumberedPrefix+"1"), page: &page}}
	if !follow {
		return jobs, nil
	}

	next := page.Next
	if next == "" && listingURL != "" {
		entries, err := scr.Search(ctx, listingURL)
		if err != nil {
			return nil, err
		}
		if e, ok := chapters.NextEntry(entries, listingURL, chapterURL); ok {
			next = providers.ResolveURL(listingURL, e.Link)
			log.Debugf("next chapter from listing: %s\n", next)
		}
	}

	if next == "" {
		log.Warnf("no next chapter found for %s\n", chapterURL)
		return jobs, nil
	}

	return append(jobs, job{ch: chapterFromURL(next, providers.UnnumberedPrefix+"2")}), nil
}

func downloadAll(ctx context.Context, s *session, scr *generic.Scraper, jobs []job, series string, out io.Writer) error {
	cfg := s.cfg

	pm := ui.NewProgressManager(out)
	stats := &ui.Stats{}
	dl := downloader.New(s.client, s.log, downloader.Options{
		OutputDir:   cfg.Output,
		SkipBroken:  cfg.SkipBroken,
		KeepFolders: cfg.KeepFolders,
	})
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.ChapterWorkers))

	for _, j := range jobs {
		g.Go(func() error {
			ch := j.ch

			page := j.page
			if page == nil {
				p, err := scr.Chapter(gctx, ch.URL)
				if err != nil {
					s.log.Errorf("No images for %s (%s): %v\n", ch.Title, ch.Label, err)
					stats.FailedChapters.Add(1)
					return nil
				}
				page = &p
			}

			handle := pm.Register("Ch." + ch.Label)
			handle.SetTotal(len(page.Images))
			handle.SetNote(generic.TierNames(page.Tiers))

			res, err := dl.SaveChapter(gctx, ch, page.Images, series, max(1, cfg.ImageWorkers), handle)
			if err != nil {
				handle.Abort()
				stats.FailedChapters.Add(1)
				if errors.Is(err, context.Canceled) {
					return err
				}
				s.log.Errorf("Chapter %s failed: %v\n", ch.Label, err)
				return nil
			}

			stats.TotalChapters.Add(1)
			stats.TotalImages.Add(int64(res.Images))
			stats.TotalBytes.Add(res.Bytes)
			return nil
		})
	}

	err := g.Wait()
	pm.Close()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Download Summary:")
	fmt.Fprintf(out, "%s in %s\n", stats.Summary(), time.Since(start).Round(time.Second))

	if err != nil {
		return err
	}
	if stats.TotalChapters.Load() == 0 {
		return fmt.Errorf("all %d chapters failed", len(jobs))
	}

	fmt.Fprintln(out, "\nAll done.")
	return nil
}

// chapterFromURL names a chapter that did not come from a listing.
func chapterFromURL(chapterURL, fallbackLabel string) chapters.Chapter {
	ch := chapters.Chapter{Chapter: providers.Chapter{URL: chapterURL, Label: fallbackLabel}}

	u, err := url.Parse(chapterURL)
	if err != nil {
		ch.Title = "Chapter " + fallbackLabel
		return ch
	}

	ch.Title = path.Base(strings.TrimRight(u.Path, "/"))
	if ch.Title == "." || ch.Title == "/" || ch.Title == "" {
		ch.Title = "Chapter " + fallbackLabel
	}

	if label, value := extract.ChapterNumber(strings.NewReplacer("-", " ", "_", " ").Replace(ch.Title)); label != "" {
		ch.Label = label
		ch.Value = value
		ch.Title = "Chapter " + label
	}

	return ch
}

// seriesName guesses a series title from the last path segment of a URL.
func seriesName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return ""
	}

	seg := path.Base(strings.TrimRight(u.Path, "/"))
	if seg == "." || seg == "/" {
		return ""
	}

	words := strings.FieldsFunc(seg, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}

	return strings.Join(words, " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
