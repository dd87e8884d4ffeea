package generic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brogergvhs/mangascout/internal/extract"
	"github.com/brogergvhs/mangascout/internal/providers"
	"github.com/brogergvhs/mangascout/internal/ui"
	"github.com/brogergvhs/mangascout/internal/util"
)

// ErrNoImages is returned by Chapter when no extraction tier found a page image.
var ErrNoImages = errors.New("no usable images found")

// maxPageSize bounds how much of a document is read before parsing.
const maxPageSize = 16 << 20

type Scraper struct {
	client *http.Client
	log    *ui.Logger
	x      *extract.Extractor

	attempts int
	backoff  time.Duration
}

var _ providers.Scraper = (*Scraper)(nil)

// NewScraper returns a scraper using x for extraction, or the default rule
// set when x is nil.
func NewScraper(c *http.Client, log *ui.Logger, x *extract.Extractor) *Scraper {
	if x == nil {
		x = extract.Default()
	}
	if log == nil {
		log = ui.NewLogger(false)
	}

	return &Scraper{
		client:   c,
		log:      log,
		x:        x,
		attempts: 3,
		backoff:  500 * time.Millisecond,
	}
}

func (s *Scraper) fetchBody(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}

	resp, err := util.DoWithRetry(s.client, req, s.attempts, s.backoff)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: HTTP %d", target, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", target, err)
	}

	s.log.Debugf("fetched %s (%s)\n", target, util.Human(int64(len(data))))

	return string(data), nil
}

// Search fetches a search or listing page and returns its ranked entries.
// A recovered extraction failure is logged and the partial list returned.
func (s *Scraper) Search(ctx context.Context, pageURL string) ([]providers.Entry, error) {
	body, err := s.fetchBody(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	entries, err := s.x.SearchResults(body)
	if err != nil {
		s.log.Warnf("search %s: %v\n", pageURL, err)
	}
	s.log.Debugf("search %s: %d entries\n", pageURL, len(entries))

	return entries, nil
}

// Query builds a search-engine URL from template and query and runs Search
// on it.
func (s *Scraper) Query(ctx context.Context, template, query string) ([]providers.Entry, error) {
	return s.Search(ctx, SearchURL(template, query))
}

// Chapter fetches a reader page and returns its images and next-chapter link.
func (s *Scraper) Chapter(ctx context.Context, chapterURL string) (providers.ChapterPage, error) {
	page := providers.ChapterPage{URL: chapterURL}

	body, err := s.fetchBody(ctx, chapterURL)
	if err != nil {
		return page, err
	}

	rep := s.x.ChapterImagesReport(body, chapterURL)
	if rep.Err != nil {
		s.log.Warnf("images %s: %v\n", chapterURL, rep.Err)
	}
	page.Images = rep.URLs
	page.Tiers = rep.Tiers

	if rep.Selector != "" {
		s.log.Debugf("images %s: selector %q\n", chapterURL, rep.Selector)
	}
	s.log.Debugf("images %s: %d via %s\n", chapterURL, len(rep.URLs), TierNames(rep.Tiers))

	page.Next, _ = s.x.NextChapterURL(body, chapterURL)

	if len(page.Images) == 0 {
		return page, fmt.Errorf("%s: %w", chapterURL, ErrNoImages)
	}

	return page, nil
}

// Analyze fetches pageURL and classifies it as a reader or listing page.
func (s *Scraper) Analyze(ctx context.Context, pageURL string) (extract.Page, error) {
	body, err := s.fetchBody(ctx, pageURL)
	if err != nil {
		return extract.Page{}, err
	}

	p := s.x.AnalyzePage(body, pageURL)
	for _, e := range p.Errors {
		s.log.Warnf("analyze %s: %v\n", pageURL, e)
	}

	return p, nil
}

// TierNames formats the tiers that produced a chapter's images.
func TierNames(tiers []extract.Tier) string {
	if len(tiers) == 0 {
		return "none"
	}

	names := make([]string, len(tiers))
	for i, t := range tiers {
		names[i] = t.String()
	}

	return strings.Join(names, ",")
}
