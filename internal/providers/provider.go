package providers

import (
	"context"

	"github.com/brogergvhs/mangascout/internal/extract"
)

// Entry is a search or listing result.
type Entry = extract.MangaEntry

// Chapter is a listing entry picked for reading, with an absolute URL.
type Chapter struct {
	URL   string
	Title string
	Label string
	Value float64
}

// ChapterPage is what was extracted from a chapter reader page.
type ChapterPage struct {
	URL    string
	Images []string
	Next   string
	Tiers  []extract.Tier
}

type Scraper interface {
	Search(ctx context.Context, pageURL string) ([]Entry, error)
	Chapter(ctx context.Context, chapterURL string) (ChapterPage, error)
}
