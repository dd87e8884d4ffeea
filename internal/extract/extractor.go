package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor runs the heuristics described by a Rules value. Its selectors are
// compiled once and only read afterwards, so one Extractor can serve any
// number of goroutines.
type Extractor struct {
	rules      Rules
	reader     []namedMatcher
	next       []namedMatcher
	containers goquery.Matcher
}

// New compiles the selector tables of r. It fails if any selector is invalid.
func New(r Rules) (*Extractor, error) {
	reader, err := compileSelectors(r.ReaderSelectors)
	if err != nil {
		return nil, fmt.Errorf("reader selectors: %w", err)
	}

	next, err := compileSelectors(r.NextSelectors)
	if err != nil {
		return nil, fmt.Errorf("next selectors: %w", err)
	}

	containers, err := compileSelectors([]string{strings.Join(r.ContainerTags, ", ")})
	if err != nil {
		return nil, fmt.Errorf("container tags: %w", err)
	}

	return &Extractor{
		rules:      r,
		reader:     reader,
		next:       next,
		containers: containers[0].matcher,
	}, nil
}

// MustNew is like New but panics on invalid rules.
func MustNew(r Rules) *Extractor {
	x, err := New(r)
	if err != nil {
		panic(err)
	}

	return x
}

// Rules returns the tables the extractor was built from.
func (x *Extractor) Rules() Rules {
	return x.rules
}

var std = MustNew(DefaultRules())

// Default returns the extractor built from DefaultRules.
func Default() *Extractor {
	return std
}

// SearchResults runs the default extractor's SearchResults.
func SearchResults(html string) ([]MangaEntry, error) {
	return std.SearchResults(html)
}

// ChapterImages runs the default extractor's ChapterImages.
func ChapterImages(html, baseURL string) ([]string, error) {
	return std.ChapterImages(html, baseURL)
}

// NextChapterURL runs the default extractor's NextChapterURL.
func NextChapterURL(html, baseURL string) (string, bool) {
	return std.NextChapterURL(html, baseURL)
}

// AnalyzePage runs the default extractor's AnalyzePage.
func AnalyzePage(html, baseURL string) Page {
	return std.AnalyzePage(html, baseURL)
}
