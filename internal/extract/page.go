package extract

import "strings"

// PageKind classifies a page by what could be extracted from it.
type PageKind int

const (
	KindUnknown PageKind = iota
	KindReader
	KindListing
)

func (k PageKind) String() string {
	switch k {
	case KindReader:
		return "reader"
	case KindListing:
		return "listing"
	default:
		return "unknown"
	}
}

// Page bundles everything extracted from one document.
type Page struct {
	Kind    PageKind
	Images  []string
	Next    string
	Entries []MangaEntry
	Errors  []error
}

// AnalyzePage runs every extractor over a page. A page with more than
// EnoughImages images is a reader page and gets its next link looked up;
// otherwise a page with chapter-like entries is a listing.
func (x *Extractor) AnalyzePage(src, baseURL string) Page {
	var p Page

	images, err := x.ChapterImages(src, baseURL)
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
	p.Images = images

	entries, err := x.SearchResults(src)
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
	p.Entries = ChapterEntries(entries)

	switch {
	case len(p.Images) > x.rules.EnoughImages:
		p.Kind = KindReader
		p.Next, _ = x.NextChapterURL(src, baseURL)
	case len(p.Entries) > 0:
		p.Kind = KindListing
	}

	return p
}

// ChapterEntries keeps the entries that carry a chapter number or mention a
// chapter in their title.
func ChapterEntries(entries []MangaEntry) []MangaEntry {
	out := make([]MangaEntry, 0, len(entries))
	for _, e := range entries {
		if e.HasChapter() || strings.Contains(strings.ToLower(e.Title), "chapter") {
			out = append(out, e)
		}
	}

	return out
}
