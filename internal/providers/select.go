package providers

import (
	"net/url"
	"sort"
	"strconv"

	"github.com/brogergvhs/mangascout/internal/extract"
)

// UnnumberedPrefix starts the labels of chapters without a number, keeping
// them apart from real chapter numbers.
const UnnumberedPrefix = "special-"

// SelectChapters turns listing entries into chapters in reading order. Only
// chapter-like entries are kept; links are resolved against pageURL and
// entries without a number are labelled special-1, special-2 and so on.
func SelectChapters(entries []Entry, pageURL string) []Chapter {
	chapterEntries := extract.ChapterEntries(entries)

	out := make([]Chapter, 0, len(chapterEntries))
	for _, e := range chapterEntries {
		out = append(out, Chapter{
			URL:   ResolveURL(pageURL, e.Link),
			Title: e.Title,
			Label: e.ChapterNumber,
			Value: e.ChapterValue,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value < out[j].Value
	})

	unnumbered := 0
	for i := range out {
		if out[i].Label == "" {
			unnumbered++
			out[i].Label = UnnumberedPrefix + strconv.Itoa(unnumbered)
		}
	}

	return out
}

// ResolveURL resolves href against baseURL, returning href unchanged when
// either cannot be parsed.
func ResolveURL(baseURL, href string) string {
	if href == "" {
		return baseURL
	}

	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return u.String()
	}

	b, err := url.Parse(baseURL)
	if err != nil {
		return href
	}

	return b.ResolveReference(u).String()
}
