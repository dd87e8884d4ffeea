package extract

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// MangaEntry is one manga or chapter link found on a listing page. Link is
// the identity key.
type MangaEntry struct {
	Title         string  `json:"title"`
	Link          string  `json:"link"`
	ChapterNumber string  `json:"chapterNumber,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	Source        string  `json:"source"`
	UpdateTime    string  `json:"updateTime"`
	ChapterValue  float64 `json:"chapterValue"`
}

// HasChapter reports whether a chapter number was found in the title.
func (e MangaEntry) HasChapter() bool {
	return e.ChapterNumber != ""
}

var reChapterNumber = regexp.MustCompile(`(?i)Chapter\s+(\d+(\.\d+)?)`)

// characters a strict RFC 3986 parser rejects; such hrefs get the "Web" source
const uriIllegalChars = " \"<>\\^`{|}"

// ChapterNumber finds "Chapter 12.5" style labels in text and returns the
// number as written plus its value. Both are zero when there is none.
func ChapterNumber(text string) (string, float64) {
	m := reChapterNumber.FindStringSubmatch(text)
	if m == nil {
		return "", 0
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return m[1], 0
	}

	return m[1], v
}

// SearchResults collects chapter and manga entries from the anchors of a
// listing or search page, unique by link and ordered by chapter number,
// highest first. A non-nil error reports a recovered failure; the entries
// gathered up to that point are still returned.
func (x *Extractor) SearchResults(src string) (entries []MangaEntry, err error) {
	var collected []MangaEntry
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
		}
		entries = rankEntries(collected)
	}()

	doc, err := parseDocument(src)
	if err != nil {
		return nil, err
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if e, ok := x.searchEntry(a); ok {
			collected = append(collected, e)
		}
	})

	return nil, nil
}

func (x *Extractor) searchEntry(a *goquery.Selection) (MangaEntry, bool) {
	href, _ := a.Attr("href")
	text := visibleText(a)

	if utf8.RuneCountInString(text) < x.rules.MinTitleLength {
		return MangaEntry{}, false
	}
	if strings.HasPrefix(href, "javascript") || strings.HasPrefix(href, "#") {
		return MangaEntry{}, false
	}
	if !containsAnyFold(text, x.rules.SearchTextKeywords) && !containsAnyFold(href, x.rules.SearchHrefKeywords) {
		return MangaEntry{}, false
	}

	number, value := ChapterNumber(text)

	return MangaEntry{
		Title:         text,
		Link:          href,
		ChapterNumber: number,
		ImageURL:      x.coverImage(a),
		Source:        hrefSource(href),
		UpdateTime:    PlaceholderUpdateTime,
		ChapterValue:  value,
	}, true
}

// coverImage looks for the first image next to the anchor, first under its
// parent and then under its grandparent.
func (x *Extractor) coverImage(a *goquery.Selection) string {
	parent := a.Parent()
	img := parent.Find("img").First()
	if img.Length() == 0 {
		img = parent.Parent().Find("img").First()
	}
	if img.Length() == 0 {
		return ""
	}

	u, _ := x.ImageURL(img, "")
	return u
}

func hrefSource(href string) string {
	if strings.ContainsAny(href, uriIllegalChars) {
		return "Web"
	}

	u, err := url.Parse(href)
	if err != nil {
		return "Web"
	}
	if h := u.Hostname(); h != "" {
		return h
	}

	return "Unknown"
}

func rankEntries(in []MangaEntry) []MangaEntry {
	seen := make(map[string]bool, len(in))
	out := make([]MangaEntry, 0, len(in))

	for _, e := range in {
		if seen[e.Link] {
			continue
		}
		seen[e.Link] = true
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ChapterValue > out[j].ChapterValue
	})

	return out
}
