package chapters

import (
	"strings"

	"github.com/brogergvhs/mangascout/internal/extract"
	"github.com/brogergvhs/mangascout/internal/providers"
)

// NextEntry is the fallback used when a reader page has no next link.
// Listings are ranked newest first, so the next chapter is the valid entry
// just before the one whose link resolves to currentURL.
func NextEntry(entries []providers.Entry, pageURL, currentURL string) (providers.Entry, bool) {
	valid := extract.ChapterEntries(entries)
	current := normalize(currentURL)

	for i, e := range valid {
		if normalize(providers.ResolveURL(pageURL, e.Link)) != current {
			continue
		}
		if i == 0 {
			return providers.Entry{}, false
		}
		return valid[i-1], true
	}

	return providers.Entry{}, false
}

func normalize(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}
