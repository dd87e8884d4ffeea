package extract

import (
	"net/url"
	"strings"
)

// NextChapterURL looks for a "next chapter" link and resolves it against
// baseURL. It reports false when no usable link exists or the input cannot
// be parsed. A base without scheme and host counts as malformed, so the
// result is always absolute.
func (x *Extractor) NextChapterURL(src, baseURL string) (next string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			next, ok = "", false
		}
	}()

	base, valid := parseBase(baseURL)
	if !valid {
		return "", false
	}

	doc, err := parseDocument(src)
	if err != nil {
		return "", false
	}

	for _, nm := range x.next {
		el := doc.FindMatcher(nm.matcher).First()
		if el.Length() == 0 {
			continue
		}

		href, _ := el.Attr("href")
		href = strings.TrimSpace(href)
		if !navigable(href) {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}

		return base.ResolveReference(ref).String(), true
	}

	return "", false
}

func navigable(href string) bool {
	return href != "" && href != "#" && !strings.HasPrefix(strings.ToLower(href), "javascript:")
}
