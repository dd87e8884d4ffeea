package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ImageURL resolves the image URL carried by el, checking the ImageAttrs in
// order. It reports false when no attribute holds a usable value.
func (x *Extractor) ImageURL(el *goquery.Selection, baseURL string) (string, bool) {
	candidates := make([]string, 0, len(x.rules.ImageAttrs))
	for _, name := range x.rules.ImageAttrs {
		if v, ok := el.Attr(name); ok {
			candidates = append(candidates, v)
		}
	}

	return Resolve(candidates, baseURL)
}

// Resolve picks the first candidate that is non-empty once trimmed and is not
// an inline data URI, then makes it absolute with ResolveCandidate.
func Resolve(candidates []string, baseURL string) (string, bool) {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || strings.HasPrefix(c, "data:image") {
			continue
		}

		return ResolveCandidate(c, baseURL), true
	}

	return "", false
}

// ResolveCandidate turns an attribute value into an absolute URL on a best
// effort basis. Values it cannot resolve are returned unmodified.
func ResolveCandidate(raw, baseURL string) string {
	src := raw
	// srcset style "a.jpg 2x, b.jpg 3x"
	if i := strings.IndexByte(src, ' '); i >= 0 {
		src = src[:i]
	}

	switch {
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "http"):
		return src
	case baseURL == "":
		return src
	}

	base, ok := parseBase(baseURL)
	if !ok {
		return src
	}

	if strings.HasPrefix(src, "/") {
		return base.Scheme + "://" + base.Host + src
	}

	ref, err := url.Parse(src)
	if err != nil {
		return src
	}

	return base.ResolveReference(ref).String()
}

func parseBase(raw string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}

	return u, true
}
