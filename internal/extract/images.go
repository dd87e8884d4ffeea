package extract

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// Tier names the strategy that produced chapter images.
type Tier int

const (
	TierNone Tier = iota
	TierKnownSelectors
	TierDominantContainer
	TierAllImages
	TierScripts
)

func (t Tier) String() string {
	switch t {
	case TierKnownSelectors:
		return "known-selectors"
	case TierDominantContainer:
		return "dominant-container"
	case TierAllImages:
		return "all-images"
	case TierScripts:
		return "scripts"
	default:
		return "none"
	}
}

// ImageReport is the outcome of a chapter image extraction.
type ImageReport struct {
	URLs []string
	// Tiers lists, in order, every tier that contributed at least one URL.
	Tiers []Tier
	// Selector is the known selector that ended the cascade, or else the
	// first one that matched anything.
	Selector string
	// Err reports a recovered failure; URLs holds what was found before it.
	Err error
}

// ChapterImages returns the page images of a chapter reader in page order,
// absolute and without duplicates. A non-nil error reports a recovered
// failure; the URLs gathered up to that point are still returned.
func (x *Extractor) ChapterImages(src, baseURL string) ([]string, error) {
	rep := x.ChapterImagesReport(src, baseURL)
	return rep.URLs, rep.Err
}

// ChapterImagesReport is ChapterImages with details about how the result
// was obtained.
func (x *Extractor) ChapterImagesReport(src, baseURL string) (rep ImageReport) {
	defer func() {
		if r := recover(); r != nil {
			rep = ImageReport{URLs: []string{}, Err: recoveredError(r)}
		}
	}()

	doc, err := parseDocument(src)
	if err != nil {
		return ImageReport{URLs: []string{}, Err: err}
	}

	page := &imagePage{x: x, doc: doc, base: baseURL}
	return page.run(x.imageTiers())
}

// run applies tiers in order. Tiers append to p.found as they go, so a
// recovered panic still reports everything collected before it.
func (p *imagePage) run(tiers []imageTier) (rep ImageReport) {
	defer func() {
		if r := recover(); r != nil {
			rep.Err = recoveredError(r)
		}
		rep.URLs = dedupe(p.found)
		if rep.Selector == "" {
			rep.Selector = p.selector
		}
	}()

	for _, t := range tiers {
		if !t.runs(len(p.found)) {
			continue
		}

		before := len(p.found)
		done := t.collect(p)
		if len(p.found) > before {
			rep.Tiers = append(rep.Tiers, t.tier)
		}
		if p.selector != "" && rep.Selector == "" {
			rep.Selector = p.selector
		}
		if done {
			break
		}
	}

	return rep
}

type imagePage struct {
	x        *Extractor
	doc      *goquery.Document
	base     string
	selector string
	found    []string
}

// validImage resolves img and applies the bad image rules to it.
func (p *imagePage) validImage(img *goquery.Selection) (string, bool) {
	src, ok := p.x.ImageURL(img, p.base)
	if !ok || p.x.isBadImage(img, src) {
		return "", false
	}

	return src, true
}

func (x *Extractor) isBadImage(img *goquery.Selection, src string) bool {
	alt, _ := img.Attr("alt")
	class, _ := img.Attr("class")

	for _, field := range []string{src, alt, class} {
		if containsAnyFold(field, x.rules.BadImageKeywords) {
			return true
		}
	}

	return x.tooSmall(img, "width") || x.tooSmall(img, "height")
}

func (x *Extractor) tooSmall(img *goquery.Selection, attr string) bool {
	v, ok := img.Attr(attr)
	if !ok {
		return false
	}

	n, err := strconv.Atoi(v)
	return err == nil && n < x.rules.MinImageSize
}
