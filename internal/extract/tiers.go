package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var reScriptImage = regexp.MustCompile(`["'](https?://[^"']+\.(?:jpg|jpeg|png|webp|gif)[^"']*)["']`)

// imageTier is one step of the image cascade. runs decides from the number
// of URLs found so far whether the tier applies; collect appends its own
// findings to the page and reports whether the cascade can stop.
type imageTier struct {
	tier    Tier
	runs    func(found int) bool
	collect func(p *imagePage) bool
}

func (x *Extractor) imageTiers() []imageTier {
	return []imageTier{
		{
			tier:    TierKnownSelectors,
			runs:    func(int) bool { return true },
			collect: knownSelectors,
		},
		{
			tier:    TierDominantContainer,
			runs:    func(found int) bool { return found <= x.rules.EnoughImages },
			collect: dominantContainer,
		},
		{
			tier:    TierAllImages,
			runs:    func(found int) bool { return found == 0 },
			collect: allImages,
		},
		{
			tier:    TierScripts,
			runs:    func(found int) bool { return found < x.rules.ScriptFallbackBelow },
			collect: scriptImages,
		},
	}
}

func knownSelectors(p *imagePage) bool {
	for _, nm := range p.x.reader {
		matches := p.doc.FindMatcher(nm.matcher)
		if matches.Length() == 0 {
			continue
		}

		if p.selector == "" {
			p.selector = nm.selector
		}
		matches.Each(func(_ int, el *goquery.Selection) {
			if u, ok := p.x.ImageURL(el, p.base); ok {
				p.found = append(p.found, u)
			}
		})

		if len(p.found) > p.x.rules.EnoughImages {
			p.selector = nm.selector
			return true
		}
	}

	return false
}

// dominantContainer picks the container with the most valid direct child
// images. Ties go to the first container in document order.
func dominantContainer(p *imagePage) bool {
	var best *goquery.Selection
	most := 0

	p.doc.FindMatcher(p.x.containers).Each(func(_ int, c *goquery.Selection) {
		imgs := c.ChildrenFiltered("img")
		if imgs.Length() < p.x.rules.MinContainerChildren {
			return
		}

		valid := 0
		imgs.Each(func(_ int, img *goquery.Selection) {
			if _, ok := p.validImage(img); ok {
				valid++
			}
		})

		if valid > most {
			most = valid
			best = c
		}
	})

	if best == nil || most < p.x.rules.MinContainerImages {
		return false
	}

	best.ChildrenFiltered("img").Each(func(_ int, img *goquery.Selection) {
		if u, ok := p.validImage(img); ok {
			p.found = append(p.found, u)
		}
	})

	return false
}

func allImages(p *imagePage) bool {
	p.doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if u, ok := p.validImage(img); ok {
			p.found = append(p.found, u)
		}
	})

	return false
}

func scriptImages(p *imagePage) bool {
	p.doc.Find("script").Each(func(_ int, sc *goquery.Selection) {
		for _, m := range reScriptImage.FindAllStringSubmatch(sc.Text(), -1) {
			u := m[1]
			if containsAny(u, p.x.rules.ScriptDenylist) {
				continue
			}
			p.found = append(p.found, u)
		}
	})

	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}
