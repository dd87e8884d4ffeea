package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// ErrRecovered wraps a panic caught inside an extractor.
var ErrRecovered = errors.New("extract: recovered from internal failure")

// parseDocument parses with scripting disabled so <noscript> fallbacks, which
// lazy-loading sites use for the real <img>, become regular elements.
func parseDocument(src string) (*goquery.Document, error) {
	root, err := html.ParseWithOptions(strings.NewReader(src), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return goquery.NewDocumentFromNode(root), nil
}

func recoveredError(r any) error {
	return fmt.Errorf("%w: %v", ErrRecovered, r)
}

type namedMatcher struct {
	selector string
	matcher  goquery.Matcher
}

func compileSelectors(selectors []string) ([]namedMatcher, error) {
	out := make([]namedMatcher, 0, len(selectors))
	var errs []error

	for _, s := range selectors {
		m, err := cascadia.Compile(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("selector %q: %w", s, err))
			continue
		}
		out = append(out, namedMatcher{selector: s, matcher: m})
	}

	return out, errors.Join(errs...)
}

func visibleText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

func containsAnyFold(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	ls := strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(ls, strings.ToLower(k)) {
			return true
		}
	}

	return false
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}

	return out
}
