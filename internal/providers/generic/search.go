package generic

import (
	"net/url"
	"strings"
)

// DefaultSearchURL is the search engine used when no template is configured.
const DefaultSearchURL = "https://search.brave.com/search?q=%s"

// querySuffix steers general-purpose engines towards reading sites.
const querySuffix = " manga chapters free"

// SearchURL fills template with the escaped query. Templates without a %s
// placeholder get the query appended.
func SearchURL(template, query string) string {
	if template == "" {
		template = DefaultSearchURL
	}

	q := url.QueryEscape(strings.TrimSpace(query) + querySuffix)
	if strings.Contains(template, "%s") {
		return strings.Replace(template, "%s", q, 1)
	}

	return template + q
}
