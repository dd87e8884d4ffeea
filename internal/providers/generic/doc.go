// Package generic implements providers.Scraper for arbitrary manga sites.
// It only fetches documents; finding chapters, page images and next links
// is left to the extract package so the same heuristics work on HTML
// captured elsewhere.
package generic
