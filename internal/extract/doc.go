// Package extract pulls manga search listings, chapter page images and
// "next chapter" links out of arbitrary third-party HTML.
//
// Every function here is pure: it takes an HTML string and an optional base
// URL, never fetches anything and never panics. Failures inside the parser or
// the heuristics are recovered and reported as an error next to whatever was
// collected before the failure.
package extract
