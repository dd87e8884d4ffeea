package extract

// RulesVersion identifies the revision of the heuristic tables returned by
// DefaultRules. Bump it whenever a table changes.
const RulesVersion = "2026.10.1"

// PlaceholderUpdateTime is reported for every search entry until listing
// dates are parsed.
const PlaceholderUpdateTime = "Recently"

// Rules holds the data side of the heuristics. Extraction logic only reads
// these tables, so sites can be supported by extending them.
type Rules struct {
	Version string

	// ImageAttrs lists the attributes holding an image URL, most specific
	// (lazy loaders) first and the plain src last.
	ImageAttrs []string

	// ReaderSelectors are reader containers seen on real manga sites. Order
	// is the trust ranking: earlier selectors win.
	ReaderSelectors []string
	// EnoughImages is the count the known selectors must exceed before the
	// remaining tiers are skipped.
	EnoughImages int

	// ContainerTags are the elements scored as a possible reader container.
	ContainerTags []string
	// MinContainerChildren is the minimum number of direct img children a
	// container needs to be scored at all.
	MinContainerChildren int
	// MinContainerImages is the minimum number of valid images the best
	// container needs to be used.
	MinContainerImages int

	// BadImageKeywords reject ads, icons and UI chrome when found in the
	// image URL, alt text or class.
	BadImageKeywords []string
	// MinImageSize rejects images whose declared width or height is smaller.
	MinImageSize int

	// ScriptFallbackBelow enables inline script scraping while fewer images
	// than this were found.
	ScriptFallbackBelow int
	// ScriptDenylist rejects script URLs containing any of these (case sensitive).
	ScriptDenylist []string

	// NextSelectors locate a "next chapter" control, highest priority first.
	NextSelectors []string

	// SearchTextKeywords and SearchHrefKeywords decide whether an anchor
	// looks like a manga or chapter entry (case-insensitive).
	SearchTextKeywords []string
	SearchHrefKeywords []string
	// MinTitleLength drops anchors with shorter visible text.
	MinTitleLength int
}

// DefaultRules returns a fresh copy of the shipped tables.
func DefaultRules() Rules {
	return Rules{
		Version: RulesVersion,

		ImageAttrs: []string{
			"data-src", "data-original", "data-lazy-src", "data-lazy",
			"data-src-optimized", "data-actual-src", "data-srcset", "src",
		},

		ReaderSelectors: []string{
			"#comic_page", "#img", ".reader-main img", "#manga-page",
			"#image", ".prw a > img", "#viewer img", ".img-link > img",
			"img.scan", "#scanmr", "#divImage img", "#mainimage",
			"#center_box > img", "#hq-page", ".comic_wraCon > img",
			"#page1", ".image img", "#eatmanga_image", "#eatmanga_image_big",
			".img", ".page_chapter-2 img", "#current_page", "img.chapter-img",
			"img.CurImage", "#imgPage", "#mangaImg", ".picture", "#imageWrapper img",
			"#image_frame img", "#page-img", "#qTcms_pic", "img.open", "#thePicLink img",
			"#showchaptercontainer img", "#page > img", ".coverIssue img", "#mainImg",
			"#viewimg", "img.real", "#main_img", "tr td a img", "#mangaFile",
			"#images > img", "img.jsNext", "#TheImg", ".page-img", ".manga-image",
			".reader-content img", ".reading-content img", "#reader-area img",
		},
		EnoughImages: 2,

		ContainerTags:        []string{"div", "p"},
		MinContainerChildren: 2,
		MinContainerImages:   3,

		BadImageKeywords: []string{
			"logo", "banner", "icon", "avatar", "thumb", "cover", "social", "share",
			"comment", "footer", "header", "ad", "promo", "rec", "related", "prev",
			"next", "button", "pixel", "loader", "spinner", "analytics", "tracker",
		},
		MinImageSize: 100,

		ScriptFallbackBelow: 2,
		ScriptDenylist:      []string{"logo", "icon", "thumb"},

		NextSelectors: []string{
			".next a", "a.next", `a:contains("Next")`, `a:contains("Next Chapter")`,
			".pager-list-left > span > a:last-child", ".nxt", "#next_chapter",
			".next > a", ".next_chapter", ".lastSlider_nextButton",
			"a[title*='Next']", "a[rel='next']",
		},

		SearchTextKeywords: []string{"chapter", "vol", "manga"},
		SearchHrefKeywords: []string{"chapter"},
		MinTitleLength:     3,
	}
}
