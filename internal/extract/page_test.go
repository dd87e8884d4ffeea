package extract_test

import (
	"testing"

	"github.com/brogergvhs/mangascout/internal/extract"
	"github.com/stretchr/testify/assert"
)

func TestAnalyzePage(t *testing.T) {
	t.Parallel()

	t.Run("reader page", func(t *testing.T) {
		t.Parallel()

		html := `<div id="reader-area">
<img src="/p/1.jpg"><img src="/p/2.jpg"><img src="/p/3.jpg">
</div>
<a class="next_chapter" href="/c/2">Next</a>`

		p := extract.AnalyzePage(html, "https://example.org/c/1")

		assert.Equal(t, extract.KindReader, p.Kind)
		assert.Len(t, p.Images, 3)
		assert.Equal(t, "https://example.org/c/2", p.Next)
		assert.Empty(t, p.Errors)
	})

	t.Run("listing page", func(t *testing.T) {
		t.Parallel()

		html := `<ul>
<li><a href="/c/2">Chapter 2</a></li>
<li><a href="/c/1">Chapter 1</a></li>
<li><a href="/m/other">Other Manga</a></li>
</ul>`

		p := extract.AnalyzePage(html, "https://example.org/m/1")

		assert.Equal(t, extract.KindListing, p.Kind)
		assert.Empty(t, p.Next)
		assert.Len(t, p.Entries, 2)
		assert.Equal(t, "listing", p.Kind.String())
	})

	t.Run("unknown page", func(t *testing.T) {
		t.Parallel()

		p := extract.AnalyzePage("<p>hello</p>", "https://example.org/")

		assert.Equal(t, extract.KindUnknown, p.Kind)
	})
}

func TestChapterEntries(t *testing.T) {
	t.Parallel()

	in := []extract.MangaEntry{
		{Title: "Chapter 3", Link: "/c/3", ChapterNumber: "3", ChapterValue: 3},
		{Title: "Vol 2 Chapter extra", Link: "/c/x"},
		{Title: "Manga Home", Link: "/m"},
	}

	out := extract.ChapterEntries(in)

	assert.Equal(t, []extract.MangaEntry{in[0], in[1]}, out)
}
