package extract_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/brogergvhs/mangascout/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChapterNumber(t *testing.T) {
	t.Parallel()

	n, v := extract.ChapterNumber("Chapter 12.5: The Return")
	assert.Equal(t, "12.5", n)
	assert.InDelta(t, 12.5, v, 1e-9)

	n, v = extract.ChapterNumber("one piece CHAPTER   1100")
	assert.Equal(t, "1100", n)
	assert.InDelta(t, 1100.0, v, 1e-9)

	n, v = extract.ChapterNumber("Vol. 3 Extra")
	assert.Empty(t, n)
	assert.Zero(t, v)
}

func TestSearchResults(t *testing.T) {
	t.Parallel()

	t.Run("extracts chapter number and source", func(t *testing.T) {
		t.Parallel()

		html := `<ul><li><a href="https://site.com/manga/ch-12-5">Chapter 12.5: The Return</a></li></ul>`

		entries, err := extract.SearchResults(html)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		e := entries[0]
		assert.Equal(t, "Chapter 12.5: The Return", e.Title)
		assert.Equal(t, "https://site.com/manga/ch-12-5", e.Link)
		assert.Equal(t, "12.5", e.ChapterNumber)
		assert.InDelta(t, 12.5, e.ChapterValue, 1e-9)
		assert.Equal(t, "site.com", e.Source)
		assert.Equal(t, "Recently", e.UpdateTime)
		assert.Empty(t, e.ImageURL)
	})

	t.Run("skips anchors that are not entries", func(t *testing.T) {
		t.Parallel()

		html := `<body>
<a href="/chapter-1">Ch</a>
<a href="javascript:void(0)">Chapter 9</a>
<a href="#chapters">Chapter list</a>
<a href="/home">Home page</a>
<a>Chapter 7 without href</a>
<a href="/read/chapter-3">Read now</a>
</body>`

		entries, err := extract.SearchResults(html)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "/read/chapter-3", entries[0].Link)
		assert.Equal(t, "Read now", entries[0].Title)
		assert.Equal(t, "Unknown", entries[0].Source)
		assert.False(t, entries[0].HasChapter())
	})

	t.Run("deduplicates by link and sorts by chapter descending", func(t *testing.T) {
		t.Parallel()

		html := `<div>
<a href="/m/a">Manga Alpha</a>
<a href="/c/1">Chapter 1</a>
<a href="/c/3">Chapter 3</a>
<a href="/c/2">Chapter 2</a>
<a href="/c/3">Chapter 3 (mirror)</a>
<a href="/m/b">Manga Beta</a>
</div>`

		entries, err := extract.SearchResults(html)

		require.NoError(t, err)
		links := make([]string, len(entries))
		for i, e := range entries {
			links[i] = e.Link
		}
		assert.Equal(t, []string{"/c/3", "/c/2", "/c/1", "/m/a", "/m/b"}, links)
		assert.Equal(t, "Chapter 3", entries[0].Title)

		for i := 1; i < len(entries); i++ {
			assert.GreaterOrEqual(t, entries[i-1].ChapterValue, entries[i].ChapterValue)
		}
	})

	t.Run("finds cover under parent then grandparent", func(t *testing.T) {
		t.Parallel()

		html := `<div class="card"><img data-src="//cdn.site.com/covers/one.jpg"><a href="/m/1">Manga One</a></div>
<li><div><img src="https://cdn.site.com/covers/two.jpg"></div><h3><a href="/m/2">Manga Two</a></h3></li>`

		entries, err := extract.SearchResults(html)

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "https://cdn.site.com/covers/one.jpg", entries[0].ImageURL)
		assert.Equal(t, "https://cdn.site.com/covers/two.jpg", entries[1].ImageURL)
	})

	t.Run("unparsable href gets web source", func(t *testing.T) {
		t.Parallel()

		entries, err := extract.SearchResults(`<a href="/read chapter 4">Chapter 4</a>`)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Web", entries[0].Source)
	})

	t.Run("collapses whitespace in titles", func(t *testing.T) {
		t.Parallel()

		entries, err := extract.SearchResults("<a href=\"/c/8\">\n  Chapter\n\t8  </a>")

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Chapter 8", entries[0].Title)
		assert.Equal(t, "8", entries[0].ChapterNumber)
	})
}

func TestSearchResults_NeverFails(t *testing.T) {
	t.Parallel()

	for name, html := range garbageInputs() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.NotPanics(t, func() {
				entries, _ := extract.SearchResults(html)
				seen := map[string]bool{}
				for _, e := range entries {
					assert.False(t, seen[e.Link], "duplicate link %q", e.Link)
					seen[e.Link] = true
				}
			})
		})
	}
}

func garbageInputs() map[string]string {
	return map[string]string{
		"empty":        "",
		"binary":       "\x00\xff\xfe<\x01a href=\x02>>><<",
		"unclosed":     `<a href="/chapter-1">Chapter 1<div><a href="/chapter-2">Chapter 2`,
		"deep nesting": strings.Repeat("<div>", 3000) + `<a href="/c/1">Chapter 1</a><img src="/x.jpg">`,
		"only text":    "Chapter 5 of nothing",
		"bad tags":     "<<<img src=>>><script>var x = 'https://a.com/1.jpg</script><a href=\"%zz\">Chapter %</a>",
	}
}

func TestSearchResults_Deterministic(t *testing.T) {
	t.Parallel()

	html := `<ul>
<li><a href="/c/1">Chapter 1</a></li>
<li><a href="/c/3">Chapter 3</a></li>
<li><a href="/c/2">Chapter 2</a><img src="/cover.jpg"></li>
<li><a href="/m/solo">Solo manga</a></li>
<li><a href="/c/3">Chapter 3 again</a></li>
</ul>`
	want, err := extract.SearchResults(html)
	require.NoError(t, err)
	require.Len(t, want, 4)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := extract.SearchResults(html)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}
