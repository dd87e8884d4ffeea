package extract_test

import (
	"testing"

	"github.com/brogergvhs/mangascout/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	t.Parallel()

	r := extract.DefaultRules()

	assert.Equal(t, extract.RulesVersion, r.Version)
	assert.Len(t, r.ReaderSelectors, 50)
	assert.Len(t, r.NextSelectors, 12)
	assert.Equal(t, "src", r.ImageAttrs[len(r.ImageAttrs)-1])

	_, err := extract.New(r)
	require.NoError(t, err)
}

func TestDefaultRules_ReturnsCopies(t *testing.T) {
	t.Parallel()

	a := extract.DefaultRules()
	a.BadImageKeywords[0] = "changed"

	b := extract.DefaultRules()
	assert.Equal(t, "logo", b.BadImageKeywords[0])
}

func TestNew_RejectsInvalidSelectors(t *testing.T) {
	t.Parallel()

	r := extract.DefaultRules()
	r.ReaderSelectors = append(r.ReaderSelectors, "div[[broken")

	_, err := extract.New(r)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "div[[broken")
}

func TestNew_ExtendedRules(t *testing.T) {
	t.Parallel()

	r := extract.DefaultRules()
	r.ReaderSelectors = append([]string{"#chapter-viewer canvas + img"}, r.ReaderSelectors...)
	r.BadImageKeywords = append(r.BadImageKeywords, "watermark")

	x, err := extract.New(r)
	require.NoError(t, err)

	html := `<div id="chapter-viewer">
<canvas></canvas><img src="/v/1.jpg">
<canvas></canvas><img src="/v/2.jpg">
<canvas></canvas><img src="/v/3.jpg">
</div>`

	urls, err := x.ChapterImages(html, "https://example.org/c/2")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.org/v/1.jpg",
		"https://example.org/v/2.jpg",
		"https://example.org/v/3.jpg",
	}, urls)
	assert.Contains(t, x.Rules().BadImageKeywords, "watermark")
}
