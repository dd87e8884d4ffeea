package chapters_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brogergvhs/mangascout/internal/chapters"
	"github.com/brogergvhs/mangascout/internal/providers"
)

func chapter(label, title string) chapters.Chapter {
	return chapters.Chapter{Chapter: providers.Chapter{Label: label, Title: title, URL: "https://s.com/c/" + label}}
}

func TestChapterNaming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ch   chapters.Chapter
		want string
	}{
		{"title repeats label", chapter("12", "Chapter 12"), "chapter_12"},
		{"title extends label", chapter("12", "Chapter 12 - The End"), "chapter_12_the_end"},
		{"decimal label", chapter("9.5", "Chapter 9.5"), "chapter_9_5"},
		{"label prefix is not enough", chapter("1", "Chapter 12"), "1_chapter_12"},
		{"empty title", chapter("3", ""), "chapter_3"},
		{"punctuation dropped", chapter("4", "Vol. 1 (Extra)!"), "4_vol_1_extra"},
		{"no label", chapter("", "Prologue"), "prologue"},
		{"nothing usable", chapter("", "!!!"), "chapter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want+".cbz", tt.ch.OutputCBZ())
			assert.Equal(t, tt.want+"_tmp", tt.ch.FolderName())
			assert.Equal(t, filepath.Join("out", tt.want+".cbz"), tt.ch.OutputCBZPath("out"))
		})
	}
}

func TestComicInfo(t *testing.T) {
	t.Parallel()

	info := chapter("7", "Chapter 7").ComicInfo("Solo Story")

	assert.Equal(t, "Solo Story", info.Series)
	assert.Equal(t, "Chapter 7", info.Title)
	assert.Equal(t, "7", info.Number)
	assert.Equal(t, "https://s.com/c/7", info.Web)
}

func TestWrap(t *testing.T) {
	t.Parallel()

	got := chapters.Wrap([]providers.Chapter{{Label: "1"}, {Label: "2"}})
	assert.Len(t, got, 2)
	assert.Equal(t, "2", got[1].Label)
}
