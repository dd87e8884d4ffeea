package chapters

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/brogergvhs/mangascout/internal/providers"
	"github.com/brogergvhs/mangascout/internal/util"
)

// Chapter is a selected chapter with the file naming used on disk.
type Chapter struct {
	providers.Chapter
}

// Wrap converts selected provider chapters.
func Wrap(in []providers.Chapter) []Chapter {
	out := make([]Chapter, len(in))
	for i, c := range in {
		out[i] = Chapter{Chapter: c}
	}
	return out
}

var (
	separators   = strings.NewReplacer("•", "_", "-", "_", "—", "_", "–", "_", "/", "_", "\\", "_", ".", "_", " ", "_")
	reUnderscore = regexp.MustCompile(`_+`)
)

func sanitize(s string) string {
	s = separators.Replace(strings.ToLower(s))

	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, s)

	return strings.Trim(reUnderscore.ReplaceAllString(s, "_"), "_")
}

func (c Chapter) baseName() string {
	lbl := sanitize(c.Label)
	title := sanitize(c.Title)

	switch {
	case lbl == "":
		if title == "" {
			return "chapter"
		}
		return title
	case title == "" || title == lbl:
		return "chapter_" + lbl
	case title == "chapter_"+lbl || strings.HasPrefix(title, "chapter_"+lbl+"_"):
		return title
	default:
		return lbl + "_" + title
	}
}

// FolderName is the temporary page folder, removed once the CBZ exists.
func (c Chapter) FolderName() string {
	return c.baseName() + util.TempSuffix
}

func (c Chapter) OutputCBZ() string {
	return c.baseName() + ".cbz"
}

func (c Chapter) OutputCBZPath(out string) string {
	return filepath.Join(out, c.OutputCBZ())
}

// ComicInfo describes the chapter inside its CBZ.
func (c Chapter) ComicInfo(series string) *util.ComicInfo {
	return &util.ComicInfo{
		Series: series,
		Title:  c.Title,
		Number: c.Label,
		Web:    c.URL,
	}
}
