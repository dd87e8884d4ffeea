package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brogergvhs/mangascout/internal/chapters"
	"github.com/brogergvhs/mangascout/internal/util"
)

var ErrNoPages = errors.New("no pages downloaded")

type ChapterResult struct {
	CBZ    string
	Images int
	Bytes  int64
}

// SaveChapter downloads the chapter images into a temporary folder and
// packs them into a CBZ under the output directory. The temporary folder
// is removed on failure.
func (d *Downloader) SaveChapter(
	ctx context.Context,
	ch chapters.Chapter,
	images []string,
	series string,
	workers int,
	ph Progress,
) (ChapterResult, error) {
	var res ChapterResult

	if err := os.MkdirAll(d.opts.OutputDir, 0o755); err != nil {
		return res, err
	}

	folder := filepath.Join(d.opts.OutputDir, ch.FolderName())
	files, bytes, err := d.DownloadImages(ctx, images, folder, ch.URL, workers, ph)
	res.Bytes = bytes
	if err != nil {
		util.CleanupFolder(folder)
		return res, fmt.Errorf("%s: %w", ch.Title, err)
	}
	if len(files) == 0 {
		util.CleanupFolder(folder)
		return res, fmt.Errorf("%s: %w", ch.Title, ErrNoPages)
	}

	res.CBZ = ch.OutputCBZPath(d.opts.OutputDir)
	res.Images = len(files)

	if err := util.CreateCBZ(files, res.CBZ, ch.ComicInfo(series)); err != nil {
		util.CleanupFolder(folder)
		return res, err
	}

	if !d.opts.KeepFolders {
		util.CleanupFolder(folder)
		return res, nil
	}

	kept := strings.TrimSuffix(folder, util.TempSuffix)
	_ = os.RemoveAll(kept)
	if err := os.Rename(folder, kept); err != nil {
		return res, fmt.Errorf("keep %s: %w", kept, err)
	}

	return res, nil
}
