package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/brogergvhs/mangascout/internal/ui"
)

// ErrBrokenImages is returned when some pages failed and skipping them was
// not allowed.
var ErrBrokenImages = errors.New("some images failed to download")

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true, ".avif": true,
}

type Options struct {
	OutputDir  string
	SkipBroken bool
	// KeepFolders keeps the page images next to the CBZ.
	KeepFolders bool
	// Attempts per image, including the first.
	Attempts int
	Backoff  time.Duration
	// Timeout bounds a single image request.
	Timeout time.Duration
}

type Downloader struct {
	client *http.Client
	log    *ui.Logger
	opts   Options
}

func New(c *http.Client, log *ui.Logger, opts Options) *Downloader {
	if opts.Attempts < 1 {
		opts.Attempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if log == nil {
		log = ui.NewLogger(false)
	}

	return &Downloader{client: c, log: log, opts: opts}
}

// PageFileName names the file for the zero-based page index i. The
// extension comes from the URL path, ignoring any query string.
func PageFileName(i int, imageURL string) string {
	ext := ".jpg"
	if u, err := url.Parse(imageURL); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); imageExts[e] {
			ext = e
		}
	}

	return fmt.Sprintf("page_%03d%s", i+1, ext)
}

// DownloadImages fetches urls into folder using up to maxParallel workers.
// It returns the written files and the number of bytes downloaded. ph is
// marked done only when no error is returned.
func (d *Downloader) DownloadImages(
	ctx context.Context,
	urls []string,
	folder string,
	referer string,
	maxParallel int,
	ph Progress,
) ([]string, int64, error) {
	if ph == nil {
		ph = nopProgress{}
	}

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, 0, err
	}

	total := len(urls)
	maxParallel = max(1, min(maxParallel, total))

	t := &tally{total: total, ph: ph}
	ph.Update(0, total, 0)

	var mu sync.Mutex
	files := make([]string, 0, total)
	var errs []error

	jobs := make(chan int)
	var wg sync.WaitGroup

	for range maxParallel {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				file := filepath.Join(folder, PageFileName(i, urls[i]))

				err := d.downloadWithRetry(ctx, urls[i], file, referer, t)

				mu.Lock()
				if err != nil {
					errs = append(errs, fmt.Errorf("image %d: %w", i+1, err))
					d.log.Debugf("image %d (%s): %v\n", i+1, urls[i], err)
				} else {
					files = append(files, file)
				}
				mu.Unlock()

				t.imageDone()
			}
		}()
	}

	var ctxErr error
feed:
	for i := range urls {
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		case jobs <- i:
		}
	}

	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return files, t.snapshot(), ctxErr
	}

	if len(errs) > 0 {
		if !d.opts.SkipBroken {
			return files, t.snapshot(), fmt.Errorf("%w: %d/%d failed: %w", ErrBrokenImages, len(errs), total, errors.Join(errs...))
		}
		d.log.Warnf("skipped %d/%d broken images in %s\n", len(errs), total, folder)
	}

	ph.MarkDone()
	return files, t.snapshot(), nil
}

func (d *Downloader) downloadWithRetry(ctx context.Context, u, output, referer string, t *tally) error {
	var err error
	for attempt := 1; attempt <= d.opts.Attempts; attempt++ {
		err = d.download(ctx, u, output, referer, t)
		if err == nil || attempt == d.opts.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * d.opts.Backoff):
		}
	}

	return err
}

func (d *Downloader) download(ctx context.Context, u, output, referer string, t *tally) (err error) {
	ctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mt, _, _ := mime.ParseMediaType(ct)
		if !strings.HasPrefix(mt, "image/") && mt != "application/octet-stream" {
			return fmt.Errorf("unexpected MIME: %s", ct)
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	cw := &countingWriter{w: f, t: t}
	if _, err := io.Copy(cw, resp.Body); err != nil {
		// the retry rewrites the file; do not count the partial bytes twice
		t.addBytes(-cw.written)
		return err
	}

	return nil
}
