package downloader

import (
	"io"
	"sync"
)

// Progress receives per-chapter download progress. *ui.ProgressHandle
// implements it.
type Progress interface {
	Update(done, total int, bytes int64)
	MarkDone()
}

type nopProgress struct{}

func (nopProgress) Update(int, int, int64) {}
func (nopProgress) MarkDone()              {}

// tally aggregates image counts and bytes across a chapter's workers.
type tally struct {
	mu    sync.Mutex
	done  int
	total int
	bytes int64
	ph    Progress
}

func (t *tally) addBytes(n int64) {
	if n == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.bytes += n
	t.ph.Update(t.done, t.total, t.bytes)
}

func (t *tally) imageDone() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done++
	t.ph.Update(t.done, t.total, t.bytes)
}

func (t *tally) snapshot() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bytes
}

// countingWriter reports every successful write to the tally.
type countingWriter struct {
	w       io.Writer
	t       *tally
	written int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		c.written += int64(n)
		c.t.addBytes(int64(n))
	}
	return n, err
}
