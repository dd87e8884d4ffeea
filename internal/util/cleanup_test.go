package util_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/mangascout/internal/util"
)

type recordLog struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordLog) Infof(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestCleanupUnfinishedTempFolders(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(out, "Chapter_1"+util.TempSuffix), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(out, "Chapter_2"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "notes"+util.TempSuffix), nil, 0o644))

	log := &recordLog{}
	util.CleanupUnfinishedTempFolders(out, log)

	assert.NoDirExists(t, filepath.Join(out, "Chapter_1"+util.TempSuffix))
	assert.DirExists(t, filepath.Join(out, "Chapter_2"))
	assert.FileExists(t, filepath.Join(out, "notes"+util.TempSuffix))
	assert.Len(t, log.lines, 1)
}

func TestRemoveIfEmpty(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	empty := filepath.Join(root, "empty")
	full := filepath.Join(root, "full")
	require.NoError(t, os.Mkdir(empty, 0o755))
	require.NoError(t, os.Mkdir(full, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(full, "a.cbz"), nil, 0o644))

	log := &recordLog{}
	util.RemoveIfEmpty(empty, log)
	util.RemoveIfEmpty(full, log)
	util.RemoveIfEmpty(filepath.Join(root, "missing"), log)

	assert.NoDirExists(t, empty)
	assert.DirExists(t, full)
}

func TestInterruptContext_LeavesTempFoldersToCaller(t *testing.T) {
	out := t.TempDir()
	tmp := filepath.Join(out, "Chapter_1"+util.TempSuffix)
	require.NoError(t, os.Mkdir(tmp, 0o755))

	log := &recordLog{}
	ctx, cancel := util.InterruptContext(context.Background(), log)
	defer cancel()

	self, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	if err := self.Signal(os.Interrupt); err != nil {
		t.Skipf("cannot signal own process: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by interrupt")
	}

	// a worker could still be writing here
	assert.DirExists(t, tmp)

	util.CleanupInterrupted(out, log)
	assert.NoDirExists(t, tmp)
	assert.NoDirExists(t, out)
}

func TestInterruptContext_CancelStopsWatcher(t *testing.T) {
	t.Parallel()

	ctx, cancel := util.InterruptContext(context.Background(), &recordLog{})
	cancel()

	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
