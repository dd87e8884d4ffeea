package util

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

// TempSuffix marks chapter folders that are still being downloaded.
const TempSuffix = "_tmp"

type infoLogger interface {
	Infof(string, ...any)
}

// InterruptContext returns a context cancelled on SIGINT or SIGTERM. It
// does not touch the output folder: workers may still be writing when the
// signal arrives, so callers run CleanupInterrupted once they have stopped.
func InterruptContext(parent context.Context, log infoLogger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sig)

		select {
		case <-sig:
			log.Infof("Interrupt received. Waiting for downloads to stop...\n")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// CleanupInterrupted removes unfinished chapter folders and, if nothing is
// left, the output folder itself.
func CleanupInterrupted(outputDir string, log infoLogger) {
	CleanupUnfinishedTempFolders(outputDir, log)
	RemoveIfEmpty(outputDir, log)
}

func CleanupUnfinishedTempFolders(outputDir string, log infoLogger) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return
	}

	for _, e := range entries {
		if !e.IsDir() || !strings.HasSuffix(e.Name(), TempSuffix) {
			continue
		}

		full := filepath.Join(outputDir, e.Name())
		if err := os.RemoveAll(full); err != nil {
			log.Infof("Error cleaning up %s: %v\n", full, err)
			continue
		}
		log.Infof("Removed %s\n", full)
	}
}

func RemoveIfEmpty(dir string, log infoLogger) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}

	if err := os.Remove(dir); err == nil {
		log.Infof("Removed empty output folder: %s\n", dir)
	}
}

func CleanupFolder(folder string) {
	_ = os.RemoveAll(folder)
}
