package ui

import (
	"fmt"
	"sync/atomic"

	"github.com/brogergvhs/mangascout/internal/util"
)

// Stats is shared by every chapter worker of one download run.
type Stats struct {
	TotalImages    atomic.Int64
	TotalBytes     atomic.Int64
	TotalChapters  atomic.Int64
	FailedChapters atomic.Int64
}

func (s *Stats) Summary() string {
	msg := fmt.Sprintf("%d chapters, %d images, %s",
		s.TotalChapters.Load(), s.TotalImages.Load(), util.Human(s.TotalBytes.Load()))

	if failed := s.FailedChapters.Load(); failed > 0 {
		msg += fmt.Sprintf(" (%d failed)", failed)
	}

	return msg
}
