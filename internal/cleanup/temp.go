package cleanup

import (
	"os"
	"path/filepath"
	"time"

	"github.com/aatumaykin/inlinegames/internal/logger"
)

// TempJanitor removes leftover files from the scratch directory.
type TempJanitor struct {
	clock  Clock
	logger *logger.Logger
}

// NewTempJanitor creates a janitor.
func NewTempJanitor(clock Clock, log *logger.Logger) *TempJanitor {
	return &TempJanitor{clock: clock, logger: log}
}

// Sweep removes regular entries of dir (non-recursive) modified more than
// minAge ago and returns how many were removed. Other processes may write
// to dir concurrently, so failed removals are skipped and not counted.
func (j *TempJanitor) Sweep(dir string, minAge time.Duration) int {
	if dir == "" {
		return 0
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			j.logger.Warn("failed to read temp directory",
				logger.Field{Key: "dir", Value: dir},
				logger.Field{Key: "error", Value: err})
		}
		return 0
	}

	before := j.clock.Now().Add(-minAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(before) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			continue
		}

		removed++
		j.logger.Debug("removed temporary file", logger.Field{Key: "path", Value: path})
	}

	return removed
}
