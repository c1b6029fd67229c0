// Package logging opens the application's file logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a logger that appends to path. The returned closer releases
// the file. When the file cannot be opened the logger discards output so
// callers never have to nil-check it; err reports why.
func New(path, level, prefix string) (*log.Logger, io.Closer, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discard(), io.NopCloser(nil), err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard(), io.NopCloser(nil), err
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
		Level:           lvl,
	})
	return logger, f, nil
}

func discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
