// Package logging builds the leveled diagnostic logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/aristath/tasker/internal/config"
)

// ParseLevel maps a config level name to a log level. Unknown names fall
// back to info.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// New returns a logger writing to cfg.File (appending, with timestamps) or,
// when no file is configured, to fallback. The returned close function
// releases the file and is safe to call when none was opened.
func New(cfg config.LogConfig, fallback io.Writer) (*log.Logger, func() error, error) {
	out := fallback
	closeFn := func() error { return nil }
	timestamps := false

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
		timestamps = true
	}
	if out == nil {
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           ParseLevel(cfg.Level),
		Formatter:       log.TextFormatter,
		ReportTimestamp: timestamps,
		Prefix:          "tasker",
	})
	return logger, closeFn, nil
}
