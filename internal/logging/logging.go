// Package logging configures the process-wide slog logger. The terminal
// belongs to the dashboard, so records go to a rotating file by default.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Stderr selects standard error instead of a log file.
const Stderr = "-"

// Options describes where and how much to log.
type Options struct {
	File       string // path, Stderr, or empty to discard
	Level      string // debug, info, warn, error
	MaxSizeMB  int
	MaxBackups int
}

// Setup builds a logger from opts, installs it as the slog default and
// returns a closer for the underlying writer.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	w, closer, err := writer(opts)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closer, nil
}

func writer(opts Options) (io.Writer, io.Closer, error) {
	switch opts.File {
	case "":
		return io.Discard, io.NopCloser(nil), nil
	case Stderr:
		return os.Stderr, io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	l := &lj.Logger{
		Filename:   opts.File,
		MaxSize:    valOr(opts.MaxSizeMB, 10),
		MaxBackups: valOr(opts.MaxBackups, 3),
	}
	return l, l, nil
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func valOr(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
