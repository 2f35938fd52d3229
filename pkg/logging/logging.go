// Package logging builds the application logger: structured text
// records into a size-rotated file, so long-running TUI sessions never
// fill the disk and never write to the terminal the UI owns.
package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing to path with rotation. An empty path
// yields a discard logger.
func New(path string) *slog.Logger {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}
	return slog.New(slog.NewTextHandler(w, nil))
}
