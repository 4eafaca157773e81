// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
)

// Init installs a text logger writing to w as the slog default. Debug records
// are only emitted when verbose is set.
func Init(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
