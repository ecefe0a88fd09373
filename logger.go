package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog.Logger tagged with the component name. The
// level is read on every record, so a *slog.LevelVar can be raised later.
func NewLogger(level slog.Leveler) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", "editor")
}
