// Package logging builds the leveled slog.Logger shared across the
// assembler pipeline, mirroring the debug/error split the original Rust
// implementation drives through the log crate.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New builds a *slog.Logger writing to w, with level and format ("text" or
// "json") controlling verbosity and encoding. An unrecognized level falls
// back to info; an unrecognized format falls back to text.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
