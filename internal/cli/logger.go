package cli

import (
	"io"
	"log/slog"
	"strings"
)

// newLogger builds the text logger shared by every command. Unknown levels
// fall back to info.
func newLogger(w io.Writer, level string, debug bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	if debug {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
