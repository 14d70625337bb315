package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a log level name to a slog level. Unknown names yield info.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger builds a logger writing to dest (stderr when nil) and installs it
// as the default. asJSON selects the JSON handler used by the MCP server; the
// CLI logs text.
func NewLogger(level string, dest io.Writer, asJSON bool) *slog.Logger {
	if dest == nil {
		dest = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if asJSON {
		handler = slog.NewJSONHandler(dest, opts)
	} else {
		handler = slog.NewTextHandler(dest, opts)
	}
	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}
