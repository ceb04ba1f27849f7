package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Backend selects the handler behind a Logger.
type Backend string

const (
	BackendText Backend = "text"
	BackendJSON Backend = "json"
	BackendZap  Backend = "zap"
)

// ParseLevel maps "debug", "info", "warn", "error" to slog levels.
// Anything else is treated as info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New builds a Logger writing to w with the given backend and level.
func New(w io.Writer, backend Backend, level slog.Level) Logger {
	switch backend {
	case BackendZap:
		return NewZapLogger(w, level)
	case BackendJSON:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
	default:
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	}
}

// Nop returns a Logger that discards everything. Handy in tests.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
