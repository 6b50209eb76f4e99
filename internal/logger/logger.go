// Package logger builds the structured diagnostic logger. Diagnostics go to
// stderr so that stdout carries only the benchmark report.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelEnv names the environment variable that selects the log level.
const LevelEnv = "LOG_LEVEL"

// NewLogger returns a text logger writing to w at the level named by
// LOG_LEVEL (debug, info, warn/warning, error). Unset or unknown values
// fall back to warn, which keeps routine runs quiet.
func NewLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(os.Getenv(LevelEnv)),
	}))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Scope tags a record with the component that emitted it.
func Scope(name string) slog.Attr {
	return slog.String("scope", name)
}

func Error(err error) slog.Attr {
	return slog.Any("error", err)
}
