// Package log wraps log/slog with the small conventions shared by the
// server and worker binaries: a text handler on stdout, a level taken from
// the environment, and a per-component attribute.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup builds the process logger and installs it as the slog default.
// LOG_LEVEL selects the level (debug, info, warn, error); anything else
// falls back to info.
func Setup() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	}))
	slog.SetDefault(logger)
	return logger
}

// ForComponent returns a child logger tagged with a component attribute,
// e.g. "storage" or "sync_worker".
func ForComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
