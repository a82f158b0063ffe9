// File: internal/logger/logger.go
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Overrides the level chosen by the --debug flag, e.g. BUCKETBRIDGE_LOG_LEVEL=warn
const LevelEnv = "BUCKETBRIDGE_LOG_LEVEL"

// NewLogger writes text logs to stderr so command output on stdout stays machine-readable
func NewLogger(debug bool) *slog.Logger {
	logger := New(os.Stderr, Level(debug, os.Getenv(LevelEnv)))
	slog.SetDefault(logger)
	return logger
}

func New(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// Level resolves the log level. An explicit level name wins over the debug flag;
// unknown names are ignored.
func Level(debug bool, name string) slog.Level {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return level
}
