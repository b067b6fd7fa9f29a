package obs

import (
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[slog.Logger]

// Setup builds the process logger from LOG_LEVEL and LOG_FORMAT and installs it
// as the slog default. Output always goes to stderr.
func Setup() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}

	l := slog.New(h)
	defaultLogger.Store(l)
	slog.SetDefault(l)
	return l
}

// L returns the process logger, running Setup on first use.
func L() *slog.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	return Setup()
}
