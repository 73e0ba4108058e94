// Package logger provides structured logging for both servers: a JSON slog
// setup keyed off configuration, and context helpers so request-scoped
// loggers (with trace IDs attached) flow through service code.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/grouptaskmanager/taskflow/internal/config"
)

// Setup configures the application's logging from the server configuration:
// a JSON handler on stdout at the configured level. The returned logger is
// also installed as the slog default.
func Setup(cfg config.ServerConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// contextKey is a private type for context keys defined in this package.
type contextKey int

const loggerKey contextKey = iota

// WithLogger returns a context carrying the given logger.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger carried by the context, if any.
func FromContext(ctx context.Context) (*slog.Logger, bool) {
	log, ok := ctx.Value(loggerKey).(*slog.Logger)
	return log, ok
}

// FromContextOrDefault returns the context's logger, falling back to the
// provided default. Handlers use this so request-scoped attributes (trace
// ID) appear on every log line without threading a logger argument around.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if log, ok := FromContext(ctx); ok {
		return log
	}
	return def
}
