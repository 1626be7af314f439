// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// SearchEvent logs an executed search query with its outcome.
func (l *Logger) SearchEvent(query string, page, pageSize, returned, total int, latencyMs float64) {
	l.Info("search_event",
		slog.String("query", query),
		slog.Int("page", page),
		slog.Int("page_size", pageSize),
		slog.Int("returned", returned),
		slog.Int("total", total),
		slog.Float64("latency_ms", latencyMs),
	)
}

// EngineError logs a failed call to the search engine.
func (l *Logger) EngineError(operation string, err error) {
	l.Error("engine_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// MalformedResponse logs an engine response that was missing its expected
// shape and was normalized to an empty result set. Logged, never swallowed.
func (l *Logger) MalformedResponse(operation, detail string) {
	l.Warn("malformed_engine_response",
		slog.String("operation", operation),
		slog.String("detail", detail),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
