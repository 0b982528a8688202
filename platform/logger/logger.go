// Package logger wraps slog with the event helpers the service logs through.
// Records carry request_id and session_id when the context has them.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type contextKey string

const (
	// RequestIDKey holds the X-Request-ID of the current request.
	RequestIDKey contextKey = "request_id"
	// SessionIDKey holds the coverage widget session.
	SessionIDKey contextKey = "session_id"
)

type Logger struct {
	*slog.Logger
}

// New logs to stdout.
func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter logs to w: text at debug level in development, JSON at info
// level everywhere else.
func NewWithWriter(env string, w io.Writer) *Logger {
	if strings.EqualFold(env, "development") {
		return &Logger{Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

// Discard drops every record. Used by tests and optional dependencies.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithContext attaches the request and session ids found on ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	var attrs []any
	for _, key := range []contextKey{RequestIDKey, SessionIDKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}
	if len(attrs) == 0 {
		return l
	}
	return &Logger{Logger: l.With(attrs...)}
}

func (l *Logger) HTTPRequest(method, path string, status int, latency time.Duration, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Int64("latency_ms", latency.Milliseconds()),
		slog.String("client_ip", clientIP),
	)
}

func (l *Logger) HTTPError(method, path string, status int, err error, clientIP string) {
	l.Error("http_error",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
		slog.String("client_ip", clientIP),
	)
}

// CoverageChecked records a verdict. street is the normalized name.
func (l *Logger) CoverageChecked(verdict, street string, number int, duration time.Duration) {
	l.Info("coverage_checked",
		slog.String("verdict", verdict),
		slog.String("street", street),
		slog.Int("number", number),
		slog.Int64("duration_ms", duration.Milliseconds()),
	)
}

func (l *Logger) GeocodeFailed(query string, err error) {
	l.Warn("geocode_failed",
		slog.String("query", query),
		slog.String("error", err.Error()),
	)
}

func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
