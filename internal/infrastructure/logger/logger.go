package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey string

// RequestIDKey is the context key under which the request id is stored.
const RequestIDKey ctxKey = "request_id"

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// New creates a new zerolog logger writing to stdout.
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a new zerolog logger writing to w.
func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	output := w

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    w != os.Stdout,
		}
	}

	return zerolog.New(output).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Caller().
		Logger()
}

// WithRequestID stores a request id in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// FromContext returns base enriched with the request id carried by ctx.
func FromContext(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		return base.With().Str("request_id", requestID).Logger()
	}
	return base
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
