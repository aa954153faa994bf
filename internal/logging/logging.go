// Package logging builds the structured loggers used by the server, the CLI
// and the optimizer diagnostics.
package logging

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a timestamped logger writing to w at the given level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ParseLevel maps LOG_LEVEL style strings to a level, defaulting to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Discard is a logger that drops everything; handy as a zero value.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger attaches l to ctx.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger attached to ctx, or log.Default().
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
