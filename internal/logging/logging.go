// Package logging configures structured logging and defines the attribute
// keys shared by the build pipeline.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// ErrInvalidFormat indicates an unknown log output format.
var ErrInvalidFormat = errors.New("invalid log format")

// Canonical attribute keys, so every stage logs the same names.
const (
	KeyComponent  = "component"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// New builds a logger writing to w. Format is "text" (default) or "json".
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: %q (use text or json)", ErrInvalidFormat, format)
	}
	return slog.New(handler), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel maps debug|info|warn|error to a slog level; anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func Component(name string) slog.Attr   { return slog.String(KeyComponent, name) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr           { return slog.String(KeySlug, s) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
