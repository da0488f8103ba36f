// Package logging provides structured logging for the collaboration engine
// using Go's log/slog package.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/cubeforge/collab/errors"
)

// Logger wraps slog.Logger with engine-specific convenience methods.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level     string `json:"level"`      // debug, info, warn, error
	Format    string `json:"format"`     // text, json
	AddSource bool   `json:"add_source"` // include source code position
}

// DefaultConfig is the configuration used when none is provided.
var DefaultConfig = Config{
	Level:  "info",
	Format: "text",
}

var defaultLogger *Logger

// Operation and Component log as plain strings so call sites can pass the
// typed constants from the errors package directly.
type Operation string

func (o Operation) LogValue() slog.Value {
	return slog.StringValue(string(o))
}

type Component string

func (c Component) LogValue() slog.Value {
	return slog.StringValue(string(c))
}

// engineErrorValuer renders an EngineError as a structured group.
type engineErrorValuer struct {
	*errors.EngineError
}

func (e engineErrorValuer) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("operation", string(e.Op)),
		slog.String("component", e.Component),
		slog.String("kind", string(e.Kind)),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	if e.Metadata != nil {
		meta := make([]slog.Attr, 0, len(e.Metadata))
		for k, v := range e.Metadata {
			meta = append(meta, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Any("metadata", slog.GroupValue(meta...)))
	}
	return slog.GroupValue(attrs...)
}

// NewLogger creates a new logger writing to w with the provided
// configuration. A nil w defaults to os.Stderr.
func NewLogger(w io.Writer, config Config) *Logger {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Level
	switch config.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops every record. Used as the fallback
// when a caller passes no logger.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Init initializes the package-level logger.
func Init(config Config) {
	defaultLogger = NewLogger(os.Stderr, config)
}

// Default returns the package-level logger, initializing it on first use.
func Default() *Logger {
	if defaultLogger == nil {
		Init(GetConfigFromEnv())
	}
	return defaultLogger
}

// WithOperation creates a child logger with operation context.
func (l *Logger) WithOperation(op errors.Operation) *Logger {
	return &Logger{Logger: l.With(slog.Any("operation", Operation(op)))}
}

// WithComponent creates a child logger with component context.
func (l *Logger) WithComponent(component Component) *Logger {
	return &Logger{Logger: l.With(slog.Any("component", component))}
}

// LogError logs an error with structured attributes. EngineErrors are
// expanded into their operation/component/kind parts.
func (l *Logger) LogError(ctx context.Context, err error, msg string, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+1)
	if ee, ok := err.(*errors.EngineError); ok {
		args = append(args, slog.Any("engine_error", engineErrorValuer{EngineError: ee}))
	} else {
		args = append(args, slog.String("error", err.Error()))
	}
	for _, attr := range attrs {
		args = append(args, attr)
	}
	l.ErrorContext(ctx, msg, args...)
}
