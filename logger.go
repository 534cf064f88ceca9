package jagged

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/jagged/form"
)

// Logger wraps slog.Logger with jagged-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithForm adds the root class and buffer count of f to the logger.
func (l *Logger) WithForm(f *form.Form) *Logger {
	if f == nil {
		return l
	}
	return &Logger{
		Logger: l.Logger.With("class", string(f.Class), "buffers", len(f.Keys())),
	}
}

// WithLength adds a length field to the logger.
func (l *Logger) WithLength(length int) *Logger {
	return &Logger{
		Logger: l.Logger.With("length", length),
	}
}

// LogFromIter logs a conversion from generic values.
func (l *Logger) LogFromIter(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "from_iter failed",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "from_iter completed",
			"count", count,
		)
	}
}

// LogToBuffers logs a node export. bytes is the total size of the buffers.
func (l *Logger) LogToBuffers(ctx context.Context, length int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "to_buffers failed",
			"length", length,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "to_buffers completed",
			"length", length,
			"size", humanize.IBytes(uint64(max(bytes, 0))),
		)
	}
}

// LogFromBuffers logs a node reconstruction.
func (l *Logger) LogFromBuffers(ctx context.Context, length int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "from_buffers failed",
			"length", length,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "from_buffers completed",
			"length", length,
		)
	}
}

// LogSave logs a container write. target is a path or a blob-store prefix.
func (l *Logger) LogSave(ctx context.Context, target, generation string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"target", target,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "container saved",
			"target", target,
			"generation", generation,
		)
	}
}

// LogLoad logs a container read.
func (l *Logger) LogLoad(ctx context.Context, target string, length int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"target", target,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "container loaded",
			"target", target,
			"length", length,
		)
	}
}
