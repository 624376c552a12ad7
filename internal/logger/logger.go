// Package logger provides the structured slog stack shared by all bot
// components: a single ordered-line handler, named component loggers and
// context-carried request metadata (rid, update/chat/user ids).
package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"log/slog"

	"daylog/internal/config"
)

// Named loggers for the main components. They all share the root handler
// and differ only in their component attribute.
var (
	L   = slog.Default()
	DB  = slog.Default()
	TG  = slog.Default()
	MIG = slog.Default()
)

var root *slog.Logger

// InitLogger configures the process-wide logging stack from config.
func InitLogger(cfg *config.Config) error {
	level := selectLevel(cfg)
	format := selectFormat(cfg)

	handler := newStructuredHandler(handlerConfig{
		level:  level,
		writer: os.Stderr,
		format: format,
	})
	root = slog.New(handler)
	slog.SetDefault(root)

	L = root.With("component", "app")
	DB = root.With("component", "db")
	TG = root.With("component", "tg")
	MIG = root.With("component", "migrate")

	L.Info("logger.init",
		slog.String("level", level.String()),
		slog.String("format", string(format)),
	)
	return nil
}

// Shutdown flushes the logging stack. Output is synchronous, so this only
// exists to keep the runner's lifecycle symmetrical.
func Shutdown() error {
	return nil
}

// Component returns a logger annotated with the given component name.
func Component(name string) *slog.Logger {
	base := root
	if base == nil {
		base = slog.Default()
	}
	return base.With("component", name)
}

// LogEvent emits an event with attrs through the given logger.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logg.LogAttrs(ctx, level, event, attrs...)
}

// Debug logs a debug event for a component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelDebug, event, attrs...)
}

// Info logs an info event for a component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelInfo, event, attrs...)
}

// Warn logs a warning event for a component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelWarn, event, attrs...)
}

// Error logs an error event for a component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelError, event, attrs...)
}

// RoundMS rounds a duration to whole milliseconds for log output.
func RoundMS(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}

func selectLevel(cfg *config.Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
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

func selectFormat(cfg *config.Config) logFormat {
	if cfg == nil {
		return formatKV
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Format)) {
	case "json":
		return formatJSON
	default:
		return formatKV
	}
}
