// Package logging is the structured logger shared by the crash pipeline and
// the CLI. On the crash path it is the fallback diagnostic channel: every
// failure that must not escape the handler ends up here.
package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Logger wraps slog.Logger with secret redaction.
type Logger struct {
	*slog.Logger
	sanitizer *Sanitizer
}

// Config configures the logger.
type Config struct {
	Level     string
	Format    string // auto, text, json
	Output    io.Writer
	AddSource bool
}

// DefaultConfig logs at info level to stderr, so crash diagnostics never mix
// with a program's regular output.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "auto",
		Output: os.Stderr,
	}
}

// New creates a logger.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	level := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}
	sanitizer := NewSanitizer()

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(cfg.Output, opts)
	case "text":
		handler = slog.NewTextHandler(cfg.Output, opts)
	default:
		if IsTerminal(cfg.Output) {
			handler = NewPrettyHandler(cfg.Output, level)
		} else {
			handler = slog.NewTextHandler(cfg.Output, opts)
		}
	}

	return &Logger{
		Logger:    slog.New(NewSanitizingHandler(handler, sanitizer)),
		sanitizer: sanitizer,
	}
}

// NewNop creates a logger that discards everything.
func NewNop() *Logger {
	return &Logger{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		sanitizer: NewSanitizer(),
	}
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// WithGoroutine returns a logger tagged with a goroutine id.
func (l *Logger) WithGoroutine(id uint64) *Logger {
	return l.With("goroutine", id)
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

// With returns a logger with custom fields.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		sanitizer: l.sanitizer,
	}
}

// Sanitizer returns the sanitizer used by this logger.
func (l *Logger) Sanitizer() *Sanitizer {
	return l.sanitizer
}
