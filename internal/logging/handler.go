package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// SanitizingHandler redacts the message and string attributes of every
// record before passing it on.
type SanitizingHandler struct {
	handler   slog.Handler
	sanitizer *Sanitizer
}

// NewSanitizingHandler creates a new sanitizing handler.
func NewSanitizingHandler(handler slog.Handler, sanitizer *Sanitizer) *SanitizingHandler {
	return &SanitizingHandler{handler: handler, sanitizer: sanitizer}
}

// Enabled reports whether the wrapped handler handles the level.
func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record and passes it to the wrapped handler.
func (h *SanitizingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, h.sanitizer.Sanitize(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs returns a handler with sanitized attrs.
func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.sanitizeAttr(a)
	}
	return &SanitizingHandler{handler: h.handler.WithAttrs(clean), sanitizer: h.sanitizer}
}

// WithGroup returns a handler with a group.
func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{handler: h.handler.WithGroup(name), sanitizer: h.sanitizer}
}

func (h *SanitizingHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, h.sanitizer.Sanitize(a.Value.String()))
	case slog.KindGroup:
		group := a.Value.Group()
		clean := make([]slog.Attr, len(group))
		for i, ga := range group {
			clean[i] = h.sanitizeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, h.sanitizer.Sanitize(err.Error()))
		}
		return a
	default:
		return a
	}
}

// PrettyHandler writes compact colored lines for a terminal.
type PrettyHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Level
	attrs  []slog.Attr
	groups []string
	styles prettyStyles
}

type prettyStyles struct {
	debug, info, warn, err, key, time lipgloss.Style
}

// NewPrettyHandler creates a pretty handler writing to w.
func NewPrettyHandler(w io.Writer, level slog.Level) *PrettyHandler {
	r := lipgloss.NewRenderer(w)
	return &PrettyHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
		styles: prettyStyles{
			debug: r.NewStyle().Foreground(lipgloss.Color("8")),
			info:  r.NewStyle().Foreground(lipgloss.Color("4")),
			warn:  r.NewStyle().Foreground(lipgloss.Color("3")),
			err:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
			key:   r.NewStyle().Foreground(lipgloss.Color("6")),
			time:  r.NewStyle().Faint(true),
		},
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes the record on one line.
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(h.styles.time.Render(r.Time.Format("15:04:05")))
	b.WriteByte(' ')
	b.WriteString(h.formatLevel(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		h.writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a handler with attrs.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

// WithGroup returns a handler with a group.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

func (h *PrettyHandler) formatLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return h.styles.err.Render("ERR")
	case level >= slog.LevelWarn:
		return h.styles.warn.Render("WRN")
	case level >= slog.LevelInfo:
		return h.styles.info.Render("INF")
	default:
		return h.styles.debug.Render("DBG")
	}
}

func (h *PrettyHandler) writeAttr(b *strings.Builder, a slog.Attr) {
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.writeAttr(b, ga)
		}
		return
	}
	key := a.Key
	for i := len(h.groups) - 1; i >= 0; i-- {
		key = h.groups[i] + "." + key
	}
	fmt.Fprintf(b, " %s=%v", h.styles.key.Render(key), a.Value.Any())
}
