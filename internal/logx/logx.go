// Package logx provides a compact slog handler that prints
// "[photomark] LEVEL msg k=v ..." lines with levels colored for the terminal.
package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// UserLevel is the level used by New when debug is false.
var UserLevel = slog.LevelInfo

// Prefix starts every line.
const Prefix = "[photomark]"

// Handler is a slog.Handler writing single-line records.
type Handler struct {
	mu    *sync.Mutex
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewHandler returns a handler writing to w at level. Colors follow the
// terminal profile of w, so non-terminals get plain text.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{
		mu:    &sync.Mutex{},
		out:   termenv.NewOutput(w),
		level: level,
	}
}

// New returns a logger at UserLevel, or at debug level when debug is set.
func New(w io.Writer, debug bool) *slog.Logger {
	level := UserLevel
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(NewHandler(w, level))
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(Prefix)
	b.WriteByte(' ')
	b.WriteString(h.levelString(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if nh.group != "" {
		nh.group += "." + name
	} else {
		nh.group = name
	}
	return &nh
}

func (h *Handler) levelString(l slog.Level) string {
	s := h.out.String(fmt.Sprintf("%-5s", l.String()))
	switch {
	case l >= slog.LevelError:
		s = s.Foreground(h.out.Color("#ef4444")).Bold()
	case l >= slog.LevelWarn:
		s = s.Foreground(h.out.Color("#f59e0b"))
	case l >= slog.LevelInfo:
		s = s.Foreground(h.out.Color("#3b82f6"))
	default:
		s = s.Faint()
	}
	return s.String()
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		g := a.Key
		if group != "" {
			g = group + "." + a.Key
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, g, ga)
		}
		return
	}
	b.WriteByte(' ')
	if group != "" {
		b.WriteString(group)
		b.WriteByte('.')
	}
	b.WriteString(a.Key)
	b.WriteByte('=')
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if strings.ContainsAny(v, " \t\"=") || v == "" {
			v = fmt.Sprintf("%q", v)
		}
		b.WriteString(v)
	case slog.KindDuration:
		b.WriteString(a.Value.Duration().Round(time.Microsecond).String())
	default:
		b.WriteString(a.Value.String())
	}
}
