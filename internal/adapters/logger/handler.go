package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/elmstronaut/internal/ui/output"
	"go.trai.ch/elmstronaut/internal/ui/style"
)

// PrettyHandler is a slog.Handler writing one colored line per record.
// Multi-line messages, such as compiler reports, are written as is.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	prefix string
	// fields holds the preformatted handler attributes, "key=value" each.
	fields []string
}

// NewPrettyHandler creates a PrettyHandler writing to w, or stderr when w is nil.
// The level is read on every record, so a *slog.LevelVar can be changed later.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}
	h := &PrettyHandler{out: output.New(w), level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// levelMark returns the icon and palette color of a level.
// Info records carry no icon.
func levelMark(level slog.Level) (string, lipgloss.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, style.Red
	case level >= slog.LevelWarn:
		return style.Warning, style.Yellow
	case level >= slog.LevelInfo:
		return "", style.ElmBlue
	default:
		return style.Dot, style.Slate
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := levelMark(r.Level)

	var sb strings.Builder
	if icon != "" {
		sb.WriteString(icon)
		sb.WriteByte(' ')
	}
	sb.WriteString(r.Message)

	fields := h.fields
	r.Attrs(func(attr slog.Attr) bool {
		fields = append(fields[:len(fields):len(fields)], h.field(attr))
		return true
	})
	for _, f := range fields {
		sb.WriteByte(' ')
		sb.WriteString(f)
	}

	_, err := h.out.WriteString(output.Paint(h.out, sb.String(), color) + "\n")
	return err
}

func (h *PrettyHandler) field(attr slog.Attr) string {
	return h.prefix + attr.Key + "=" + attr.Value.String()
}

func (h *PrettyHandler) clone() *PrettyHandler {
	c := *h
	c.fields = append([]string(nil), h.fields...)
	return &c
}

// WithAttrs returns a handler that writes attrs with every record.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	for _, attr := range attrs {
		c.fields = append(c.fields, h.field(attr))
	}
	return c
}

// WithGroup returns a handler that prefixes later attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.prefix = h.prefix + name + "."
	return c
}
