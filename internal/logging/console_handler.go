package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const timeLayout = "15:04:05.000"

var levelStyles = map[slog.Level]lipgloss.Style{
	slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

// consoleHandler writes one line per record:
//
//	15:04:05.000 INFO  [component] message key=value ...
type consoleHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  *slog.LevelVar
	color  bool
	attrs  []slog.Attr
	groups []string
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, color bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, writer: w, level: lvl, color: color}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var component string
	var fields []string
	add := func(prefix string, a slog.Attr) {
		a.Value = a.Value.Resolve()
		if a.Key == "component" && prefix == "" {
			if component == "" {
				component = a.Value.String()
			}
			return
		}
		if a.Equal(slog.Attr{}) {
			return
		}
		fields = append(fields, prefix+a.Key+"="+formatValue(a.Value))
	}
	prefix := strings.Join(h.groups, ".")
	if prefix != "" {
		prefix += "."
	}
	for _, a := range h.attrs {
		add("", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		add(prefix, a)
		return true
	})

	var buf bytes.Buffer
	buf.WriteString(ts.Format(timeLayout))
	buf.WriteByte(' ')
	buf.WriteString(h.levelLabel(record.Level))
	if component != "" {
		buf.WriteString(" [")
		buf.WriteString(component)
		buf.WriteByte(']')
	}
	buf.WriteByte(' ')
	buf.WriteString(record.Message)
	for _, f := range fields {
		buf.WriteByte(' ')
		buf.WriteString(f)
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), qualify(h.groups, attrs)...)
	return &nh
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.groups = append(append([]string{}, h.groups...), name)
	return &nh
}

func (h *consoleHandler) levelLabel(level slog.Level) string {
	label := fmt.Sprintf("%-5s", level.String())
	if !h.color {
		return label
	}
	style, ok := levelStyles[level]
	if !ok {
		return label
	}
	return style.Render(label)
}

// qualify prefixes attr keys with the open groups so WithAttrs after
// WithGroup keeps the group path.
func qualify(groups []string, attrs []slog.Attr) []slog.Attr {
	if len(groups) == 0 {
		return attrs
	}
	prefix := strings.Join(groups, ".") + "."
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}
	return out
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return fmt.Sprintf("%q", s)
		}
		return s
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindFloat64:
		return fmt.Sprintf("%.4g", v.Float64())
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, a.Key+"="+formatValue(a.Value.Resolve()))
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return v.String()
	}
}
