package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the pretty text handler.
var (
	styleKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleString = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleTrue   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFalse  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleTime   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleMsg    = lipgloss.NewStyle().Bold(true)

	styleLevel = map[slog.Level]lipgloss.Style{
		slog.Level(LevelTrace): lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		slog.LevelDebug:        lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		slog.LevelInfo:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		slog.LevelWarn:         lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		slog.LevelError:        lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// prettyHandler implements a colourised single-line text handler.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	groups     []string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(styleTime.Render(ts))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(levelStyle(r.Level).Render(fmt.Sprintf("%-5s", Level(r.Level).label())))
	buf.WriteByte(' ')

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			buf.WriteString(styleKey.Render(fmt.Sprintf("%s:%d", src.File, src.Line)))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(styleMsg.Render(r.Message))

	for _, a := range h.attrs {
		h.writeAttr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// qualify prefixes attribute keys with the handler's open groups.
func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if len(h.groups) == 0 {
		return attrs
	}

	prefix := strings.Join(h.groups, ".") + "."
	out := make([]slog.Attr, len(attrs))

	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, g := range a.Value.Group() {
			if a.Key != "" {
				g.Key = a.Key + "." + g.Key
			}

			h.writeAttr(buf, g)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(styleKey.Render(a.Key + "="))
	buf.WriteString(renderValue(a.Value))
}

func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return styleString.Render(v.String())

	case slog.KindInt64:
		return styleNumber.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return styleNumber.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return styleNumber.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return styleTrue.Render("true")
		}

		return styleFalse.Render("false")

	case slog.KindDuration:
		return styleNumber.Render(v.Duration().String())

	case slog.KindTime:
		return styleTime.Render(v.Time().String())

	default:
		return styleString.Render(v.String())
	}
}

func levelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return styleLevel[slog.LevelError]
	case level >= slog.LevelWarn:
		return styleLevel[slog.LevelWarn]
	case level >= slog.LevelInfo:
		return styleLevel[slog.LevelInfo]
	case level >= slog.LevelDebug:
		return styleLevel[slog.LevelDebug]
	default:
		return styleLevel[slog.Level(LevelTrace)]
	}
}
