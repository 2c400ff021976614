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
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

func paint(buf *bytes.Buffer, color, text string) {
	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

// paintValue writes a resolved attribute value in a color chosen by its
// kind. Strings are written without quotes.
func paintValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindInt64:
		paint(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		paint(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		paint(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			paint(buf, colorGreen, "true")
		} else {
			paint(buf, colorRed, "false")
		}
	case slog.KindDuration:
		paint(buf, colorMagenta, v.Duration().String())
	case slog.KindTime:
		paint(buf, colorBlue, v.Time().Format(time.RFC3339))
	default:
		if level, ok := v.Any().(slog.Level); ok {
			paint(buf, levelColor(level), level.String())

			return
		}

		paint(buf, colorCyan, v.String())
	}
}

// flatten expands groups into dotted keys and applies ReplaceAttr, the way
// the standard handlers present them.
func flatten(
	replace func([]string, slog.Attr) slog.Attr,
	groups []string,
	a slog.Attr,
	emit func(key string, v slog.Value),
) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, ga := range a.Value.Group() {
			flatten(replace, sub, ga, emit)
		}

		return
	}

	if replace != nil {
		a = replace(groups, a)
		a.Value = a.Value.Resolve()
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	emit(key, a.Value)
}

// prettyHandler holds the state shared by both pretty handlers: options,
// the serialized writer, and attributes and groups added with WithAttrs
// and WithGroup.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []groupedAttr
	groups []string
}

// groupedAttr is an attribute added with WithAttrs, together with the groups
// open at the time.
type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

func (h prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// fields emits the built-in fields followed by every attribute of r.
func (h prettyHandler) fields(r slog.Record, emit func(string, slog.Value)) {
	builtin := []slog.Attr{
		slog.Time(slog.TimeKey, r.Time),
		slog.Any(slog.LevelKey, r.Level),
	}

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			builtin = append(builtin, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	builtin = append(builtin, slog.String(slog.MessageKey, r.Message))

	for _, a := range builtin {
		if a.Key == slog.TimeKey && r.Time.IsZero() {
			continue
		}

		flatten(h.opts.ReplaceAttr, nil, a, emit)
	}

	for _, ga := range h.attrs {
		flatten(h.opts.ReplaceAttr, ga.groups, ga.attr, emit)
	}

	r.Attrs(func(a slog.Attr) bool {
		flatten(h.opts.ReplaceAttr, h.groups, a, emit)

		return true
	})
}

func (h prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	h.attrs = h.attrs[:len(h.attrs):len(h.attrs)]

	for _, a := range attrs {
		h.attrs = append(h.attrs, groupedAttr{groups: h.groups, attr: a})
	}

	return h
}

func (h prettyHandler) withGroup(name string) prettyHandler {
	if name != "" {
		h.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	}

	return h
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	h.fields(r, func(key string, v slog.Value) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		paint(buf, colorGray, key)
		buf.WriteByte('=')
		paintValue(buf, v)
	})

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented, colorized
// JSON-like object.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	buf.WriteString("{")

	first := true

	h.fields(r, func(key string, v slog.Value) {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		buf.WriteString("\n  ")
		paint(buf, colorGray, key)
		buf.WriteString(": ")
		paintValue(buf, v)
	})

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
