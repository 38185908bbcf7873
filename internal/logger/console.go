package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const (
	ansiReset = "\033[0m"
	ansiDim   = "\033[90m"
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: ansiDim,
	slog.LevelInfo:  "\033[32m",
	slog.LevelWarn:  "\033[33m",
	slog.LevelError: "\033[31m",
}

// PrettyHandler prints one human-readable line per record:
//
//	15:04:05 INFO  message key=value group.key=value
type PrettyHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   slog.HandlerOptions
	color  bool
	prefix string // group path applied to attrs added after WithGroup
	attrs  []byte // pre-rendered WithAttrs output
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions, color bool) *PrettyHandler {
	h := &PrettyHandler{mu: &sync.Mutex{}, w: w, color: color}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(r.Time.Format("15:04:05"))
	buf.WriteByte(' ')
	if h.color {
		buf.WriteString(levelColors[r.Level])
	}
	fmt.Fprintf(&buf, "%-5s", r.Level.String())
	if h.color {
		buf.WriteString(ansiReset)
	}
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.Write(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *PrettyHandler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		a = h.opts.ReplaceAttr(groupsOf(prefix), a)
	}
	a.Value = a.Value.Resolve()
	if a.Key == "" && a.Value.Kind() != slog.KindGroup {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, inner, ga)
		}
		return
	}
	buf.WriteByte(' ')
	if h.color {
		fmt.Fprintf(buf, "%s%s%s=%s%v", ansiDim, prefix, a.Key, ansiReset, a.Value)
		return
	}
	fmt.Fprintf(buf, "%s%s=%v", prefix, a.Key, a.Value)
}

func groupsOf(prefix string) []string {
	if prefix == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(prefix, "."), ".")
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	var buf bytes.Buffer
	buf.Write(h.attrs)
	for _, a := range attrs {
		h.appendAttr(&buf, h.prefix, a)
	}
	h2.attrs = buf.Bytes()
	return &h2
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}
