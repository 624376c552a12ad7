package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"log/slog"
)

type logFormat string

const (
	formatKV   logFormat = "kv"
	formatJSON logFormat = "json"
)

// defaultKeyOrder controls which fields lead every line; any remaining
// fields follow alphabetically.
var defaultKeyOrder = []string{
	"ts", "level", "component", "event", "status",
	"rid", "update_id", "chat_id", "user_id", "handler",
	"err", "err_code",
}

type handlerConfig struct {
	level  slog.Level
	writer io.Writer
	format logFormat
}

// structuredHandler renders records as single ordered lines, either
// key=value or JSON, enriched with request metadata from the context.
type structuredHandler struct {
	cfg   handlerConfig
	attrs []slog.Attr
	mu    *sync.Mutex
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	return &structuredHandler{cfg: cfg, mu: &sync.Mutex{}}
}

func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level
}

func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	fields := map[string]any{
		"ts":    r.Time.UTC().Format(time.RFC3339Nano),
		"level": r.Level.String(),
		"event": r.Message,
	}

	for _, attr := range h.attrs {
		collectAttr(fields, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		collectAttr(fields, attr)
		return true
	})

	addContextFields(ctx, fields)

	var (
		line []byte
		err  error
	)
	switch h.cfg.format {
	case formatJSON:
		line, err = json.Marshal(orderedFields(fields))
	default:
		line = formatKVLine(fields)
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.cfg.writer.Write(append(line, '\n'))
	return err
}

func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *structuredHandler) WithGroup(name string) slog.Handler {
	// Groups are flattened; the schema is intentionally flat.
	return h
}

func collectAttr(fields map[string]any, attr slog.Attr) {
	if attr.Key == "" {
		return
	}
	val := attr.Value.Resolve()
	if val.Kind() == slog.KindGroup {
		for _, nested := range val.Group() {
			collectAttr(fields, nested)
		}
		return
	}
	if d, ok := val.Any().(time.Duration); ok {
		fields[attr.Key] = d.String()
		return
	}
	fields[attr.Key] = val.Any()
}

func addContextFields(ctx context.Context, fields map[string]any) {
	if ctx == nil {
		return
	}
	if rid := RIDFrom(ctx); rid != "" {
		fields["rid"] = rid
	}
	if h := HandlerFrom(ctx); h != "" {
		if _, ok := fields["handler"]; !ok {
			fields["handler"] = h
		}
	}
	if id := UpdateIDFrom(ctx); id != 0 {
		fields["update_id"] = id
	}
	if id := UserIDFrom(ctx); id != 0 {
		fields["user_id"] = id
	}
	if id := ChatIDFrom(ctx); id != 0 {
		fields["chat_id"] = id
	}
}

func orderedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, k := range defaultKeyOrder {
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
			seen[k] = struct{}{}
		}
	}
	var rest []string
	for k := range fields {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// orderedMap marshals with a stable key order.
type orderedMap struct {
	keys   []string
	fields map[string]any
}

func orderedFields(fields map[string]any) orderedMap {
	return orderedMap{keys: orderedKeys(fields), fields: fields}
}

func (m orderedMap) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.fields[k])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func formatKVLine(fields map[string]any) []byte {
	var b strings.Builder
	for i, k := range orderedKeys(fields) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValueKV(fields[k]))
	}
	return []byte(b.String())
}

func formatValueKV(val any) string {
	s := fmt.Sprintf("%v", val)
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
