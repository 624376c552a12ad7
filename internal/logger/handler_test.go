package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"log/slog"
)

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := newStructuredHandler(handlerConfig{
		level:  slog.LevelInfo,
		writer: buf,
		format: formatKV,
	})
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	log := slog.New(handler).With("component", "app")
	LogEvent(ctx, log, slog.LevelInfo, "test.event",
		slog.String("status", "ok"),
		slog.String("cause", "unit"),
	)

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=app", "event=test.event", "status=ok", "rid=rid-123"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := newStructuredHandler(handlerConfig{
		level:  slog.LevelInfo,
		writer: buf,
		format: formatJSON,
	})
	ctx := WithRID(Background(), "rid-json")
	ctx = WithUpdateMeta(ctx, 11, 22, 33)

	log := slog.New(handler).With("component", "service.test")
	LogEvent(ctx, log, slog.LevelError, "service.failed",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
		slog.String("err_code", "TEST_FAIL"),
	)

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["rid"] != "rid-json" {
		t.Fatalf("rid = %v", decoded["rid"])
	}
	if decoded["err_code"] != "TEST_FAIL" {
		t.Fatalf("err_code = %v", decoded["err_code"])
	}
	if decoded["user_id"] != float64(22) {
		t.Fatalf("user_id = %v", decoded["user_id"])
	}
}

func TestStructuredHandlerLevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := newStructuredHandler(handlerConfig{
		level:  slog.LevelWarn,
		writer: buf,
		format: formatKV,
	})
	log := slog.New(handler)
	LogEvent(Background(), log, slog.LevelInfo, "suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	LogEvent(Background(), log, slog.LevelWarn, "kept")
	if buf.Len() == 0 {
		t.Fatal("expected warn to pass")
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "walked\nthe dog"
	if got := Sanitize(in); strings.ContainsAny(got, "\n\r\t") {
		t.Fatalf("sanitize left control chars: %q", got)
	}
	if got := SanitizeLimit("abcdef", 3); got != "abc…" {
		t.Fatalf("limit = %q", got)
	}
	if got := SanitizeLimit("ab", 3); got != "ab" {
		t.Fatalf("short input changed: %q", got)
	}
}

func TestBuildRID(t *testing.T) {
	if got := BuildRID(5, 10, 15); got != "u5-c10-s15" {
		t.Fatalf("rid = %q", got)
	}
	anon := BuildRID(0, 0, 0)
	if len(anon) != 8 {
		t.Fatalf("expected 8-char random rid, got %q", anon)
	}
}
