package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/trace"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := sonic.UnmarshalString(line, &entry); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestLogger_KeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Format: FormatJSON, Level: LevelInfo, Output: &buf}).Named("cache").With("backend", "file")

	logger.Warn("persist cache entry failed", "key", "fixtures_date=2024-05-01", "error", errors.New("disk full"), "dangling")
	logger.Debug("filtered out")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected one entry above debug, got %d", len(entries))
	}
	got := entries[0]
	if got["logger"] != "cache" || got["backend"] != "file" {
		t.Fatalf("expected name and bound fields, got %v", got)
	}
	if got["key"] != "fixtures_date=2024-05-01" || got["error"] != "disk full" {
		t.Fatalf("unexpected fields: %v", got)
	}
	if v, ok := got["dangling"]; !ok || v != nil {
		t.Fatalf("expected odd trailing key to log as null, got %v", got)
	}
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Format: FormatJSON, Level: LevelInfo, Output: &buf})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "served from cache")
	logger.InfoContext(context.Background(), "no span")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if entries[0]["trace_id"] != traceID.String() || entries[0]["span_id"] != spanID.String() {
		t.Fatalf("expected trace ids, got %v", entries[0])
	}
	if _, ok := entries[1]["trace_id"]; ok {
		t.Fatalf("did not expect trace id without a span: %v", entries[1])
	}
}

func TestLogger_NilAndDefault(t *testing.T) {
	var nilLogger *Logger
	nilLogger.Info("must not panic")
	if nilLogger.With("k", "v") == nil || nilLogger.Named("x") == nil {
		t.Fatalf("expected nop loggers from nil receiver")
	}

	SetDefault(nil)
	if Default() == nil {
		t.Fatalf("expected default logger")
	}
	if err := NewNop().Sync(); err != nil {
		t.Fatalf("sync nop: %v", err)
	}
}
