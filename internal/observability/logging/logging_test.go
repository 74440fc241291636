package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	return out
}

func TestHandler_Attributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, HandlerConfig{
		Service:       ServiceInfo{Name: "exercise-reminder", Version: "1.2.3"},
		Environment:   EnvDev,
		Level:         slog.LevelDebug,
		DefaultModule: Module("reminder"),
	}))

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))
	ctx = WithRequestID(ctx, "req-1")

	logger.InfoContext(ctx, "queue ensured", slog.Int("scheduled", 3))
	line := decodeLine(t, &buf)

	checks := map[string]any{
		"message":    "queue ensured",
		"severity":   "INFO",
		"env":        "dev",
		"trace_id":   "0102030405060708090a0b0c0d0e0f10",
		"span_id":    "0102030405060708",
		"request_id": "req-1",
		"module":     "reminder",
		"scheduled":  float64(3),
	}
	for key, want := range checks {
		if line[key] != want {
			t.Errorf("%s = %v, want %v", key, line[key], want)
		}
	}

	service, ok := line["service"].(map[string]any)
	if !ok || service["name"] != "exercise-reminder" || service["version"] != "1.2.3" {
		t.Errorf("service = %v", line["service"])
	}
}

func TestHandler_ModuleOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, HandlerConfig{DefaultModule: Module("reminder")}))

	logger.InfoContext(WithModule(context.Background(), Module("delivery")), "fired")
	if got := decodeLine(t, &buf)["module"]; got != "delivery" {
		t.Errorf("module = %v, want delivery", got)
	}
}

func TestValidateAndExtractRequestID(t *testing.T) {
	if got := ValidateAndExtractRequestID("abc-123"); got != "abc-123" {
		t.Errorf("valid id replaced: %q", got)
	}
	for _, id := range []string{"", "has space", "line\nbreak"} {
		got := ValidateAndExtractRequestID(id)
		if got == id || got == "" {
			t.Errorf("ValidateAndExtractRequestID(%q) = %q, want generated id", id, got)
		}
	}
}
