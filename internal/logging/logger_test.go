package logging

import (
	"bytes"
	"context"
	"testing"

	"cassandra/internal/observability"
)

func TestOrNopHandlesTypedNilPointers(t *testing.T) {
	var typed *printfLogger
	var logger Logger = typed
	if !IsNil(logger) {
		t.Fatalf("expected typed nil pointer to be detected")
	}
	safe := OrNop(logger)
	if IsNil(safe) {
		t.Fatalf("expected OrNop to return a usable logger")
	}
	safe.Info("hello %s", "world")
}

func TestFromObservabilityFormatsMessages(t *testing.T) {
	buf := &bytes.Buffer{}
	base := observability.NewLogger(observability.LogConfig{Level: "info", Format: "text", Output: buf})

	logger := FromObservabilityWithComponent(base, "planner")
	logger.Info("planned %d titles", 12)

	if !bytes.Contains(buf.Bytes(), []byte("planned 12 titles")) {
		t.Fatalf("expected formatted message, got %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("component=planner")) {
		t.Fatalf("expected component field, got %q", buf.String())
	}
}

func TestComponentLoggerFollowsDefault(t *testing.T) {
	logger := NewComponentLogger("sweeper")

	buf := &bytes.Buffer{}
	SetDefault(observability.NewLogger(observability.LogConfig{Level: "debug", Output: buf}))
	logger.Debug("removed %s", "old.pptx")

	if !bytes.Contains(buf.Bytes(), []byte("removed old.pptx")) {
		t.Fatalf("expected message routed to new default, got %q", buf.String())
	}
}

func TestFromContextPrefixesLogID(t *testing.T) {
	buf := &bytes.Buffer{}
	base := FromObservabilityWithComponent(observability.NewLogger(observability.LogConfig{Output: buf}), "http")

	ctx := observability.ContextWithLogID(context.Background(), "abc")
	FromContext(ctx, base).Warn("slow request")

	if !bytes.Contains(buf.Bytes(), []byte("log_id=abc slow request")) {
		t.Fatalf("expected log id prefix, got %q", buf.String())
	}
	if got := FromContext(context.Background(), base); got != base {
		t.Fatalf("expected logger unchanged without log id")
	}
}
