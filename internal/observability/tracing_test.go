package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/leslieo2/status-lights/internal/config"
)

func TestNewTracer_Disabled(t *testing.T) {
	tracer, err := NewTracer(config.DefaultObservabilityConfig().Tracing)
	if err != nil {
		t.Fatalf("NewTracer() returned error: %v", err)
	}

	_, span := tracer.StartSpan(context.Background(), "statuspage.fetch",
		attribute.String("url", "https://example.com/api/v2/summary.json"))
	if span == nil {
		t.Fatal("StartSpan() returned nil span")
	}
	span.End()

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() of a disabled tracer returned error: %v", err)
	}
}

func TestNewTracer_Enabled(t *testing.T) {
	cfg := config.DefaultObservabilityConfig().Tracing
	cfg.Enabled = true

	tracer, err := NewTracer(cfg)
	if err != nil {
		t.Fatalf("NewTracer() returned error: %v", err)
	}

	ctx, span := tracer.StartSpan(context.Background(), "statuspage.fetch")
	if !span.SpanContext().IsValid() {
		t.Error("expected a recording span with a valid context")
	}
	span.End()

	if err := tracer.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() returned error: %v", err)
	}
}
