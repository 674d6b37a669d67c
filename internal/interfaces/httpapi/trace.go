package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/matchday/internal/usecase"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("matchday/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// untracedHandlers are handler-scoped names that only add noise under the
// otelhttp server span.
var untracedHandlers = map[string]struct{}{
	"httpapi.Handler.Healthz":       {},
	"httpapi.Handler.validateQuery": {},
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		// Filtered routes such as /healthz carry no parent; helpers stay untraced there.
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	if !strings.HasPrefix(name, handlerSpanPrefix) {
		return false
	}
	_, skip := untracedHandlers[name]
	return !skip
}

// annotateMeta records whether a response was served from the network or the
// cache so stale answers can be found in traces.
func annotateMeta(span trace.Span, meta usecase.Meta, unrecognized int) {
	if !span.IsRecording() {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("matchday.source", string(meta.Source)),
		attribute.Bool("matchday.stale", meta.Stale),
		attribute.Int("matchday.unrecognized", unrecognized),
	}
	if meta.FallbackCause != "" {
		attrs = append(attrs, attribute.String("matchday.fallback_cause", meta.FallbackCause))
	}
	span.SetAttributes(attrs...)
}
