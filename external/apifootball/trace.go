package apifootball

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var clientTracer = otel.Tracer("matchday/external/apifootball")

// startSpan only creates child spans; background calls without a parent stay untraced.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return clientTracer.Start(ctx, name)
}
