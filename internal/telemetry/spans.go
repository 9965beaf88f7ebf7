package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan opens a span named name on the engine tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// FinishSpan records err (if any) on span and ends it.
func FinishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// PairAttributes describes a symbol pair on a span.
func PairAttributes(symbol1, symbol2 string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("pair.symbol1", symbol1),
		attribute.String("pair.symbol2", symbol2),
	}
}
