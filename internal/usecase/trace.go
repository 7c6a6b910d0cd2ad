package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("pinball-leaderboard/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

const (
	attrRows      = attribute.Key("leaderboard.rows")
	attrErrorKind = attribute.Key("leaderboard.error_kind")
)

// startUsecaseSpan only opens a child span when the caller is already traced.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name)
}

func recordRows(span trace.Span, n int) {
	span.SetAttributes(attrRows.Int(n))
}

// recordFailure tags span with the Kind the HTTP layer maps err to and returns err.
func recordFailure(span trace.Span, err error) error {
	if err == nil {
		return nil
	}
	kind := KindOf(err).String()
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	span.SetAttributes(attrErrorKind.String(kind))
	return err
}
