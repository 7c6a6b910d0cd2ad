package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("pinball-leaderboard/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

const (
	attrRoute     = attribute.Key("leaderboard.route")
	attrDegraded  = attribute.Key("leaderboard.degraded")
	attrErrorKind = attribute.Key("leaderboard.error_kind")
)

// startSpan opens a handler span tagged with the matched mux pattern. Requests
// filtered out of tracing have no parent span and get the noop span.
func startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	ctx := r.Context()
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrRoute.String(routeOf(r))))
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}

func routeOf(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.URL.Path
}

// markDegraded flags a span whose route answered 200 with an empty payload.
func markDegraded(span trace.Span, kind string, err error) {
	span.RecordError(err)
	span.SetAttributes(attrDegraded.Bool(true), attrErrorKind.String(kind))
}

func markFailed(span trace.Span, kind string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	span.SetAttributes(attrErrorKind.String(kind))
}
