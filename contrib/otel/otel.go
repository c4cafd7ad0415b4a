// Package otel bridges request telemetry onto OpenTelemetry traces.
//
// Install the hook on a client and every API exchange produces one
// client span carrying the request method, path, response status, and
// error outcome:
//
//	hook := otel.NewHook()
//	client := skiff.New(apiKey, transport.WithTelemetry(hook))
package otel

import (
	"context"
	"errors"

	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/skiff-ai/skiff/core"
)

// tracerName identifies this instrumentation to the tracer provider.
const tracerName = "github.com/skiff-ai/skiff/contrib/otel"

// Attribute keys attached to request spans.
const (
	attrMethod    = attribute.Key("http.request.method")
	attrPath      = attribute.Key("url.path")
	attrStatus    = attribute.Key("http.response.status_code")
	attrStream    = attribute.Key("skiff.stream")
	attrErrorKind = attribute.Key("skiff.error.kind")
)

// Option configures a Hook.
type Option func(*Hook)

// WithTracerProvider sets the provider the hook obtains its tracer
// from. The default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *Hook) {
		if tp != nil {
			h.tracer = tp.Tracer(tracerName)
		}
	}
}

// Hook emits one client span per API request. For streaming requests
// the span covers connection establishment through response headers;
// body consumption happens after the exchange is handed to the caller.
type Hook struct {
	tracer trace.Tracer
}

// NewHook builds a tracing hook.
func NewHook(opts ...Option) *Hook {
	h := &Hook{tracer: otelapi.GetTracerProvider().Tracer(tracerName)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ core.TelemetryHook = (*Hook)(nil)

// OnRequestStart opens a span and threads it through the returned
// context so OnRequestEnd can recover it.
func (h *Hook) OnRequestStart(ctx context.Context, event core.RequestStartEvent) context.Context {
	ctx, _ = h.tracer.Start(ctx, event.Method+" "+event.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attrMethod.String(event.Method),
			attrPath.String(event.Path),
			attrStream.Bool(event.Stream),
		),
	)
	return ctx
}

// OnRequestEnd records the outcome and closes the span. Span status
// stays unset on success; failures set error status with the message
// and record the error event.
func (h *Hook) OnRequestEnd(ctx context.Context, event core.RequestEndEvent) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	if event.Status != 0 {
		span.SetAttributes(attrStatus.Int(event.Status))
	}
	if event.Err == nil {
		return
	}
	span.RecordError(event.Err)
	span.SetStatus(codes.Error, event.Err.Error())
	var apiErr *core.Error
	if errors.As(event.Err, &apiErr) {
		span.SetAttributes(attrErrorKind.String(string(apiErr.Kind)))
	}
}
