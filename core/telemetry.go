package core

import (
	"context"
	"time"
)

// TelemetryHook observes the request lifecycle. Implementations must be
// safe for concurrent use; hooks run inline on the request path and
// should return quickly.
type TelemetryHook interface {
	// OnRequestStart runs before the HTTP request is sent. The returned
	// context is used for the remainder of the request, which lets a
	// hook attach tracing spans or metadata.
	OnRequestStart(ctx context.Context, event RequestStartEvent) context.Context

	// OnRequestEnd runs once the request outcome is known. For streams
	// that is when the stream is established or refused, not when it is
	// drained.
	OnRequestEnd(ctx context.Context, event RequestEndEvent)
}

// RequestStartEvent describes a request about to be sent.
type RequestStartEvent struct {
	Method string
	Path   string
	Stream bool
}

// RequestEndEvent describes a completed request.
type RequestEndEvent struct {
	Method string
	Path   string
	Stream bool

	// Status is the HTTP status code, or 0 when no response was
	// obtained.
	Status   int
	Duration time.Duration
	Err      error
}

// NoopTelemetryHook is a TelemetryHook that does nothing. It is the
// default when no hook is configured.
type NoopTelemetryHook struct{}

// OnRequestStart implements TelemetryHook.
func (NoopTelemetryHook) OnRequestStart(ctx context.Context, _ RequestStartEvent) context.Context {
	return ctx
}

// OnRequestEnd implements TelemetryHook.
func (NoopTelemetryHook) OnRequestEnd(context.Context, RequestEndEvent) {}

var _ TelemetryHook = NoopTelemetryHook{}
