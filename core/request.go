package core

import "net/http"

// Request describes one JSON/HTTP exchange against the service.
//
// A Request is a pure value: building one performs no I/O and holds no
// per-call state, so the same value may be executed any number of times.
// Implementations are provided by the typed API surfaces (chat, models,
// files, ...) and by callers that target endpoints Skiff does not wrap.
type Request interface {
	// Path returns the endpoint path relative to the configured base URL,
	// e.g. "/chat/completions".
	Path() string

	// Method returns the HTTP method. An empty string means POST.
	Method() string

	// Body returns the value to serialize as the JSON request body, or nil
	// for no body. GET requests MUST return nil; the engine never attaches
	// a body to a GET exchange regardless.
	Body() any
}

// StreamRequest is implemented by requests whose response can be delivered
// as an incremental server-sent event stream. The per-event type is chosen
// by the caller at the stream entry point (transport.OpenStream's type
// parameter); the descriptor only declares that streaming was asked for.
type StreamRequest interface {
	Request

	// StreamEnabled reports whether this descriptor requested an event
	// stream. Entry points that open streams reject descriptors that
	// return false.
	StreamEnabled() bool
}

// UploadRequest describes a multipart/form-data upload. Upload exchanges
// are always issued as POST.
type UploadRequest interface {
	// Path returns the endpoint path relative to the configured base URL.
	Path() string

	// MultipartBody renders the complete multipart payload using the given
	// boundary token. The engine generates a fresh boundary per call and
	// derives the Content-Type header from it. The same boundary and
	// inputs must yield byte-identical output.
	MultipartBody(boundary string) ([]byte, error)
}

// EffectiveMethod resolves a descriptor's method, applying the POST default.
func EffectiveMethod(r Request) string {
	if m := r.Method(); m != "" {
		return m
	}
	return http.MethodPost
}
