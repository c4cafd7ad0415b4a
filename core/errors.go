package core

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies a failed exchange. The set is closed: every error the
// engine or the streaming decoder surfaces carries exactly one Kind, and
// callers can branch on it without inspecting transport internals.
type Kind string

const (
	// KindInvalidRequestTarget means the base URL and path could not be
	// combined into a usable request target.
	KindInvalidRequestTarget Kind = "invalid_request_target"

	// KindInvalidResponse means the exchange produced no usable response:
	// the transport failed outright, the body could not be read, or a
	// configured timeout expired.
	KindInvalidResponse Kind = "invalid_response"

	// KindAuthentication is the fixed classification for HTTP 401,
	// independent of the response body.
	KindAuthentication Kind = "authentication"

	// KindRateLimited is the fixed classification for HTTP 429,
	// independent of the response body.
	KindRateLimited Kind = "rate_limited"

	// KindAPIError means the service reported a structured error envelope.
	// Message, Type, Param, and Code carry the decoded envelope fields.
	KindAPIError Kind = "api_error"

	// KindDecode means the response body decoded neither as the declared
	// success type nor as the error envelope. Err retains the original
	// decode failure.
	KindDecode Kind = "decode"

	// KindEncode means the request body could not be serialized.
	KindEncode Kind = "encode"

	// KindClientError is a 4xx status (other than 401/429) without a
	// decodable error envelope. Status carries the code.
	KindClientError Kind = "client_error"

	// KindServerError is any 5xx status. Status carries the code.
	KindServerError Kind = "server_error"

	// KindUnknownStatus is a status outside the 2xx/4xx/5xx ranges.
	KindUnknownStatus Kind = "unknown_status"

	// KindStreamingUnsupported means a stream was opened over a descriptor
	// that is not streaming-capable.
	KindStreamingUnsupported Kind = "streaming_unsupported"

	// KindInvalidBinaryPayload means an upload descriptor supplied file
	// data that cannot be sent (for example, an empty payload).
	KindInvalidBinaryPayload Kind = "invalid_binary_payload"
)

// Error is the one error type surfaced by the execution engine and the
// streaming decoder. Extract it with errors.As:
//
//	var apiErr *core.Error
//	if errors.As(err, &apiErr) && apiErr.Kind == core.KindRateLimited {
//	    time.Sleep(apiErr.SuggestedBackoff())
//	}
type Error struct {
	// Kind is the taxonomy classification. Always set.
	Kind Kind

	// Status is the HTTP status code for status-derived kinds, 0 otherwise.
	Status int

	// Message is a human-readable description. For KindAPIError it is the
	// service-reported message.
	Message string

	// Type, Param, and Code carry the structured error envelope fields
	// when the service supplied them. Param names the offending request
	// field.
	Type  string
	Param string
	Code  string

	// Err is the underlying failure (decode error, transport error), if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "request failed"
	}
	switch {
	case e.Status != 0 && e.Code != "":
		return fmt.Sprintf("%s: %s (status=%d, code=%s)", e.Kind, msg, e.Status, e.Code)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s (status=%d)", e.Kind, msg, e.Status)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
}

// Unwrap returns the underlying error for error chaining.
func (e *Error) Unwrap() error {
	return e.Err
}

// kindMeta is the fixed per-kind classification record. The table below is
// the single source for retryability, backoff hints, and user-facing labels;
// nothing recomputes these conditionally.
type kindMeta struct {
	label      string
	retryable  bool
	backoff    time.Duration
	userAction bool
}

var kindTable = map[Kind]kindMeta{
	KindInvalidRequestTarget: {label: "Invalid endpoint"},
	KindInvalidResponse:      {label: "Network"},
	KindAuthentication:       {label: "Authentication", userAction: true},
	KindRateLimited:          {label: "Rate limit", retryable: true, backoff: 60 * time.Second},
	KindAPIError:             {label: "API error"},
	KindDecode:               {label: "Response decoding"},
	KindEncode:               {label: "Request encoding"},
	KindClientError:          {label: "Client error"},
	KindServerError:          {label: "Server error", retryable: true, backoff: 5 * time.Second},
	KindUnknownStatus:        {label: "Unexpected status"},
	KindStreamingUnsupported: {label: "Streaming"},
	KindInvalidBinaryPayload: {label: "File data", userAction: true},
}

// Label returns the fixed user-facing category for this error.
func (e *Error) Label() string {
	return kindTable[e.Kind].label
}

// Retryable reports whether retrying the same request may succeed.
// Rate-limited and server errors are retryable; a structured API error is
// retryable only when its envelope names a transient server condition.
func (e *Error) Retryable() bool {
	if e.Kind == KindAPIError {
		return transientEnvelope(e.Type, e.Code)
	}
	return kindTable[e.Kind].retryable
}

// SuggestedBackoff returns the pause to observe before a retry, or zero for
// non-retryable errors. Structured API errors with a transient envelope
// inherit the server-error backoff.
func (e *Error) SuggestedBackoff() time.Duration {
	if e.Kind == KindAPIError {
		if transientEnvelope(e.Type, e.Code) {
			return kindTable[KindServerError].backoff
		}
		return 0
	}
	return kindTable[e.Kind].backoff
}

// RequiresUserAction reports whether the failure cannot be resolved by
// retrying: the credential must be fixed or the payload replaced.
func (e *Error) RequiresUserAction() bool {
	return kindTable[e.Kind].userAction
}

// transientEnvelope reports whether an error envelope's type or code names
// a transient server condition.
func transientEnvelope(typ, code string) bool {
	for _, v := range []string{typ, code} {
		switch strings.ToLower(v) {
		case "server_error", "overloaded", "overloaded_error", "timeout", "service_unavailable":
			return true
		}
	}
	return false
}
