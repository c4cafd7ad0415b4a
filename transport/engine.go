package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skiff-ai/skiff/core"
)

// Engine is the single choke point for every exchange with the API. It
// resolves a request descriptor into an HTTP request, performs the
// exchange, and maps the outcome onto the core error taxonomy.
//
// An Engine is immutable after construction and safe for concurrent use;
// it holds no per-call state.
type Engine struct {
	cfg Config
}

// NewEngine builds an Engine from a credential and options.
func NewEngine(apiKey core.Secret, opts ...Option) *Engine {
	cfg := Config{
		APIKey:        apiKey,
		BaseURL:       DefaultBaseURL,
		Timeout:       DefaultTimeout,
		StreamTimeout: DefaultStreamTimeout,
		UserAgent:     defaultUserAgent,
		Telemetry:     core.NoopTelemetryHook{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Telemetry == nil {
		cfg.Telemetry = core.NoopTelemetryHook{}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Engine{cfg: cfg}
}

// BaseURL returns the configured API base URL.
func (e *Engine) BaseURL() string {
	return e.cfg.BaseURL
}

// Execute performs a buffered exchange described by req and decodes the
// response body as T. Every failure is a *core.Error.
func Execute[T any](ctx context.Context, e *Engine, req core.Request) (T, error) {
	var zero T

	method := core.EffectiveMethod(req)
	var payload []byte
	// GET never carries a body, even when the descriptor supplies one.
	if method != http.MethodGet {
		if body := req.Body(); body != nil {
			data, err := json.Marshal(body)
			if err != nil {
				return zero, &core.Error{Kind: core.KindEncode, Message: "marshal request body", Err: err}
			}
			payload = data
		}
	}

	contentType := ""
	if payload != nil {
		contentType = "application/json"
	}
	data, status, err := e.exchange(ctx, method, req.Path(), payload, contentType)
	if err != nil {
		return zero, err
	}
	return decode[T](status, data)
}

// Upload performs a multipart POST described by req and decodes the
// response body as T. A fresh boundary token is generated per call and
// handed to the descriptor's payload builder.
func Upload[T any](ctx context.Context, e *Engine, req core.UploadRequest) (T, error) {
	var zero T

	boundary := newBoundary()
	payload, err := req.MultipartBody(boundary)
	if err != nil {
		var apiErr *core.Error
		if errors.As(err, &apiErr) {
			return zero, err
		}
		return zero, &core.Error{Kind: core.KindEncode, Message: "encode multipart body", Err: err}
	}

	contentType := "multipart/form-data; boundary=" + boundary
	data, status, err := e.exchange(ctx, http.MethodPost, req.Path(), payload, contentType)
	if err != nil {
		return zero, err
	}
	return decode[T](status, data)
}

// exchange performs one buffered HTTP request and applies the status
// ladder. On success it returns the raw 2xx body.
func (e *Engine) exchange(ctx context.Context, method, path string, payload []byte, contentType string) ([]byte, int, error) {
	target, err := e.target(path)
	if err != nil {
		return nil, 0, err
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}
	ctx = e.cfg.Telemetry.OnRequestStart(ctx, core.RequestStartEvent{Method: method, Path: path})

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		cerr := &core.Error{Kind: core.KindInvalidRequestTarget, Message: "build request for " + path, Err: err}
		e.cfg.Telemetry.OnRequestEnd(ctx, core.RequestEndEvent{Method: method, Path: path, Err: cerr})
		return nil, 0, cerr
	}
	e.setHeaders(httpReq.Header, contentType, false)

	start := time.Now()
	resp, err := e.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		cerr := &core.Error{Kind: core.KindInvalidResponse, Message: "request to " + path + " failed", Err: err}
		e.cfg.Telemetry.OnRequestEnd(ctx, core.RequestEndEvent{Method: method, Path: path, Duration: time.Since(start), Err: cerr})
		return nil, 0, cerr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		cerr := &core.Error{Kind: core.KindInvalidResponse, Status: resp.StatusCode, Message: "read response from " + path, Err: err}
		e.cfg.Telemetry.OnRequestEnd(ctx, core.RequestEndEvent{Method: method, Path: path, Status: resp.StatusCode, Duration: time.Since(start), Err: cerr})
		return nil, resp.StatusCode, cerr
	}

	event := core.RequestEndEvent{Method: method, Path: path, Status: resp.StatusCode, Duration: time.Since(start)}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cerr := classify(resp.StatusCode, data)
		event.Err = cerr
		e.cfg.Telemetry.OnRequestEnd(ctx, event)
		return nil, resp.StatusCode, cerr
	}
	e.cfg.Telemetry.OnRequestEnd(ctx, event)
	return data, resp.StatusCode, nil
}

// target resolves path against the configured base URL.
func (e *Engine) target(path string) (string, error) {
	base := strings.TrimSuffix(e.cfg.BaseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := base + path
	if _, err := url.Parse(target); err != nil {
		return "", &core.Error{Kind: core.KindInvalidRequestTarget, Message: "resolve " + path + " against " + e.cfg.BaseURL, Err: err}
	}
	return target, nil
}

// setHeaders attaches the standard headers. contentType is empty for
// bodiless requests; stream switches the accept header to the event
// stream type.
func (e *Engine) setHeaders(h http.Header, contentType string, stream bool) {
	if !e.cfg.APIKey.IsEmpty() {
		h.Set("Authorization", "Bearer "+e.cfg.APIKey.Expose())
	}
	if e.cfg.OrgID != "" {
		h.Set("OpenAI-Organization", e.cfg.OrgID)
	}
	if e.cfg.ProjectID != "" {
		h.Set("OpenAI-Project", e.cfg.ProjectID)
	}
	h.Set("User-Agent", e.cfg.UserAgent)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	if stream {
		h.Set("Accept", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
	} else {
		h.Set("Accept", "application/json")
	}
	for key, values := range e.cfg.Headers {
		for _, v := range values {
			h.Add(key, v)
		}
	}
}

// decode unmarshals a 2xx body as T. When the declared type does not
// fit, the bytes are re-tried as an error envelope so a service that
// reports failures under a success status still classifies as an API
// error rather than a bare decode failure.
func decode[T any](status int, body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		var zero T
		if env, ok := decodeEnvelope(body); ok {
			return zero, envelopeError(status, env)
		}
		return zero, &core.Error{Kind: core.KindDecode, Status: status, Message: "decode response body", Err: err}
	}
	return v, nil
}

// classify maps a non-2xx status and its body onto the taxonomy.
// 401 and 429 classify from the status alone; other 4xx statuses prefer
// the structured envelope when the body carries one.
func classify(status int, body []byte) *core.Error {
	switch {
	case status == http.StatusUnauthorized:
		return &core.Error{Kind: core.KindAuthentication, Status: status, Message: "authentication failed"}
	case status == http.StatusTooManyRequests:
		return &core.Error{Kind: core.KindRateLimited, Status: status, Message: "rate limit exceeded"}
	case status >= 400 && status < 500:
		if env, ok := decodeEnvelope(body); ok {
			return envelopeError(status, env)
		}
		return &core.Error{Kind: core.KindClientError, Status: status, Message: http.StatusText(status)}
	case status >= 500 && status < 600:
		return &core.Error{Kind: core.KindServerError, Status: status, Message: http.StatusText(status)}
	default:
		return &core.Error{Kind: core.KindUnknownStatus, Status: status, Message: http.StatusText(status)}
	}
}

// wireError is the inner object of the service's error envelope.
type wireError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param"`
	Code    string `json:"code"`
}

type errorEnvelope struct {
	Error wireError `json:"error"`
}

// decodeEnvelope reports whether body is a structured error envelope.
// An envelope with no message, type, or code does not count; JSON with
// unknown fields unmarshals silently, so emptiness is the only signal
// that the shape did not match.
func decodeEnvelope(body []byte) (*wireError, bool) {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false
	}
	if env.Error.Message == "" && env.Error.Type == "" && env.Error.Code == "" {
		return nil, false
	}
	return &env.Error, true
}

func envelopeError(status int, env *wireError) *core.Error {
	return &core.Error{
		Kind:    core.KindAPIError,
		Status:  status,
		Message: env.Message,
		Type:    env.Type,
		Param:   env.Param,
		Code:    env.Code,
	}
}
