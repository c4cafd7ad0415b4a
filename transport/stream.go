package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/skiff-ai/skiff/core"
)

// Stream is one live server-sent event stream decoded as E values. It is
// single-pass: the channels carry exactly one network exchange, and a
// drained or abandoned Stream cannot be rewound.
//
// Channel rules:
//   - Ch emits events in wire order and is closed when the stream ends.
//   - Err emits at most one error and is closed when the stream ends.
//   - The [DONE] sentinel and a clean end of stream close both channels
//     with no error.
//   - Abandoning via Close releases the exchange and is not reported as
//     an error.
type Stream[E any] struct {
	// Ch emits decoded events in wire order. Closed when the stream ends.
	Ch <-chan E

	// Err emits at most one error. Closed when the stream ends.
	Err <-chan error

	cancel    context.CancelFunc
	abandoned *atomic.Bool
}

// Close abandons the stream and closes the underlying exchange. It is
// safe to call from any goroutine, more than once, and after the stream
// has already finished.
func (s *Stream[E]) Close() error {
	s.abandoned.Store(true)
	s.cancel()
	return nil
}

// OpenStream performs the exchange described by req and returns a live
// stream of E events. The descriptor must be streaming-capable. The
// response status is validated before any line is parsed, so a rejected
// stream never emits an event; rejection is classified exactly like a
// buffered exchange.
func OpenStream[E any](ctx context.Context, e *Engine, req core.Request) (*Stream[E], error) {
	sr, ok := req.(core.StreamRequest)
	if !ok || !sr.StreamEnabled() {
		return nil, &core.Error{Kind: core.KindStreamingUnsupported, Message: fmt.Sprintf("descriptor for %s is not streaming-capable", req.Path())}
	}

	method := core.EffectiveMethod(req)
	var payload []byte
	if method != http.MethodGet {
		if body := req.Body(); body != nil {
			data, err := json.Marshal(body)
			if err != nil {
				return nil, &core.Error{Kind: core.KindEncode, Message: "marshal request body", Err: err}
			}
			payload = data
		}
	}

	target, err := e.target(req.Path())
	if err != nil {
		return nil, err
	}

	var streamCtx context.Context
	var cancel context.CancelFunc
	if e.cfg.StreamTimeout > 0 {
		streamCtx, cancel = context.WithTimeout(ctx, e.cfg.StreamTimeout)
	} else {
		streamCtx, cancel = context.WithCancel(ctx)
	}
	streamCtx = e.cfg.Telemetry.OnRequestStart(streamCtx, core.RequestStartEvent{Method: method, Path: req.Path(), Stream: true})

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(streamCtx, method, target, body)
	if err != nil {
		cancel()
		cerr := &core.Error{Kind: core.KindInvalidRequestTarget, Message: "build request for " + req.Path(), Err: err}
		e.cfg.Telemetry.OnRequestEnd(streamCtx, core.RequestEndEvent{Method: method, Path: req.Path(), Stream: true, Err: cerr})
		return nil, cerr
	}
	contentType := ""
	if payload != nil {
		contentType = "application/json"
	}
	e.setHeaders(httpReq.Header, contentType, true)

	// The request timeout bounds header acquisition only; once headers
	// arrive the stream runs under the stream timeout alone.
	var headerTimer *time.Timer
	if e.cfg.Timeout > 0 {
		headerTimer = time.AfterFunc(e.cfg.Timeout, cancel)
	}
	start := time.Now()
	resp, err := e.cfg.HTTPClient.Do(httpReq)
	if headerTimer != nil {
		headerTimer.Stop()
	}
	if err != nil {
		cancel()
		cerr := &core.Error{Kind: core.KindInvalidResponse, Message: "request to " + req.Path() + " failed", Err: err}
		e.cfg.Telemetry.OnRequestEnd(streamCtx, core.RequestEndEvent{Method: method, Path: req.Path(), Stream: true, Duration: time.Since(start), Err: cerr})
		return nil, cerr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		cancel()
		cerr := classify(resp.StatusCode, data)
		e.cfg.Telemetry.OnRequestEnd(streamCtx, core.RequestEndEvent{Method: method, Path: req.Path(), Stream: true, Status: resp.StatusCode, Duration: time.Since(start), Err: cerr})
		return nil, cerr
	}
	e.cfg.Telemetry.OnRequestEnd(streamCtx, core.RequestEndEvent{Method: method, Path: req.Path(), Stream: true, Status: resp.StatusCode, Duration: time.Since(start)})

	var lines lineSource = newReaderLines(resp.Body)
	if e.cfg.StreamChunkSize > 0 {
		lines = newChunkLines(resp.Body, e.cfg.StreamChunkSize)
	}

	events := make(chan E, 100)
	errs := make(chan error, 1)
	abandoned := new(atomic.Bool)
	go func() {
		defer cancel()
		decodeStream(streamCtx, resp.Body, lines, abandoned, events, errs)
	}()

	return &Stream[E]{Ch: events, Err: errs, cancel: cancel, abandoned: abandoned}, nil
}

// decodeStream runs the event-frame state machine over lines until the
// sentinel, end of stream, a failure, or cancellation. It owns the body
// and both channels; all three are released on return.
func decodeStream[E any](ctx context.Context, body io.Closer, lines lineSource, abandoned *atomic.Bool, events chan<- E, errs chan<- error) {
	defer body.Close()
	defer close(events)
	defer close(errs)

	for {
		select {
		case <-ctx.Done():
			if !abandoned.Load() {
				errs <- ctx.Err()
			}
			return
		default:
		}

		line, err := lines.Next()
		if err != nil {
			if err == io.EOF {
				return
			}
			// Cancellation closes the body under a blocked read; report
			// the cancellation rather than the read failure, and stay
			// silent when the caller abandoned the stream.
			if ctx.Err() != nil {
				if !abandoned.Load() {
					errs <- ctx.Err()
				}
				return
			}
			errs <- &core.Error{Kind: core.KindInvalidResponse, Message: "read event stream", Err: err}
			return
		}

		line = strings.TrimSpace(line)

		// Skip frame separators and comments.
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return
		}

		var event E
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			errs <- &core.Error{Kind: core.KindDecode, Message: "decode stream event", Err: err}
			return
		}

		select {
		case events <- event:
		case <-ctx.Done():
			if !abandoned.Load() {
				errs <- ctx.Err()
			}
			return
		}
	}
}

// Collect drains s to completion and returns every event in order. On
// ctx cancellation the stream is closed and the events received so far
// are returned alongside ctx's error.
func Collect[E any](ctx context.Context, s *Stream[E]) ([]E, error) {
	var out []E
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return out, ctx.Err()
		case ev, ok := <-s.Ch:
			if !ok {
				if err, ok := <-s.Err; ok && err != nil {
					return out, err
				}
				return out, nil
			}
			out = append(out, ev)
		}
	}
}
