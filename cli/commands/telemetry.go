package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/skiff-ai/skiff/core"
)

// logHook traces request lifecycles on the CLI's error stream. It is
// installed by the --verbose flag.
type logHook struct {
	w io.Writer
}

var _ core.TelemetryHook = logHook{}

func (h logHook) OnRequestStart(ctx context.Context, event core.RequestStartEvent) context.Context {
	suffix := ""
	if event.Stream {
		suffix = " (stream)"
	}
	fmt.Fprintf(h.w, "-> %s %s%s\n", event.Method, event.Path, suffix)
	return ctx
}

func (h logHook) OnRequestEnd(ctx context.Context, event core.RequestEndEvent) {
	if event.Err != nil {
		fmt.Fprintf(h.w, "<- %s %s: %v\n", event.Method, event.Path, event.Err)
		return
	}
	fmt.Fprintf(h.w, "<- %d %s %s (%s)\n", event.Status, event.Method, event.Path, event.Duration.Round(time.Millisecond))
}
