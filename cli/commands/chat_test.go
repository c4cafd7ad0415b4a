package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/skiff-ai/skiff/core"
)

func TestExitError(t *testing.T) {
	err := exitWithCode(ExitValidation, errors.New("test error"))

	if err.Error() != "test error" {
		t.Errorf("Error() = %q, want 'test error'", err.Error())
	}

	exitErr, ok := err.(*exitError)
	if !ok {
		t.Fatal("expected *exitError type")
	}

	if exitErr.ExitCode() != ExitValidation {
		t.Errorf("ExitCode() = %d, want %d", exitErr.ExitCode(), ExitValidation)
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"success", ExitSuccess, 0},
		{"validation", ExitValidation, 1},
		{"api", ExitAPI, 2},
		{"network", ExitNetwork, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.want {
				t.Errorf("Exit%s = %d, want %d", tt.name, tt.code, tt.want)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		kind core.Kind
		want int
	}{
		{"network failure", core.KindInvalidResponse, ExitNetwork},
		{"encode failure", core.KindEncode, ExitValidation},
		{"bad target", core.KindInvalidRequestTarget, ExitValidation},
		{"bad upload payload", core.KindInvalidBinaryPayload, ExitValidation},
		{"authentication", core.KindAuthentication, ExitAPI},
		{"rate limited", core.KindRateLimited, ExitAPI},
		{"server error", core.KindServerError, ExitAPI},
		{"decode failure", core.KindDecode, ExitAPI},
		{"structured api error", core.KindAPIError, ExitAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeFor(&core.Error{Kind: tt.kind})
			if got != tt.want {
				t.Errorf("exitCodeFor(%s) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

// errorApp builds an App whose output streams are buffers, for exercising
// the error reporters directly.
func errorApp() (*App, *bytes.Buffer) {
	stderr := &bytes.Buffer{}
	app := &App{
		stdout: &bytes.Buffer{},
		stderr: stderr,
	}
	return app, stderr
}

func TestHandleRequestErrorClassified(t *testing.T) {
	app, stderr := errorApp()

	err := app.handleRequestError(&core.Error{
		Kind:    core.KindInvalidResponse,
		Message: "connection refused",
	})

	exitErr, ok := err.(*exitError)
	if !ok {
		t.Fatal("expected *exitError type")
	}
	if exitErr.ExitCode() != ExitNetwork {
		t.Errorf("ExitCode() = %d, want %d (ExitNetwork)", exitErr.ExitCode(), ExitNetwork)
	}
	if !strings.Contains(stderr.String(), "connection refused") {
		t.Errorf("stderr = %q, want error message", stderr.String())
	}
}

func TestHandleRequestErrorGeneric(t *testing.T) {
	app, stderr := errorApp()

	err := app.handleRequestError(errors.New("boom"))

	exitErr, ok := err.(*exitError)
	if !ok {
		t.Fatal("expected *exitError type")
	}
	if exitErr.ExitCode() != ExitAPI {
		t.Errorf("ExitCode() = %d, want %d (ExitAPI)", exitErr.ExitCode(), ExitAPI)
	}
	if !strings.Contains(stderr.String(), "boom") {
		t.Errorf("stderr = %q, want error message", stderr.String())
	}
}

func TestHandleRequestErrorJSON(t *testing.T) {
	app, stderr := errorApp()
	app.jsonOutput = true

	app.handleRequestError(&core.Error{
		Kind:    core.KindRateLimited,
		Status:  429,
		Message: "rate limit exceeded",
	})

	out := stderr.String()
	if !strings.Contains(out, `"kind": "rate_limited"`) {
		t.Errorf("stderr = %q, want JSON error envelope", out)
	}
	if !strings.Contains(out, `"status": 429`) {
		t.Errorf("stderr = %q, want status field", out)
	}
}

func TestChatMessagesOrder(t *testing.T) {
	app := &App{chatPrompt: "question", chatSystem: "guide"}

	msgs := app.chatMessages()
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != "guide" {
		t.Errorf("messages[0] = %+v, want system first", msgs[0])
	}
	if msgs[1].Role != "user" || msgs[1].Content != "question" {
		t.Errorf("messages[1] = %+v, want user second", msgs[1])
	}

	app.chatSystem = ""
	msgs = app.chatMessages()
	if len(msgs) != 1 || msgs[0].Role != "user" {
		t.Errorf("messages = %+v, want single user message", msgs)
	}
}
