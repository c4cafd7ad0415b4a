package skiff

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/skiff-ai/skiff/core"
	"github.com/skiff-ai/skiff/transport"
)

// newTestClient starts a test server and returns a Client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New("test-key", transport.WithBaseURL(server.URL))
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(DefaultAPIKeyEnvVar, "sk-from-env")

	client, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv() error = %v", err)
	}
	if client == nil {
		t.Fatal("NewFromEnv() returned nil client")
	}
}

func TestNewFromEnvMissingKey(t *testing.T) {
	t.Setenv(DefaultAPIKeyEnvVar, "")

	_, err := NewFromEnv()
	if !errors.Is(err, ErrAPIKeyNotFound) {
		t.Errorf("err = %v, want ErrAPIKeyNotFound", err)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	temp := 0.2
	req := &ChatRequest{
		Model: "gpt-4o",
		Messages: []Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hi", Name: "pat"},
		},
		MaxTokens:   64,
		Temperature: &temp,
		Stop:        []string{"\n"},
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got ChatRequest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(&got, req) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, *req)
	}
}

func TestCodecRoundTripResponse(t *testing.T) {
	resp := &ChatCompletion{
		ID:      "chatcmpl-1",
		Object:  "chat.completion",
		Created: core.NewTimestamp(time.Unix(1700000000, 0).UTC()),
		Model:   "gpt-4o",
		Choices: []Choice{
			{Index: 0, Message: Message{Role: RoleAssistant, Content: "hello"}, FinishReason: "stop"},
		},
		Usage: Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got ChatCompletion
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(&got, resp) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, *resp)
	}
}

func TestWireFieldNamesAreSnakeCase(t *testing.T) {
	data, err := json.Marshal(&ChatRequest{
		Model:     "gpt-4o",
		Messages:  []Message{{Role: RoleUser, Content: "hi"}},
		MaxTokens: 10,
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := wire["max_tokens"]; !ok {
		t.Errorf("wire body missing max_tokens: %s", data)
	}
	if _, ok := wire["maxTokens"]; ok {
		t.Errorf("wire body carries non snake_case field: %s", data)
	}
	if _, ok := wire["stream"]; ok {
		t.Errorf("zero stream flag should be omitted: %s", data)
	}
}
