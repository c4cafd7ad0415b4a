package skiff

import (
	"context"

	"github.com/skiff-ai/skiff/core"
	"github.com/skiff-ai/skiff/transport"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// ChatRequest describes a chat completion call. It doubles as its own
// request descriptor: the engine serializes the struct as the JSON body.
type ChatRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	MaxTokens        int       `json:"max_tokens,omitempty"`
	Temperature      *float64  `json:"temperature,omitempty"`
	TopP             *float64  `json:"top_p,omitempty"`
	N                int       `json:"n,omitempty"`
	Stop             []string  `json:"stop,omitempty"`
	PresencePenalty  *float64  `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64  `json:"frequency_penalty,omitempty"`
	Seed             *int      `json:"seed,omitempty"`
	User             string    `json:"user,omitempty"`

	// Stream marks the request as a streaming call. StreamChatCompletion
	// sets it; callers never need to touch it.
	Stream bool `json:"stream,omitempty"`
}

// Path implements the request descriptor.
func (r *ChatRequest) Path() string { return "/chat/completions" }

// Method returns the empty string, which the engine treats as POST.
func (r *ChatRequest) Method() string { return "" }

// Body implements the request descriptor.
func (r *ChatRequest) Body() any { return r }

// StreamEnabled reports whether this descriptor was prepared for
// streaming consumption.
func (r *ChatRequest) StreamEnabled() bool { return r.Stream }

// ChatCompletion is a buffered chat completion response.
type ChatCompletion struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created core.Timestamp `json:"created"`
	Model   string         `json:"model"`
	Choices []Choice       `json:"choices"`
	Usage   Usage          `json:"usage"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage reports token consumption for a call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionChunk is one streamed chat completion event.
type ChatCompletionChunk struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created core.Timestamp `json:"created"`
	Model   string         `json:"model"`
	Choices []ChunkChoice  `json:"choices"`

	// Usage arrives on the final chunk when the service reports it.
	Usage *Usage `json:"usage,omitempty"`
}

// ChunkChoice is one alternative within a streamed chunk.
type ChunkChoice struct {
	Index        int    `json:"index"`
	Delta        Delta  `json:"delta"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// Delta carries the incremental message content of one chunk.
type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// Text returns the first choice's message content, or the empty string
// when the completion has no choices.
func (c *ChatCompletion) Text() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Message.Content
}

// Text returns the first choice's content delta, or the empty string
// when the chunk has no choices.
func (c *ChatCompletionChunk) Text() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// CreateChatCompletion sends a buffered chat completion request.
func (c *Client) CreateChatCompletion(ctx context.Context, req *ChatRequest) (*ChatCompletion, error) {
	out := *req
	out.Stream = false
	resp, err := transport.Execute[ChatCompletion](ctx, c.engine, &out)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// StreamChatCompletion opens a streaming chat completion. The returned
// stream is single use; close it when abandoning consumption early.
func (c *Client) StreamChatCompletion(ctx context.Context, req *ChatRequest) (*transport.Stream[ChatCompletionChunk], error) {
	out := *req
	out.Stream = true
	return transport.OpenStream[ChatCompletionChunk](ctx, c.engine, &out)
}
