package skiff

import (
	"context"

	"github.com/skiff-ai/skiff/transport"
)

// EmbeddingRequest describes an embedding call. It doubles as its own
// request descriptor.
type EmbeddingRequest struct {
	Model          string   `json:"model"`
	Input          []string `json:"input"`
	EncodingFormat string   `json:"encoding_format,omitempty"`
	Dimensions     int      `json:"dimensions,omitempty"`
	User           string   `json:"user,omitempty"`
}

// Path implements the request descriptor.
func (r *EmbeddingRequest) Path() string { return "/embeddings" }

// Method returns the empty string, which the engine treats as POST.
func (r *EmbeddingRequest) Method() string { return "" }

// Body implements the request descriptor.
func (r *EmbeddingRequest) Body() any { return r }

// Embedding is one embedding vector.
type Embedding struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// EmbeddingResponse is the response of the embedding endpoint.
type EmbeddingResponse struct {
	Object string      `json:"object"`
	Data   []Embedding `json:"data"`
	Model  string      `json:"model"`
	Usage  Usage       `json:"usage"`
}

// CreateEmbeddings computes embeddings for the given inputs.
func (c *Client) CreateEmbeddings(ctx context.Context, req *EmbeddingRequest) (*EmbeddingResponse, error) {
	resp, err := transport.Execute[EmbeddingResponse](ctx, c.engine, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
