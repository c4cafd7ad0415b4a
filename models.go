package skiff

import (
	"context"

	"github.com/skiff-ai/skiff/core"
	"github.com/skiff-ai/skiff/transport"
)

// Model describes one model available to the credential.
type Model struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created core.Timestamp `json:"created"`
	OwnedBy string         `json:"owned_by"`
}

// ModelList is the response of the model listing endpoint.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// ModelDeletion reports the outcome of deleting a fine-tuned model.
type ModelDeletion struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// ListModels lists the models available to the configured credential.
func (c *Client) ListModels(ctx context.Context) (*ModelList, error) {
	resp, err := transport.Execute[ModelList](ctx, c.engine, getRequest{path: "/models"})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetModel retrieves one model by ID.
func (c *Client) GetModel(ctx context.Context, id string) (*Model, error) {
	if id == "" {
		return nil, &core.Error{Kind: core.KindInvalidRequestTarget, Message: "model id is required"}
	}
	resp, err := transport.Execute[Model](ctx, c.engine, getRequest{path: "/models/" + id})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteModel deletes a fine-tuned model owned by the credential.
func (c *Client) DeleteModel(ctx context.Context, id string) (*ModelDeletion, error) {
	if id == "" {
		return nil, &core.Error{Kind: core.KindInvalidRequestTarget, Message: "model id is required"}
	}
	resp, err := transport.Execute[ModelDeletion](ctx, c.engine, deleteRequest{path: "/models/" + id})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
