package skiff

import (
	"errors"
	"net/http"
	"os"

	"github.com/skiff-ai/skiff/core"
	"github.com/skiff-ai/skiff/transport"
)

// DefaultAPIKeyEnvVar is the environment variable name for the API key.
const DefaultAPIKeyEnvVar = "OPENAI_API_KEY"

// ErrAPIKeyNotFound is returned when the API key environment variable is
// not set.
var ErrAPIKeyNotFound = errors.New("skiff: OPENAI_API_KEY environment variable not set")

// Client is the user-facing entry point. Each API surface is a thin
// wrapper that builds a request descriptor and hands it to the shared
// execution engine. Client is safe for concurrent use.
type Client struct {
	engine *transport.Engine
}

// New creates a Client with the given API key and options.
func New(apiKey string, opts ...transport.Option) *Client {
	return &Client{engine: transport.NewEngine(core.NewSecret(apiKey), opts...)}
}

// NewFromEnv creates a Client using the OPENAI_API_KEY environment
// variable. This is a convenience factory for quick setup:
//
//	client, err := skiff.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Additional options can be passed to customize the client:
//
//	client, err := skiff.NewFromEnv(transport.WithOrgID("org-xxx"))
func NewFromEnv(opts ...transport.Option) (*Client, error) {
	apiKey := os.Getenv(DefaultAPIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return New(apiKey, opts...), nil
}

// Engine returns the underlying execution engine, for callers that issue
// their own request descriptors.
func (c *Client) Engine() *transport.Engine {
	return c.engine
}

// getRequest is a bodiless GET descriptor.
type getRequest struct {
	path string
}

func (r getRequest) Path() string   { return r.path }
func (r getRequest) Method() string { return http.MethodGet }
func (r getRequest) Body() any      { return nil }

// deleteRequest is a bodiless DELETE descriptor.
type deleteRequest struct {
	path string
}

func (r deleteRequest) Path() string   { return r.path }
func (r deleteRequest) Method() string { return http.MethodDelete }
func (r deleteRequest) Body() any      { return nil }
