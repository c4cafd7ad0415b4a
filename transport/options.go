package transport

import (
	"net/http"
	"time"

	"github.com/skiff-ai/skiff/core"
)

// DefaultBaseURL is the default API base URL.
const DefaultBaseURL = "https://api.openai.com/v1"

const (
	// DefaultTimeout bounds a buffered request from send to the last
	// body byte. For streaming requests it bounds header acquisition
	// only.
	DefaultTimeout = 2 * time.Minute

	// DefaultStreamTimeout bounds the total lifetime of a streaming
	// exchange, including the time spent draining events.
	DefaultStreamTimeout = 10 * time.Minute
)

// defaultUserAgent identifies this client on the wire. Bumped at release
// time.
const defaultUserAgent = "skiff-go/0.3.0"

// Config holds the engine configuration. It is fixed at construction;
// an Engine never mutates its Config, which is what makes one Engine
// safe to share across concurrent requests.
type Config struct {
	// APIKey is the bearer credential sent on every request (required).
	APIKey core.Secret

	// BaseURL is the API base URL. Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient is the HTTP client to use. Defaults to a client with
	// no client-level timeout; deadlines are applied per request.
	HTTPClient *http.Client

	// OrgID is the optional organization identifier header value.
	OrgID string

	// ProjectID is the optional project identifier header value.
	ProjectID string

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Timeout bounds each buffered request. Zero disables the bound.
	// Defaults to DefaultTimeout.
	Timeout time.Duration

	// StreamTimeout bounds each streaming exchange end to end. Zero
	// disables the bound. Defaults to DefaultStreamTimeout.
	StreamTimeout time.Duration

	// StreamChunkSize, when positive, reads streaming bodies in raw
	// chunks of this many bytes and reassembles lines manually instead
	// of using buffered line reads. This bounds per-read memory for
	// sources with very long event lines.
	StreamChunkSize int

	// UserAgent is the client identifier string sent with every
	// request.
	UserAgent string

	// Telemetry receives request lifecycle events. Defaults to
	// core.NoopTelemetryHook.
	Telemetry core.TelemetryHook
}

// Option configures the Engine.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithOrgID sets the organization identifier header.
func WithOrgID(org string) Option {
	return func(c *Config) {
		c.OrgID = org
	}
}

// WithProjectID sets the project identifier header.
func WithProjectID(project string) Option {
	return func(c *Config) {
		c.ProjectID = project
	}
}

// WithHeader adds an extra header to every request.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Add(key, value)
	}
}

// WithTimeout sets the buffered request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithStreamTimeout sets the total streaming exchange timeout.
func WithStreamTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.StreamTimeout = d
	}
}

// WithStreamChunkSize switches streaming reads to fixed-size chunks.
func WithStreamChunkSize(n int) Option {
	return func(c *Config) {
		c.StreamChunkSize = n
	}
}

// WithUserAgent overrides the client identifier string.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTelemetry installs a telemetry hook.
func WithTelemetry(hook core.TelemetryHook) Option {
	return func(c *Config) {
		c.Telemetry = hook
	}
}
