// Package config handles CLI configuration loading and management.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	// DefaultModel is used when no --model flag is given.
	DefaultModel string `yaml:"default_model"`

	// BaseURL overrides the service endpoint, e.g. for proxies or
	// compatible gateways.
	BaseURL string `yaml:"base_url,omitempty"`

	// Organization and Project scope requests to an account subdivision.
	Organization string `yaml:"organization,omitempty"`
	Project      string `yaml:"project,omitempty"`

	// APIKeyRef names the keystore entry holding the API key.
	APIKeyRef string `yaml:"api_key_ref,omitempty"`

	// RequestTimeoutSeconds bounds buffered requests. Zero keeps the
	// client default.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds,omitempty"`

	// StreamTimeoutSeconds bounds whole streaming exchanges. Zero keeps
	// the client default.
	StreamTimeoutSeconds int `yaml:"stream_timeout_seconds,omitempty"`
}

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.skiff/config.yaml
// - Windows: %USERPROFILE%\.skiff\config.yaml
func DefaultConfigPath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		// Fallback to current directory
		return "config.yaml"
	}

	return filepath.Join(homeDir, ".skiff", "config.yaml")
}

// LoadConfig loads configuration from the specified path.
// If the file doesn't exist, returns an empty config without error.
// Returns an error only if the file exists but cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing config file is not an error
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// KeyName returns the keystore entry name for the API key, defaulting to
// "openai" when the config names none.
func (c *Config) KeyName() string {
	if c == nil || c.APIKeyRef == "" {
		return "openai"
	}
	return c.APIKeyRef
}
