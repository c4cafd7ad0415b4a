// Package commands implements the CLI command structure using Cobra.
package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skiff-ai/skiff"
	"github.com/skiff-ai/skiff/cli/config"
	"github.com/skiff-ai/skiff/cli/keystore"
	"github.com/skiff-ai/skiff/transport"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// ClientFactory creates an API client using CLI config context. The
// extra options are appended after the config-derived ones.
type ClientFactory func(apiKey string, cfg *config.Config, extra ...transport.Option) (*skiff.Client, error)

// KeystoreFactory creates a keystore instance.
type KeystoreFactory func() (keystore.Keystore, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig  ConfigLoader
	newClient   ClientFactory
	newKeystore KeystoreFactory
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer

	cfgFile    string
	model      string
	jsonOutput bool
	verbose    bool
	cfg        *config.Config

	chatPrompt      string
	chatSystem      string
	chatTemperature float64
	chatMaxTokens   int
	chatStream      bool
	chatRetries     int

	filePurpose string
	initForce   bool
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithClientFactory injects a client factory dependency.
func WithClientFactory(factory ClientFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newClient = factory
		}
	}
}

// WithKeystoreFactory injects a keystore factory dependency.
func WithKeystoreFactory(factory KeystoreFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newKeystore = factory
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig:  config.LoadConfig,
		newClient:   defaultClientFactory,
		newKeystore: keystore.NewKeystore,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

// defaultClientFactory builds an API client from the loaded config.
func defaultClientFactory(apiKey string, cfg *config.Config, extra ...transport.Option) (*skiff.Client, error) {
	var opts []transport.Option
	if cfg != nil {
		if cfg.BaseURL != "" {
			opts = append(opts, transport.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Organization != "" {
			opts = append(opts, transport.WithOrgID(cfg.Organization))
		}
		if cfg.Project != "" {
			opts = append(opts, transport.WithProjectID(cfg.Project))
		}
		if cfg.RequestTimeoutSeconds > 0 {
			opts = append(opts, transport.WithTimeout(time.Duration(cfg.RequestTimeoutSeconds)*time.Second))
		}
		if cfg.StreamTimeoutSeconds > 0 {
			opts = append(opts, transport.WithStreamTimeout(time.Duration(cfg.StreamTimeoutSeconds)*time.Second))
		}
	}
	opts = append(opts, extra...)
	return skiff.New(apiKey, opts...), nil
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "skiff",
		Short: "Skiff - Go client and CLI for the OpenAI HTTP API",
		Long: `Skiff is a command-line interface for the OpenAI HTTP API.

Use Skiff to chat with models, manage uploaded files, and store API keys.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage: true,
	}

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.skiff/config.yaml)")
	root.PersistentFlags().StringVar(&a.model, "model", "", "model ID (e.g. gpt-4o)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newChatCommand())
	root.AddCommand(a.newModelsCommand())
	root.AddCommand(a.newFilesCommand())
	root.AddCommand(a.newKeysCommand())
	root.AddCommand(a.newInitCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.root.Execute()
}

func (a *App) initConfig() error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Apply config defaults if flags not set.
	if a.model == "" && cfg.DefaultModel != "" {
		a.model = cfg.DefaultModel
	}

	return nil
}

// resolveAPIKey finds the API key. The environment variable wins; the
// keystore entry named by the config is the fallback.
func (a *App) resolveAPIKey() (string, error) {
	if key := os.Getenv(skiff.DefaultAPIKeyEnvVar); key != "" {
		return key, nil
	}

	ks, err := a.newKeystore()
	if err != nil {
		return "", fmt.Errorf("failed to open keystore: %w", err)
	}

	name := a.cfg.KeyName()
	key, err := ks.Get(name)
	if err != nil {
		if _, ok := err.(*keystore.ErrKeyNotFound); ok {
			return "", fmt.Errorf("no API key found: set %s or run 'skiff keys set %s'", skiff.DefaultAPIKeyEnvVar, name)
		}
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return key, nil
}

// client resolves the API key and builds an API client from config.
// Verbose runs get a telemetry hook that traces requests on stderr.
func (a *App) client() (*skiff.Client, error) {
	apiKey, err := a.resolveAPIKey()
	if err != nil {
		return nil, err
	}
	var extra []transport.Option
	if a.verbose {
		extra = append(extra, transport.WithTelemetry(logHook{w: a.stderr}))
	}
	return a.newClient(apiKey, a.cfg, extra...)
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
