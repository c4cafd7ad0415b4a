package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/skiff-ai/skiff/cli/config"
)

func (a *App) newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write a starter configuration file.

The file lands at the --config path, or ~/.skiff/config.yaml by default.

Example:
  skiff init
  skiff init --model gpt-4o-mini`,
		RunE: a.runInit,
	}

	cmd.Flags().BoolVar(&a.initForce, "force", false, "Overwrite an existing config file")

	return cmd
}

func (a *App) runInit(cmd *cobra.Command, args []string) error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !a.initForce {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", path)
	}

	model := a.model
	if model == "" {
		model = "gpt-4o"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := writeTemplate(path, configYamlTemplate, configTemplateData{Model: model}); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	// Print success message
	fmt.Fprintf(a.stdout, "Created config: %s\n\n", path)
	fmt.Fprintln(a.stdout, "Next steps:")
	fmt.Fprintln(a.stdout, "  skiff keys set openai")
	fmt.Fprintln(a.stdout, `  skiff chat --prompt "Hello"`)

	return nil
}

type configTemplateData struct {
	Model string
}

func writeTemplate(path string, tmplContent string, data configTemplateData) error {
	tmpl, err := template.New("file").Parse(tmplContent)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

var configYamlTemplate = `# Skiff CLI configuration
default_model: {{.Model}}

# The API key is read from OPENAI_API_KEY or the encrypted keystore.
# Store a key with 'skiff keys set openai'.
api_key_ref: openai

# Optional endpoint and account scoping.
# base_url: https://api.openai.com/v1
# organization: org-xxxx
# project: proj_xxxx

# Optional timeouts in seconds.
# request_timeout_seconds: 120
# stream_timeout_seconds: 600
`
