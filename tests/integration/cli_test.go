//go:build integration

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// emptyConfig returns a --config path inside a temp directory so the
// test never picks up the developer's real ~/.skiff/config.yaml.
func emptyConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yaml")
}

func TestCLIHelp(t *testing.T) {
	result := runCLI(t, "--help")

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0", result.ExitCode)
	}
	if !strings.Contains(result.Stdout, "skiff") {
		t.Error("Help should mention skiff")
	}

	commands := []string{"chat", "models", "files", "keys", "init", "version"}
	for _, cmd := range commands {
		if !strings.Contains(result.Stdout, cmd) {
			t.Errorf("Help should mention '%s' command", cmd)
		}
	}
}

func TestCLIVersion(t *testing.T) {
	result := runCLI(t, "version")

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}
	if !strings.Contains(result.Stdout, "skiff") {
		t.Errorf("Version output should mention skiff, got: %s", result.Stdout)
	}
}

func TestCLIChat(t *testing.T) {
	skipIfNoAPIKey(t)

	result := runCLI(t, "chat",
		"--config", emptyConfig(t),
		"--model", "gpt-4o-mini",
		"--prompt", "Say 'hello' and nothing else.")

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}
	if result.Stdout == "" {
		t.Error("Stdout is empty")
	}

	t.Logf("Output: %s", result.Stdout)
}

func TestCLIChatStreaming(t *testing.T) {
	skipIfNoAPIKey(t)

	result := runCLI(t, "chat",
		"--config", emptyConfig(t),
		"--model", "gpt-4o-mini",
		"--prompt", "Count from 1 to 3.",
		"--stream")

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}
	if result.Stdout == "" {
		t.Error("Stdout is empty")
	}

	t.Logf("Output: %s", result.Stdout)
}

func TestCLIChatJSON(t *testing.T) {
	skipIfNoAPIKey(t)

	result := runCLI(t, "chat",
		"--config", emptyConfig(t),
		"--model", "gpt-4o-mini",
		"--prompt", "Say hello.",
		"--json")

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}

	var output map[string]any
	if err := json.Unmarshal([]byte(result.Stdout), &output); err != nil {
		t.Fatalf("Output is not valid JSON: %v\nOutput: %s", err, result.Stdout)
	}
	if _, ok := output["output"]; !ok {
		t.Error("JSON output missing 'output' field")
	}
	if _, ok := output["usage"]; !ok {
		t.Error("JSON output missing 'usage' field")
	}

	t.Logf("JSON Output: %s", result.Stdout)
}

func TestCLIChatMissingModel(t *testing.T) {
	result := runCLI(t, "chat",
		"--config", emptyConfig(t),
		"--prompt", "Hello")

	if result.ExitCode == 0 {
		t.Error("Expected non-zero exit code for missing model")
	}
	if !strings.Contains(result.Stderr, "model") {
		t.Errorf("Stderr should mention model, got: %s", result.Stderr)
	}
}

func TestCLIModelsList(t *testing.T) {
	skipIfNoAPIKey(t)

	result := runCLI(t, "models", "list", "--config", emptyConfig(t))

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}
	if !strings.Contains(result.Stdout, "gpt") {
		t.Errorf("Model list should contain a gpt model, got: %s", result.Stdout)
	}
}

func TestCLIInit(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	result := runCLI(t, "init", "--config", cfgPath)

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}

	content, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("Config file not created: %v", err)
	}
	if !strings.Contains(string(content), "default_model") {
		t.Error("Config should contain default_model")
	}

	t.Logf("Output: %s", result.Stdout)
}

func TestCLIInitExistingConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("default_model: keep-me\n"), 0o644); err != nil {
		t.Fatalf("Failed to seed config: %v", err)
	}

	result := runCLI(t, "init", "--config", cfgPath)

	if result.ExitCode == 0 {
		t.Error("Expected non-zero exit code for existing config")
	}
	if !strings.Contains(result.Stderr, "exists") {
		t.Errorf("Stderr should mention exists, got: %s", result.Stderr)
	}
}

func TestCLIKeys(t *testing.T) {
	// A unique name keeps this run from clobbering real stored keys.
	name := "skiff-integration-test"
	testKey := "test-api-key-12345"

	result := runCLIWithStdin(t, testKey+"\n", "keys", "set", name)
	if result.ExitCode != 0 {
		t.Errorf("keys set exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}
	t.Cleanup(func() {
		runCLI(t, "keys", "delete", name)
	})

	result = runCLI(t, "keys", "list")
	if result.ExitCode != 0 {
		t.Errorf("keys list exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}
	if !strings.Contains(result.Stdout, name) {
		t.Errorf("keys list should contain %s, got: %s", name, result.Stdout)
	}

	result = runCLI(t, "keys", "delete", name)
	if result.ExitCode != 0 {
		t.Errorf("keys delete exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}

	result = runCLI(t, "keys", "list")
	if strings.Contains(result.Stdout, name) {
		t.Errorf("keys list should not contain %s after delete", name)
	}
}
