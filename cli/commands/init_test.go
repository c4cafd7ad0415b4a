package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skiff-ai/skiff/cli/config"
)

func newInitApp(stdout *bytes.Buffer) *App {
	app := NewApp(
		WithConfigLoader(config.LoadConfig),
		WithIO(strings.NewReader(""), stdout, &bytes.Buffer{}),
	)
	app.root.SetOut(stdout)
	app.root.SetErr(&bytes.Buffer{})
	return app
}

func TestInitWritesConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	stdout := &bytes.Buffer{}
	app := newInitApp(stdout)

	app.root.SetArgs([]string{"init", "--config", path})
	if err := app.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not created: %v", err)
	}

	if !strings.Contains(string(content), "default_model: gpt-4o") {
		t.Errorf("config missing default model:\n%s", content)
	}
	if !strings.Contains(string(content), "api_key_ref: openai") {
		t.Errorf("config missing api_key_ref:\n%s", content)
	}
	if !strings.Contains(stdout.String(), "Created config:") {
		t.Errorf("output = %q, want creation notice", stdout.String())
	}
}

func TestInitUsesModelFlag(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	app := newInitApp(&bytes.Buffer{})
	app.root.SetArgs([]string{"init", "--config", path, "--model", "gpt-4o-mini"})
	if err := app.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not created: %v", err)
	}
	if !strings.Contains(string(content), "default_model: gpt-4o-mini") {
		t.Errorf("config missing flag model:\n%s", content)
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(path, []byte("default_model: keep-me\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	app := newInitApp(&bytes.Buffer{})
	app.root.SetArgs([]string{"init", "--config", path})

	err := app.Execute()
	if err == nil {
		t.Fatal("Execute() should refuse to overwrite an existing config")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error = %v, want already-exists message", err)
	}

	content, _ := os.ReadFile(path)
	if !strings.Contains(string(content), "keep-me") {
		t.Error("existing config was overwritten")
	}
}

func TestInitForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(path, []byte("default_model: old\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	app := newInitApp(&bytes.Buffer{})
	app.root.SetArgs([]string{"init", "--config", path, "--force"})
	if err := app.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "# Skiff CLI configuration") {
		t.Errorf("config not replaced:\n%s", content)
	}
}

func TestInitConfigRoundTrips(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	app := newInitApp(&bytes.Buffer{})
	app.root.SetArgs([]string{"init", "--config", path})
	if err := app.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// The generated file must load back through the config package.
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DefaultModel != "gpt-4o" {
		t.Errorf("DefaultModel = %q, want gpt-4o", cfg.DefaultModel)
	}
	if cfg.KeyName() != "openai" {
		t.Errorf("KeyName() = %q, want openai", cfg.KeyName())
	}
}

func TestWriteTemplate(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.txt")

	tmpl := "model is {{.Model}}"
	data := configTemplateData{Model: "gpt-4o"}

	if err := writeTemplate(path, tmpl, data); err != nil {
		t.Fatalf("writeTemplate() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(content) != "model is gpt-4o" {
		t.Errorf("writeTemplate() content = %q, want 'model is gpt-4o'", string(content))
	}
}
