package commands

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/skiff-ai/skiff/cli/config"
)

func TestVersionVariables(t *testing.T) {
	// Verify default values are set
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate should not be empty")
	}
}

func TestVersionCommandOutput(t *testing.T) {
	stdout := &bytes.Buffer{}
	app := NewApp(
		WithConfigLoader(func(path string) (*config.Config, error) { return &config.Config{}, nil }),
		WithIO(strings.NewReader(""), stdout, &bytes.Buffer{}),
	)
	app.root.SetOut(stdout)
	app.root.SetErr(&bytes.Buffer{})

	app.root.SetArgs([]string{"version"})
	if err := app.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "skiff "+Version) {
		t.Errorf("output = %q, want version line", out)
	}
	if !strings.Contains(out, runtime.Version()) {
		t.Errorf("output = %q, want go version", out)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	stdout := &bytes.Buffer{}
	app := NewApp(
		WithConfigLoader(func(path string) (*config.Config, error) { return &config.Config{}, nil }),
		WithIO(strings.NewReader(""), stdout, &bytes.Buffer{}),
	)
	app.root.SetOut(stdout)
	app.root.SetErr(&bytes.Buffer{})

	app.root.SetArgs([]string{"version", "--json"})
	if err := app.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, `"version":"`+Version+`"`) {
		t.Errorf("output = %q, want version field", out)
	}
	if !strings.Contains(out, `"platform":"`+runtime.GOOS+"/"+runtime.GOARCH+`"`) {
		t.Errorf("output = %q, want platform field", out)
	}
}
