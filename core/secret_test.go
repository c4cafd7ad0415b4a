package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestSecretRedaction(t *testing.T) {
	s := NewSecret("sk-verysecret")

	if got := s.String(); got != "[REDACTED]" {
		t.Errorf("String() = %q, want %q", got, "[REDACTED]")
	}
	if got := fmt.Sprintf("%v", s); got != "[REDACTED]" {
		t.Errorf("%%v = %q, want %q", got, "[REDACTED]")
	}
	if got := fmt.Sprintf("%#v", s); strings.Contains(got, "verysecret") {
		t.Errorf("%%#v leaked the secret: %q", got)
	}
	if got := fmt.Sprintf("%s", s); got != "[REDACTED]" {
		t.Errorf("%%s = %q, want %q", got, "[REDACTED]")
	}
}

func TestSecretExpose(t *testing.T) {
	s := NewSecret("sk-verysecret")
	if got := s.Expose(); got != "sk-verysecret" {
		t.Errorf("Expose() = %q, want %q", got, "sk-verysecret")
	}
}

func TestSecretIsEmpty(t *testing.T) {
	if !NewSecret("").IsEmpty() {
		t.Error("empty secret should report IsEmpty")
	}
	var zero Secret
	if !zero.IsEmpty() {
		t.Error("zero value should report IsEmpty")
	}
	if NewSecret("x").IsEmpty() {
		t.Error("non-empty secret should not report IsEmpty")
	}
}

func TestSecretJSON(t *testing.T) {
	payload := struct {
		Key Secret `json:"key"`
	}{Key: NewSecret("sk-verysecret")}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(data), `{"key":"[REDACTED]"}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}
