package redact

import (
	"testing"
)

// highEntropySecret has Shannon entropy above the threshold.
const highEntropySecret = "sk-ant-REDACTED"

func TestString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no secrets", "git status --short", "git status --short"},
		{"path is kept", "rm -rf ./node_modules/.cache", "rm -rf ./node_modules/.cache"},
		{"secret in command", "curl -H 'x-api-key: " + highEntropySecret + "' https://example.com", "curl -H 'x-api-key: REDACTED' https://example.com"},
		{"two secrets", highEntropySecret + " " + highEntropySecret, "REDACTED REDACTED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.in); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValue(t *testing.T) {
	in := map[string]any{
		"command":     "echo " + highEntropySecret,
		"tool_use_id": highEntropySecret,
		"args":        []any{"ls", highEntropySecret, 3.0},
		"nested":      map[string]any{"timeout": 10.0},
	}

	out, ok := Value(in).(map[string]any)
	if !ok {
		t.Fatalf("Value() returned %T", Value(in))
	}
	if out["command"] != "echo REDACTED" {
		t.Errorf("command = %q", out["command"])
	}
	if out["tool_use_id"] != highEntropySecret {
		t.Errorf("identifier keys must not be redacted, got %q", out["tool_use_id"])
	}
	args, _ := out["args"].([]any)
	if len(args) != 3 || args[0] != "ls" || args[1] != Placeholder || args[2] != 3.0 {
		t.Errorf("args = %v", args)
	}
	if in["command"] == out["command"] {
		t.Error("input map must not be modified")
	}
}

func TestShannonEntropy(t *testing.T) {
	if shannonEntropy("") != 0 {
		t.Error("empty string entropy should be 0")
	}
	if shannonEntropy("aaaaaaaaaa") != 0 {
		t.Error("uniform string entropy should be 0")
	}
	if shannonEntropy(highEntropySecret) <= entropyThreshold {
		t.Error("secret should exceed entropy threshold")
	}
}
