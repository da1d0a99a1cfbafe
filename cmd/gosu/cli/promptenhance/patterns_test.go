package promptenhance

import (
	"strings"
	"testing"
)

func TestShouldEnhance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prompt string
		want   bool
	}{
		{"Update [placeholder] file", true},
		{"Fix <placeholder> component", true},
		{"Check {placeholder} config", true},
		{"Update ((placeholder)) module", true},
		{"Update [[placeholder]] setting", true},
		{"Update placeholder in code", true},
		{"Update place holder in code", true},
		{"Update files in src/...", true},
		{"Fix bugs in handlers… controllers", true},
		{"Add auth, logging, etc", true},
		{"Add auth, logging, etc.", true},
		{"Implement A, B, and so on", true},
		{"Fix X, Y, and so forth", true},
		{"Update function in this file", true},
		{"Add import to this file", true},
		{"Check files in this directory", true},
		{"Copy files to this directory", true},
		{"Update IN THIS FILE", true},
		{"Add TO THIS DIRECTORY", true},
		{"Update 文件 with placeholder", true},
		{"...", true},
		{strings.Repeat("word ", 1000) + "placeholder " + strings.Repeat("word ", 1000), true},

		{"Update the authentication module", false},
		{"Add new feature for users", false},
		{"Refactor the code", false},
		{"Implement user login", false},
		{"Fix bug in parser", false},
		{"Use placeholders everywhere", false},
		{"", false},
		{"   \t\n  ", false},
	}

	for _, tt := range tests {
		if got := ShouldEnhance(tt.prompt); got != tt.want {
			t.Errorf("ShouldEnhance(%.40q) = %v, want %v", tt.prompt, got, tt.want)
		}
	}
}

func TestCountPlaceholders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prompt string
		want   int
	}{
		{"Update [placeholder]", 1},
		{"Fix <placeholder>", 1},
		{"Check {placeholder}", 1},
		{"Update placeholder", 1},
		{"Update [placeholder] and <placeholder> files", 2},
		{"Update the config file", 0},
		{"Update PLACEHOLDER", 1},
		{"Update [PlaceHolder]", 1},
		{"[placeholder]", 1},
		{"Update [placeholder] and {placeholder} and placeholder", 3},
		{"[placeholder]text", 1},
		{"text[placeholder]", 1},
	}

	for _, tt := range tests {
		if got := CountPlaceholders(tt.prompt); got != tt.want {
			t.Errorf("CountPlaceholders(%q) = %d, want %d", tt.prompt, got, tt.want)
		}
	}
}

func TestCountEllipsis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prompt string
		want   int
	}{
		{"Update files in src/...", 1},
		{"Fix bugs in handlers…", 1},
		{"Add auth, logging, etc", 1},
		{"Add auth, logging, etc.", 1},
		{"Implement A, B, and so on", 1},
		{"Fix X, Y, and so forth", 1},
		{"Update files in src/... and test/... etc", 3},
		{"Update the config file", 0},
		{"Update files....", 1},
		{"Update A, B, AND SO ON", 1},
		{"Add auth, ETC.", 1},
	}

	for _, tt := range tests {
		if got := CountEllipsis(tt.prompt); got != tt.want {
			t.Errorf("CountEllipsis(%q) = %d, want %d", tt.prompt, got, tt.want)
		}
	}
}
