package promptenhance

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// longPromptRunes is the length above which a prompt is treated as dictated.
const longPromptRunes = 200

type category struct {
	keywords   []string
	dirs       []string
	suggestion string // formatted with keyword, then directory
}

var categories = []category{
	{[]string{"test"}, []string{"test", "tests", "__tests__"}, "Look for %s files in the %s directory"},
	{[]string{"config", "setting"}, []string{"config", "configs", "settings"}, "Check %s files in the %s directory"},
	{[]string{"component", "ui", "interface"}, []string{"components", "src"}, "Look for %s in the %s directory"},
	{[]string{"service", "api", "endpoint"}, []string{"services", "app", "apps"}, "Check %s logic in the %s directory"},
	{[]string{"util", "helper", "common"}, []string{"utils", "lib"}, "Look for %s functions in the %s directory"},
	{[]string{"script", "tool"}, []string{"scripts", "tools"}, "Check %s files in the %s directory"},
}

const header = "**The user prompt requires enhancement before you can proceed. Follow the below instructions for prompt enhancement:**\n"

var generalGuidance = []string{
	"Use the Glob tool to search for files by pattern (e.g., '**/*.ts', '**/*.go', '**/*.py')",
	"Use the Grep tool to search for specific class, function, interface names",
	"Check the project structure first with 'ls' or 'tree' commands if available",
}

const voiceNote = "\nNote: The prompt may be a long transcripts of user voice input using Speech To Text. Identify the main intent and ignore misspellings, out of context or filler words."

// Instructions builds the additional context for prompt.
func Instructions(prompt string, project Project) string {
	lower := strings.ToLower(prompt)
	var suggestions []string

	for _, c := range categories {
		keyword := firstContained(lower, c.keywords)
		if keyword == "" {
			continue
		}
		for _, d := range c.dirs {
			if project.HasDir(d) {
				suggestions = append(suggestions, fmt.Sprintf(c.suggestion, keyword, d))
				break
			}
		}
	}

	if strings.Contains(lower, "placeholder") || strings.Contains(lower, "place holder") {
		suggestions = append(suggestions,
			"Identify all placeholder in the prompt eg. [placeholder], <placeholder>, {placeholder}, ((placeholder)), [[placeholder]], etc. Use the related keywords (before/after the placeholder) to search for relevant files.",
			fmt.Sprintf("There are %d placeholders in the prompt. All must be replaced with relevant file/directory paths.", CountPlaceholders(prompt)),
		)
	}

	if n := CountEllipsis(prompt); n > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("The prompt contains %d ellipsis pattern(s) ('...', '…', 'etc', 'and so on'). These indicate incomplete information or examples.", n),
			"You must infer and fill in the missing/implied information based on context. Look for patterns before/after the ellipsis to understand what's being referenced.",
			"Example: 'Update files in src/components/... to use new API' → Search for ALL files in src/components/ directory, not just literal '...' files.",
		)
	}

	var b strings.Builder
	b.WriteString(header)
	if len(suggestions) > 0 {
		b.WriteString("Based on project structure, consider:\n")
		writeBullets(&b, suggestions)
		b.WriteString("\n")
	}
	b.WriteString("General search strategies:\n")
	writeBullets(&b, generalGuidance)

	if utf8.RuneCountInString(prompt) > longPromptRunes {
		b.WriteString(voiceNote)
	}
	return b.String()
}

func firstContained(s string, keywords []string) string {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return kw
		}
	}
	return ""
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}
