// Package promptenhance adds file-finding guidance to prompts that point at
// files vaguely: placeholders, ellipses, or "this file" references. Long
// dictated prompts get an extra note about speech-to-text noise.
package promptenhance

import "regexp"

// placeholderPatterns lists the formatted placeholders first; the bare word
// pattern is always last.
var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[place\s*holder\]`),
	regexp.MustCompile(`(?i)<place\s*holder>`),
	regexp.MustCompile(`(?i)\{place\s*holder\}`),
	regexp.MustCompile(`(?i)\(\(place\s*holder\)\)`),
	regexp.MustCompile(`(?i)\[\[place\s*holder\]\]`),
	regexp.MustCompile(`(?i)\bplace\s*holder\b`),
}

var ellipsisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.{3,}`),
	regexp.MustCompile(`…`),
	regexp.MustCompile(`(?i)\betc\.?\b`),
	regexp.MustCompile(`(?i)\band so on\b`),
	regexp.MustCompile(`(?i)\band so forth\b`),
}

var triggerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bin this file\b`),
	regexp.MustCompile(`(?i)\bto this file\b`),
	regexp.MustCompile(`(?i)\bin this directory\b`),
	regexp.MustCompile(`(?i)\bto this directory\b`),
}

// ShouldEnhance reports whether prompt contains a placeholder, an ellipsis
// or a reference to "this file" / "this directory".
func ShouldEnhance(prompt string) bool {
	for _, group := range [][]*regexp.Regexp{placeholderPatterns, ellipsisPatterns, triggerPatterns} {
		for _, re := range group {
			if re.MatchString(prompt) {
				return true
			}
		}
	}
	return false
}

// CountPlaceholders counts placeholders of every format. Bare "placeholder"
// words are counted only after formatted ones are removed, so "[placeholder]"
// counts once.
func CountPlaceholders(prompt string) int {
	formatted := placeholderPatterns[:len(placeholderPatterns)-1]
	bare := placeholderPatterns[len(placeholderPatterns)-1]

	count := 0
	cleaned := prompt
	for _, re := range formatted {
		count += len(re.FindAllStringIndex(prompt, -1))
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	return count + len(bare.FindAllStringIndex(cleaned, -1))
}

// CountEllipsis counts ellipsis markers: "...", "…", "etc", "and so on",
// "and so forth".
func CountEllipsis(prompt string) int {
	count := 0
	for _, re := range ellipsisPatterns {
		count += len(re.FindAllStringIndex(prompt, -1))
	}
	return count
}
