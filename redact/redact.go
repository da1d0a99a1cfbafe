// Package redact masks secrets in text before it reaches log files.
// Hook payloads carry raw shell commands and file contents, so anything
// logged from tool_input passes through here first.
package redact

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/zricethezav/gitleaks/v8/detect"
)

// Placeholder replaces every detected secret.
const Placeholder = "REDACTED"

// tokenPattern matches candidate tokens for the entropy check.
var tokenPattern = regexp.MustCompile(`[A-Za-z0-9/+_=-]{10,}`)

// entropyThreshold sits above ordinary identifiers and paths and below
// typical API keys, which score well over 5.0.
const entropyThreshold = 4.5

var (
	detector     *detect.Detector
	detectorOnce sync.Once
)

func getDetector() *detect.Detector {
	detectorOnce.Do(func() {
		d, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			return
		}
		detector = d
	})
	return detector
}

type span struct{ start, end int }

// String replaces secrets in s with Placeholder. A token is a secret when
// its Shannon entropy exceeds the threshold or a gitleaks rule matches it.
func String(s string) string {
	var spans []span

	for _, loc := range tokenPattern.FindAllStringIndex(s, -1) {
		if shannonEntropy(s[loc[0]:loc[1]]) > entropyThreshold {
			spans = append(spans, span{loc[0], loc[1]})
		}
	}

	if d := getDetector(); d != nil {
		for _, f := range d.DetectString(s) {
			spans = append(spans, occurrences(s, f.Secret)...)
		}
	}

	if len(spans) == 0 {
		return s
	}
	return replaceSpans(s, spans)
}

// Value returns a copy of a decoded JSON value with every string passed
// through String. Keys ending in "id" are left alone so session and
// tool-use identifiers stay readable.
func Value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			if isIdentifierKey(k) {
				out[k] = child
				continue
			}
			out[k] = Value(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = Value(child)
		}
		return out
	case string:
		return String(val)
	default:
		return v
	}
}

func isIdentifierKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.HasSuffix(lower, "id") || strings.HasSuffix(lower, "ids")
}

func occurrences(s, secret string) []span {
	if secret == "" {
		return nil
	}
	var out []span
	from := 0
	for {
		idx := strings.Index(s[from:], secret)
		if idx < 0 {
			return out
		}
		abs := from + idx
		out = append(out, span{abs, abs + len(secret)})
		from = abs + len(secret)
	}
}

func replaceSpans(s string, spans []span) string {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	merged := []span{spans[0]}
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.start <= last.end {
			last.end = max(last.end, sp.end)
			continue
		}
		merged = append(merged, sp)
	}

	var b strings.Builder
	prev := 0
	for _, sp := range merged {
		b.WriteString(s[prev:sp.start])
		b.WriteString(Placeholder)
		prev = sp.end
	}
	b.WriteString(s[prev:])
	return b.String()
}

func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	freq := make(map[byte]int)
	for i := range len(s) {
		freq[s[i]]++
	}
	length := float64(len(s))
	var entropy float64
	for _, count := range freq {
		p := float64(count) / length
		entropy -= p * math.Log2(p)
	}
	return entropy
}
