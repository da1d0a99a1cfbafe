package guard

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// Verdict is the rm detector's answer.
type Verdict int

const (
	VerdictSafe Verdict = iota
	VerdictAsk
	VerdictDeny
)

func (v Verdict) String() string {
	switch v {
	case VerdictSafe:
		return "safe"
	case VerdictAsk:
		return "ask"
	case VerdictDeny:
		return "deny"
	default:
		return "unknown"
	}
}

// rmFlags is what IsDangerousRm extracts from one rm invocation.
type rmFlags struct {
	force         bool
	recursive     bool
	longForce     bool
	longRecursive bool
	paths         []string
}

// Tokenize splits a command the way a POSIX shell would. Unbalanced quotes
// fall back to a plain whitespace split.
func Tokenize(command string) []string {
	tokens, err := shellquote.Split(command)
	if err != nil {
		return strings.Fields(command)
	}
	return tokens
}

// IsDangerousRm inspects a command line that may be an rm invocation.
// Only rm with both force and recursive flags is ever flagged; long-form
// flags are always denied, as is a forced recursive rm with no target.
func IsDangerousRm(command string) Verdict {
	command = strings.TrimSpace(command)
	if command == "" {
		return VerdictSafe
	}

	tokens := Tokenize(command)
	if len(tokens) == 0 || strings.ToLower(tokens[0]) != "rm" {
		return VerdictSafe
	}

	flags := parseRmArgs(tokens[1:])
	if !flags.force || !flags.recursive {
		return VerdictSafe
	}
	if flags.longForce || flags.longRecursive {
		return VerdictDeny
	}
	if len(flags.paths) == 0 {
		return VerdictDeny
	}

	// A dangerous target anywhere wins over a potential one seen earlier.
	verdict := VerdictSafe
	for _, p := range flags.paths {
		switch ClassifyPath(p) {
		case PathDangerous:
			return VerdictDeny
		case PathPotential:
			verdict = VerdictAsk
		case PathSafe:
		}
	}
	return verdict
}

func parseRmArgs(args []string) rmFlags {
	var f rmFlags
	for i, tok := range args {
		lower := strings.ToLower(tok)

		switch {
		case lower == "--":
			f.paths = append(f.paths, args[i+1:]...)
			return f
		case strings.HasPrefix(lower, "--"):
			if lower == "--force" || strings.HasPrefix(lower, "--force=") {
				f.force, f.longForce = true, true
			} else if lower == "--recursive" || strings.HasPrefix(lower, "--recursive=") {
				f.recursive, f.longRecursive = true, true
			}
		case strings.HasPrefix(lower, "-") && len(lower) > 1:
			// -r, -R and -f in any cluster; lowering makes -R count as recursive.
			if strings.ContainsRune(lower[1:], 'f') {
				f.force = true
			}
			if strings.ContainsRune(lower[1:], 'r') {
				f.recursive = true
			}
		default:
			f.paths = append(f.paths, tok)
		}
	}
	return f
}
