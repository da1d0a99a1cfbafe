// Package guard decides whether a Claude Code tool call is safe to run.
//
// Every check is a pure function of the tool input. Nothing touches the
// filesystem, so the same command always gets the same verdict.
package guard

import (
	"strings"
)

// PathClass is the risk class of one rm target.
type PathClass int

const (
	PathSafe PathClass = iota
	PathPotential
	PathDangerous
)

func (c PathClass) String() string {
	switch c {
	case PathSafe:
		return "safe"
	case PathPotential:
		return "potential"
	case PathDangerous:
		return "dangerous"
	default:
		return "unknown"
	}
}

var (
	wildcardPotentialPrefixes = []string{"/tmp/", "/var/log/", "/workspace/", "/workspaces/"}

	safeAbsoluteRoots = []string{"/tmp", "/var/log"}

	systemRoots = []string{
		"/",
		"/bin", "/boot", "/dev", "/etc", "/lib", "/lib32", "/lib64",
		"/proc", "/root", "/run", "/sbin", "/sys", "/usr", "/var/lib", "/var/run",
	}

	workspaceRoots = []string{"/workspace", "/workspaces"}
)

// ClassifyPath classifies an rm target by its text alone. Rules are checked
// in order and the first hit wins; anything unrecognised is dangerous.
func ClassifyPath(path string) PathClass {
	p := strings.ToLower(strings.TrimSpace(path))

	switch p {
	case "", "*", ".":
		return PathDangerous
	case "..", "../":
		return PathPotential
	}

	if strings.HasPrefix(p, "../") || strings.HasPrefix(p, `..\`) ||
		strings.Contains(p, "/../") || strings.Contains(p, `\..`) ||
		strings.HasSuffix(p, "/..") || strings.HasSuffix(p, `\..`) {
		return PathPotential
	}

	if strings.HasPrefix(p, "~") || strings.HasPrefix(p, "$home") || strings.HasPrefix(p, "${home") {
		return PathDangerous
	}

	if strings.Contains(p, "*") {
		return classifyGlob(p)
	}

	if strings.HasPrefix(p, "/") {
		return classifyAbsolute(p)
	}

	if strings.HasPrefix(p, "./") {
		return PathSafe
	}

	// file.txt, build/out.o
	if strings.Contains(p, ".") && !strings.HasPrefix(p, ".") {
		return PathSafe
	}

	return PathDangerous
}

func classifyGlob(p string) PathClass {
	if strings.Trim(p, "*") == "" {
		return PathDangerous
	}
	if !strings.HasPrefix(p, "/") {
		return PathSafe
	}
	for _, prefix := range wildcardPotentialPrefixes {
		if strings.HasPrefix(p, prefix) {
			return PathPotential
		}
	}
	return PathDangerous
}

func classifyAbsolute(p string) PathClass {
	if underAny(p, safeAbsoluteRoots) {
		return PathSafe
	}
	if underAny(p, systemRoots) {
		return PathDangerous
	}
	for _, root := range workspaceRoots {
		if p == root {
			return PathDangerous
		}
		if strings.HasPrefix(p, root+"/") {
			return PathPotential
		}
	}
	return PathSafe
}

// underAny reports whether p equals one of roots or sits below it.
// For the root "/" that means "/" itself or a path starting with "//".
func underAny(p string, roots []string) bool {
	for _, root := range roots {
		if p == root || strings.HasPrefix(p, root+"/") {
			return true
		}
	}
	return false
}
