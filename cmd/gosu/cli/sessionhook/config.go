// Package sessionhook runs per-session hooks stored in
// .claude/hooks/hooks.<session-id>.json, and creates those files.
//
// A session hooks file uses the same layout as the hooks section of Claude
// Code settings:
//
//	{"hooks": {"Stop": [{"matcher": "...", "hooks": [{"type": "json", "json": {...}}]}]}}
//
// Each entry is either a "command" hook, run with sh -c and fed the original
// hook input on stdin, or a "json" hook that prints a fixed object.
//
// A group matcher that is not a string (a number, say) never matches, so its
// hooks are skipped rather than failing the whole hook run.
package sessionhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/claudecode"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/paths"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/validation"
)

const (
	// DefaultTimeout applies when a command hook sets no usable timeout.
	DefaultTimeout = 15
	// MaxTimeout is the largest timeout a command hook may request, in seconds.
	MaxTimeout = 60
	// MaxFileSize bounds the hooks file read into memory.
	MaxFileSize = 1024 * 1024
)

// Hook types.
const (
	TypeCommand = "command"
	TypeJSON    = "json"
)

// ErrFileTooLarge matches, via errors.Is, the error LoadConfig returns for
// files over MaxFileSize.
var ErrFileTooLarge = errors.New("session hooks file too large")

// FileTooLargeError names the oversized file.
type FileTooLargeError struct {
	Path string
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("Session hooks file exceeds maximum size (%d bytes): %s", MaxFileSize, e.Path)
}

func (e *FileTooLargeError) Is(target error) bool { return target == ErrFileTooLarge }

// Config is a decoded session hooks file. Hand-edited files are common, so
// every level is read leniently and malformed parts are skipped.
type Config map[string]any

// Hook is one entry of a matcher group's "hooks" list.
type Hook map[string]any

// Type returns the hook's type, or "" when missing or not a string.
func (h Hook) Type() string {
	s, _ := h["type"].(string) //nolint:errcheck // zero value on mismatch
	return s
}

// Command returns the command of a command hook.
func (h Hook) Command() string {
	s, _ := h["command"].(string) //nolint:errcheck // zero value on mismatch
	return s
}

// ValidSessionID reports whether id is a UUID. Only UUIDs are used to build
// file names, which rules out path traversal.
func ValidSessionID(id string) bool {
	return validation.IsSessionUUID(id)
}

// FindFile returns the hooks file for a session: the project-local file
// relative to the working directory first, then the one in the user's home.
// Only regular files count. Returns "" when neither exists.
func FindFile(sessionID string) string {
	if isRegularFile(paths.LocalSessionHooksPath(sessionID)) {
		return paths.LocalSessionHooksPath(sessionID)
	}
	global, err := paths.GlobalSessionHooksPath(sessionID)
	if err == nil && isRegularFile(global) {
		return global
	}
	return ""
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LoadConfig reads and parses a session hooks file.
func LoadConfig(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, &FileTooLargeError{Path: path}
	}

	data, err := os.ReadFile(path) //nolint:gosec // path built from a validated session id
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	cfg, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("session hooks file must contain a JSON object")
	}
	return Config(cfg), nil
}

// matcherFields maps events that support matchers to the input field the
// matcher is compared against.
var matcherFields = map[string]string{
	claudecode.EventPreCompact:   "trigger",
	claudecode.EventSessionStart: "source",
}

// MatcherField returns the input field matched for event, or "" when the
// event has no matcher support.
func MatcherField(event string) string {
	return matcherFields[event]
}

// MatcherValues lists the accepted matcher values per event.
var MatcherValues = map[string][]string{
	claudecode.EventSessionStart: {"startup", "resume", "clear", "compact"},
	claudecode.EventPreCompact:   {"manual", "auto"},
}

// SelectHook returns the first usable hook for event: a command hook with a
// non-empty command, or any json hook, from the first matcher group that
// accepts input. Returns nil when there is none.
func SelectHook(cfg Config, event string, input map[string]any) Hook {
	hooks, ok := cfg["hooks"].(map[string]any)
	if !ok {
		return nil
	}
	groups, ok := hooks[event].([]any)
	if !ok {
		return nil
	}

	for _, g := range groups {
		group, ok := g.(map[string]any)
		if !ok || !groupMatches(group, event, input) {
			continue
		}
		list, ok := group["hooks"].([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			hook, ok := item.(map[string]any)
			if !ok {
				continue
			}
			h := Hook(hook)
			switch h.Type() {
			case TypeCommand:
				if h.Command() != "" {
					return h
				}
			case TypeJSON:
				return h
			}
		}
	}
	return nil
}

// groupMatches applies the optional matcher of a group. A matcher on an
// event without matcher support is ignored; a non-string matcher never matches.
func groupMatches(group map[string]any, event string, input map[string]any) bool {
	raw, present := group["matcher"]
	if !present || raw == nil {
		return true
	}
	matcher, ok := raw.(string)
	if !ok {
		return false
	}
	if matcher == "" {
		return true
	}

	field := MatcherField(event)
	if field == "" {
		return true
	}
	return strings.EqualFold(matcher, stringify(input[field]))
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
