package sessionhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/claudecode"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/jsonutil"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/paths"
)

// Decisions accepted by --decision.
var Decisions = []string{"approve", "block"}

// CreateOptions describes one hook to add to a session hooks file.
type CreateOptions struct {
	SessionID string
	Event     string
	HookType  string
	Global    bool

	// json hooks
	Decision string
	Reason   string
	Message  string
	ExitCode int

	// command hooks
	Command string
	Timeout int

	Matcher string
	// Force starts from an empty file instead of appending to the existing one.
	Force bool
}

// NewHook is a hook as written by Create. Field order matches the order
// keys appear in the file.
type NewHook struct {
	Type     string    `json:"type"`
	Command  string    `json:"command,omitempty"`
	Timeout  int       `json:"timeout,omitempty"`
	JSON     *JSONBody `json:"json,omitempty"`
	ExitCode int       `json:"exitcode,omitempty"`
}

// JSONBody is the fixed response of a json hook.
type JSONBody struct {
	Decision      string `json:"decision,omitempty"`
	Reason        string `json:"reason,omitempty"`
	SystemMessage string `json:"systemMessage,omitempty"`
}

type newGroup struct {
	Hooks   []NewHook `json:"hooks"`
	Matcher string    `json:"matcher,omitempty"`
}

// Plan is the outcome of preparing a Create: what would be written where.
type Plan struct {
	Path     string
	Hook     NewHook
	Content  []byte
	Previous []byte
	Existed  bool
}

// InvalidOptionsError is a user-facing validation failure. Its text is
// printed as is, prefixed with "Error: ".
type InvalidOptionsError struct {
	msg string
}

func (e *InvalidOptionsError) Error() string { return "Error: " + e.msg }

func invalidf(format string, args ...any) error {
	return &InvalidOptionsError{msg: fmt.Sprintf(format, args...)}
}

// Validate checks options before anything is read or written.
func Validate(opts CreateOptions) error {
	if !ValidSessionID(opts.SessionID) {
		return invalidf("Invalid session ID format: %s\nSession ID must be a valid UUID format.", opts.SessionID)
	}
	if !slices.Contains(claudecode.Events, opts.Event) {
		return invalidf("Invalid event '%s'.\nValid events: %s", opts.Event, strings.Join(claudecode.Events, ", "))
	}
	if opts.HookType != TypeJSON && opts.HookType != TypeCommand {
		return invalidf("Invalid hook type '%s'. Use 'json' or 'command'.", opts.HookType)
	}
	if opts.Decision != "" && !slices.Contains(Decisions, opts.Decision) {
		return invalidf("Invalid decision '%s'. Valid decisions: %s", opts.Decision, strings.Join(Decisions, ", "))
	}

	if opts.Matcher != "" {
		valid, ok := MatcherValues[opts.Event]
		if !ok {
			return invalidf("Event '%s' does not support matchers.\nMatcher-supported events: %s",
				opts.Event, strings.Join([]string{claudecode.EventSessionStart, claudecode.EventPreCompact}, ", "))
		}
		if !slices.Contains(valid, opts.Matcher) {
			return invalidf("Invalid matcher '%s' for %s.\nValid matchers: %s", opts.Matcher, opts.Event, strings.Join(valid, ", "))
		}
	}

	if opts.HookType == TypeCommand && opts.Command == "" {
		return invalidf("--command is required for command hook type.")
	}
	return nil
}

// BuildHook turns options into the hook entry. Defaults are left out of the
// file: exitcode 0 and timeout 15 are not written.
func BuildHook(opts CreateOptions) NewHook {
	if opts.HookType == TypeCommand {
		hook := NewHook{Type: TypeCommand, Command: opts.Command}
		if timeout := min(opts.Timeout, MaxTimeout); timeout != DefaultTimeout {
			hook.Timeout = timeout
		}
		return hook
	}

	hook := NewHook{Type: TypeJSON, ExitCode: opts.ExitCode}
	body := JSONBody{Decision: opts.Decision, Reason: opts.Reason, SystemMessage: opts.Message}
	if body != (JSONBody{}) {
		hook.JSON = &body
	}
	return hook
}

// FilePath returns where the session's hooks file lives for the chosen scope.
func FilePath(sessionID string, global bool) (string, error) {
	if global {
		return paths.GlobalSessionHooksPath(sessionID)
	}
	return paths.LocalSessionHooksPath(sessionID), nil
}

// Prepare validates opts and computes the new file content without writing.
func Prepare(opts CreateOptions) (*Plan, error) {
	if err := Validate(opts); err != nil {
		return nil, err
	}

	path, err := FilePath(opts.SessionID, opts.Global)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Path: path, Hook: BuildHook(opts)}

	previous, err := os.ReadFile(path) //nolint:gosec // path built from a validated session id
	switch {
	case err == nil:
		plan.Previous = previous
		plan.Existed = true
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	config := map[string]any{"hooks": map[string]any{}}
	if plan.Existed && !opts.Force {
		if err := json.Unmarshal(previous, &config); err != nil {
			return nil, fmt.Errorf("parsing existing hooks file %s: %w", path, err)
		}
		if config == nil {
			config = map[string]any{}
		}
	}

	if err := appendHook(config, opts.Event, newGroup{Hooks: []NewHook{plan.Hook}, Matcher: opts.Matcher}); err != nil {
		return nil, fmt.Errorf("updating %s: %w", path, err)
	}

	plan.Content, err = jsonutil.MarshalIndentWithNewline(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func appendHook(config map[string]any, event string, group newGroup) error {
	rawHooks, ok := config["hooks"]
	if !ok || rawHooks == nil {
		rawHooks = map[string]any{}
		config["hooks"] = rawHooks
	}
	hooks, ok := rawHooks.(map[string]any)
	if !ok {
		return errors.New(`"hooks" is not an object`)
	}

	var groups []any
	if existing, ok := hooks[event]; ok && existing != nil {
		groups, ok = existing.([]any)
		if !ok {
			return fmt.Errorf(`"hooks.%s" is not a list`, event)
		}
	}
	hooks[event] = append(groups, group)
	return nil
}

// Write stores the plan's content, creating parent directories.
func Write(plan *Plan) error {
	if err := os.MkdirAll(filepath.Dir(plan.Path), 0o750); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := os.WriteFile(plan.Path, plan.Content, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", plan.Path, err)
	}
	return nil
}

// LineDiff renders a line-based diff: "+ " added, "- " removed, "  " unchanged.
func LineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	text1, text2, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(text1, text2, false), lineArray)

	var b strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffEqual:
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			b.WriteString(prefix)
			b.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
