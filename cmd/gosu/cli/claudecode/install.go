package claudecode

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/jsonutil"
)

// SettingsFileName is the project-level Claude Code settings file.
const SettingsFileName = "settings.json"

// guardToolMatcher covers the tools the guard hook knows how to inspect.
const guardToolMatcher = "Bash|Read|Edit|MultiEdit|Write"

// hookPrefixes identify commands that gosu installed.
var hookPrefixes = []string{
	"gosu ",
	"go run ${CLAUDE_PROJECT_DIR}/cmd/gosu/main.go ",
}

// HookMatcher groups hook commands under an optional matcher.
type HookMatcher struct {
	Matcher string      `json:"matcher,omitempty"`
	Hooks   []HookEntry `json:"hooks"`
}

// HookEntry is one configured hook command.
type HookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

// InstallOptions controls which commands InstallHooks writes.
type InstallOptions struct {
	// LocalDev runs hooks through "go run" from the project checkout.
	LocalDev bool
	// AutoAllow passes --and-auto-allow to the guard hook.
	AutoAllow bool
	// Force removes previously installed gosu hooks first.
	Force bool
}

// InstallHooks adds the gosu hooks to the Claude Code settings file at
// settingsPath, preserving every other key. Returns how many hook commands
// were added; 0 means everything was already present.
func InstallHooks(settingsPath string, opts InstallOptions) (int, error) {
	rawSettings := make(map[string]json.RawMessage)
	hooks := make(map[string][]HookMatcher)

	existing, err := os.ReadFile(settingsPath) //nolint:gosec // caller-provided settings path
	switch {
	case err == nil:
		if err := json.Unmarshal(existing, &rawSettings); err != nil {
			return 0, fmt.Errorf("failed to parse existing %s: %w", SettingsFileName, err)
		}
		if hooksRaw, ok := rawSettings["hooks"]; ok {
			if err := json.Unmarshal(hooksRaw, &hooks); err != nil {
				return 0, fmt.Errorf("failed to parse hooks in %s: %w", SettingsFileName, err)
			}
		}
	case !os.IsNotExist(err):
		return 0, fmt.Errorf("failed to read %s: %w", settingsPath, err)
	}

	if opts.Force {
		for event, matchers := range hooks {
			hooks[event] = removeGosuHooks(matchers)
			if len(hooks[event]) == 0 {
				delete(hooks, event)
			}
		}
	}

	count := 0
	for _, want := range plannedHooks(opts) {
		if hookCommandExists(hooks[want.event], want.matcher, want.command) {
			continue
		}
		hooks[want.event] = addHookToMatcher(hooks[want.event], want.matcher, want.command)
		count++
	}

	if count == 0 && !opts.Force {
		return 0, nil
	}

	hooksJSON, err := json.Marshal(hooks)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal hooks: %w", err)
	}
	rawSettings["hooks"] = hooksJSON

	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o750); err != nil {
		return 0, fmt.Errorf("failed to create .claude directory: %w", err)
	}
	output, err := jsonutil.MarshalIndentWithNewline(rawSettings, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(settingsPath, output, 0o600); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", SettingsFileName, err)
	}
	return count, nil
}

// AreHooksInstalled reports whether the guard hook is configured in settingsPath.
func AreHooksInstalled(settingsPath string) bool {
	data, err := os.ReadFile(settingsPath) //nolint:gosec // caller-provided settings path
	if err != nil {
		return false
	}
	var settings struct {
		Hooks map[string][]HookMatcher `json:"hooks"`
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return false
	}
	for _, m := range settings.Hooks[EventPreToolUse] {
		for _, h := range m.Hooks {
			if isGosuHook(h.Command) && strings.Contains(h.Command, "hooks guard") {
				return true
			}
		}
	}
	return false
}

type plannedHook struct {
	event   string
	matcher string
	command string
}

func plannedHooks(opts InstallOptions) []plannedHook {
	prefix := "gosu "
	if opts.LocalDev {
		prefix = hookPrefixes[1]
	}
	guard := prefix + "hooks guard"
	if opts.AutoAllow {
		guard += " --and-auto-allow"
	}

	planned := []plannedHook{
		{EventPreToolUse, guardToolMatcher, guard},
		{EventPermissionRequest, guardToolMatcher, guard},
		{EventUserPromptSubmit, "", prefix + "hooks prompt-enhance"},
	}
	for _, event := range Events {
		planned = append(planned, plannedHook{event, "", prefix + "hooks session"})
	}
	return planned
}

func hookCommandExists(matchers []HookMatcher, matcherName, command string) bool {
	for _, matcher := range matchers {
		if matcher.Matcher != matcherName {
			continue
		}
		for _, hook := range matcher.Hooks {
			if hook.Command == command {
				return true
			}
		}
	}
	return false
}

func addHookToMatcher(matchers []HookMatcher, matcherName, command string) []HookMatcher {
	entry := HookEntry{Type: "command", Command: command}

	for i, matcher := range matchers {
		if matcher.Matcher == matcherName {
			matchers[i].Hooks = append(matchers[i].Hooks, entry)
			return matchers
		}
	}
	return append(matchers, HookMatcher{Matcher: matcherName, Hooks: []HookEntry{entry}})
}

func isGosuHook(command string) bool {
	for _, prefix := range hookPrefixes {
		if strings.HasPrefix(command, prefix) {
			return true
		}
	}
	return false
}

// removeGosuHooks drops gosu commands and any matcher left empty.
func removeGosuHooks(matchers []HookMatcher) []HookMatcher {
	result := make([]HookMatcher, 0, len(matchers))
	for _, matcher := range matchers {
		kept := make([]HookEntry, 0, len(matcher.Hooks))
		for _, hook := range matcher.Hooks {
			if !isGosuHook(hook.Command) {
				kept = append(kept, hook)
			}
		}
		if len(kept) > 0 {
			matcher.Hooks = kept
			result = append(result, matcher)
		}
	}
	return result
}
