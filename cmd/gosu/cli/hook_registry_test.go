package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionID = "32502be3-59b3-4176-94c4-fd851d460417"

func bashInput(event, command string) string {
	payload := map[string]any{
		"hook_event_name": event,
		"tool_name":       "Bash",
		"tool_input":      map[string]any{"command": command},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func TestHookRegistry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{HookNameGuard, HookNamePromptEnhance, HookNameSession}, hookNames())
	assert.NotNil(t, GetHookHandler(HookNameGuard))
	assert.Nil(t, GetHookHandler("missing"))
}

func TestGuardHook(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		want     []string
		wantCode int
	}{
		{
			name:  "dangerous rm denied",
			stdin: bashInput("PreToolUse", "rm -rf /"),
			want:  []string{`"permissionDecision":"deny"`, "Dangerous rm command detected and prevented."},
		},
		{
			name:  "dangerous target after a parent traversal",
			stdin: bashInput("PreToolUse", "rm -rf ../x ~"),
			want:  []string{`"permissionDecision":"deny"`, "Dangerous rm command detected and prevented."},
		},
		{
			name:  "git clean with trailing force",
			stdin: bashInput("PreToolUse", "git clean -xf"),
			want:  []string{`"permissionDecision":"deny"`, "Dangerous git command detected and prevented."},
		},
		{
			name:  "safe command passes through",
			stdin: bashInput("PreToolUse", "ls -la"),
		},
		{
			name:  "auto-allow flag",
			stdin: bashInput("PreToolUse", "ls -la"),
			args:  []string{"--" + autoAllowFlag},
			want:  []string{`"permissionDecision":"allow"`},
		},
		{
			name:  "permission request shape",
			stdin: bashInput("PermissionRequest", "rm -rf /"),
			want:  []string{`"hookEventName":"PermissionRequest"`, `"behavior":"deny"`},
		},
		{
			name:     "malformed json",
			stdin:    `{"tool_name":`,
			want:     []string{`"permissionDecision":"deny"`, "Failed to parse JSON input: "},
			wantCode: 2,
		},
		{
			name:     "not an object",
			stdin:    `["Bash"]`,
			want:     []string{"Unexpected error occurred: hook input is not a JSON object"},
			wantCode: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inTempDir(t)

			stdout, _, err := execute(t, tt.stdin, append([]string{"hooks", HookNameGuard}, tt.args...)...)
			if tt.wantCode != 0 {
				requireExitCode(t, err, tt.wantCode)
			} else {
				require.NoError(t, err)
			}
			if len(tt.want) == 0 {
				assert.Empty(t, stdout)
			}
			for _, w := range tt.want {
				assert.Contains(t, stdout, w)
			}
		})
	}
}

func TestGuardHook_AutoAllowFromSettings(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".gosu"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gosu", "settings.json"),
		[]byte(`{"autoAllowNonDangerousToolUsage": true}`), 0o600))

	stdout, _, err := execute(t, bashInput("PreToolUse", "go test ./..."), "hooks", HookNameGuard)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"permissionDecision":"allow"`)
}

func TestSessionHook(t *testing.T) {
	dir := inTempDir(t)

	stdin := `{"session_id":"` + testSessionID + `","hook_event_name":"Stop"}`

	stdout, _, err := execute(t, stdin, "hooks", HookNameSession)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", stdout, "no hooks file")

	hooksFile := filepath.Join(dir, ".claude", "hooks", "hooks."+testSessionID+".json")
	require.NoError(t, os.MkdirAll(filepath.Dir(hooksFile), 0o755))
	require.NoError(t, os.WriteFile(hooksFile,
		[]byte(`{"hooks":{"Stop":[{"hooks":[{"type":"json","json":{"a":1},"exitcode":3}]}]}}`), 0o600))

	stdout, _, err = execute(t, stdin, "hooks", HookNameSession)
	requireExitCode(t, err, 3)
	assert.Equal(t, `{"a":1}`, stdout)

	stdout, _, err = execute(t, `{"session_id":"not-a-uuid","hook_event_name":"Stop"}`, "hooks", HookNameSession)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", stdout)

	_, stderr, err := execute(t, `{"session_id":`, "hooks", HookNameSession)
	requireExitCode(t, err, 1)
	assert.Contains(t, stderr, "Failed to parse JSON input: ")
}

func TestPromptEnhanceHook(t *testing.T) {
	dir := inTempDir(t)

	stdout, _, err := execute(t, `{"prompt":"Refactor the code","cwd":"`+dir+`"}`, "hooks", HookNamePromptEnhance)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	stdout, _, err = execute(t, `{"prompt":"Update [placeholder] & <placeholder>","cwd":"`+dir+`"}`, "hooks", HookNamePromptEnhance)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"hookEventName":"UserPromptSubmit"`)
	assert.Contains(t, stdout, "There are 2 placeholders")

	_, stderr, err := execute(t, `{}`, "hooks", HookNamePromptEnhance)
	requireExitCode(t, err, 1)
	assert.Contains(t, stderr, "Invalid or missing 'prompt' field")
}
