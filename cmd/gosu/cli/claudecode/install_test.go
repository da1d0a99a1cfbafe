package claudecode

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readHooks(t *testing.T, path string) (map[string]json.RawMessage, map[string][]HookMatcher) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	var hooks map[string][]HookMatcher
	require.NoError(t, json.Unmarshal(raw["hooks"], &hooks))
	return raw, hooks
}

func TestInstallHooks_FreshInstall(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".claude", SettingsFileName)

	count, err := InstallHooks(path, InstallOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3+len(Events), count)

	_, hooks := readHooks(t, path)
	require.Len(t, hooks[EventPreToolUse], 2)
	assert.Equal(t, guardToolMatcher, hooks[EventPreToolUse][0].Matcher)
	assert.Equal(t, "gosu hooks guard", hooks[EventPreToolUse][0].Hooks[0].Command)
	assert.Equal(t, "gosu hooks session", hooks[EventSessionEnd][0].Hooks[0].Command)
	assert.True(t, AreHooksInstalled(path))
}

func TestInstallHooks_Idempotent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), SettingsFileName)

	_, err := InstallHooks(path, InstallOptions{})
	require.NoError(t, err)
	count, err := InstallHooks(path, InstallOptions{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInstallHooks_PreservesOtherSettings(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{
  "permissions": {"allow": ["Bash(ls:*)"]},
  "hooks": {"Stop": [{"hooks": [{"type": "command", "command": "say done"}]}]}
}`), 0o600))

	_, err := InstallHooks(path, InstallOptions{AutoAllow: true})
	require.NoError(t, err)

	raw, hooks := readHooks(t, path)
	assert.JSONEq(t, `{"allow": ["Bash(ls:*)"]}`, string(raw["permissions"]))
	require.Len(t, hooks[EventStop], 1)
	assert.Len(t, hooks[EventStop][0].Hooks, 2, "gosu hook appended next to the user's hook")
	assert.Equal(t, "gosu hooks guard --and-auto-allow", hooks[EventPreToolUse][0].Hooks[0].Command)
}

func TestInstallHooks_ForceReplacesGosuHooks(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), SettingsFileName)

	_, err := InstallHooks(path, InstallOptions{AutoAllow: true})
	require.NoError(t, err)
	_, err = InstallHooks(path, InstallOptions{Force: true, LocalDev: true})
	require.NoError(t, err)

	_, hooks := readHooks(t, path)
	for event, matchers := range hooks {
		for _, m := range matchers {
			for _, h := range m.Hooks {
				assert.Contains(t, h.Command, "go run ${CLAUDE_PROJECT_DIR}/cmd/gosu/main.go hooks", event)
			}
		}
	}
}

func TestInstallHooks_InvalidExisting(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o600))

	_, err := InstallHooks(path, InstallOptions{})
	require.Error(t, err)
	assert.False(t, AreHooksInstalled(path))
}
