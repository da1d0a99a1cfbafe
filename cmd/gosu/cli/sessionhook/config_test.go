package sessionhook

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T, s string) Config {
	t.Helper()
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(s), &cfg))
	return cfg
}

func TestValidSessionID(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidSessionID(testSessionID))
	assert.True(t, ValidSessionID(strings.ToUpper(testSessionID)))
	assert.False(t, ValidSessionID(""))
	assert.False(t, ValidSessionID("abc123"))
	assert.False(t, ValidSessionID(testSessionID+"/../x"))
}

func TestMatcherField(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "source", MatcherField("SessionStart"))
	assert.Equal(t, "trigger", MatcherField("PreCompact"))
	assert.Empty(t, MatcherField("Stop"))
}

func TestSelectHook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config string
		event  string
		input  map[string]any
		want   string
	}{
		{"hooks not object", `{"hooks":[]}`, "Stop", nil, ""},
		{"event not list", `{"hooks":{"Stop":{}}}`, "Stop", nil, ""},
		{"skips malformed entries", `{"hooks":{"Stop":[1,{"hooks":"x"},{"hooks":[2,{"type":"json","json":{"n":3}}]}]}}`, "Stop", nil, `{"n":3}`},
		{"empty command skipped", `{"hooks":{"Stop":[{"hooks":[{"type":"command","command":""},{"type":"json","json":{"n":1}}]}]}}`, "Stop", nil, `{"n":1}`},
		{"unknown type skipped", `{"hooks":{"Stop":[{"hooks":[{"type":"prompt"},{"type":"command","command":"true"}]}]}}`, "Stop", nil, "true"},
		{"matcher ignored for event without support", `{"hooks":{"Stop":[{"matcher":"whatever","hooks":[{"type":"json","json":{"n":2}}]}]}}`, "Stop", nil, `{"n":2}`},
		{"empty matcher matches", `{"hooks":{"PreCompact":[{"matcher":"","hooks":[{"type":"json","json":{"n":4}}]}]}}`, "PreCompact", map[string]any{"trigger": "auto"}, `{"n":4}`},
		{"trigger matcher", `{"hooks":{"PreCompact":[{"matcher":"manual","hooks":[{"type":"json","json":{"n":5}}]}]}}`, "PreCompact", map[string]any{"trigger": "Manual"}, `{"n":5}`},
		{"trigger mismatch", `{"hooks":{"PreCompact":[{"matcher":"manual","hooks":[{"type":"json"}]}]}}`, "PreCompact", map[string]any{"trigger": "auto"}, ""},
		{"non-string matcher never matches", `{"hooks":{"SessionStart":[{"matcher":5,"hooks":[{"type":"json"}]}]}}`, "SessionStart", map[string]any{"source": "5"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hook := SelectHook(parseConfig(t, tt.config), tt.event, tt.input)
			if tt.want == "" {
				assert.Nil(t, hook)
				return
			}
			require.NotNil(t, hook)
			if hook.Type() == TypeCommand {
				assert.Equal(t, tt.want, hook.Command())
				return
			}
			got, err := json.Marshal(hook["json"])
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "hooks.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hooks":{}}`), 0o600))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Contains(t, cfg, "hooks")

	require.NoError(t, os.WriteFile(path, []byte(`[1,2]`), 0o600))
	_, err = LoadConfig(path)
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	big := filepath.Join(dir, "big.json")
	require.NoError(t, os.WriteFile(big, make([]byte, MaxFileSize+1), 0o600))
	_, err = LoadConfig(big)
	require.ErrorIs(t, err, ErrFileTooLarge)
	var tooLarge *FileTooLargeError
	require.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, big, tooLarge.Path)
}
