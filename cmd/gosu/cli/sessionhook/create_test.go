package sessionhook

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonOpts() CreateOptions {
	return CreateOptions{
		SessionID: testSessionID,
		Event:     "Stop",
		HookType:  TypeJSON,
		Timeout:   DefaultTimeout,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*CreateOptions)
		wantErr string
	}{
		{"valid", func(*CreateOptions) {}, ""},
		{"bad session", func(o *CreateOptions) { o.SessionID = "nope" }, "Error: Invalid session ID format: nope\nSession ID must be a valid UUID format."},
		{"bad event", func(o *CreateOptions) { o.Event = "Start" }, "Error: Invalid event 'Start'."},
		{"bad type", func(o *CreateOptions) { o.HookType = "prompt" }, "Error: Invalid hook type 'prompt'. Use 'json' or 'command'."},
		{"bad decision", func(o *CreateOptions) { o.Decision = "allow" }, "Error: Invalid decision 'allow'."},
		{"matcher unsupported", func(o *CreateOptions) { o.Matcher = "startup" }, "Error: Event 'Stop' does not support matchers.\nMatcher-supported events: SessionStart, PreCompact"},
		{"matcher invalid", func(o *CreateOptions) { o.Event = "PreCompact"; o.Matcher = "startup" }, "Error: Invalid matcher 'startup' for PreCompact.\nValid matchers: manual, auto"},
		{"matcher valid", func(o *CreateOptions) { o.Event = "SessionStart"; o.Matcher = "compact" }, ""},
		{"command missing", func(o *CreateOptions) { o.HookType = TypeCommand }, "Error: --command is required for command hook type."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := jsonOpts()
			tt.mutate(&opts)
			err := Validate(opts)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			var invalid *InvalidOptionsError
			assert.True(t, errors.As(err, &invalid))
		})
	}
}

func TestBuildHook(t *testing.T) {
	t.Parallel()

	opts := jsonOpts()
	assert.Equal(t, NewHook{Type: TypeJSON}, BuildHook(opts))

	opts.Decision = "block"
	opts.Reason = "run the tests first"
	opts.ExitCode = 2
	assert.Equal(t, NewHook{
		Type:     TypeJSON,
		JSON:     &JSONBody{Decision: "block", Reason: "run the tests first"},
		ExitCode: 2,
	}, BuildHook(opts))

	cmd := jsonOpts()
	cmd.HookType = TypeCommand
	cmd.Command = "make lint"
	assert.Equal(t, NewHook{Type: TypeCommand, Command: "make lint"}, BuildHook(cmd))

	cmd.Timeout = 120
	assert.Equal(t, MaxTimeout, BuildHook(cmd).Timeout)

	cmd.Timeout = 30
	out, err := json.Marshal(BuildHook(cmd))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"command","command":"make lint","timeout":30}`, string(out))
}

func TestPrepareAndWrite(t *testing.T) {
	local, _ := setupDirs(t)

	opts := jsonOpts()
	opts.Decision = "block"
	opts.Reason = "not yet"
	plan, err := Prepare(opts)
	require.NoError(t, err)
	assert.False(t, plan.Existed)
	assert.Equal(t, filepath.Join(".claude", "hooks", "hooks."+testSessionID+".json"), plan.Path)
	assert.JSONEq(t, `{"hooks":{"Stop":[{"hooks":[{"type":"json","json":{"decision":"block","reason":"not yet"}}]}]}}`, string(plan.Content))
	assert.Equal(t, byte('\n'), plan.Content[len(plan.Content)-1])

	require.NoError(t, Write(plan))
	_, err = os.Stat(filepath.Join(local, plan.Path))
	require.NoError(t, err)

	// A second hook is appended to the same event.
	second := jsonOpts()
	second.HookType = TypeCommand
	second.Command = "echo hi"
	plan, err = Prepare(second)
	require.NoError(t, err)
	assert.True(t, plan.Existed)
	require.NoError(t, Write(plan))

	cfg, err := LoadConfig(plan.Path)
	require.NoError(t, err)
	groups := cfg["hooks"].(map[string]any)["Stop"].([]any)
	assert.Len(t, groups, 2)

	// The dispatcher still picks the first group.
	assert.Equal(t, TypeJSON, SelectHook(cfg, "Stop", nil).Type())

	// Force replaces the file content.
	forced := jsonOpts()
	forced.Event = "SessionStart"
	forced.Matcher = "resume"
	forced.Force = true
	plan, err = Prepare(forced)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hooks":{"SessionStart":[{"hooks":[{"type":"json"}],"matcher":"resume"}]}}`, string(plan.Content))
}

func TestPrepare_Global(t *testing.T) {
	_, home := setupDirs(t)

	opts := jsonOpts()
	opts.Global = true
	plan, err := Prepare(opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".claude", "hooks", "hooks."+testSessionID+".json"), plan.Path)
}

func TestPrepare_MalformedExisting(t *testing.T) {
	local, _ := setupDirs(t)

	writeHooksFile(t, local, `{"hooks":[]}`)
	_, err := Prepare(jsonOpts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"hooks" is not an object`)

	writeHooksFile(t, local, `{"hooks":{"Stop":{}}}`)
	_, err = Prepare(jsonOpts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"hooks.Stop" is not a list`)

	writeHooksFile(t, local, `{broken`)
	_, err = Prepare(jsonOpts())
	require.Error(t, err)

	opts := jsonOpts()
	opts.Force = true
	_, err = Prepare(opts)
	require.NoError(t, err, "force ignores the broken file")
}

func TestLineDiff(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "  a\n  b\n+ c\n", LineDiff("a\nb\n", "a\nb\nc\n"))
	assert.Equal(t, "  a\n- b\n", LineDiff("a\nb\n", "a\n"))

	changed := LineDiff("a\nb\nc\n", "a\nB\nc\n")
	assert.Contains(t, changed, "- b\n")
	assert.Contains(t, changed, "+ B\n")
	assert.Contains(t, changed, "  c\n")
	assert.Equal(t, "+ x\n", LineDiff("", "x"))
	assert.Empty(t, LineDiff("", ""))
}
