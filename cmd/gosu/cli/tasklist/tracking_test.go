package tasklist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestAddCondition(t *testing.T) {
	t.Parallel()
	lg := emptyLedger(t)
	l := sampleList(t)

	c, err := lg.AddCondition(l, []string{"1", "2.1"}, "30m", nil, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04T11:00:00.123456Z", c.ValidBefore)
	assert.Equal(t, []string{"1", "2.1"}, c.TasksToComplete)
	assert.Nil(t, c.ExpectCompleted)

	c, err = lg.AddCondition(l, []string{"3"}, "90", intPtr(3), fixedNow)
	require.NoError(t, err)
	require.NotNil(t, c.ExpectCompleted)
	assert.Equal(t, 5, *c.ExpectCompleted)

	assert.Equal(t, 2, lg.ConditionCount(l.Path))
}

func TestAddCondition_Errors(t *testing.T) {
	t.Parallel()
	l := sampleList(t)

	tests := []struct {
		name     string
		ids      []string
		validFor string
		more     *int
		want     error
		msg      string
	}{
		{"unknown task", []string{"1", "7"}, "2h", nil, ErrTaskNotFound, "Task '7' not found in the task file"},
		{"bad duration", []string{"1"}, "2d", nil, ErrInvalidTracking, "invalid duration format: '2d'"},
		{"too many", []string{"1"}, "2h", intPtr(5), ErrInvalidTracking,
			"Invalid argument, completed: 2 + complete_more: 5 > total_tasks: 6. The maximum value of complete_more is: 4"},
		{"negative", []string{"1"}, "2h", intPtr(-1), ErrInvalidTracking, "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lg := emptyLedger(t)
			_, err := lg.AddCondition(l, tt.ids, tt.validFor, tt.more, fixedNow)
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Zero(t, lg.ConditionCount(l.Path))
		})
	}
}

func TestCheckConditions(t *testing.T) {
	t.Parallel()
	lg := emptyLedger(t)
	l := sampleList(t)

	_, err := lg.AddCondition(l, []string{"1.1", "3"}, "1h", nil, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, lg.CheckConditions(l, fixedNow.Add(time.Minute)), "done and deferred tasks count as completed")

	_, err = lg.AddCondition(l, []string{"1", "2.1"}, "1h", intPtr(2), fixedNow)
	require.NoError(t, err)
	lg.Entry(l.Path).Tracking[1].TasksToComplete = append(lg.Entry(l.Path).Tracking[1].TasksToComplete, "9")

	unmet := lg.CheckConditions(l, fixedNow.Add(time.Minute))
	require.Len(t, unmet, 1)
	assert.Equal(t, []string{
		"Task '1' is not completed (status: pending)",
		"Task '2.1' is not completed (status: pending)",
		"Task '9' not found",
	}, unmet[0].Issues)
	assert.Equal(t, "Expected 4 completed tasks, but only 2 are completed", unmet[0].CountIssue)

	assert.Empty(t, lg.CheckConditions(l, fixedNow.Add(2*time.Hour)), "expired conditions are skipped")
}

func TestCheckConditions_NoEntry(t *testing.T) {
	t.Parallel()
	assert.Nil(t, emptyLedger(t).CheckConditions(sampleList(t), fixedNow))
}

func TestClearConditions(t *testing.T) {
	t.Parallel()
	lg := emptyLedger(t)
	l := sampleList(t)

	assert.Zero(t, lg.ClearConditions(l.Path))
	_, err := lg.AddCondition(l, []string{"1"}, "2h", nil, fixedNow)
	require.NoError(t, err)
	_, err = lg.AddCondition(l, []string{"2"}, "2h", nil, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 2, lg.ClearConditions(l.Path))
	assert.Zero(t, lg.ConditionCount(l.Path))
}

func writeTranscript(t *testing.T, checks int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(`{"type":"user","message":"hello"}` + "\n")
	for range checks {
		b.WriteString(`{"type":"tool_use","input":{"command":"gosu tasks track-progress check --claude-hook"}}` + "\n")
		b.WriteString(`{"type":"assistant","message":"` + strings.Repeat("x", 100_000) + `"}` + "\n")
	}
	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestDetectLoop(t *testing.T) {
	t.Parallel()

	loop, err := DetectLoop(writeTranscript(t, 3))
	require.NoError(t, err)
	assert.False(t, loop)

	loop, err = DetectLoop(writeTranscript(t, 4))
	require.NoError(t, err)
	assert.True(t, loop)

	loop, err = DetectLoop(filepath.Join(t.TempDir(), "missing.jsonl"))
	require.Error(t, err)
	assert.True(t, loop)
}

func TestDetectLoop_IgnoresOtherCommands(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	content := strings.Repeat(`{"command":"gosu tasks track-progress check"}`+"\n", 5) +
		strings.Repeat(`{"command":"gosu tasks track-progress add 1 --claude-hook"}`+"\n", 5)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	loop, err := DetectLoop(path)
	require.NoError(t, err)
	assert.False(t, loop)
}
