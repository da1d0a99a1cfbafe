package tasklist

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 4, 10, 30, 0, 123456000, time.UTC)

func emptyLedger(t *testing.T) *Ledger {
	t.Helper()
	lg, err := LoadLedger(context.Background(), filepath.Join(t.TempDir(), ".tasks.local.json"))
	require.NoError(t, err)
	return lg
}

func TestLedger_Refresh(t *testing.T) {
	t.Parallel()
	lg := emptyLedger(t)
	l := sampleList(t)

	lg.Refresh(l, fixedNow)

	e := lg.Entry("tasks.md")
	require.NotNil(t, e)
	assert.Equal(t, 6, e.TotalTasks)
	assert.Equal(t, 2, e.Completed)
	assert.Equal(t, 1, e.Done)
	assert.Equal(t, 1, e.InProgress)
	assert.Equal(t, 3, e.Pending)
	assert.Equal(t, 0, e.Review)
	assert.Equal(t, 1, e.Deferred)
	assert.InDelta(t, 33.33, e.Percentage, 0.0001)
	assert.Equal(t, "2025-03-04T10:30:00.123456Z", e.LastModified)
	assert.NotNil(t, e.Tasks)

	abs, err := filepath.Abs("tasks.md")
	require.NoError(t, err)
	assert.Contains(t, lg.Files, abs, "entries are keyed by absolute path")
}

func TestLedger_RecordStatus(t *testing.T) {
	t.Parallel()
	lg := emptyLedger(t)
	l := sampleList(t)
	task := mustTask(t, l, "1")

	lg.RecordStatus(l.Path, task, fixedNow)
	_, err := l.SetStatus([]string{"1"}, StatusDone)
	require.NoError(t, err)
	lg.RecordStatus(l.Path, task, fixedNow.Add(time.Minute))

	hist := lg.History(l.Path, "1")
	require.Len(t, hist, 2)
	assert.Equal(t, StatusPending, hist[0].Status)
	assert.Equal(t, StatusDone, hist[1].Status)
	assert.Equal(t, "2025-03-04T10:31:00.123456Z", hist[1].Timestamp)
	assert.Equal(t, hist[1].Timestamp, lg.Entry(l.Path).LastModified)
	assert.Equal(t, "Set up project", lg.Entry(l.Path).Tasks["1"].Description)

	assert.Empty(t, lg.History(l.Path, "2"))
	assert.Empty(t, lg.History("other.md", "1"))
}

func TestLedger_SaveAndLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".tasks.local.json")
	lg, err := LoadLedger(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, lg.found)

	l := sampleList(t)
	lg.Refresh(l, fixedNow)
	lg.RecordStatus(l.Path, mustTask(t, l, "2"), fixedNow)
	require.NoError(t, lg.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"")
	assert.Contains(t, string(data), `"in_progress": 1`)
	assert.NotContains(t, string(data), `"tracking"`)

	again, err := LoadLedger(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, again.found)
	assert.Equal(t, lg.Files, again.Files)
}

func TestLoadLedger_InvalidJSON(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".tasks.local.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	lg, err := LoadLedger(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, lg.found)
	assert.Empty(t, lg.Files)
}

func TestLoadLedger_PythonTimestamps(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".tasks.local.json")
	content := `{
  "/work/a.md": {"total_tasks": 1, "last_modified": "2025-01-01T09:00:00.000001", "tasks": {}},
  "/work/b.md": {"total_tasks": 2, "last_modified": "2025-06-01T09:00:00", "tasks": {}},
  "/work/c.md": {"total_tasks": 3, "last_modified": "yesterday"},
  "/work/d.md": {"total_tasks": 4}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lg, err := LoadLedger(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, lg.Files, 4)
	assert.NotNil(t, lg.Files["/work/d.md"].Tasks)

	recent, ok := lg.MostRecent()
	require.True(t, ok)
	assert.Equal(t, "/work/b.md", recent)
}

func TestLedger_IsKnown(t *testing.T) {
	t.Parallel()
	abs, err := filepath.Abs("plan/tasks.md")
	require.NoError(t, err)
	lg := &Ledger{Files: map[string]*FileEntry{abs: {}, "relative.md": {}}}

	assert.True(t, lg.IsKnown(abs))
	assert.True(t, lg.IsKnown("plan/tasks.md"))
	assert.True(t, lg.IsKnown("relative.md"))
	assert.False(t, lg.IsKnown("1.2"))
	assert.False(t, lg.IsKnown(""))
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2025-03-04T10:30:00.123456Z", false},
		{"2025-03-04T10:30:00+02:00", false},
		{"2025-03-04T10:30:00.5", false},
		{"2025-03-04T10:30:00", false},
		{"2025-03-04", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := parseTimestamp(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
		} else {
			assert.NoError(t, err, tt.in)
		}
	}

	ts, err := parseTimestamp(formatTimestamp(fixedNow))
	require.NoError(t, err)
	assert.True(t, ts.Equal(fixedNow))
}
