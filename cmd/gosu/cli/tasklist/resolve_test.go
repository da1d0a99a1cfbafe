package tasklist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/validation"
)

func TestResolveFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit file wins", func(t *testing.T) {
		t.Parallel()
		got, auto, err := ResolveFile("tasks.md", &Ledger{})
		require.NoError(t, err)
		assert.Equal(t, "tasks.md", got)
		assert.False(t, auto)
	})

	t.Run("most recent", func(t *testing.T) {
		t.Parallel()
		lg := &Ledger{found: true, Files: map[string]*FileEntry{
			"/a.md": {LastModified: "2025-01-01T00:00:00.000000Z"},
			"/b.md": {LastModified: "2025-02-01T00:00:00.000000Z"},
		}}
		got, auto, err := ResolveFile("", lg)
		require.NoError(t, err)
		assert.Equal(t, "/b.md", got)
		assert.True(t, auto)
	})

	errorCases := []struct {
		name string
		lg   *Ledger
		msg  string
	}{
		{"no ledger", &Ledger{Files: map[string]*FileEntry{}}, ".tasks.local.json file not found. Please provide a valid file path to a tasks.md file."},
		{"empty ledger", &Ledger{found: true, Files: map[string]*FileEntry{}}, ".tasks.local.json is empty. Please provide a valid file path to a tasks.md file."},
		{"no timestamps", &Ledger{found: true, Files: map[string]*FileEntry{"/a.md": {}}}, "No valid task files found in .tasks.local.json. Please provide a valid file path to a tasks.md file."},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := ResolveFile("", tc.lg)
			require.ErrorIs(t, err, ErrNoTaskFile)
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}

func TestFileArgs_Split(t *testing.T) {
	t.Parallel()
	known, err := filepath.Abs("plan/tasks.md")
	require.NoError(t, err)
	lg := &Ledger{found: true, Files: map[string]*FileEntry{known: {}}}

	isID := func(s string) bool { return validation.ValidateTaskID(s) == nil }
	showTask := FileArgs{MinOperands: 1, IsOperand: isID}
	listTasks := FileArgs{}

	tests := []struct {
		name         string
		fa           FileArgs
		args         []string
		wantFile     string
		wantOperands []string
		wantDetected bool
	}{
		{"id only", showTask, []string{"2.1"}, "", []string{"2.1"}, false},
		{"leading file", showTask, []string{"other.md", "2.1"}, "other.md", []string{"2.1"}, false},
		{"single non-id stays operand", showTask, []string{"other.md"}, "", []string{"other.md"}, false},
		{"known file after id", showTask, []string{"2.1", "plan/tasks.md"}, "plan/tasks.md", []string{"2.1"}, true},
		{"known file first", showTask, []string{known, "2.1"}, known, []string{"2.1"}, false},
		{"list with file", listTasks, []string{"x.md"}, "x.md", []string{}, false},
		{"list without file", listTasks, nil, "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			file, operands, detected := tt.fa.Split(tt.args, lg)
			assert.Equal(t, tt.wantFile, file)
			assert.Equal(t, tt.wantOperands, operands)
			assert.Equal(t, tt.wantDetected, detected)
		})
	}
}
