package worktree

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupMainRepo builds a checkout with committed, staged, modified,
// untracked and ignored content.
func setupMainRepo(t *testing.T) string {
	t.Helper()
	dir := testutil.InitRepoWithCommit(t)

	testutil.WriteFile(t, dir, ".gitignore", "node_modules/\n.env\n.claude/\n")
	testutil.GitAdd(t, dir, ".gitignore")
	testutil.GitCommit(t, dir, "ignore")

	testutil.WriteFile(t, dir, "node_modules/pkg/index.js", "x")
	testutil.WriteFile(t, dir, ".env", "A=1\n")
	testutil.WriteFile(t, dir, ".claude/settings.local.json", "{}\n")
	testutil.WriteFile(t, dir, "staged.txt", "staged\n")
	testutil.GitAdd(t, dir, "staged.txt")
	testutil.WriteFile(t, dir, "README.md", "# changed\n")
	testutil.WriteFile(t, dir, "notes/todo.txt", "untracked\n")
	return dir
}

func resolvedTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestCreate_NewWorktree(t *testing.T) {
	t.Parallel()

	mainDir := setupMainRepo(t)
	parent := resolvedTempDir(t)
	plan := filepath.Join(resolvedTempDir(t), "plan.md")
	require.NoError(t, os.WriteFile(plan, []byte("# plan\n"), 0o600))

	c := &Creator{MainDir: mainDir, Log: discardLogger()}
	res, err := c.Create(context.Background(), Options{
		Prompt:        []string{"add", "feature", "flags", "now"},
		ParentDir:     parent,
		PlanFile:      plan,
		CopyStaged:    true,
		CopyModified:  true,
		CopyUntracked: true,
	})
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, "agent/add-feature-flags", res.Branch)
	assert.Equal(t, filepath.Join(parent, "worktree-agent-no1"), res.Dir)
	assert.True(t, testutil.BranchExists(t, mainDir, "agent/add-feature-flags"))

	wt := res.Dir
	assert.Equal(t, "staged\n", testutil.ReadFile(t, wt, "staged.txt"))
	assert.Equal(t, "# changed\n", testutil.ReadFile(t, wt, "README.md"))
	assert.Equal(t, "untracked\n", testutil.ReadFile(t, wt, "notes/todo.txt"))
	assert.Equal(t, "x", testutil.ReadFile(t, wt, "node_modules/pkg/index.js"))
	assert.Equal(t, "A=1\n", testutil.ReadFile(t, wt, ".env"))
	assert.Equal(t, "# plan\n", testutil.ReadFile(t, wt, PlanFileName))

	link, err := os.Readlink(filepath.Join(wt, ".claude", "settings.local.json"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(mainDir, ".claude", "settings.local.json"), link)

	// A second worktree for the same prompt gets fresh names.
	res2, err := c.Create(context.Background(), Options{
		Prompt:    []string{"add", "feature", "flags"},
		ParentDir: parent,
	})
	require.NoError(t, err)
	assert.Equal(t, "agent/add-feature-flags-1", res2.Branch)
	assert.Equal(t, filepath.Join(parent, "worktree-agent-no2"), res2.Dir)
	assert.Equal(t, "# test\n", testutil.ReadFile(t, res2.Dir, "README.md"), "modified files are not copied by default")
	assert.False(t, testutil.FileExists(res2.Dir, "staged.txt"))
}

func TestCreate_DefaultCopyIsStagedOnly(t *testing.T) {
	t.Parallel()

	mainDir := setupMainRepo(t)
	c := &Creator{MainDir: mainDir, Log: discardLogger()}
	res, err := c.Create(context.Background(), Options{
		Branch:     "feature/x",
		ParentDir:  resolvedTempDir(t),
		CopyStaged: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "feature/x", res.Branch)
	assert.True(t, testutil.FileExists(res.Dir, "staged.txt"))
	assert.Equal(t, "# test\n", testutil.ReadFile(t, res.Dir, "README.md"))
	assert.False(t, testutil.FileExists(res.Dir, "notes/todo.txt"))
}

func TestCreate_ExistingWorktree(t *testing.T) {
	t.Parallel()

	mainDir := setupMainRepo(t)
	existing := resolvedTempDir(t)
	testutil.InitRepo(t, existing)

	c := &Creator{MainDir: mainDir, Log: discardLogger()}
	res, err := c.Create(context.Background(), Options{Worktree: existing})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, existing, res.Dir)
	assert.Equal(t, "A=1\n", testutil.ReadFile(t, existing, ".env"))
}

func TestCreate_Errors(t *testing.T) {
	t.Parallel()

	c := &Creator{MainDir: t.TempDir(), Log: discardLogger()}
	_, err := c.Create(context.Background(), Options{Branch: "a", Worktree: "b"})
	require.Error(t, err)

	notRepo := resolvedTempDir(t)
	_, err = c.Create(context.Background(), Options{Worktree: notRepo})
	require.Error(t, err, "git status fails outside a repository")
}
