package worktree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/paths"
)

// PlanFileName is the name a --plan-file gets inside the worktree.
const PlanFileName = "worktree-agent-task-plan.claude.md"

// Options configures Create.
type Options struct {
	// Prompt words; used to name the branch when Branch is empty.
	Prompt []string
	Branch string
	// Existing worktree to set up instead of creating one. Excludes Branch.
	Worktree string
	// ParentDir holds new worktrees. Defaults to the parent of the main checkout.
	ParentDir string

	PlanFile  string
	AgentUser string

	CopyStaged    bool
	CopyModified  bool
	CopyUntracked bool
}

// Result describes the prepared worktree.
type Result struct {
	Dir    string
	Branch string
	// Created is false when an existing worktree was reused.
	Created bool
}

// Creator sets up one worktree from the checkout at MainDir.
type Creator struct {
	MainDir string
	Log     *slog.Logger
}

// NewCreator returns a Creator for the repository containing the working
// directory.
func NewCreator(ctx context.Context, log *slog.Logger) (*Creator, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	root, err := repoToplevel(ctx, cwd)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	return &Creator{MainDir: root, Log: log}, nil
}

// Create creates (or reuses) the worktree and copies local state into it.
// Copy, symlink and chown problems are logged as warnings; failing to create
// or verify the worktree is an error.
func (c *Creator) Create(ctx context.Context, opts Options) (*Result, error) {
	if opts.Branch != "" && opts.Worktree != "" {
		return nil, errors.New("--branch and --worktree are mutually exclusive")
	}
	c.Log.Info("starting git worktree creation", "main", c.MainDir)

	res, err := c.createWorktree(ctx, opts)
	if err != nil {
		return nil, err
	}

	c.copyIgnored(res.Dir)
	if opts.CopyStaged || opts.CopyModified || opts.CopyUntracked {
		c.copyChanges(res.Dir, opts)
	}
	c.copyPlanFile(res.Dir, opts.PlanFile)
	if err := c.linkLocalSettings(res.Dir); err != nil {
		c.Log.Warn("failed to create symlinks", "error", err)
	}
	c.setOwnership(ctx, res.Dir, opts.AgentUser)

	if err := c.verify(ctx, res.Dir); err != nil {
		return nil, fmt.Errorf("worktree verification failed: %w", err)
	}
	c.Log.Info("worktree ready", "dir", res.Dir, "branch", res.Branch)
	return res, nil
}

func (c *Creator) createWorktree(ctx context.Context, opts Options) (*Result, error) {
	if opts.Worktree != "" {
		dir, err := filepath.Abs(opts.Worktree)
		if err != nil {
			return nil, fmt.Errorf("resolving worktree path: %w", err)
		}
		c.Log.Info("using existing worktree directory", "dir", dir)
		return &Result{Dir: dir}, nil
	}

	repo, err := openRepository(c.MainDir)
	if err != nil {
		return nil, err
	}

	branch := opts.Branch
	if branch == "" {
		prompt := strings.Join(opts.Prompt, " ")
		if prompt == "" {
			prompt = "default task"
		}
		branch = BranchName(prompt)
	}
	branch, err = UniqueBranch(repo, branch)
	if err != nil {
		return nil, err
	}
	c.Log.Info("using branch name", "branch", branch)

	parent := opts.ParentDir
	if parent == "" {
		parent = filepath.Dir(c.MainDir)
	}
	parent, err = filepath.Abs(parent)
	if err != nil {
		return nil, fmt.Errorf("resolving worktree parent: %w", err)
	}

	existing, err := ListWorktrees(ctx, c.MainDir)
	if err != nil {
		return nil, err
	}
	dir := UniquePath(parent, existing)
	c.Log.Info("creating worktree", "dir", dir)

	if _, err := run(ctx, c.MainDir, "git", "worktree", "add", "-b", branch, dir); err != nil {
		return nil, err
	}

	after, err := ListWorktrees(ctx, c.MainDir)
	if err != nil {
		return nil, err
	}
	if !containsPath(after, dir) {
		return nil, fmt.Errorf("failed to create worktree at %s", dir)
	}
	c.Log.Info("created worktree", "dir", dir, "branch", branch)
	return &Result{Dir: dir, Branch: branch, Created: true}, nil
}

func containsPath(list []string, dir string) bool {
	if slices.Contains(list, dir) {
		return true
	}
	resolved, err := filepath.EvalSymlinks(dir)
	return err == nil && slices.Contains(list, resolved)
}

func (c *Creator) copyIgnored(dir string) {
	res, err := CopyIgnored(c.MainDir, dir)
	if err != nil {
		c.Log.Warn("failed to copy ignored files", "error", err)
	}
	c.report("copied", res)
}

// copyChanges brings over staged, modified and untracked files, as selected.
func (c *Creator) copyChanges(dir string, opts Options) {
	repo, err := openRepository(c.MainDir)
	if err != nil {
		c.Log.Warn("failed to read repository status", "error", err)
		return
	}
	staged, modified, untracked, err := changedFiles(repo)
	if err != nil {
		c.Log.Warn("failed to read repository status", "error", err)
		return
	}

	if opts.CopyStaged {
		c.report("copied staged", CopyFiles(c.MainDir, dir, staged))
	}
	if opts.CopyModified {
		c.report("copied modified", CopyFiles(c.MainDir, dir, modified))
	}
	if opts.CopyUntracked {
		c.report("copied untracked", CopyFiles(c.MainDir, dir, untracked))
	}
}

// changedFiles splits the status of repo's worktree into staged paths,
// unstaged modifications of tracked files, and untracked files.
func changedFiles(repo *git.Repository) (staged, modified, untracked []string, err error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("getting status: %w", err)
	}

	for path, st := range status {
		switch {
		case st.Worktree == git.Untracked:
			untracked = append(untracked, path)
			continue
		case st.Staging != git.Unmodified:
			staged = append(staged, path)
		}
		if st.Worktree != git.Unmodified {
			modified = append(modified, path)
		}
	}
	sort.Strings(staged)
	sort.Strings(modified)
	sort.Strings(untracked)
	return staged, modified, untracked, nil
}

func (c *Creator) report(what string, res CopyResult) {
	for _, rel := range res.Copied {
		c.Log.Info(what, "path", rel)
	}
	for rel, err := range res.Failed {
		c.Log.Warn("failed to copy", "path", rel, "error", err)
	}
}

func (c *Creator) copyPlanFile(dir, planFile string) {
	if planFile == "" {
		return
	}
	if _, err := os.Stat(planFile); err != nil {
		c.Log.Warn("plan file not found", "path", planFile)
		return
	}
	if err := copyFile(planFile, filepath.Join(dir, PlanFileName)); err != nil {
		c.Log.Warn("failed to copy plan file", "path", planFile, "error", err)
		return
	}
	c.Log.Info("copied plan file", "name", PlanFileName)
}

// linkLocalSettings points the worktree's .claude/settings.local.json at the
// main checkout's, so Claude Code keeps the local permissions.
func (c *Creator) linkLocalSettings(dir string) error {
	srcDir := filepath.Join(c.MainDir, paths.ClaudeDir)
	if _, err := os.Stat(srcDir); err != nil {
		return nil //nolint:nilerr // nothing to link
	}
	src := filepath.Join(srcDir, paths.ClaudeSettingsLocalFileName)
	if _, err := os.Stat(src); err != nil {
		return nil //nolint:nilerr // nothing to link
	}

	dstDir := filepath.Join(dir, paths.ClaudeDir)
	if err := os.MkdirAll(dstDir, 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", dstDir, err)
	}
	dst := filepath.Join(dstDir, paths.ClaudeSettingsLocalFileName)
	if _, err := os.Lstat(dst); err == nil {
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("removing %s: %w", dst, err)
		}
	}
	if err := os.Symlink(src, dst); err != nil {
		return fmt.Errorf("linking %s: %w", dst, err)
	}
	c.Log.Info("created symlink", "link", dst, "target", src)
	return nil
}

func (c *Creator) setOwnership(ctx context.Context, dir, user string) {
	if user == "" {
		return
	}
	if _, err := run(ctx, c.MainDir, "chown", "-R", user+":", dir); err != nil {
		c.Log.Warn("failed to change ownership", "user", user, "error", err)
		return
	}
	c.Log.Info("changed ownership", "user", user)
}

// verify checks that git works in the worktree, then runs best-effort
// toolchain checks for Go workspaces and npm projects.
func (c *Creator) verify(ctx context.Context, dir string) error {
	c.Log.Info("verifying worktree")
	if _, err := run(ctx, dir, "git", "status"); err != nil {
		return err
	}
	c.Log.Info("git status check passed")

	if fileExists(filepath.Join(dir, "go.work")) {
		if _, err := run(ctx, dir, "go", "work", "sync"); err != nil {
			c.Log.Warn("go work sync check failed", "error", err)
		} else {
			c.Log.Info("go work sync check passed")
		}
	}
	if fileExists(filepath.Join(dir, "package.json")) {
		if _, err := run(ctx, dir, "npm", "--version"); err != nil {
			c.Log.Warn("npm version check failed", "error", err)
		} else {
			c.Log.Info("npm version check passed")
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
