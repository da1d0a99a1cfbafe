// Package testutil provides git and filesystem fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// InitRepo initializes a git repository in repoDir with a test identity.
func InitRepo(t *testing.T, repoDir string) {
	t.Helper()

	repo, err := git.PlainInit(repoDir, false)
	if err != nil {
		t.Fatalf("failed to init git repo: %v", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		t.Fatalf("failed to get repo config: %v", err)
	}
	cfg.User.Name = "Test User"
	cfg.User.Email = "test@example.com"
	if cfg.Raw == nil {
		cfg.Raw = config.New()
	}
	cfg.Raw.Section("commit").SetOption("gpgsign", "false")

	if err := repo.SetConfig(cfg); err != nil {
		t.Fatalf("failed to set repo config: %v", err)
	}
}

// InitRepoWithCommit creates a repo in a fresh temp dir holding one committed
// README.md and returns the directory with symlinks resolved.
func InitRepoWithCommit(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	InitRepo(t, dir)
	WriteFile(t, dir, "README.md", "# test\n")
	GitAdd(t, dir, "README.md")
	GitCommit(t, dir, "initial commit")
	return dir
}

// WriteFile creates a file under repoDir, creating parent directories as needed.
func WriteFile(t *testing.T, repoDir, path, content string) {
	t.Helper()

	fullPath := filepath.Join(repoDir, path)
	//nolint:gosec // test code
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	//nolint:gosec // test code
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// ReadFile reads a file under repoDir.
func ReadFile(t *testing.T, repoDir, path string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(repoDir, path)) //nolint:gosec // test code
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	return string(data)
}

// FileExists checks if a file exists under repoDir.
func FileExists(repoDir, path string) bool {
	_, err := os.Stat(filepath.Join(repoDir, path))
	return err == nil
}

// GitAdd stages files.
func GitAdd(t *testing.T, repoDir string, paths ...string) {
	t.Helper()

	worktree := openWorktree(t, repoDir)
	for _, path := range paths {
		if _, err := worktree.Add(path); err != nil {
			t.Fatalf("failed to add file %s: %v", path, err)
		}
	}
}

// GitCommit commits whatever is staged.
func GitCommit(t *testing.T, repoDir, message string) {
	t.Helper()

	_, err := openWorktree(t, repoDir).Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
}

// BranchExists reports whether refs/heads/<name> exists.
func BranchExists(t *testing.T, repoDir, name string) bool {
	t.Helper()

	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		t.Fatalf("failed to open git repo: %v", err)
	}
	_, err = repo.Reference(plumbing.NewBranchReferenceName(name), false)
	return err == nil
}

func openWorktree(t *testing.T, repoDir string) *git.Worktree {
	t.Helper()

	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		t.Fatalf("failed to open git repo: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}
	return worktree
}
