package paths

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Directory constants
const (
	GosuDir   = ".gosu"
	LogsDir   = ".gosu/logs"
	ClaudeDir = ".claude"
)

// ClaudeHooksDir holds per-session hook files (hooks.<session-id>.json).
const ClaudeHooksDir = ".claude/hooks"

// ClaudeSettingsLocalFileName is the untracked Claude Code settings file linked into new worktrees.
const ClaudeSettingsLocalFileName = "settings.local.json"

// TasksLedgerFileName is the progress ledger written next to the working directory.
const TasksLedgerFileName = ".tasks.local.json"

// repoRootCache caches the repository root to avoid repeated git commands.
// The cache is keyed by the current working directory to handle directory changes.
var (
	repoRootMu       sync.RWMutex
	repoRootCache    string
	repoRootCacheDir string
)

// RepoRoot returns the git repository root directory.
// Uses 'git rev-parse --show-toplevel' which works from any subdirectory.
// The result is cached per working directory.
// Returns an error if not inside a git repository.
func RepoRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}

	repoRootMu.RLock()
	if repoRootCache != "" && repoRootCacheDir == cwd {
		cached := repoRootCache
		repoRootMu.RUnlock()
		return cached, nil
	}
	repoRootMu.RUnlock()

	cmd := exec.CommandContext(context.Background(), "git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get git repository root: %w", err)
	}

	root := strings.TrimSpace(string(output))

	repoRootMu.Lock()
	repoRootCache = root
	repoRootCacheDir = cwd
	repoRootMu.Unlock()

	return root, nil
}

// ClearRepoRootCache clears the cached repository root.
// This is primarily useful for testing when changing directories.
func ClearRepoRootCache() {
	repoRootMu.Lock()
	repoRootCache = ""
	repoRootCacheDir = ""
	repoRootMu.Unlock()
}

// RepoRootOr returns the git repository root directory, or fallback
// if not inside a git repository.
func RepoRootOr(fallback string) string {
	root, err := RepoRoot()
	if err != nil {
		return fallback
	}
	return root
}

// AbsPath returns the absolute path for a relative path within the repository.
// If the path is already absolute, it is returned as-is.
func AbsPath(relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return relPath, nil
	}

	root, err := RepoRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, relPath), nil
}

// SessionHooksFileName returns the file name holding hooks for one session.
// The caller is responsible for validating sessionID first.
func SessionHooksFileName(sessionID string) string {
	return "hooks." + sessionID + ".json"
}

// LocalSessionHooksPath returns ./.claude/hooks/hooks.<id>.json relative to the working directory.
func LocalSessionHooksPath(sessionID string) string {
	return filepath.Join(ClaudeHooksDir, SessionHooksFileName(sessionID))
}

// GlobalSessionHooksPath returns ~/.claude/hooks/hooks.<id>.json.
func GlobalSessionHooksPath(sessionID string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ClaudeHooksDir, SessionHooksFileName(sessionID)), nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	if p == "~" {
		return home, nil
	}
	return filepath.Join(home, p[2:]), nil
}

// ToRelativePath converts an absolute path to relative.
// Returns empty string if the path is outside base.
func ToRelativePath(absPath, base string) string {
	if !filepath.IsAbs(absPath) {
		return absPath
	}
	relPath, err := filepath.Rel(base, absPath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return ""
	}
	return relPath
}
