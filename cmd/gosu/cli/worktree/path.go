package worktree

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// PathPrefix names new worktrees: worktree-agent-no1, worktree-agent-no2, ...
const PathPrefix = "worktree-agent-no"

// UniquePath returns the first parent/worktree-agent-noN, N >= 1, that is
// neither a registered worktree nor an existing file.
func UniquePath(parent string, existing []string) string {
	resolvedParent := parent
	if r, err := filepath.EvalSymlinks(parent); err == nil {
		resolvedParent = r
	}

	for n := 1; ; n++ {
		name := fmt.Sprintf("%s%d", PathPrefix, n)
		candidate := filepath.Join(parent, name)
		if slices.Contains(existing, candidate) || slices.Contains(existing, filepath.Join(resolvedParent, name)) {
			continue
		}
		if _, err := os.Lstat(candidate); err == nil {
			continue
		}
		return candidate
	}
}

// isWithin reports whether path equals dir or lies below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
