// Package worktree creates git worktrees for agents to work in, carrying
// over the untracked state a checkout does not bring along: dependency
// directories, env files, staged edits, and local Claude settings.
package worktree

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// BranchPrefix starts every generated branch name.
const BranchPrefix = "agent/"

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]+\b`)

// BranchName derives a branch name from the first three alphabetic words of
// prompt that are longer than two letters, e.g. "agent/clean-todos-comment".
func BranchName(prompt string) string {
	var words []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(prompt), -1) {
		if len(w) <= 2 {
			continue
		}
		words = append(words, w)
		if len(words) == 3 {
			break
		}
	}
	if len(words) == 0 {
		words = []string{"task"}
	}
	return BranchPrefix + strings.Join(words, "-")
}

// UniqueBranch returns name, or name-1, name-2, ... whichever is the first
// that is not a local branch of repo.
func UniqueBranch(repo *git.Repository, name string) (string, error) {
	candidate := name
	for i := 1; ; i++ {
		exists, err := branchExists(repo, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", name, i)
	}
}

func branchExists(repo *git.Repository, name string) (bool, error) {
	_, err := repo.Reference(plumbing.NewBranchReferenceName(name), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking branch %s: %w", name, err)
	}
	return true, nil
}
