package worktree

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/testutil"
)

func TestBranchName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prompt string
		want   string
	}{
		{"clean up todos comment", "agent/clean-todos-comment"},
		{"fix a bug in the api", "agent/fix-bug-the"},
		{"refactor API-errors & warnings", "agent/refactor-api-errors"},
		{"", "agent/task"},
		{"go do it", "agent/task"},
		{"v2 release 2024", "agent/release"},
		{"default task", "agent/default-task"},
	}

	for _, tt := range tests {
		if got := BranchName(tt.prompt); got != tt.want {
			t.Errorf("BranchName(%q) = %q, want %q", tt.prompt, got, tt.want)
		}
	}
}

func TestUniqueBranch(t *testing.T) {
	t.Parallel()

	dir := testutil.InitRepoWithCommit(t)
	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatal(err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatal(err)
	}

	got, err := UniqueBranch(repo, "agent/test-branch")
	if err != nil || got != "agent/test-branch" {
		t.Fatalf("UniqueBranch() = %q, %v; want agent/test-branch", got, err)
	}

	for _, name := range []string{"agent/test-branch", "agent/test-branch-1"} {
		ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
		if err := repo.Storer.SetReference(ref); err != nil {
			t.Fatal(err)
		}
	}

	got, err = UniqueBranch(repo, "agent/test-branch")
	if err != nil || got != "agent/test-branch-2" {
		t.Errorf("UniqueBranch() = %q, %v; want agent/test-branch-2", got, err)
	}
}
