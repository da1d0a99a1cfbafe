package cli

import (
	"fmt"
	"log/slog"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/worktree"
	"github.com/spf13/cobra"
)

func newWorktreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worktree",
		Short: "Provision git worktrees for agent tasks",
	}

	cmd.AddCommand(newWorktreeCreateCmd())

	return cmd
}

func newWorktreeCreateCmd() *cobra.Command {
	var (
		opts     worktree.Options
		noStaged bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "create [prompt...]",
		Short: "Create a worktree and copy local state into it",
		Long: `Create a git worktree next to the current checkout and prepare it for an agent.

The branch is named after the prompt (agent/<first-three-words>) unless --branch is
given. Git-ignored local files such as node_modules and .env are copied, along with
staged changes (and optionally modified and untracked files). With --worktree an
existing worktree is prepared instead of creating a new one.`,
		Example: `  gosu worktree create fix the login redirect
  gosu worktree create --branch feature/search --copy-untracked --plan-file plan.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Prompt = args
			opts.CopyStaged = !noStaged

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			creator, err := worktree.NewCreator(cmd.Context(), log)
			if err != nil {
				return err
			}
			res, err := creator.Create(cmd.Context(), opts)
			if err != nil {
				log.Error("failed to create worktree", "error", err)
				return NewSilentError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully created and configured worktree at: %s\n", res.Dir)
			if res.Branch != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Branch: %s\n", res.Branch)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Branch, "branch", "", "Branch name for the new worktree")
	f.StringVar(&opts.Worktree, "worktree", "", "Existing worktree directory to prepare")
	f.StringVar(&opts.PlanFile, "plan-file", "", "Task plan file to copy into the worktree")
	f.StringVar(&opts.AgentUser, "agent-user", "", "User to own the worktree directory")
	f.BoolVar(&noStaged, "no-copy-staged", false, "Do not copy staged files")
	f.BoolVar(&opts.CopyModified, "copy-modified", false, "Copy modified files that are not staged")
	f.BoolVar(&opts.CopyUntracked, "copy-untracked", false, "Copy untracked files")
	f.StringVar(&opts.ParentDir, "worktree-parent-dir", "", "Directory to create worktrees in (default: parent of the repository)")
	f.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.MarkFlagsMutuallyExclusive("branch", "worktree")

	return cmd
}
