package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/claudecode"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/jsonutil"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/sessionhook"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newSessionHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session-hook",
		Short: "Manage per-session Claude Code hooks",
		Long: `Manage per-session hooks.

Session hooks live in .claude/hooks/hooks.<session-id>.json (or under ~/.claude/hooks
with --global) and are run by "gosu hooks session" for the matching session only.`,
	}

	cmd.AddCommand(newSessionHookCreateCmd())

	return cmd
}

func newSessionHookCreateCmd() *cobra.Command {
	var (
		opts   sessionhook.CreateOptions
		dryRun bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "create <session_id> <event> <json|command>",
		Short: "Add a hook to a session hooks file",
		Long: `Add a hook to a session hooks file.

A json hook prints a fixed JSON response (--decision, --reason, --message) and exits
with --exitcode. A command hook runs --command through sh with the hook input on stdin.

Events: ` + strings.Join(claudecode.Events, ", ") + `

Matchers:
  SessionStart  startup, resume, clear, compact
  PreCompact    manual, auto`,
		Example: `  gosu session-hook create 123e4567-e89b-12d3-a456-426614174000 Stop json --decision block --reason "Run the tests first"
  gosu session-hook create 123e4567-e89b-12d3-a456-426614174000 SessionStart command --command "cat NOTES.md" --matcher startup`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SessionID, opts.Event, opts.HookType = args[0], args[1], args[2]
			return runSessionHookCreate(cmd, opts, dryRun, yes)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.Global, "global", false, "Write to ~/.claude/hooks instead of ./.claude/hooks")
	f.StringVar(&opts.Decision, "decision", "", "Decision for json hooks: "+strings.Join(sessionhook.Decisions, " or "))
	f.StringVar(&opts.Reason, "reason", "", "Reason for json hooks")
	f.StringVar(&opts.Message, "message", "", "System message for json hooks")
	f.IntVar(&opts.ExitCode, "exitcode", 0, "Exit code for json hooks")
	f.StringVar(&opts.Command, "command", "", "Shell command for command hooks")
	f.IntVar(&opts.Timeout, "timeout", sessionhook.DefaultTimeout,
		fmt.Sprintf("Timeout in seconds for command hooks (max %d)", sessionhook.MaxTimeout))
	f.StringVar(&opts.Matcher, "matcher", "", "Matcher value (SessionStart and PreCompact only)")
	f.BoolVar(&dryRun, "dry-run", false, "Print the resulting file and a diff without writing")
	f.BoolVar(&opts.Force, "force", false, "Replace the existing hooks file instead of appending")
	f.BoolVarP(&yes, "yes", "y", false, "Do not ask before replacing an existing file with --force")

	return cmd
}

func runSessionHookCreate(cmd *cobra.Command, opts sessionhook.CreateOptions, dryRun, yes bool) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	plan, err := sessionhook.Prepare(opts)
	if err != nil {
		var invalid *sessionhook.InvalidOptionsError
		if errors.As(err, &invalid) {
			fmt.Fprintln(errOut, invalid.Error())
			return NewSilentError(err)
		}
		return err
	}

	if dryRun {
		fmt.Fprint(out, string(plan.Content))
		fmt.Fprintf(errOut, "\nWould write to: %s\n", plan.Path)
		if plan.Existed {
			fmt.Fprintf(errOut, "\nChanges:\n%s", sessionhook.LineDiff(string(plan.Previous), string(plan.Content)))
		}
		return nil
	}

	if opts.Force && plan.Existed && !yes && term.IsTerminal(int(os.Stdin.Fd())) { //nolint:gosec // fd fits in int
		ok, err := confirm(fmt.Sprintf("Replace all hooks in %s?", plan.Path))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Operation cancelled.")
			return nil
		}
	}

	if err := sessionhook.Write(plan); err != nil {
		return err
	}

	hookJSON, err := jsonutil.MarshalIndentWithNewline(plan.Hook, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Session hook created: %s\n", plan.Path)
	fmt.Fprintf(out, "Event: %s\n", opts.Event)
	fmt.Fprintf(out, "Hook type: %s\n", opts.HookType)
	if opts.Matcher != "" {
		fmt.Fprintf(out, "Matcher: %s\n", opts.Matcher)
	}
	fmt.Fprintf(out, "\nHook configuration:\n%s", hookJSON)
	return nil
}
