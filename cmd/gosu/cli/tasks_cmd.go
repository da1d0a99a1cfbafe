package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/claudecode"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/logging"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/paths"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/tasklist"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/validation"
	"github.com/spf13/cobra"
)

const tasksFileHelp = `
Every subcommand takes an optional task file as its first argument. Without it the
file most recently used (recorded in .tasks.local.json) is selected automatically.`

// tasksRun is the state shared by one tasks subcommand invocation.
type tasksRun struct {
	ctx      context.Context
	cmd      *cobra.Command
	out      io.Writer
	errOut   io.Writer
	view     tasklist.View
	ledger   *tasklist.Ledger
	list     *tasklist.List
	operands []string
	now      time.Time
}

// tasksCommand describes how a subcommand splits and checks its arguments.
type tasksCommand struct {
	args     tasklist.FileArgs
	validate func(operands []string) error
	// hook marks Stop hook mode: failing to pick a file is not an error.
	hook func() bool
}

// saveList writes the task file after a mutation.
func (r *tasksRun) saveList() error {
	if err := r.list.Save(); err != nil {
		return fmt.Errorf("error updating file: %w", err)
	}
	return nil
}

func isTaskID(s string) bool { return validation.ValidateTaskID(s) == nil }

func isStatusName(s string) bool {
	_, err := tasklist.ParseStatus(s)
	return err == nil
}

// looksLikeFile reports whether a free-text argument is more likely the
// task file than an operand.
func looksLikeFile(s string) bool {
	if strings.EqualFold(filepath.Ext(s), ".md") {
		return true
	}
	info, err := os.Stat(s)
	return err == nil && info.Mode().IsRegular()
}

// printTasksError prints err the way every tasks subcommand reports
// failures and returns an error main will not print again.
func printTasksError(w io.Writer, err error) error {
	fmt.Fprintf(w, "Error: %s\n", capitalize(err.Error()))
	return NewSilentError(err)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// runTasks loads the ledger and the task file, runs action and records the
// file's statistics in the ledger whatever the outcome.
func runTasks(cmd *cobra.Command, args []string, tc tasksCommand, action func(r *tasksRun) error) error {
	ctx := logging.WithComponent(cmd.Context(), "tasks")
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	lg, err := tasklist.LoadLedger(ctx, paths.TasksLedgerFileName)
	if err != nil {
		return printTasksError(errOut, err)
	}

	file, operands, detected := tc.args.Split(args, lg)
	if detected {
		fmt.Fprintf(out, "Detected file path in arguments: %s\n", file)
	}
	if tc.validate != nil {
		if err := tc.validate(operands); err != nil {
			return printTasksError(errOut, err)
		}
	}

	resolved, auto, err := tasklist.ResolveFile(file, lg)
	if err != nil {
		if tc.hook != nil && tc.hook() {
			logging.Debug(ctx, "no task file for hook check", "error", err.Error())
			return nil
		}
		return printTasksError(errOut, err)
	}
	if auto {
		fmt.Fprintf(out, "Auto-selected task file: %s\n", resolved)
	}

	l, err := tasklist.Load(resolved)
	if err != nil {
		return printTasksError(errOut, err)
	}

	r := &tasksRun{
		ctx:      ctx,
		cmd:      cmd,
		out:      out,
		errOut:   errOut,
		view:     tasklist.View{W: out, Style: tasklist.NewStyler(out)},
		ledger:   lg,
		list:     l,
		operands: operands,
		now:      time.Now(),
	}
	lg.Refresh(l, r.now)

	actionErr := action(r)

	lg.Refresh(l, r.now)
	if err := lg.Save(); err != nil {
		fmt.Fprintf(errOut, "Warning: Could not save progress data: %v\n", err)
	}

	if actionErr == nil {
		return nil
	}
	var exitErr *ExitError
	var silent *SilentError
	if errors.As(actionErr, &exitErr) || errors.As(actionErr, &silent) {
		return actionErr
	}
	return printTasksError(errOut, actionErr)
}

func requireTaskID(operands []string) error {
	if len(operands) == 0 || strings.TrimSpace(operands[0]) == "" {
		return errors.New("Task ID is required for this command.") //nolint:staticcheck // printed verbatim
	}
	return validation.ValidateTaskID(operands[0])
}

func requireTaskIDs(command string, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("At least one task ID is required for %s command.", command) //nolint:staticcheck // printed verbatim
	}
	return validation.ValidateTaskIDs(ids)
}

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage hierarchical task lists in markdown files",
		Long: `Parse and manage hierarchical task lists in markdown files (tasks.md).

Tasks are checklist items with dotted ids:

  - [ ] 1. Set up the project
    - [-] 1.1 Create the module
      _Requirements: FR1_
      _Dependencies: 2_

Checkboxes map to statuses: [ ] pending, [-] in-progress, [x] done, [+] review,
[*] deferred. Progress is recorded in .tasks.local.json.
` + tasksFileHelp,
		Example: `  gosu tasks list-tasks tasks.md
  gosu tasks show-task tasks.md 2.1
  gosu tasks set-status tasks.md 2.1 2.2 done
  gosu tasks filter-tasks tasks.md --status pending --requirements FR1
  gosu tasks export tasks.md --output tasks.json`,
	}

	cmd.AddCommand(newTasksListCmd())
	cmd.AddCommand(newTasksShowCmd())
	cmd.AddCommand(newTasksSetStatusCmd())
	cmd.AddCommand(newTasksAddCmd())
	cmd.AddCommand(newTasksUpdateCmd())
	cmd.AddCommand(newTasksDeleteCmd())
	cmd.AddCommand(newTasksNextCmd())
	cmd.AddCommand(newTasksCheckDependenciesCmd())
	cmd.AddCommand(newTasksProgressCmd())
	cmd.AddCommand(newTasksFilterCmd())
	cmd.AddCommand(newTasksSearchCmd())
	cmd.AddCommand(newTasksReadyCmd())
	cmd.AddCommand(newTasksExportCmd())
	cmd.AddCommand(newTasksTrackProgressCmd())

	return cmd
}

func newTasksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-tasks [file]",
		Short: "List all tasks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, args, tasksCommand{}, func(r *tasksRun) error {
				r.view.List(r.list)
				return nil
			})
		},
	}
}

func newTasksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-task [file] <task_id>",
		Short: "Show details of a task",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := tasksCommand{
				args:     tasklist.FileArgs{MinOperands: 1, IsOperand: isTaskID},
				validate: requireTaskID,
			}
			return runTasks(cmd, args, tc, func(r *tasksRun) error {
				id := strings.TrimSpace(r.operands[0])
				t, ok := r.list.Task(id)
				if !ok {
					return fmt.Errorf("Task '%s' not found.", id) //nolint:staticcheck // printed verbatim
				}
				r.view.Task(r.list, t)
				return nil
			})
		},
	}
}

func newTasksSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status [file] <task_id>... <status>",
		Short: "Set the status of one or more tasks",
		Long: `Set the status of one or more tasks.

Statuses: ` + strings.Join(tasklist.StatusNames(), ", ") + `

A sub-task cannot leave pending while its parent is pending or done. When every
sub-task of a parent ends up with the same status, the parent takes that status.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := tasksCommand{
				args: tasklist.FileArgs{
					MinOperands: 2,
					IsOperand:   func(s string) bool { return isTaskID(s) || isStatusName(s) },
				},
				validate: func(ops []string) error {
					if len(ops) < 2 {
						return requireTaskIDs("set-status", nil)
					}
					return requireTaskIDs("set-status", ops[:len(ops)-1])
				},
			}
			return runTasks(cmd, args, tc, runSetStatus)
		},
	}
}

func runSetStatus(r *tasksRun) error {
	ids := r.operands[:len(r.operands)-1]
	status, err := tasklist.ParseStatus(r.operands[len(r.operands)-1])
	if err != nil {
		return err
	}

	res, err := r.list.SetStatus(ids, status)
	if err != nil {
		return err
	}
	for _, warning := range res.Skipped {
		fmt.Fprintf(r.errOut, "Warning: %s\n", warning)
	}
	if len(res.Updated) > 0 || len(res.Parents) > 0 {
		if err := r.saveList(); err != nil {
			return err
		}
	}
	for _, c := range res.Updated {
		if t, ok := r.list.Task(c.ID); ok {
			r.ledger.RecordStatus(r.list.Path, t, r.now)
		}
	}
	logging.Debug(r.ctx, "task status changed",
		"file", r.list.Path, "status", string(status), "updated", len(res.Updated), "skipped", len(res.Skipped))

	r.view.StatusChange(res, status, len(ids) > 1)
	return nil
}

func newTasksAddCmd() *cobra.Command {
	var dependencies, requirements []string

	cmd := &cobra.Command{
		Use:   "add-task [file] <task_id> <description>",
		Short: "Add a new task",
		Long: `Add a new task.

Sub-tasks (dotted ids) are placed inside their parent after the last lower-numbered
sibling; top-level tasks after the last lower-numbered task. Dependencies must exist.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := tasksCommand{
				args: tasklist.FileArgs{MinOperands: 2, IsOperand: isTaskID},
				validate: func(ops []string) error {
					if err := requireTaskID(ops); err != nil {
						return err
					}
					if len(ops) < 2 || strings.TrimSpace(ops[1]) == "" {
						return errors.New("Description argument is required for add-task command.") //nolint:staticcheck // printed verbatim
					}
					return nil
				},
			}
			return runTasks(cmd, args, tc, func(r *tasksRun) error {
				id := strings.TrimSpace(r.operands[0])
				description := r.operands[1]
				if err := r.list.AddTask(id, description, dependencies, requirements); err != nil {
					return err
				}
				if err := r.saveList(); err != nil {
					return err
				}
				fmt.Fprintf(r.out, "Added task '%s': %s\n", id, description)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&dependencies, "dependencies", nil, "Task ids this task depends on")
	cmd.Flags().StringSliceVar(&requirements, "requirements", nil, "Requirement ids this task covers")

	return cmd
}

func newTasksUpdateCmd() *cobra.Command {
	var u tasklist.TaskUpdate

	cmd := &cobra.Command{
		Use:   "update-task [file] <task_id>",
		Short: "Update the dependencies and requirements of a task",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := tasksCommand{
				args:     tasklist.FileArgs{MinOperands: 1, IsOperand: isTaskID},
				validate: requireTaskID,
			}
			return runTasks(cmd, args, tc, func(r *tasksRun) error {
				id := strings.TrimSpace(r.operands[0])
				res, err := r.list.UpdateTask(id, u)
				if err != nil {
					return err
				}
				if res.Changed() {
					if err := r.saveList(); err != nil {
						return err
					}
				}
				r.view.Update(id, res)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&u.AddDependencies, "add-dependencies", nil, "Dependencies to add")
	f.StringSliceVar(&u.AddRequirements, "add-requirements", nil, "Requirements to add")
	f.StringSliceVar(&u.RemoveDependencies, "remove-dependencies", nil, "Dependencies to remove")
	f.StringSliceVar(&u.RemoveRequirements, "remove-requirements", nil, "Requirements to remove")
	f.BoolVar(&u.ClearDependencies, "clear-dependencies", false, "Remove all dependencies")
	f.BoolVar(&u.ClearRequirements, "clear-requirements", false, "Remove all requirements")

	return cmd
}

func newTasksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-task [file] <task_id>...",
		Short: "Delete tasks and their sub-tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := tasksCommand{
				args: tasklist.FileArgs{MinOperands: 1, IsOperand: isTaskID},
				validate: func(ops []string) error {
					return requireTaskIDs("delete-task", ops)
				},
			}
			return runTasks(cmd, args, tc, func(r *tasksRun) error {
				if err := r.list.DeleteTasks(r.operands); err != nil {
					return err
				}
				if err := r.saveList(); err != nil {
					return err
				}
				quoted := make([]string, len(r.operands))
				for i, id := range r.operands {
					quoted[i] = "'" + id + "'"
				}
				fmt.Fprintf(r.out, "Deleted task(s): %s\n", strings.Join(quoted, ", "))
				return nil
			})
		},
	}
}

func newTasksNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-next-task [file]",
		Short: "Show the next task to work on",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, args, tasksCommand{}, func(r *tasksRun) error {
				t, ok := r.list.NextTask()
				r.view.Next(r.list, t, ok)
				return nil
			})
		},
	}
}

func newTasksCheckDependenciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-dependencies [file]",
		Short: "Check for missing and circular dependencies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, args, tasksCommand{}, func(r *tasksRun) error {
				r.view.Dependencies(r.list.CheckDependencies())
				return nil
			})
		},
	}
}

func newTasksProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-progress [file]",
		Short: "Show completion statistics and status history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, args, tasksCommand{}, func(r *tasksRun) error {
				r.view.Progress(r.list.Path, r.ledger.Entry(r.list.Path))
				return nil
			})
		},
	}
}

func newTasksFilterCmd() *cobra.Command {
	var (
		status                     string
		requirements, dependencies []string
	)

	cmd := &cobra.Command{
		Use:   "filter-tasks [file]",
		Short: "List tasks matching a status, requirements or dependencies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, args, tasksCommand{}, func(r *tasksRun) error {
				f := tasklist.Filter{Requirements: requirements, Dependencies: dependencies}
				if status != "" {
					st, err := tasklist.ParseStatus(status)
					if err != nil {
						return err
					}
					f.Status = st
				}
				r.view.Filtered(r.list, f, r.list.Filter(f))
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&status, "status", "", "Status to match ("+strings.Join(tasklist.StatusNames(), ", ")+")")
	f.StringSliceVar(&requirements, "requirements", nil, "Requirements every match must have")
	f.StringSliceVar(&dependencies, "dependencies", nil, "Dependencies every match must have")

	return cmd
}

func newTasksSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search-tasks [file] <keyword>...",
		Short: "Find tasks containing any of the keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := tasksCommand{
				args: tasklist.FileArgs{MinOperands: 1, IsOperand: func(s string) bool { return !looksLikeFile(s) }},
				validate: func(ops []string) error {
					for _, k := range ops {
						if strings.TrimSpace(k) != "" {
							return nil
						}
					}
					return errors.New("At least one keyword is required for search-tasks command.") //nolint:staticcheck // printed verbatim
				},
			}
			return runTasks(cmd, args, tc, func(r *tasksRun) error {
				r.view.SearchResults(r.list, r.operands, r.list.Search(r.operands))
				return nil
			})
		},
	}
}

func newTasksReadyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ready-tasks [file]",
		Short: "List pending tasks whose dependencies are satisfied",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, args, tasksCommand{}, func(r *tasksRun) error {
				r.view.Ready(r.list, r.list.ReadyTasks())
				return nil
			})
		},
	}
}

func newTasksExportCmd() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export tasks and progress as JSON, YAML or TOML",
		Long: `Export tasks and progress as JSON, YAML or TOML.

Without --format the format follows the --output extension (.yaml, .yml, .toml),
defaulting to JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = formatFromExtension(output)
			}
			return runTasks(cmd, args, tasksCommand{}, func(r *tasksRun) error {
				ex := tasklist.NewExport(r.list, r.ledger, r.now)
				if output == "" {
					return ex.Encode(r.out, format)
				}
				if err := writeExport(ex, output, format); err != nil {
					return fmt.Errorf("error writing to file %s: %w", output, err)
				}
				fmt.Fprintf(r.out, "Exported task data to %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default: stdout)")
	cmd.Flags().StringVar(&format, "format", tasklist.FormatJSON, "Export format: "+strings.Join(tasklist.ExportFormats, ", "))

	return cmd
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return tasklist.FormatYAML
	case ".toml":
		return tasklist.FormatTOML
	default:
		return tasklist.FormatJSON
	}
}

func writeExport(ex *tasklist.Export, path, format string) (err error) {
	f, err := os.Create(path) //nolint:gosec // output path is chosen by the user
	if err != nil {
		return err //nolint:wrapcheck // wrapped by the caller
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return ex.Encode(f, format)
}

func newTasksTrackProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track-progress",
		Short: "Track completion conditions for a working session",
		Long: `Track completion conditions for a working session.

A condition lists tasks that must be completed (done, review or deferred) before it
expires, and optionally a total number of completed tasks. "check --claude-hook"
is meant for a Claude Code Stop hook: it exits 2 while conditions are unmet so
Claude keeps working.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error: No sub-command specified for track-progress.")
			fmt.Fprintln(cmd.ErrOrStderr(), "Use 'track-progress add', 'track-progress check', or 'track-progress clear'.")
			return NewSilentError(errors.New("missing track-progress sub-command"))
		},
	}

	cmd.AddCommand(newTrackAddCmd())
	cmd.AddCommand(newTrackCheckCmd())
	cmd.AddCommand(newTrackClearCmd())

	return cmd
}

func newTrackAddCmd() *cobra.Command {
	var (
		validFor     string
		completeMore int
	)

	cmd := &cobra.Command{
		Use:   "add [file] <task_id>...",
		Short: "Add a completion condition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := tasksCommand{
				args: tasklist.FileArgs{MinOperands: 1, IsOperand: isTaskID},
				validate: func(ops []string) error {
					return requireTaskIDs("track-progress add", ops)
				},
			}
			var more *int
			if cmd.Flags().Changed("complete-more") {
				more = &completeMore
			}
			return runTasks(cmd, args, tc, func(r *tasksRun) error {
				c, err := r.ledger.AddCondition(r.list, r.operands, validFor, more, r.now)
				if err != nil {
					return err
				}
				r.view.ConditionAdded(c)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&validFor, "valid-for", tasklist.DefaultValidFor, "How long the condition stays active (e.g. 2h, 30m, 45s)")
	cmd.Flags().IntVar(&completeMore, "complete-more", 0, "Also require this many more completed tasks than now")

	return cmd
}

func newTrackCheckCmd() *cobra.Command {
	var claudeHook bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Check active completion conditions",
		Long: `Check active completion conditions. Exits 2 when any is unmet.

With --claude-hook the Stop hook input is read from stdin. When Claude is already
continuing because of this hook, the check exits 1 after more than three earlier
hook checks in the transcript to break the loop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := tasksCommand{hook: func() bool { return claudeHook }}
			return runTasks(cmd, args, tc, func(r *tasksRun) error {
				if claudeHook {
					if err := guardStopHookLoop(r); err != nil {
						return err
					}
				}

				unmet := r.ledger.CheckConditions(r.list, r.now)
				if len(unmet) == 0 {
					fmt.Fprintln(r.out, "All completion conditions are satisfied.")
					return nil
				}
				errView := tasklist.View{W: r.errOut, Style: tasklist.NewStyler(r.errOut)}
				errView.Unmet(unmet, claudeHook)
				return &ExitError{Code: 2}
			})
		},
	}

	cmd.Flags().BoolVar(&claudeHook, "claude-hook", false, "Run as a Claude Code Stop hook (reads hook input from stdin)")

	return cmd
}

// guardStopHookLoop stops a Stop hook that keeps sending Claude back to
// work. It returns *ExitError{1} when the hook should give up.
func guardStopHookLoop(r *tasksRun) error {
	input, err := claudecode.ReadInput(r.cmd.InOrStdin())
	if err != nil || !input.Bool("stop_hook_active") {
		return nil //nolint:nilerr // unreadable hook input means no loop information
	}

	transcript := input.TranscriptPath()
	if transcript == "" {
		fmt.Fprintln(r.errOut, "No transcript path provided in Claude hook. Exiting to prevent potential infinite loop.")
		return &ExitError{Code: 1}
	}

	loop, err := tasklist.DetectLoop(transcript)
	if err != nil {
		fmt.Fprintf(r.errOut, "Warning: Could not read transcript file %s: %v\n", transcript, err)
	}
	if loop {
		logging.Warn(r.ctx, "stop hook loop detected", "transcript", transcript)
		fmt.Fprintln(r.errOut, "Infinite loop detected in Claude hook. Exiting to prevent further execution.")
		return &ExitError{Code: 1}
	}
	return nil
}

func newTrackClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear [file]",
		Short: "Remove all completion conditions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, args, tasksCommand{}, func(r *tasksRun) error {
				n := r.ledger.ConditionCount(r.list.Path)
				if n == 0 {
					fmt.Fprintln(r.out, "No completion conditions to clear.")
					return nil
				}
				if !yes {
					ok, err := confirm(fmt.Sprintf("Are you sure you want to clear %d tracking condition(s)?", n))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(r.out, "Operation cancelled.")
						return NewSilentError(errors.New("operation cancelled"))
					}
				}
				cleared := r.ledger.ClearConditions(r.list.Path)
				fmt.Fprintf(r.out, "Cleared %d tracking condition(s).\n", cleared)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Clear without asking for confirmation")

	return cmd
}
