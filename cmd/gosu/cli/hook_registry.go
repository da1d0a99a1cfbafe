package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/claudecode"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/guard"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/logging"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/promptenhance"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/sessionhook"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/settings"
	"github.com/gosu-code/claude-plugin/redact"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Hook names, as used in "gosu hooks <name>".
const (
	HookNameGuard         = "guard"
	HookNameSession       = "session"
	HookNamePromptEnhance = "prompt-enhance"
)

const autoAllowFlag = "and-auto-allow"

// HookIO carries one hook invocation's stdin payload and output streams.
type HookIO struct {
	// Raw is the exact stdin payload.
	Raw []byte
	// Input is Raw decoded, or nil when Raw is not a JSON object.
	Input  claudecode.Input
	Stdout io.Writer
	Stderr io.Writer
}

// HookHandlerFunc handles one hook invocation. Returning *ExitError sets
// the process exit code.
type HookHandlerFunc func(ctx context.Context, cmd *cobra.Command, h *HookIO) error

type hookSpec struct {
	short   string
	flags   func(fs *pflag.FlagSet)
	handler HookHandlerFunc
}

// hookRegistry maps hook names to their handlers.
var hookRegistry = map[string]hookSpec{}

// RegisterHookHandler registers a handler under "gosu hooks <name>".
func RegisterHookHandler(name, short string, flags func(fs *pflag.FlagSet), handler HookHandlerFunc) {
	hookRegistry[name] = hookSpec{short: short, flags: flags, handler: handler}
}

// GetHookHandler returns the handler for a hook, or nil if not found.
func GetHookHandler(name string) HookHandlerFunc {
	return hookRegistry[name].handler
}

// hookNames returns the registered hook names, sorted.
func hookNames() []string {
	names := make([]string, 0, len(hookRegistry))
	for name := range hookRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//nolint:gochecknoinits // Hook handler registration at startup is the intended pattern
func init() {
	RegisterHookHandler(HookNameGuard, "Allow, deny or ask about a tool call (PreToolUse, PermissionRequest)",
		func(fs *pflag.FlagSet) {
			fs.Bool(autoAllowFlag, false, "Answer \"allow\" for tool calls that pass every check")
		},
		handleGuard)

	RegisterHookHandler(HookNameSession, "Run the session hook configured for this event", nil, handleSession)

	RegisterHookHandler(HookNamePromptEnhance, "Add search guidance to vague prompts (UserPromptSubmit)", nil, handlePromptEnhance)
}

// initHookLogging routes logs to the session's log file when the payload
// names a valid session. Otherwise logging keeps its stderr fallback.
func initHookLogging(sessionID string) func() {
	// Set up log level getter so logging can read from settings
	logging.SetLogLevelGetter(settings.LogLevel)

	if sessionID == "" {
		return func() {}
	}
	if err := logging.Init(sessionID); err != nil {
		return func() {}
	}
	return logging.Close
}

// newHookVerbCmdWithLogging creates the command for one registered hook.
// It logs the invocation at DEBUG level and completion with its duration.
func newHookVerbCmdWithLogging(name string, spec hookSpec) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: spec.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read hook input: %w", err)
			}
			h := &HookIO{Raw: raw, Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
			if input, err := claudecode.DecodeInput(raw); err == nil {
				h.Input = input
			}

			cleanup := initHookLogging(h.Input.SessionID())
			defer cleanup()

			start := time.Now()
			ctx := logging.WithHook(logging.WithComponent(cmd.Context(), "hooks"), name)
			if sid := h.Input.SessionID(); sid != "" {
				ctx = logging.WithSession(ctx, sid)
			}
			if tool := h.Input.ToolName(); tool != "" {
				ctx = logging.WithTool(ctx, tool)
			}

			logging.Debug(ctx, "hook invoked",
				slog.String("event", h.Input.HookEventName()),
				slog.Any("input", redact.Value(map[string]any(h.Input))),
			)

			hookErr := spec.handler(ctx, cmd, h)

			code := 0
			var exitErr *ExitError
			if errors.As(hookErr, &exitErr) {
				code = exitErr.Code
			} else if hookErr != nil {
				code = 1
			}
			logging.LogDuration(ctx, slog.LevelDebug, "hook completed", start,
				slog.Int("exit_code", code),
				slog.Bool("success", hookErr == nil),
			)

			return hookErr
		},
	}
	if spec.flags != nil {
		spec.flags(cmd.Flags())
	}
	return cmd
}

// handleGuard answers PreToolUse and PermissionRequest. A payload that
// cannot be judged is denied and the hook exits 2 so Claude Code blocks
// the call.
func handleGuard(ctx context.Context, cmd *cobra.Command, h *HookIO) error {
	autoAllow, _ := cmd.Flags().GetBool(autoAllowFlag) //nolint:errcheck // flag is registered with the command
	if !autoAllow {
		if s, err := settings.Load(); err == nil {
			autoAllow = s.AutoAllowNonDangerousToolUsage
		}
	}

	input, err := claudecode.DecodeInput(h.Raw)
	var decision guard.Decision
	if err == nil {
		decision, err = guard.Evaluate(input, autoAllow)
	}
	failed := err != nil
	if failed {
		logging.Warn(ctx, "guard could not judge tool call", slog.String("error", err.Error()))
		decision = guard.FailureDecision(err)
	}

	event := h.Input.HookEventName()
	out, err := guard.Render(event, decision)
	if err != nil {
		return fmt.Errorf("failed to render decision: %w", err)
	}
	if out != nil {
		if _, err := fmt.Fprintln(h.Stdout, string(out)); err != nil {
			return fmt.Errorf("failed to write decision: %w", err)
		}
	}
	if !decision.PassThrough() {
		logging.Info(ctx, "guard decision",
			slog.String("decision", decision.Permission),
			slog.String("reason", decision.Reason),
		)
	}

	if failed {
		return &ExitError{Code: 2}
	}
	return nil
}

// handleSession runs the per-session hook and relays its output verbatim.
func handleSession(ctx context.Context, _ *cobra.Command, h *HookIO) error {
	res := sessionhook.Dispatch(ctx, h.Raw)
	if _, err := io.WriteString(h.Stdout, res.Stdout); err != nil {
		return fmt.Errorf("failed to write hook output: %w", err)
	}
	if _, err := io.WriteString(h.Stderr, res.Stderr); err != nil {
		return fmt.Errorf("failed to write hook output: %w", err)
	}
	return exitCode(res.ExitCode)
}

// handlePromptEnhance prints additionalContext for prompts with
// placeholders or trailing-off ellipses.
func handlePromptEnhance(ctx context.Context, _ *cobra.Command, h *HookIO) error {
	out, err := promptenhance.Handle(ctx, h.Raw)
	if err != nil {
		var inputErr *promptenhance.InputError
		if !errors.As(err, &inputErr) {
			return err
		}
		fmt.Fprintln(h.Stderr, inputErr.Error())
		return &ExitError{Code: 1}
	}
	if out == nil {
		return nil
	}
	if _, err := fmt.Fprintln(h.Stdout, string(out)); err != nil {
		return fmt.Errorf("failed to write hook output: %w", err)
	}
	return nil
}
