package sessionhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/claudecode"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/jsonutil"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/logging"
)

// noHookOutput is printed whenever there is no session hook to run.
const noHookOutput = "{}\n"

// killGrace bounds how long we wait for a killed command's pipes to close.
const killGrace = 2 * time.Second

// Result is what the dispatcher hands back to Claude Code.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Dispatch handles one hook invocation: raw is the exact stdin payload.
// It never returns an error; failures become a Result with exit code 1.
func Dispatch(ctx context.Context, raw []byte) Result {
	input, err := claudecode.DecodeInput(raw)
	if err != nil {
		var decodeErr *claudecode.DecodeError
		if errors.As(err, &decodeErr) {
			return Result{Stderr: fmt.Sprintf("Failed to parse JSON input: %v\n", decodeErr), ExitCode: 1}
		}
		return Result{Stdout: noHookOutput}
	}

	sessionID := input.SessionID()
	if !ValidSessionID(sessionID) {
		return Result{Stdout: noHookOutput}
	}

	path := FindFile(sessionID)
	if path == "" {
		return Result{Stdout: noHookOutput}
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return Result{Stderr: fmt.Sprintf("Error loading session hooks file: %v\n", err), ExitCode: 1}
	}

	event := input.HookEventName()
	hook := SelectHook(cfg, event, input)
	if hook == nil {
		return Result{Stdout: noHookOutput}
	}

	logging.Debug(ctx, "running session hook",
		"event", event, "type", hook.Type(), "file", path)

	if hook.Type() == TypeJSON {
		return RunJSON(hook)
	}
	return RunCommand(ctx, hook.Command(), raw, Timeout(hook["timeout"]))
}

// Timeout normalises a hook's timeout field to whole seconds. Anything that
// is not a number in (0, MaxTimeout] becomes DefaultTimeout.
func Timeout(v any) int {
	f, ok := v.(float64)
	if !ok || f <= 0 || f > MaxTimeout {
		return DefaultTimeout
	}
	return int(f)
}

// RunCommand runs command through sh -c with stdin attached and a hard
// timeout in seconds. The command's own exit code is passed through.
func RunCommand(ctx context.Context, command string, stdin []byte, timeoutSeconds int) Result {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.WaitDelay = killGrace
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{Stderr: fmt.Sprintf("Hook command timed out after %d seconds", timeoutSeconds), ExitCode: 1}
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return Result{Stdout: stdout.String(), Stderr: stderr.String()}
	case errors.As(err, &exitErr):
		code := exitErr.ExitCode()
		if code < 0 {
			// killed by a signal
			code = 1
		}
		return Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
	default:
		return Result{Stderr: fmt.Sprintf("Failed to execute hook command: %v", err), ExitCode: 1}
	}
}

// RunJSON prints the hook's fixed "json" object and exits with "exitcode".
func RunJSON(hook Hook) Result {
	payload, present := hook["json"]
	if !present {
		payload = map[string]any{}
	}
	if _, ok := payload.(map[string]any); !ok {
		return Result{Stderr: "Invalid 'json' field: must be an object", ExitCode: 1}
	}

	out, err := jsonutil.MarshalCompact(payload)
	if err != nil {
		return Result{Stderr: fmt.Sprintf("Failed to serialize JSON output: %v", err), ExitCode: 1}
	}
	return Result{Stdout: string(out), ExitCode: ExitCode(hook["exitcode"])}
}

// ExitCode coerces a json hook's exitcode field: numbers are truncated,
// integer strings are parsed, booleans count as 1 or 0, and anything else is 0.
func ExitCode(v any) int {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0
		}
		return int(val)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		return n
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return 0
	}
}
