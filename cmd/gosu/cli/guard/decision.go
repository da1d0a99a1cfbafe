package guard

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/claudecode"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/jsonutil"
)

// Reasons attached to decisions. Claude Code shows them to the user and the model.
const (
	ReasonInvalidToolInput = "Invalid tool_input format: expected a dictionary"
	ReasonEnvFileAccess    = "This tool is attempting to access .env files which may contain sensitive data. Do you want to allow this access?"
	ReasonDangerousRm      = "Dangerous rm command detected and prevented."
	ReasonPotentialRm      = "Potentially Dangerous rm command detected. Do you want to run this command?"
	ReasonDangerousGit     = "Dangerous git command detected and prevented."
)

// Decision is the guard's answer for one tool call. An empty Permission
// means no opinion: the hook prints nothing and Claude Code's own
// permission rules apply.
type Decision struct {
	Permission string
	Reason     string
}

// PassThrough reports whether the decision leaves the call to Claude Code.
func (d Decision) PassThrough() bool { return d.Permission == "" }

func deny(reason string) Decision { return Decision{Permission: claudecode.DecisionDeny, Reason: reason} }
func ask(reason string) Decision  { return Decision{Permission: claudecode.DecisionAsk, Reason: reason} }

// Evaluate runs the checks in priority order: malformed tool_input, .env
// access, then rm and git checks for Bash. autoAllow turns "no opinion"
// into an explicit allow.
//
// An error means the input could not be judged; callers should deny.
func Evaluate(input claudecode.Input, autoAllow bool) (Decision, error) {
	toolName := input.ToolName()

	raw, present := input["tool_input"]
	toolInput := map[string]any{}
	if present {
		obj, ok := raw.(map[string]any)
		if !ok {
			return deny(ReasonInvalidToolInput), nil
		}
		toolInput = obj
	}

	if err := checkFieldTypes(toolName, toolInput); err != nil {
		return Decision{}, err
	}

	if IsEnvFileAccess(toolName, toolInput) {
		return ask(ReasonEnvFileAccess), nil
	}

	if toolName == claudecode.ToolBash {
		command, _ := toolInput["command"].(string) //nolint:errcheck // type checked above

		switch IsDangerousRm(command) {
		case VerdictDeny:
			return deny(ReasonDangerousRm), nil
		case VerdictAsk:
			return ask(ReasonPotentialRm), nil
		case VerdictSafe:
		}

		if IsDangerousGit(command) {
			return deny(ReasonDangerousGit), nil
		}
	}

	if autoAllow {
		return Decision{Permission: claudecode.DecisionAllow}, nil
	}
	return Decision{}, nil
}

// checkFieldTypes rejects a present but non-string command or file_path,
// which no check could judge.
func checkFieldTypes(toolName string, toolInput map[string]any) error {
	var field string
	switch {
	case toolName == claudecode.ToolBash:
		field = "command"
	case slices.Contains(claudecode.FileTools, toolName):
		field = "file_path"
	default:
		return nil
	}
	v, ok := toolInput[field]
	if !ok {
		return nil
	}
	if _, isString := v.(string); !isString {
		return fmt.Errorf("tool_input.%s must be a string", field)
	}
	return nil
}

// FailureDecision turns an input or processing error into a deny.
func FailureDecision(err error) Decision {
	var decodeErr *claudecode.DecodeError
	if errors.As(err, &decodeErr) {
		return deny("Failed to parse JSON input: " + decodeErr.Error())
	}
	return deny("Unexpected error occurred: " + err.Error())
}

// Render produces the stdout payload for d under the given hook event.
// It returns nil when nothing should be printed: pass-through decisions,
// and "ask" under PermissionRequest, which has no ask behavior.
func Render(event string, d Decision) ([]byte, error) {
	if d.PassThrough() {
		return nil, nil
	}

	if event == claudecode.EventPermissionRequest {
		behavior := claudecode.PermissionBehavior{Behavior: d.Permission}
		switch d.Permission {
		case claudecode.DecisionAsk:
			return nil, nil
		case claudecode.DecisionDeny:
			behavior.Message = d.Reason
		}
		return jsonutil.MarshalCompact(claudecode.PermissionRequestOutput{
			HookSpecificOutput: claudecode.PermissionRequestDecision{
				HookEventName: claudecode.EventPermissionRequest,
				Decision:      behavior,
			},
		})
	}

	return jsonutil.MarshalCompact(claudecode.PreToolUseOutput{
		HookSpecificOutput: claudecode.PreToolUseDecision{
			HookEventName:            claudecode.EventPreToolUse,
			PermissionDecision:       d.Permission,
			PermissionDecisionReason: d.Reason,
		},
	})
}
