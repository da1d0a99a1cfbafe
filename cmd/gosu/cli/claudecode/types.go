// Package claudecode holds the Claude Code hook wire format: event and tool
// names, decoded hook input, and the JSON shapes hooks print on stdout.
package claudecode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Hook event names as sent in hook_event_name.
const (
	EventPreToolUse        = "PreToolUse"
	EventPostToolUse       = "PostToolUse"
	EventPermissionRequest = "PermissionRequest"
	EventNotification      = "Notification"
	EventUserPromptSubmit  = "UserPromptSubmit"
	EventStop              = "Stop"
	EventSubagentStop      = "SubagentStop"
	EventPreCompact        = "PreCompact"
	EventSessionStart      = "SessionStart"
	EventSessionEnd        = "SessionEnd"
)

// Events lists every hook event Claude Code emits, in documentation order.
var Events = []string{
	EventPreToolUse,
	EventPostToolUse,
	EventPermissionRequest,
	EventNotification,
	EventUserPromptSubmit,
	EventStop,
	EventSubagentStop,
	EventPreCompact,
	EventSessionStart,
	EventSessionEnd,
}

// Tool names the guard hook inspects.
const (
	ToolBash      = "Bash"
	ToolRead      = "Read"
	ToolEdit      = "Edit"
	ToolMultiEdit = "MultiEdit"
	ToolWrite     = "Write"
)

// FileTools are the tools whose tool_input carries a file_path.
var FileTools = []string{ToolRead, ToolEdit, ToolMultiEdit, ToolWrite}

// Permission decisions.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
	DecisionAsk   = "ask"
)

// ErrNotObject is returned when the hook payload is valid JSON but not an object.
var ErrNotObject = errors.New("hook input is not a JSON object")

// Input is one decoded hook payload. Fields are read leniently because the
// payload differs per event and may gain fields over time.
type Input map[string]any

// ReadInput reads and decodes a hook payload from r. A JSON syntax error is
// returned wrapped so callers can tell it apart from ErrNotObject.
func ReadInput(r io.Reader) (Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return DecodeInput(data)
}

// DecodeInput decodes a hook payload.
func DecodeInput(data []byte) (Input, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &DecodeError{Err: err}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Input(obj), nil
}

// DecodeError wraps a JSON syntax or type error in the raw hook input.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// String returns the string value of key, or "" when missing or not a string.
func (in Input) String(key string) string {
	s, _ := in[key].(string) //nolint:errcheck // zero value on mismatch
	return s
}

// Bool returns the bool value of key, or false.
func (in Input) Bool(key string) bool {
	b, _ := in[key].(bool) //nolint:errcheck // zero value on mismatch
	return b
}

func (in Input) SessionID() string      { return in.String("session_id") }
func (in Input) HookEventName() string  { return in.String("hook_event_name") }
func (in Input) ToolName() string       { return in.String("tool_name") }
func (in Input) TranscriptPath() string { return in.String("transcript_path") }

// PreToolUseOutput is printed by a PreToolUse hook that makes a decision.
type PreToolUseOutput struct {
	HookSpecificOutput PreToolUseDecision `json:"hookSpecificOutput"`
}

type PreToolUseDecision struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
}

// PermissionRequestOutput is printed by a PermissionRequest hook.
type PermissionRequestOutput struct {
	HookSpecificOutput PermissionRequestDecision `json:"hookSpecificOutput"`
}

type PermissionRequestDecision struct {
	HookEventName string             `json:"hookEventName"`
	Decision      PermissionBehavior `json:"decision"`
}

// PermissionBehavior carries updatedInput only for allow and message/interrupt only for deny.
type PermissionBehavior struct {
	Behavior     string         `json:"behavior"`
	UpdatedInput map[string]any `json:"updatedInput,omitempty"`
	Message      string         `json:"message,omitempty"`
	Interrupt    bool           `json:"interrupt,omitempty"`
}

// AdditionalContextOutput injects text into the conversation (UserPromptSubmit, SessionStart).
type AdditionalContextOutput struct {
	HookSpecificOutput AdditionalContext `json:"hookSpecificOutput"`
}

type AdditionalContext struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}
