package promptenhance

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/claudecode"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/jsonutil"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/logging"
)

// InputError is a malformed hook payload. Its text goes to stderr as is.
type InputError struct {
	msg string
}

func (e *InputError) Error() string { return e.msg }

// Handle processes one UserPromptSubmit payload. It returns nil output when
// the prompt needs no enhancement.
func Handle(ctx context.Context, raw []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &InputError{msg: fmt.Sprintf("JSON decode error: %v", err)}
	}
	input, ok := v.(map[string]any)
	if !ok {
		return nil, &InputError{msg: "Invalid input: expected JSON object"}
	}

	prompt, ok := input["prompt"].(string)
	if !ok || prompt == "" {
		return nil, &InputError{msg: "Invalid or missing 'prompt' field"}
	}

	cwd, err := workingDir(input)
	if err != nil {
		return nil, err
	}

	if !ShouldEnhance(prompt) {
		logging.Debug(ctx, "prompt left as is", "prompt_length", len(prompt))
		return nil, nil //nolint:nilnil // no output means pass through
	}

	project, err := DetectProject(cwd)
	if err != nil {
		return nil, &InputError{msg: "Error processing prompt: " + err.Error()}
	}

	logging.Debug(ctx, "enhancing prompt",
		"project", project.Name,
		"placeholders", CountPlaceholders(prompt),
		"ellipses", CountEllipsis(prompt))

	out, err := jsonutil.MarshalCompact(claudecode.AdditionalContextOutput{
		HookSpecificOutput: claudecode.AdditionalContext{
			HookEventName:     claudecode.EventUserPromptSubmit,
			AdditionalContext: Instructions(prompt, project),
		},
	})
	if err != nil {
		return nil, &InputError{msg: "Error processing prompt: " + err.Error()}
	}
	return out, nil
}

func workingDir(input map[string]any) (string, error) {
	raw, present := input["cwd"]
	if !present {
		cwd, err := os.Getwd()
		if err != nil {
			return "", &InputError{msg: "Error processing prompt: " + err.Error()}
		}
		return cwd, nil
	}
	cwd, ok := raw.(string)
	if !ok {
		return "", &InputError{msg: "Invalid 'cwd' field"}
	}
	return cwd, nil
}
