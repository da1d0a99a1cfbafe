package logging

import "context"

type contextKey int

const (
	sessionIDKey contextKey = iota
	componentKey
	hookKey
	toolKey
)

// WithSession tags ctx with a Claude Code session id.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithComponent tags ctx with the gosu area doing the work: hooks, tasks
// or worktree.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithHook tags ctx with the hook being served, such as guard or session.
func WithHook(ctx context.Context, hook string) context.Context {
	return context.WithValue(ctx, hookKey, hook)
}

// WithTool tags ctx with the tool call under evaluation.
func WithTool(ctx context.Context, tool string) context.Context {
	return context.WithValue(ctx, toolKey, tool)
}

func SessionIDFromContext(ctx context.Context) string { return stringValue(ctx, sessionIDKey) }
func ComponentFromContext(ctx context.Context) string { return stringValue(ctx, componentKey) }
func HookFromContext(ctx context.Context) string      { return stringValue(ctx, hookKey) }
func ToolFromContext(ctx context.Context) string      { return stringValue(ctx, toolKey) }

func stringValue(ctx context.Context, key contextKey) string {
	s, _ := ctx.Value(key).(string) //nolint:errcheck // unset keys read as ""
	return s
}
