package actions

import "context"

// Result is the outcome of executing a single CUP action. Callers
// branch on Success/Error rather than on exceptions — no Handler
// implementation panics past this boundary.
type Result struct {
	Success bool
	Message string
	Error   string
}

// Handler is the per-platform action backend every platform adapter
// supplies to an Executor. nativeRef is
// the opaque handle stored in a capture's ref table.
type Handler interface {
	Execute(ctx context.Context, nativeRef any, action string, params map[string]any) Result
	PressKeys(ctx context.Context, combo string) Result
	LaunchApp(ctx context.Context, name string) Result
}
