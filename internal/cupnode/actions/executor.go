package actions

import (
	"context"
	"fmt"
	"sort"

	"github.com/cup-project/cup/internal/cupnode"
)

// ValidActions is the closed set of action names the executor accepts
// before reaching a platform handler. press_keys is a
// pseudo-action dispatched directly by the executor rather than passed to
// Handler.Execute.
var ValidActions = map[string]bool{
	"click": true, "collapse": true, "decrement": true, "dismiss": true,
	"doubleclick": true, "expand": true, "focus": true, "increment": true,
	"longpress": true, "press_keys": true, "rightclick": true, "scroll": true,
	"select": true, "setvalue": true, "toggle": true, "type": true,
}

func sortedActionNames() []string {
	names := make([]string, 0, len(ValidActions))
	for a := range ValidActions {
		names = append(names, a)
	}
	sort.Strings(names)
	return names
}

// Executor dispatches CUP actions to a platform Handler using element
// references from the most recent tree capture.
type Executor struct {
	handler Handler
	refs    *cupnode.RefTable
}

// NewExecutor builds an Executor bound to a platform's action handler.
func NewExecutor(handler Handler) *Executor {
	return &Executor{handler: handler, refs: cupnode.NewRefTable()}
}

// SetRefs replaces the element references with a fresh set from the most
// recent capture.
func (e *Executor) SetRefs(refs *cupnode.RefTable) {
	e.refs = refs
}

// Execute runs a CUP action on an element by id.
func (e *Executor) Execute(ctx context.Context, elementID, action string, params map[string]any) Result {
	if !ValidActions[action] {
		return Result{Error: fmt.Sprintf("unknown action %q. valid: %v", action, sortedActionNames())}
	}

	if action == "press_keys" {
		keys, _ := params["keys"].(string)
		if keys == "" {
			return Result{Error: "action 'press_keys' requires a 'keys' parameter"}
		}
		return e.PressKeys(ctx, keys)
	}

	nativeRef, ok := e.refs.Get(elementID)
	if !ok {
		return Result{Error: fmt.Sprintf("element %q not found in current tree snapshot", elementID)}
	}

	if action == "type" || action == "setvalue" {
		if _, ok := params["value"]; !ok {
			return Result{Error: fmt.Sprintf("action %q requires a 'value' parameter", action)}
		}
	}
	if action == "scroll" {
		direction, _ := params["direction"].(string)
		switch direction {
		case "up", "down", "left", "right":
		default:
			return Result{Error: fmt.Sprintf("action 'scroll' requires 'direction' (up/down/left/right), got: %q", direction)}
		}
	}

	return e.handler.Execute(ctx, nativeRef, action, params)
}

// PressKeys sends a keyboard shortcut (e.g. "ctrl+s", "enter") with no
// element reference required.
func (e *Executor) PressKeys(ctx context.Context, combo string) Result {
	return e.handler.PressKeys(ctx, combo)
}

// LaunchApp launches an application by name with fuzzy matching.
func (e *Executor) LaunchApp(ctx context.Context, name string) Result {
	return e.handler.LaunchApp(ctx, name)
}
