package actions_test

import (
	"context"
	"testing"

	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/cupnode/actions"
	"github.com/stretchr/testify/assert"
)

type fakeHandler struct {
	executeCalls   []string
	pressKeysCalls []string
	launchCalls    []string
}

func (f *fakeHandler) Execute(_ context.Context, _ any, action string, _ map[string]any) actions.Result {
	f.executeCalls = append(f.executeCalls, action)
	return actions.Result{Success: true, Message: "ok"}
}

func (f *fakeHandler) PressKeys(_ context.Context, combo string) actions.Result {
	f.pressKeysCalls = append(f.pressKeysCalls, combo)
	return actions.Result{Success: true, Message: "ok"}
}

func (f *fakeHandler) LaunchApp(_ context.Context, name string) actions.Result {
	f.launchCalls = append(f.launchCalls, name)
	return actions.Result{Success: true, Message: "ok"}
}

func TestExecutorRejectsUnknownAction(t *testing.T) {
	h := &fakeHandler{}
	ex := actions.NewExecutor(h)
	result := ex.Execute(context.Background(), "e1", "fly", nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unknown action")
}

func TestExecutorRejectsMissingRef(t *testing.T) {
	h := &fakeHandler{}
	ex := actions.NewExecutor(h)
	result := ex.Execute(context.Background(), "e1", "click", nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not found in current tree snapshot")
}

func TestExecutorRequiresValueForSetvalue(t *testing.T) {
	h := &fakeHandler{}
	ex := actions.NewExecutor(h)
	refs := cupnode.NewRefTable()
	refs.Set("e1", "native-handle")
	ex.SetRefs(refs)

	result := ex.Execute(context.Background(), "e1", "setvalue", nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "requires a 'value' parameter")
}

func TestExecutorRequiresDirectionForScroll(t *testing.T) {
	h := &fakeHandler{}
	ex := actions.NewExecutor(h)
	refs := cupnode.NewRefTable()
	refs.Set("e1", "native-handle")
	ex.SetRefs(refs)

	result := ex.Execute(context.Background(), "e1", "scroll", map[string]any{"direction": "sideways"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "up/down/left/right")
}

func TestExecutorDispatchesValidClick(t *testing.T) {
	h := &fakeHandler{}
	ex := actions.NewExecutor(h)
	refs := cupnode.NewRefTable()
	refs.Set("e1", "native-handle")
	ex.SetRefs(refs)

	result := ex.Execute(context.Background(), "e1", "click", nil)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"click"}, h.executeCalls)
}

func TestExecutorPressKeysRequiresKeysParam(t *testing.T) {
	h := &fakeHandler{}
	ex := actions.NewExecutor(h)
	result := ex.Execute(context.Background(), "", "press_keys", nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "requires a 'keys' parameter")
}

func TestExecutorPressKeysDispatches(t *testing.T) {
	h := &fakeHandler{}
	ex := actions.NewExecutor(h)
	result := ex.Execute(context.Background(), "", "press_keys", map[string]any{"keys": "ctrl+s"})
	assert.True(t, result.Success)
	assert.Equal(t, []string{"ctrl+s"}, h.pressKeysCalls)
}

func TestExecutorRefsSwapOnRecapture(t *testing.T) {
	h := &fakeHandler{}
	ex := actions.NewExecutor(h)

	first := cupnode.NewRefTable()
	first.Set("e1", "handle-1")
	ex.SetRefs(first)

	second := cupnode.NewRefTable()
	second.Set("e2", "handle-2")
	ex.SetRefs(second)

	result := ex.Execute(context.Background(), "e1", "click", nil)
	assert.False(t, result.Success, "stale id from a discarded ref table must not resolve")
}
