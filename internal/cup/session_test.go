package cup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cup-project/cup/internal/cup"
	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/cupnode/actions"
	"github.com/cup-project/cup/internal/cupnode/search"
	"github.com/cup-project/cup/internal/platform"
)

const testPlatform cupnode.Platform = "faketest"

// fakeAdapter is a minimal platform.Adapter + actions.Handler double used
// only to exercise Session without touching any real OS accessibility
// API.
type fakeAdapter struct {
	tree    []*cupnode.Node
	pressed []string
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		tree: []*cupnode.Node{
			{ID: "e0", Role: cupnode.RoleButton, Name: "Submit", Actions: []cupnode.Action{cupnode.ActionClick}},
			{ID: "e1", Role: cupnode.RoleTextbox, Name: "Search", Actions: []cupnode.Action{cupnode.ActionType}},
		},
	}
}

func (f *fakeAdapter) PlatformName() cupnode.Platform { return testPlatform }
func (f *fakeAdapter) Initialize(ctx context.Context) error { return nil }
func (f *fakeAdapter) ScreenInfo(ctx context.Context) (int, int, float64, error) {
	return 1920, 1080, 1.0, nil
}
func (f *fakeAdapter) ForegroundWindow(ctx context.Context) (*cupnode.WindowDescriptor, error) {
	return &cupnode.WindowDescriptor{Title: "Fake Window"}, nil
}
func (f *fakeAdapter) AllWindows(ctx context.Context) ([]*cupnode.WindowDescriptor, error) {
	return []*cupnode.WindowDescriptor{{Title: "Fake Window"}}, nil
}
func (f *fakeAdapter) WindowList(ctx context.Context) ([]cupnode.WindowOverview, error) {
	return []cupnode.WindowOverview{{Title: "Fake Window", Foreground: true}}, nil
}
func (f *fakeAdapter) DesktopWindow(ctx context.Context) (*cupnode.WindowDescriptor, error) {
	return nil, nil
}
func (f *fakeAdapter) CaptureTree(ctx context.Context, windows []*cupnode.WindowDescriptor, maxDepth int) ([]*cupnode.Node, *cupnode.Stats, *cupnode.RefTable, error) {
	refs := cupnode.NewRefTable()
	for _, n := range f.tree {
		refs.Set(n.ID, n.ID)
	}
	stats := cupnode.NewStats()
	return f.tree, stats, refs, nil
}

func (f *fakeAdapter) Execute(ctx context.Context, nativeRef any, action string, params map[string]any) actions.Result {
	return actions.Result{Success: true, Message: action}
}
func (f *fakeAdapter) PressKeys(ctx context.Context, combo string) actions.Result {
	f.pressed = append(f.pressed, combo)
	return actions.Result{Success: true, Message: "pressed"}
}
func (f *fakeAdapter) LaunchApp(ctx context.Context, name string) actions.Result {
	return actions.Result{Success: true, Message: "launched " + name}
}

func newTestSession(t *testing.T) (*cup.Session, *fakeAdapter) {
	t.Helper()
	fa := newFakeAdapter()
	platform.Factory[testPlatform] = func() platform.Adapter { return fa }
	s, err := cup.New(context.Background(), testPlatform)
	require.NoError(t, err)
	return s, fa
}

func TestSessionSnapshotForeground(t *testing.T) {
	s, _ := newTestSession(t)
	env, windowList, err := s.Snapshot(context.Background(), cup.SnapshotOptions{Scope: cupnode.ScopeForeground})
	require.NoError(t, err)
	assert.Equal(t, cupnode.ScopeForeground, env.Scope)
	assert.Len(t, env.Tree, 2)
	assert.Len(t, windowList, 1)
}

func TestSessionSnapshotOverviewSkipsCapture(t *testing.T) {
	s, _ := newTestSession(t)
	env, _, err := s.Snapshot(context.Background(), cup.SnapshotOptions{Scope: cupnode.ScopeOverview})
	require.NoError(t, err)
	assert.Equal(t, cupnode.ScopeOverview, env.Scope)
	assert.Empty(t, env.Tree)
}

func TestSessionActionUsesLastRefs(t *testing.T) {
	s, _ := newTestSession(t)
	_, _, err := s.Snapshot(context.Background(), cup.SnapshotOptions{Scope: cupnode.ScopeForeground})
	require.NoError(t, err)

	result := s.Action(context.Background(), "e0", "click", nil)
	assert.True(t, result.Success)

	stale := s.Action(context.Background(), "e999", "click", nil)
	assert.False(t, stale.Success)
	assert.Contains(t, stale.Error, "not found")
}

func TestSessionFindImplicitSnapshot(t *testing.T) {
	s, _ := newTestSession(t)
	results, err := s.Find(context.Background(), search.Query{Role: "button"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "e0", results[0].Node.ID)
}

func TestSessionBatchStopsOnFailure(t *testing.T) {
	s, fa := newTestSession(t)
	_, _, err := s.Snapshot(context.Background(), cup.SnapshotOptions{Scope: cupnode.ScopeForeground})
	require.NoError(t, err)

	results := s.Batch(context.Background(), []cup.BatchStep{
		{ElementID: "e0", Action: "click"},
		{Action: "press", Keys: "ctrl+s"},
		{ElementID: "", Action: "click"},
		{ElementID: "e1", Action: "type", Params: map[string]any{"value": "hi"}},
	})

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Success)
	assert.False(t, results[2].Success)
	assert.Equal(t, []string{"ctrl+s"}, fa.pressed)
}

func TestSessionScreenshotNotImplemented(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Screenshot(context.Background(), nil)
	require.Error(t, err)
}
