package format_test

import (
	"testing"

	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/cupnode/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bounds(x, y, w, h int) *cupnode.Bounds {
	return &cupnode.Bounds{X: x, Y: y, W: w, H: h}
}

func TestPruneDropsChromeRoles(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleWindow, Bounds: bounds(0, 0, 800, 600), Children: []*cupnode.Node{
			{ID: "e2", Role: cupnode.RoleTitlebar, Bounds: bounds(0, 0, 800, 30)},
			{ID: "e3", Role: cupnode.RoleButton, Name: "OK", Bounds: bounds(10, 10, 50, 20), Actions: []cupnode.Action{cupnode.ActionClick}},
		}},
	}

	pruned, _ := format.Prune(tree, format.DetailCompact, 1920, 1080)
	require.Len(t, pruned, 1)
	require.Len(t, pruned[0].Children, 1)
	assert.Equal(t, "e3", pruned[0].Children[0].ID)
}

func TestPruneDropsZeroSizeNodes(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleButton, Name: "Hidden", Bounds: bounds(0, 0, 0, 20), Actions: []cupnode.Action{cupnode.ActionClick}},
	}
	pruned, _ := format.Prune(tree, format.DetailCompact, 1920, 1080)
	assert.Empty(t, pruned)
}

func TestPruneKeepsOffscreenWithAction(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleButton, Name: "Submit", Bounds: bounds(0, -500, 50, 20),
			States: []cupnode.State{cupnode.StateOffscreen}, Actions: []cupnode.Action{cupnode.ActionClick}},
	}
	pruned, _ := format.Prune(tree, format.DetailCompact, 1920, 1080)
	require.Len(t, pruned, 1)
	assert.Equal(t, "e1", pruned[0].ID)
}

func TestPruneDropsOffscreenWithoutAction(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleText, Name: "footer note", Bounds: bounds(0, -500, 50, 20),
			States: []cupnode.State{cupnode.StateOffscreen}, Actions: []cupnode.Action{cupnode.ActionFocus}},
	}
	pruned, _ := format.Prune(tree, format.DetailCompact, 1920, 1080)
	assert.Empty(t, pruned)
}

func TestPruneHoistsUnnamedGeneric(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleGeneric, Bounds: bounds(0, 0, 800, 600), Children: []*cupnode.Node{
			{ID: "e2", Role: cupnode.RoleButton, Name: "Go", Bounds: bounds(10, 10, 40, 20), Actions: []cupnode.Action{cupnode.ActionClick}},
		}},
	}
	pruned, _ := format.Prune(tree, format.DetailCompact, 1920, 1080)
	require.Len(t, pruned, 1)
	assert.Equal(t, "e2", pruned[0].ID)
}

func TestPruneDropsUnnamedImageAndEmptyText(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleGroup, Name: "toolbar", Bounds: bounds(0, 0, 100, 40), Actions: []cupnode.Action{cupnode.ActionClick}, Children: []*cupnode.Node{
			{ID: "e2", Role: cupnode.RoleImg, Bounds: bounds(0, 0, 16, 16)},
			{ID: "e3", Role: cupnode.RoleText, Name: "", Bounds: bounds(20, 0, 16, 16)},
		}},
	}
	pruned, _ := format.Prune(tree, format.DetailCompact, 1920, 1080)
	require.Len(t, pruned, 1)
	assert.Empty(t, pruned[0].Children)
}

func TestPruneCollapsesSingleChildWrapper(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleRegion, Bounds: bounds(0, 0, 800, 600), Children: []*cupnode.Node{
			{ID: "e2", Role: cupnode.RoleButton, Name: "Go", Bounds: bounds(10, 10, 40, 20), Actions: []cupnode.Action{cupnode.ActionClick}},
		}},
	}
	pruned, _ := format.Prune(tree, format.DetailCompact, 1920, 1080)
	require.Len(t, pruned, 1)
	assert.Equal(t, "e2", pruned[0].ID, "unnamed region wrapping one child collapses to the child")
}

func TestPruneFullBypassesPruning(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleTitlebar, Bounds: bounds(0, 0, 800, 30)},
	}
	pruned, clipped := format.Prune(tree, format.DetailFull, 1920, 1080)
	require.Len(t, pruned, 1)
	assert.Equal(t, "e1", pruned[0].ID)
	assert.Nil(t, clipped)
}

func TestPruneIsIdempotent(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleWindow, Bounds: bounds(0, 0, 800, 600), Children: []*cupnode.Node{
			{ID: "e2", Role: cupnode.RoleGeneric, Bounds: bounds(0, 0, 800, 600), Children: []*cupnode.Node{
				{ID: "e3", Role: cupnode.RoleButton, Name: "OK", Bounds: bounds(10, 10, 50, 20), Actions: []cupnode.Action{cupnode.ActionClick}},
				{ID: "e4", Role: cupnode.RoleTitlebar, Bounds: bounds(0, 0, 800, 30)},
			}},
		}},
	}

	once, _ := format.Prune(tree, format.DetailCompact, 1920, 1080)
	twice, _ := format.Prune(once, format.DetailCompact, 1920, 1080)

	env1 := format.BuildEnvelope(once, cupnode.PlatformWeb, cupnode.ScopeForeground, cupnode.NewScreen(1920, 1080, 1), nil, nil, 0)
	env2 := format.BuildEnvelope(twice, cupnode.PlatformWeb, cupnode.ScopeForeground, cupnode.NewScreen(1920, 1080, 1), nil, nil, 0)

	s1 := format.SerializeCompact(env1, nil, format.DetailCompact, 0)
	s2 := format.SerializeCompact(env2, nil, format.DetailCompact, 0)
	assert.Equal(t, format.Fingerprint(s1), format.Fingerprint(s2), "prune(prune(t)) must equal prune(t)")
}

func TestPruneClipsOutOfViewportChildren(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleList, Bounds: bounds(0, 0, 200, 100), Actions: []cupnode.Action{cupnode.ActionScroll}, Children: []*cupnode.Node{
			{ID: "e2", Role: cupnode.RoleListItem, Name: "visible", Bounds: bounds(0, 0, 200, 20), Actions: []cupnode.Action{cupnode.ActionClick}},
			{ID: "e3", Role: cupnode.RoleListItem, Name: "below the fold", Bounds: bounds(0, 500, 200, 20), Actions: []cupnode.Action{cupnode.ActionClick}},
		}},
	}
	pruned, clipped := format.Prune(tree, format.DetailCompact, 1920, 1080)
	require.Len(t, pruned, 1)
	require.Len(t, pruned[0].Children, 1)
	assert.Equal(t, "e2", pruned[0].Children[0].ID)
	hint, ok := clipped["e1"]
	require.True(t, ok)
	assert.Equal(t, 1, hint.Below)
}

func TestPruneRecordsHintsOnNestedScrollables(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleWindow, Name: "App", Bounds: bounds(0, 0, 800, 600), Children: []*cupnode.Node{
			{ID: "e2", Role: cupnode.RoleList, Bounds: bounds(0, 0, 400, 200), Actions: []cupnode.Action{cupnode.ActionScroll}, Children: []*cupnode.Node{
				{ID: "e3", Role: cupnode.RoleListItem, Name: "first", Bounds: bounds(0, 0, 400, 50), Actions: []cupnode.Action{cupnode.ActionClick}},
				{ID: "e4", Role: cupnode.RoleListItem, Name: "hidden", Bounds: bounds(0, 300, 400, 50), Actions: []cupnode.Action{cupnode.ActionClick}},
			}},
		}},
	}
	pruned, clipped := format.Prune(tree, format.DetailCompact, 1920, 1080)
	require.Len(t, pruned, 1)
	hint, ok := clipped["e2"]
	require.True(t, ok, "a scrollable below the root must still record its clip hint")
	assert.Equal(t, 1, hint.Below)
	assert.Zero(t, hint.Above+hint.Left+hint.Right)
}
