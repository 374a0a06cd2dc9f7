package format_test

import (
	"strings"
	"testing"

	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/cupnode/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeCompactHeaderAndLine(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleButton, Name: "Submit", Bounds: bounds(10, 20, 80, 30),
			States: []cupnode.State{cupnode.StateFocused}, Actions: []cupnode.Action{cupnode.ActionClick, cupnode.ActionFocus}},
	}
	env := format.BuildEnvelope(tree, cupnode.PlatformWeb, cupnode.ScopeForeground, cupnode.NewScreen(1920, 1080, 1), nil, nil, 0)
	out := format.SerializeCompact(env, nil, format.DetailCompact, 0)

	assert.True(t, strings.HasPrefix(out, "# CUP 0.1.0 | web | 1920x1080"))
	assert.Contains(t, out, `[e1] btn "Submit" 10,20 80x30 {foc} [clk]`, "focus is dropped from the action list as noise")
}

func TestSerializeCompactTruncatesLongNames(t *testing.T) {
	longName := strings.Repeat("x", 200)
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleButton, Name: longName, Bounds: bounds(0, 0, 10, 10), Actions: []cupnode.Action{cupnode.ActionClick}},
	}
	env := format.BuildEnvelope(tree, cupnode.PlatformWeb, cupnode.ScopeForeground, cupnode.NewScreen(100, 100, 1), nil, nil, 0)
	out := format.SerializeCompact(env, nil, format.DetailCompact, 0)
	assert.Contains(t, out, strings.Repeat("x", 80)+"...")
}

func TestSerializeCompactHardTruncation(t *testing.T) {
	var tree []*cupnode.Node
	for i := 0; i < 2000; i++ {
		tree = append(tree, &cupnode.Node{
			ID: "e" + itoa(i), Role: cupnode.RoleButton, Name: "a very long button label to pad output",
			Bounds: bounds(0, 0, 10, 10), Actions: []cupnode.Action{cupnode.ActionClick},
		})
	}
	env := format.BuildEnvelope(tree, cupnode.PlatformWeb, cupnode.ScopeForeground, cupnode.NewScreen(100, 100, 1), nil, nil, 0)
	out := format.SerializeCompact(env, nil, format.DetailCompact, format.MaxOutputChars)
	assert.LessOrEqual(t, len(out), format.MaxOutputChars+300)
	assert.Contains(t, out, "OUTPUT TRUNCATED")
}

func TestSerializeCompactEmitsScrollHint(t *testing.T) {
	tree := []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleList, Bounds: bounds(0, 0, 400, 200), Actions: []cupnode.Action{cupnode.ActionScroll}, Children: []*cupnode.Node{
			{ID: "e2", Role: cupnode.RoleListItem, Name: "visible", Bounds: bounds(0, 0, 400, 50), Actions: []cupnode.Action{cupnode.ActionClick}},
			{ID: "e3", Role: cupnode.RoleListItem, Name: "clipped", Bounds: bounds(0, 300, 400, 50), Actions: []cupnode.Action{cupnode.ActionClick}},
		}},
	}
	env := format.BuildEnvelope(tree, cupnode.PlatformWeb, cupnode.ScopeForeground, cupnode.NewScreen(1920, 1080, 1), nil, nil, 0)
	out := format.SerializeCompact(env, nil, format.DetailCompact, 0)
	assert.Contains(t, out, "# 1 more items — scroll down to see")
	assert.NotContains(t, out, "[e3]")
}

func TestSerializeOverviewMarksForeground(t *testing.T) {
	windows := []cupnode.WindowOverview{
		{Title: "Mail", Foreground: false},
		{Title: "Editor", Foreground: true, Bounds: bounds(0, 0, 1000, 800)},
	}
	out := format.SerializeOverview(windows, cupnode.PlatformMacOS, 1920, 1080)
	require.Contains(t, out, "# overview | 2 windows")
	assert.Contains(t, out, "* [fg] Editor @0,0 1000x800")
	assert.Contains(t, out, "  Mail")
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}
