//go:build linux

package linuxadapter

import (
	"sync"

	"github.com/cup-project/cup/internal/cupnode"
)

// buildNode turns one AT-SPI accessible into a CUP node without
// recursing into children.
func buildNode(el accessibleRef, id string) *cupnode.Node {
	roleName := el.roleName()
	name := el.name()
	actionNames := el.actionNames()
	role := resolveRole(roleName, name != "", actionNames)

	n := &cupnode.Node{
		ID:   id,
		Role: role,
		Name: cupnode.Truncate(name, cupnode.MaxFieldLen),
	}
	if desc := el.description(); desc != "" {
		n.Description = cupnode.Truncate(desc, cupnode.MaxFieldLen)
	}

	if x, y, w, h, ok := el.extents(); ok {
		n.Bounds = &cupnode.Bounds{X: x, Y: y, W: w, H: h}
	}

	stateSet := el.states()
	var states []cupnode.State
	disabled := !stateSet["enabled"]
	if disabled {
		states = append(states, cupnode.StateDisabled)
	}
	if !stateSet["showing"] {
		states = append(states, cupnode.StateOffscreen)
	}
	if stateSet["focused"] {
		states = append(states, cupnode.StateFocused)
	}
	if stateSet["busy"] {
		states = append(states, cupnode.StateBusy)
	}
	if stateSet["modal"] {
		states = append(states, cupnode.StateModal)
	}
	if stateSet["multiselectable"] {
		states = append(states, cupnode.StateMultiselectable)
	}
	if stateSet["required"] {
		states = append(states, cupnode.StateRequired)
	}
	if stateSet["selected"] {
		states = append(states, cupnode.StateSelected)
	}
	if stateSet["indeterminate"] {
		states = append(states, cupnode.StateMixed)
	}

	isToggle := toggleRoles[roleName]
	if isToggle && stateSet["checked"] {
		states = append(states, cupnode.StateChecked)
	} else if isToggle && stateSet["pressed"] {
		states = append(states, cupnode.StatePressed)
	}

	isExpandable := stateSet["expandable"]
	if isExpandable {
		if stateSet["expanded"] {
			states = append(states, cupnode.StateExpanded)
		} else {
			states = append(states, cupnode.StateCollapsed)
		}
	}

	readonly := !stateSet["editable"]
	if textInputRoles[role] && !readonly {
		states = append(states, cupnode.StateEditable)
	}
	n.States = states

	cur, min, max, hasValue := el.valueInfo()
	valueStr := ""
	if textInputRoles[role] {
		valueStr = el.text()
		if valueStr != "" {
			n.Value = cupnode.Truncate(valueStr, cupnode.MaxFieldLen)
		}
	}

	var acts []cupnode.Action
	actionSet := make(map[string]bool, len(actionNames))
	for _, a := range actionNames {
		actionSet[a] = true
	}
	if !disabled {
		if actionSet["click"] || actionSet["press"] {
			acts = append(acts, cupnode.ActionClick)
		}
		if isToggle {
			acts = append(acts, cupnode.ActionToggle)
		}
		if isExpandable {
			acts = append(acts, cupnode.ActionExpand, cupnode.ActionCollapse)
		}
		if textInputRoles[role] && !readonly {
			acts = append(acts, cupnode.ActionSetValue, cupnode.ActionType)
		}
		if hasValue && !textInputRoles[role] {
			acts = append(acts, cupnode.ActionIncrement, cupnode.ActionDecrement)
		}
		if stateSet["selectable"] {
			acts = append(acts, cupnode.ActionSelect)
		}
		if len(acts) == 0 {
			acts = append(acts, cupnode.ActionFocus)
		}
	}
	n.Actions = acts

	var attrs cupnode.Attributes
	hasAttrs := false
	if hasValue {
		attrs.ValueMin = &min
		attrs.ValueMax = &max
		attrs.ValueNow = &cur
		hasAttrs = true
	}
	if role == cupnode.RoleLink && valueStr != "" {
		attrs.URL = valueStr
		hasAttrs = true
	}
	if hasAttrs {
		n.Attributes = &attrs
	}

	return n
}

// walkTree recurses an AT-SPI accessible subtree.
func walkTree(el accessibleRef, depth, maxDepth int, idGen *cupnode.IDGen, stats *cupnode.Stats, refs *cupnode.RefTable) *cupnode.Node {
	id := idGen.Next()
	node := buildNode(el, id)
	refs.Set(id, el)

	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	stats.Roles[string(node.Role)]++

	if depth >= maxDepth {
		return node
	}
	for _, child := range el.children() {
		node.Children = append(node.Children, walkTree(child, depth+1, maxDepth, idGen, stats, refs))
	}
	return node
}

func (a *Adapter) captureWindow(el accessibleRef, idGen *cupnode.IDGen, refs *cupnode.RefTable, maxDepth int) (*cupnode.Node, *cupnode.Stats) {
	stats := cupnode.NewStats()
	node := walkTree(el, 0, maxDepth, idGen, stats, refs)
	return node, stats
}

// captureTreeWindows walks each requested window's AT-SPI subtree, sequentially
// for a single window and across a pool of at most 8 goroutines for
// several.
func (a *Adapter) captureTreeWindows(wins []accessibleRef, idGen *cupnode.IDGen, refs *cupnode.RefTable, stats *cupnode.Stats, maxDepth int) []*cupnode.Node {
	if len(wins) == 0 {
		return nil
	}
	if len(wins) == 1 {
		node, winStats := a.captureWindow(wins[0], idGen, refs, maxDepth)
		stats.Merge(winStats)
		return []*cupnode.Node{node}
	}

	poolSize := len(wins)
	if poolSize > 8 {
		poolSize = 8
	}
	sem := make(chan struct{}, poolSize)
	results := make([]*cupnode.Node, len(wins))
	statsSlice := make([]*cupnode.Stats, len(wins))

	var wg sync.WaitGroup
	for i, w := range wins {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, el accessibleRef) {
			defer wg.Done()
			defer func() { <-sem }()
			node, winStats := a.captureWindow(el, idGen, refs, maxDepth)
			results[i] = node
			statsSlice[i] = winStats
		}(i, w)
	}
	wg.Wait()

	var tree []*cupnode.Node
	for i, n := range results {
		if n == nil {
			continue
		}
		tree = append(tree, n)
		stats.Merge(statsSlice[i])
	}
	return tree
}
