//go:build darwin

package macosadapter

import (
	"context"
	"sync"

	"github.com/cup-project/cup/internal/cupnode"
)

// batchAttrs is read in a single AXUIElementCopyMultipleAttributeValues
// call per element — one cross-process round trip instead of seventeen,
// the same batching strategy windowsadapter uses with UIA caching.
var batchAttrs = []string{
	"AXRole", "AXSubrole", "AXTitle", "AXDescription", "AXHelp", "AXValue",
	"AXEnabled", "AXFocused", "AXPosition", "AXSize", "AXSelected",
	"AXExpanded", "AXMinValue", "AXMaxValue", "AXPlaceholderValue",
	"AXRequired", "AXChildren",
}

func stringOf(vals map[string]axValue, key string) string {
	if v, ok := vals[key]; ok && v.strOK {
		return v.str
	}
	return ""
}

func boolOf(vals map[string]axValue, key string, def bool) bool {
	if v, ok := vals[key]; ok && v.boolOK {
		return v.boolean
	}
	return def
}

func floatOf(vals map[string]axValue, key string) (float64, bool) {
	if v, ok := vals[key]; ok && v.numberOK {
		return v.number, true
	}
	return 0, false
}

// buildNode turns one element's batch-read attributes into a CUP node
// without recursing into children.
func buildNode(el axElement, id string, vals map[string]axValue) *cupnode.Node {
	role := stringOf(vals, "AXRole")
	subrole := stringOf(vals, "AXSubrole")
	cupRole := resolveRole(role, subrole)

	n := &cupnode.Node{ID: id, Role: cupRole}

	title := stringOf(vals, "AXTitle")
	if title == "" {
		title = stringOf(vals, "AXDescription")
	}
	n.Name = cupnode.Truncate(title, cupnode.MaxFieldLen)

	if help := stringOf(vals, "AXHelp"); help != "" {
		n.Description = cupnode.Truncate(help, cupnode.MaxFieldLen)
	}

	if pv, ok := vals["AXPosition"]; ok && pv.point != nil {
		x, y := int(pv.point.x), int(pv.point.y)
		w, h := 0, 0
		if sv, ok := vals["AXSize"]; ok && sv.size != nil {
			w, h = int(sv.size.w), int(sv.size.h)
		}
		n.Bounds = &cupnode.Bounds{X: x, Y: y, W: w, H: h}
	}

	disabled := !boolOf(vals, "AXEnabled", true)
	focused := boolOf(vals, "AXFocused", false)
	selected := boolOf(vals, "AXSelected", false)
	required := boolOf(vals, "AXRequired", false)

	var states []cupnode.State
	if disabled {
		states = append(states, cupnode.StateDisabled)
	}
	if focused {
		states = append(states, cupnode.StateFocused)
	}
	if selected {
		states = append(states, cupnode.StateSelected)
	}
	if required {
		states = append(states, cupnode.StateRequired)
	}

	isToggle := toggleAXRoles[role]
	valueStr := ""
	if v, ok := vals["AXValue"]; ok {
		switch {
		case v.strOK:
			valueStr = v.str
		case v.numberOK:
			if isToggle {
				switch int(v.number) {
				case 1:
					states = append(states, cupnode.StateChecked)
				case 2:
					states = append(states, cupnode.StateMixed)
				}
			}
		case v.boolOK:
			if isToggle && v.boolean {
				states = append(states, cupnode.StateChecked)
			}
		}
	}
	if valueStr != "" {
		n.Value = cupnode.Truncate(valueStr, cupnode.MaxFieldLen)
	}

	isExpandable := expandableAXRoles[role]
	if isExpandable {
		if boolOf(vals, "AXExpanded", false) {
			states = append(states, cupnode.StateExpanded)
		} else {
			states = append(states, cupnode.StateCollapsed)
		}
	}

	readonly := isSettable(el, "AXValue")
	readonly = !readonly
	if textInputRoles[cupRole] && !readonly {
		states = append(states, cupnode.StateEditable)
	}
	n.States = states

	acts := resolveActions(el, role, cupRole, disabled, readonly, isToggle, isExpandable)
	n.Actions = acts

	var attrs cupnode.Attributes
	hasAttrs := false
	if min, ok := floatOf(vals, "AXMinValue"); ok {
		attrs.ValueMin = &min
		hasAttrs = true
	}
	if max, ok := floatOf(vals, "AXMaxValue"); ok {
		attrs.ValueMax = &max
		hasAttrs = true
	}
	if cur, ok := floatOf(vals, "AXValue"); ok {
		attrs.ValueNow = &cur
		hasAttrs = true
	}
	if ph := stringOf(vals, "AXPlaceholderValue"); ph != "" {
		attrs.Placeholder = ph
		hasAttrs = true
	}
	if cupRole == cupnode.RoleLink && valueStr != "" {
		attrs.URL = valueStr
		hasAttrs = true
	}
	if hasAttrs {
		n.Attributes = &attrs
	}

	return n
}

// resolveActions filters AXUIElementCopyActionNames through the CUP
// action vocabulary, skipping noisy container roles and offering focus
// as a fallback for anything else actionable.
func resolveActions(el axElement, axRole string, role cupnode.Role, disabled, readonly, isToggle, isExpandable bool) []cupnode.Action {
	if disabled {
		return nil
	}
	if skipActionsAXRoles[axRole] {
		return nil
	}

	names := actionNames(el)
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}

	var acts []cupnode.Action
	if set["AXPress"] {
		acts = append(acts, cupnode.ActionClick)
	}
	if isToggle {
		acts = append(acts, cupnode.ActionToggle)
	}
	if isExpandable {
		acts = append(acts, cupnode.ActionExpand, cupnode.ActionCollapse)
	}
	if set["AXIncrement"] {
		acts = append(acts, cupnode.ActionIncrement)
	}
	if set["AXDecrement"] {
		acts = append(acts, cupnode.ActionDecrement)
	}
	if set["AXPick"] || set["AXConfirm"] {
		acts = append(acts, cupnode.ActionSelect)
	}
	if set["AXCancel"] || set["AXRaise"] {
		acts = append(acts, cupnode.ActionDismiss)
	}
	if !readonly && (textInputRoles[role] || isSettable(el, "AXValue")) {
		acts = append(acts, cupnode.ActionSetValue)
		if textInputRoles[role] {
			acts = append(acts, cupnode.ActionType)
		}
	}
	if len(acts) == 0 {
		acts = append(acts, cupnode.ActionFocus)
	}
	return acts
}

// walkTree recurses an AXUIElement subtree, batch-reading each element's
// attributes in turn.
func walkTree(el axElement, depth, maxDepth int, idGen *cupnode.IDGen, stats *cupnode.Stats, refs *cupnode.RefTable) *cupnode.Node {
	vals := batchRead(el, batchAttrs)
	id := idGen.Next()
	node := buildNode(el, id, vals)
	refs.Set(id, el)

	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	stats.Roles[string(node.Role)]++

	if depth >= maxDepth {
		return node
	}
	children, ok := vals["AXChildren"]
	if !ok || len(children.elements) == 0 {
		return node
	}
	for _, child := range children.elements {
		node.Children = append(node.Children, walkTree(child, depth+1, maxDepth, idGen, stats, refs))
	}
	return node
}

// captureWindow reads one window's full AXUIElement subtree in-process.
func (a *Adapter) captureWindow(el axElement, idGen *cupnode.IDGen, refs *cupnode.RefTable, maxDepth int) (*cupnode.Node, *cupnode.Stats) {
	stats := cupnode.NewStats()
	node := walkTree(el, 0, maxDepth, idGen, stats, refs)
	return node, stats
}

// CaptureTree walks each requested window's accessibility tree, running
// at most min(len(windows), 8) workers concurrently against a shared id
// generator and ref table. IDGen.Next is atomic and RefTable is
// mutex-protected, so every worker writes into the same structures
// directly rather than merging per-worker copies afterward.
func (a *Adapter) CaptureTree(ctx context.Context, wins []*cupnode.WindowDescriptor, maxDepth int) ([]*cupnode.Node, *cupnode.Stats, *cupnode.RefTable, error) {
	if err := a.Initialize(ctx); err != nil {
		return nil, nil, nil, err
	}
	if maxDepth < 0 {
		maxDepth = 999
	}

	idGen := &cupnode.IDGen{}
	refs := cupnode.NewRefTable()
	stats := cupnode.NewStats()

	if len(wins) == 0 {
		return nil, stats, refs, nil
	}
	if len(wins) == 1 {
		el, ok := wins[0].Handle.(axElement)
		if !ok || !el.valid() {
			return nil, stats, refs, nil
		}
		node, winStats := a.captureWindow(el, idGen, refs, maxDepth)
		stats.Merge(winStats)
		return []*cupnode.Node{node}, stats, refs, nil
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
		el, ok := w.Handle.(axElement)
		if !ok || !el.valid() {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, el axElement) {
			defer wg.Done()
			defer func() { <-sem }()
			node, winStats := a.captureWindow(el, idGen, refs, maxDepth)
			results[i] = node
			statsSlice[i] = winStats
		}(i, el)
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
	return tree, stats, refs, nil
}
