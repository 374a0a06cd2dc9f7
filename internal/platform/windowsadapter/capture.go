//go:build windows

package windowsadapter

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/windows"

	"github.com/cup-project/cup/internal/cupnode"
)

// ariaProperty reads a single "key=value" pair out of UIA's semicolon
// separated AriaProperties string.
func ariaProperty(raw, key string) string {
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		k, v, found := strings.Cut(part, "=")
		if found && strings.TrimSpace(k) == key {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func ariaPlaceholder(raw string) string {
	return ariaProperty(raw, "placeholder")
}

// buildNode reads an element's cached property batch and turns it into a
// CUP node, without recursing into children.
func buildNode(el comObject, id string) *cupnode.Node {
	name := cachedString(el, propName)
	controlType := cachedInt(el, propControlType, ctCustom)
	ariaRole := cachedString(el, propAriaRole)
	hasToggle := cachedBool(el, propToggleAvailable, false)
	hasSelItem := cachedBool(el, propSelItemAvailable, false)
	role := resolveRole(controlType, name, ariaRole, hasToggle, hasSelItem)

	n := &cupnode.Node{
		ID:   id,
		Role: role,
		Name: cupnode.Truncate(name, cupnode.MaxFieldLen),
	}

	if help := cachedString(el, propHelpText); help != "" {
		n.Description = cupnode.Truncate(help, cupnode.MaxFieldLen)
	}

	if x, y, w, h, ok := cachedRect(el, propBoundingRectangle); ok {
		n.Bounds = &cupnode.Bounds{X: x, Y: y, W: w, H: h}
	}

	disabled := !cachedBool(el, propIsEnabled, true)
	offscreen := cachedBool(el, propIsOffscreen, false)
	focused := cachedBool(el, propHasKeyboardFocus, false)
	required := cachedBool(el, propIsRequiredForForm, false)
	modal := cachedBool(el, propWindowIsModal, false)
	readonly := cachedBool(el, propValueReadOnly, false)

	var states []cupnode.State
	if disabled {
		states = append(states, cupnode.StateDisabled)
	}
	if offscreen {
		states = append(states, cupnode.StateOffscreen)
	}
	if focused {
		states = append(states, cupnode.StateFocused)
	}
	if required {
		states = append(states, cupnode.StateRequired)
	}
	if modal {
		states = append(states, cupnode.StateModal)
	}
	if readonly {
		states = append(states, cupnode.StateReadonly)
	}

	hasValue := cachedBool(el, propValueAvailable, false)
	valueStr := ""
	if hasValue {
		valueStr = cachedString(el, propValueValue)
		n.Value = cupnode.Truncate(valueStr, cupnode.MaxFieldLen)
	}

	if hasToggle {
		switch cachedInt(el, propToggleState, 0) {
		case 1:
			states = append(states, cupnode.StateChecked)
		case 2:
			states = append(states, cupnode.StateMixed)
		}
	}

	hasExpand := cachedBool(el, propExpandAvailable, false)
	if hasExpand {
		switch cachedInt(el, propExpandState, 0) {
		case 0:
			states = append(states, cupnode.StateCollapsed)
		case 1:
			states = append(states, cupnode.StateExpanded)
		}
	}

	if hasSelItem && cachedBool(el, propSelItemSelected, false) {
		states = append(states, cupnode.StateSelected)
	}

	if textInputRoles[role] && !readonly {
		states = append(states, cupnode.StateEditable)
	}

	n.States = states

	var acts []cupnode.Action
	hasInvoke := cachedBool(el, propInvokeAvailable, false)
	hasRange := cachedBool(el, propRangeValueAvailable, false)
	hasScroll := cachedBool(el, propScrollAvailable, false)

	if hasInvoke {
		acts = append(acts, cupnode.ActionClick)
	}
	if hasToggle {
		acts = append(acts, cupnode.ActionToggle)
	}
	if hasExpand {
		acts = append(acts, cupnode.ActionExpand, cupnode.ActionCollapse)
	}
	if hasValue && !readonly {
		acts = append(acts, cupnode.ActionSetValue)
		if textInputRoles[role] {
			acts = append(acts, cupnode.ActionType)
		}
	}
	if hasSelItem {
		acts = append(acts, cupnode.ActionSelect)
	}
	if hasScroll {
		acts = append(acts, cupnode.ActionScroll)
	}
	if hasRange {
		acts = append(acts, cupnode.ActionIncrement, cupnode.ActionDecrement)
	}
	if len(acts) == 0 && !disabled {
		acts = append(acts, cupnode.ActionFocus)
	}
	n.Actions = acts

	var attrs cupnode.Attributes
	hasAttrs := false
	if hasRange {
		if min, ok := cachedFloat(el, propRangeMin); ok {
			attrs.ValueMin = &min
			hasAttrs = true
		}
		if max, ok := cachedFloat(el, propRangeMax); ok {
			attrs.ValueMax = &max
			hasAttrs = true
		}
		if cur, ok := cachedFloat(el, propRangeValue); ok {
			attrs.ValueNow = &cur
			hasAttrs = true
		}
	}
	switch role {
	case cupnode.RoleScrollbar, cupnode.RoleSlider, cupnode.RoleSeparator, cupnode.RoleToolbar, cupnode.RoleTabList:
		switch cachedInt(el, propOrientation, 0) {
		case 1:
			attrs.Orientation = "horizontal"
			hasAttrs = true
		case 2:
			attrs.Orientation = "vertical"
			hasAttrs = true
		}
	}
	if role == cupnode.RoleTextbox || role == cupnode.RoleSearchBox || role == cupnode.RoleCombobox {
		if ph := ariaPlaceholder(cachedString(el, propAriaProperties)); ph != "" {
			attrs.Placeholder = ph
			hasAttrs = true
		}
	}
	if role == cupnode.RoleHeading {
		if lvl := ariaProperty(cachedString(el, propAriaProperties), "level"); lvl != "" {
			if n, err := strconv.Atoi(lvl); err == nil {
				attrs.Level = &n
				hasAttrs = true
			}
		}
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

// walkCachedTree recurses a subtree whose properties were already cached
// by a single ElementFromHandleBuildCache call, reading children via
// GetCachedChildren — an in-process memory read, not an additional COM
// round trip.
func walkCachedTree(el comObject, depth, maxDepth int, idGen *cupnode.IDGen, stats *cupnode.Stats, refs *cupnode.RefTable) *cupnode.Node {
	id := idGen.Next()
	node := buildNode(el, id)
	refs.Set(id, el)

	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	controlType := cachedInt(el, propControlType, ctCustom)
	if name, ok := controlTypeNames[controlType]; ok {
		stats.Roles[name]++
	}

	if depth >= maxDepth {
		return node
	}
	children, err := el.getCachedChildren()
	if err != nil {
		return node
	}
	for _, child := range children {
		node.Children = append(node.Children, walkCachedTree(child, depth+1, maxDepth, idGen, stats, refs))
	}
	return node
}

// captureWindow performs one ElementFromHandleBuildCache call against a
// window and walks its cached subtree.
func (a *Adapter) captureWindow(hwnd uintptr, idGen *cupnode.IDGen, refs *cupnode.RefTable, maxDepth int) (*cupnode.Node, *cupnode.Stats, error) {
	cacheReq, err := makeSubtreeCacheRequest(a.uia)
	if err != nil {
		return nil, nil, err
	}
	root, err := a.uia.elementFromHandleBuildCache(windows.HWND(hwnd), cacheReq)
	if err != nil || !root.valid() {
		return nil, nil, err
	}
	stats := cupnode.NewStats()
	node := walkCachedTree(root, 0, maxDepth, idGen, stats, refs)
	return node, stats, nil
}

// CaptureTree walks each window's cached UIA subtree. A single window is
// walked inline, retrying once with a foreground nudge if the result
// looks uninitialised; several windows fan out across a pool of at most
// min(len(wins), 8) goroutines sharing one atomic id generator and one
// mutex-protected ref table.
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

	if len(wins) == 1 {
		hwnd, ok := wins[0].Handle.(uintptr)
		if !ok {
			return nil, stats, refs, nil
		}
		node, winStats, err := a.captureWindow(hwnd, idGen, refs, maxDepth)
		if err != nil || node == nil {
			return nil, stats, refs, nil
		}
		if needsPoke(winStats) {
			setForegroundWindow(hwnd)
			time.Sleep(300 * time.Millisecond)
			idGen = &cupnode.IDGen{}
			refs = cupnode.NewRefTable()
			node, winStats, err = a.captureWindow(hwnd, idGen, refs, maxDepth)
			if err != nil || node == nil {
				return nil, stats, refs, nil
			}
		}
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
		hwnd, ok := w.Handle.(uintptr)
		if !ok {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, hwnd uintptr) {
			defer wg.Done()
			defer func() { <-sem }()
			node, winStats, err := a.captureWindow(hwnd, idGen, refs, maxDepth)
			if err != nil || node == nil {
				return
			}
			results[i] = node
			statsSlice[i] = winStats
		}(i, hwnd)
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
