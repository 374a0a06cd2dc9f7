package webadapter

import (
	"encoding/json"

	"github.com/cup-project/cup/internal/cupnode"
)

// axValue is a CDP AXValue object: {"type": "...", "value": <any>}.
type axValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (v *axValue) str() string {
	if v == nil || len(v.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v.Value, &s); err == nil {
		return s
	}
	return string(v.Value)
}

func (v *axValue) raw() any {
	if v == nil || len(v.Value) == 0 {
		return nil
	}
	var out any
	if err := json.Unmarshal(v.Value, &out); err != nil {
		return nil
	}
	return out
}

type axProperty struct {
	Name  string   `json:"name"`
	Value *axValue `json:"value"`
}

type axBoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// axNode is the flat per-node shape returned by
// Accessibility.getFullAXTree.
type axNode struct {
	NodeID           string         `json:"nodeId"`
	Ignored          bool           `json:"ignored"`
	Role             *axValue       `json:"role"`
	Name             *axValue       `json:"name"`
	Description      *axValue       `json:"description"`
	Value            *axValue       `json:"value"`
	Properties       []axProperty   `json:"properties"`
	ChildIDs         []string       `json:"childIds"`
	BackendDOMNodeID *int64         `json:"backendDOMNodeId"`
	BoundingBox      *axBoundingBox `json:"boundingBox"`
}

func decodeAXNodes(raw json.RawMessage) ([]axNode, error) {
	var payload struct {
		Nodes []axNode `json:"nodes"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload.Nodes, nil
}

func propMap(props []axProperty) map[string]any {
	out := make(map[string]any, len(props))
	for _, p := range props {
		out[p.Name] = p.Value.raw()
	}
	return out
}

func propBool(props map[string]any, name string) bool {
	v, ok := props[name]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func propString(props map[string]any, name string) (string, bool) {
	v, ok := props[name]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	case float64:
		return cupnode.Truncate(jsonNumberString(t), 64), true
	default:
		return "", false
	}
}

func jsonNumberString(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}

func propFloat(props map[string]any, name string) (float64, bool) {
	v, ok := props[name]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		var f float64
		if err := json.Unmarshal([]byte(t), &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

// extractStates derives CUP states from CDP AX properties.
func extractStates(props map[string]any, role cupnode.Role, bounds *cupnode.Bounds, vw, vh int) []cupnode.State {
	var states []cupnode.State

	if propBool(props, "disabled") {
		states = append(states, cupnode.StateDisabled)
	}
	if propBool(props, "focused") {
		states = append(states, cupnode.StateFocused)
	}

	if v, ok := props["expanded"]; ok {
		if b, isBool := v.(bool); isBool {
			if b {
				states = append(states, cupnode.StateExpanded)
			} else {
				states = append(states, cupnode.StateCollapsed)
			}
		}
	}

	if propBool(props, "selected") {
		states = append(states, cupnode.StateSelected)
	}

	if checked, ok := propString(props, "checked"); ok {
		switch checked {
		case "true":
			states = append(states, cupnode.StateChecked)
		case "mixed":
			states = append(states, cupnode.StateMixed)
		}
	} else if propBool(props, "checked") {
		states = append(states, cupnode.StateChecked)
	}

	if pressed, ok := propString(props, "pressed"); ok {
		switch pressed {
		case "true":
			states = append(states, cupnode.StatePressed)
		case "mixed":
			states = append(states, cupnode.StateMixed)
		}
	} else if propBool(props, "pressed") {
		states = append(states, cupnode.StatePressed)
	}

	if propBool(props, "busy") {
		states = append(states, cupnode.StateBusy)
	}
	if propBool(props, "modal") {
		states = append(states, cupnode.StateModal)
	}
	if propBool(props, "required") {
		states = append(states, cupnode.StateRequired)
	}

	readonly := propBool(props, "readonly")
	if readonly {
		states = append(states, cupnode.StateReadonly)
	}

	if textInputRoles[role] && !readonly {
		states = append(states, cupnode.StateEditable)
	}

	if bounds != nil {
		bx, by, bw, bh := bounds.X, bounds.Y, bounds.W, bounds.H
		if bw <= 0 || bh <= 0 || bx+bw <= 0 || by+bh <= 0 || bx >= vw || by >= vh {
			states = append(states, cupnode.StateOffscreen)
		}
	}

	return states
}

// deriveActions derives CUP actions from node role and properties.
func deriveActions(role cupnode.Role, props map[string]any, states []cupnode.State) []cupnode.Action {
	var actions []cupnode.Action
	hasState := func(s cupnode.State) bool {
		for _, st := range states {
			if st == s {
				return true
			}
		}
		return false
	}

	if hasState(cupnode.StateDisabled) {
		return actions
	}

	if clickableRoles[role] {
		actions = append(actions, cupnode.ActionClick, cupnode.ActionRightClick, cupnode.ActionDoubleClick)
	}

	if toggleRoles[role] {
		actions = append(actions, cupnode.ActionToggle)
	}

	if selectableRoles[role] {
		actions = append(actions, cupnode.ActionSelect)
	}

	if hasState(cupnode.StateExpanded) || hasState(cupnode.StateCollapsed) {
		actions = append(actions, cupnode.ActionExpand, cupnode.ActionCollapse)
	}

	if textInputRoles[role] && !hasState(cupnode.StateReadonly) {
		actions = append(actions, cupnode.ActionType, cupnode.ActionSetValue)
	}

	if role == cupnode.RoleSlider || role == cupnode.RoleSpinButton {
		actions = append(actions, cupnode.ActionIncrement, cupnode.ActionDecrement)
		if role == cupnode.RoleSpinButton && !hasState(cupnode.StateReadonly) {
			actions = append(actions, cupnode.ActionSetValue)
		}
	}

	if role == cupnode.RoleScrollbar {
		actions = append(actions, cupnode.ActionScroll)
	}

	if len(actions) == 0 && propBool(props, "focusable") {
		actions = append(actions, cupnode.ActionFocus)
	}

	return actions
}

// extractAttributes extracts optional CUP attributes.
func extractAttributes(props map[string]any, role cupnode.Role) *cupnode.Attributes {
	attrs := &cupnode.Attributes{}
	hasAny := false

	if lvl, ok := propFloat(props, "level"); ok {
		l := int(lvl)
		attrs.Level = &l
		hasAny = true
	}
	if ph, ok := propString(props, "placeholder"); ok && ph != "" {
		attrs.Placeholder = cupnode.Truncate(ph, 200)
		hasAny = true
	}
	if orient, ok := propString(props, "orientation"); ok && orient != "" {
		attrs.Orientation = orient
		hasAny = true
	}

	if rangeRoles[role] {
		if vmin, ok := propFloat(props, "valuemin"); ok {
			attrs.ValueMin = &vmin
			hasAny = true
		}
		if vmax, ok := propFloat(props, "valuemax"); ok {
			attrs.ValueMax = &vmax
			hasAny = true
		}
		if vnow, ok := propFloat(props, "valuetext"); ok {
			attrs.ValueNow = &vnow
			hasAny = true
		} else if vnow, ok := propFloat(props, "valuenow"); ok {
			attrs.ValueNow = &vnow
			hasAny = true
		}
	}

	if role == cupnode.RoleLink {
		if url, ok := propString(props, "url"); ok && url != "" {
			attrs.URL = cupnode.Truncate(url, 500)
			hasAny = true
		}
	}

	if ac, ok := propString(props, "autocomplete"); ok && ac != "" && ac != "none" {
		attrs.Autocomplete = ac
		hasAny = true
	}

	if !hasAny {
		return nil
	}
	return attrs
}

// buildCUPNode converts a single CDP AX node to a CUP node.
func buildCUPNode(n axNode, idGen *cupnode.IDGen, stats *cupnode.Stats, vw, vh int) *cupnode.Node {
	cdpRole := n.Role.str()
	if cdpRole == "" {
		cdpRole = "generic"
	}
	name := n.Name.str()

	role, ok := mapCDPRole(cdpRole, name)
	if !ok {
		return nil
	}

	stats.Nodes++
	stats.Roles[cdpRole]++

	node := &cupnode.Node{
		ID:   idGen.Next(),
		Role: role,
		Name: cupnode.Truncate(name, cupnode.MaxFieldLen),
	}

	if desc := n.Description.str(); desc != "" {
		node.Description = cupnode.Truncate(desc, cupnode.MaxFieldLen)
	}

	var bounds *cupnode.Bounds
	if n.BoundingBox != nil {
		bounds = &cupnode.Bounds{
			X: int(n.BoundingBox.X), Y: int(n.BoundingBox.Y),
			W: int(n.BoundingBox.Width), H: int(n.BoundingBox.Height),
		}
		node.Bounds = bounds
	}

	props := propMap(n.Properties)
	states := extractStates(props, role, bounds, vw, vh)
	node.States = states
	node.Actions = deriveActions(role, props, states)
	node.Attributes = extractAttributes(props, role)

	if raw := n.Value.str(); raw != "" && valueCarryingRoles[role] {
		node.Value = cupnode.Truncate(raw, cupnode.MaxFieldLen)
	}

	platformExt := map[string]any{"cdpRole": cdpRole}
	if n.BackendDOMNodeID != nil {
		platformExt["backendDOMNodeId"] = *n.BackendDOMNodeID
	}
	if n.NodeID != "" {
		platformExt["cdpNodeId"] = n.NodeID
	}
	node.Platform = map[string]any{"web": platformExt}

	return node
}

type convertResult struct {
	node      *cupnode.Node
	promoted  []*cupnode.Node
	isPromote bool
}

// buildTreeFromFlat converts CDP's flat AX node list (nodeId + childIds
// references) into a nested CUP tree.
// Skipped nodes promote their surviving children in place of themselves.
func buildTreeFromFlat(axNodes []axNode, idGen *cupnode.IDGen, stats *cupnode.Stats, maxDepth, vw, vh int, refs *cupnode.RefTable, wsURL string) []*cupnode.Node {
	if len(axNodes) == 0 {
		return nil
	}

	byID := make(map[string]axNode, len(axNodes))
	for _, n := range axNodes {
		if n.NodeID != "" {
			byID[n.NodeID] = n
		}
	}

	cache := make(map[string]convertResult)

	var convert func(nodeID string, depth int) convertResult
	convert = func(nodeID string, depth int) convertResult {
		if depth > maxDepth {
			return convertResult{}
		}
		if r, ok := cache[nodeID]; ok {
			return r
		}

		n, ok := byID[nodeID]
		if !ok {
			return convertResult{}
		}

		cdpRole := n.Role.str()
		if cdpRole == "" {
			cdpRole = "generic"
		}
		if skipRoles[cdpRole] {
			var promoted []*cupnode.Node
			if depth < maxDepth {
				for _, cid := range n.ChildIDs {
					child := convert(cid, depth)
					if child.isPromote {
						promoted = append(promoted, child.promoted...)
					} else if child.node != nil {
						promoted = append(promoted, child.node)
					}
				}
			}
			result := convertResult{promoted: promoted, isPromote: true}
			cache[nodeID] = result
			return result
		}

		cupNode := buildCUPNode(n, idGen, stats, vw, vh)
		if cupNode == nil {
			result := convertResult{}
			cache[nodeID] = result
			return result
		}

		if wsURL != "" && n.BackendDOMNodeID != nil {
			refs.Set(cupNode.ID, backendRef{wsURL: wsURL, backendNodeID: *n.BackendDOMNodeID})
		}
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}

		if len(n.ChildIDs) > 0 && depth < maxDepth {
			var children []*cupnode.Node
			for _, cid := range n.ChildIDs {
				child := convert(cid, depth+1)
				if child.isPromote {
					children = append(children, child.promoted...)
				} else if child.node != nil {
					children = append(children, child.node)
				}
			}
			cupNode.Children = children
		}

		result := convertResult{node: cupNode}
		cache[nodeID] = result
		return result
	}

	rootID := axNodes[0].NodeID
	root := convert(rootID, 0)
	if root.isPromote {
		return root.promoted
	}
	if root.node == nil {
		return nil
	}
	return []*cupnode.Node{root.node}
}

// backendRef is the native element handle the web adapter stores in the
// ref table: enough to reconnect and resolve the DOM node for an action.
type backendRef struct {
	wsURL         string
	backendNodeID int64
}
