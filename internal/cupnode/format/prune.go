// Package format implements the CUP tree-shaping engine: pruning,
// viewport clipping, and the compact/overview text serializers.
package format

import "github.com/cup-project/cup/internal/cupnode"

// Detail selects how aggressively a tree is pruned before serialization.
type Detail string

const (
	DetailCompact Detail = "compact"
	DetailFull    Detail = "full"
)

// chromeRoles are decorative window-chrome roles dropped along with their
// entire subtree.
var chromeRoles = map[cupnode.Role]bool{
	cupnode.RoleScrollbar: true,
	cupnode.RoleSeparator: true,
	cupnode.RoleTitlebar:  true,
	cupnode.RoleTooltip:   true,
	cupnode.RoleStatus:    true,
}

// collapsibleRoles are structural container roles eligible for
// single-child collapse once pruning leaves them with exactly one child
// and no name or meaningful action of their own.
var collapsibleRoles = map[cupnode.Role]bool{
	cupnode.RoleRegion:        true,
	cupnode.RoleDocument:      true,
	cupnode.RoleMain:          true,
	cupnode.RoleComplementary: true,
	cupnode.RoleNavigation:    true,
	cupnode.RoleSearch:        true,
	cupnode.RoleBanner:        true,
	cupnode.RoleContentInfo:   true,
	cupnode.RoleForm:          true,
}

// Rect is a plain bounds rectangle used for viewport arithmetic.
type Rect struct {
	X, Y, W, H int
}

func boundsToRect(b *cupnode.Bounds) Rect {
	return Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

func countNodes(nodes []*cupnode.Node) int {
	total := 0
	for _, n := range nodes {
		total++
		total += countNodes(n.Children)
	}
	return total
}

func shouldSkip(node, parent *cupnode.Node, siblings int) bool {
	role := node.Role
	name := node.Name

	if chromeRoles[role] {
		return true
	}

	if node.Bounds != nil && (node.Bounds.W == 0 || node.Bounds.H == 0) {
		return true
	}

	if node.HasState(cupnode.StateOffscreen) && !node.HasNonFocusAction() {
		return true
	}

	if role == cupnode.RoleImg && name == "" {
		return true
	}

	if role == cupnode.RoleText && name == "" {
		return true
	}

	if role == cupnode.RoleText && parent != nil && parent.Name != "" && siblings == 1 {
		return true
	}

	return false
}

func shouldHoist(node *cupnode.Node) bool {
	role := node.Role
	name := node.Name

	if role == cupnode.RoleGeneric && name == "" {
		return true
	}

	if role == cupnode.RoleRegion && name == "" {
		return true
	}

	if role == cupnode.RoleGroup && name == "" && !node.HasNonFocusAction() {
		return true
	}

	return false
}

func isOutsideViewport(child Rect, viewport Rect) bool {
	return child.X+child.W <= viewport.X ||
		child.X >= viewport.X+viewport.W ||
		child.Y+child.H <= viewport.Y ||
		child.Y >= viewport.Y+viewport.H
}

func clipDirection(child, viewport Rect) string {
	if child.Y+child.H <= viewport.Y {
		return "above"
	}
	if child.Y >= viewport.Y+viewport.H {
		return "below"
	}
	if child.X+child.W <= viewport.X {
		return "left"
	}
	return "right"
}

func isScrollable(node *cupnode.Node) bool {
	return node.HasAction(cupnode.ActionScroll)
}

func intersectViewports(bounds Rect, viewport *Rect) Rect {
	if viewport == nil {
		return bounds
	}
	x1 := max(bounds.X, viewport.X)
	y1 := max(bounds.Y, viewport.Y)
	x2 := min(bounds.X+bounds.W, viewport.X+viewport.W)
	y2 := min(bounds.Y+bounds.H, viewport.Y+viewport.H)
	return Rect{X: x1, Y: y1, W: max(0, x2-x1), H: max(0, y2-y1)}
}

// clippedHint records how many descendants were dropped by viewport
// clipping, per direction, for a node's compact-output footer.
type clippedHint struct {
	Above, Below, Left, Right int
}

func (c clippedHint) total() int { return c.Above + c.Below + c.Left + c.Right }

// pruneNode prunes a single node, returning 0 or more nodes to replace
// it. Hoisted nodes are removed with their pruned children returned in
// place; skipped nodes are dropped with their descendants; clipped
// children are dropped with a per-direction count recorded into hints
// under the keeping node's id, since cupnode.Node carries no hint field.
func pruneNode(node, parent *cupnode.Node, siblings int, viewport *Rect, hints map[string]clippedHint) []*cupnode.Node {
	children := node.Children

	if shouldHoist(node) {
		var result []*cupnode.Node
		for _, child := range children {
			result = append(result, pruneNode(child, parent, len(children), viewport, hints)...)
		}
		return result
	}

	if shouldSkip(node, parent, siblings) {
		return nil
	}

	childViewport := viewport
	if isScrollable(node) && node.Bounds != nil {
		r := intersectViewports(boundsToRect(node.Bounds), viewport)
		childViewport = &r
	}

	var prunedChildren []*cupnode.Node
	clipped := clippedHint{}
	hasClipped := false

	for _, child := range children {
		if childViewport != nil && child.Bounds != nil {
			cr := boundsToRect(child.Bounds)
			if isOutsideViewport(cr, *childViewport) {
				switch clipDirection(cr, *childViewport) {
				case "above":
					clipped.Above += countNodes([]*cupnode.Node{child})
				case "below":
					clipped.Below += countNodes([]*cupnode.Node{child})
				case "left":
					clipped.Left += countNodes([]*cupnode.Node{child})
				case "right":
					clipped.Right += countNodes([]*cupnode.Node{child})
				}
				hasClipped = true
				continue
			}
		}
		prunedChildren = append(prunedChildren, pruneNode(child, node, len(children), childViewport, hints)...)
	}

	if len(prunedChildren) == 1 && collapsibleRoles[node.Role] && node.Name == "" && !node.HasNonFocusAction() {
		return prunedChildren
	}

	shallow := *node
	shallow.Children = nil
	out := shallow.Clone()
	out.Children = prunedChildren
	if hasClipped {
		hints[out.ID] = clipped
	}
	return []*cupnode.Node{out}
}

// Prune applies the compact pruning rules to tree, returning a new pruned
// tree plus a map from surviving node id to its viewport-clipped hint.
// When detail is DetailFull, it returns a deep clone with no pruning
// applied.
//
// Prune is idempotent: Prune(Prune(t)) == Prune(t), because a pruned tree
// contains no chrome roles, no zero-size/offscreen-inert nodes, no
// unnamed hoist candidates, and no viewport-violating children left to
// re-clip.
func Prune(tree []*cupnode.Node, detail Detail, screenW, screenH int) ([]*cupnode.Node, map[string]clippedHint) {
	if detail == DetailFull {
		out := make([]*cupnode.Node, len(tree))
		for i, n := range tree {
			out[i] = n.Clone()
		}
		return out, nil
	}

	var screenViewport *Rect
	if screenW > 0 || screenH > 0 {
		screenViewport = &Rect{X: 0, Y: 0, W: screenW, H: screenH}
	}

	clippedMap := make(map[string]clippedHint)
	var out []*cupnode.Node
	for _, root := range tree {
		out = append(out, pruneNode(root, nil, len(tree), screenViewport, clippedMap)...)
	}
	return out, clippedMap
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
