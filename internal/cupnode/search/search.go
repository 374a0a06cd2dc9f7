package search

import (
	"sort"

	"github.com/cup-project/cup/internal/cupnode"
)

// Result is a scored search hit. Node is a shallow copy with Children
// stripped so callers can render hits without dragging subtrees along.
type Result struct {
	Node  *cupnode.Node
	Score float64
}

// Query bundles the optional filters accepted by SearchTree.
type Query struct {
	Text      string
	Role      string
	Name      string
	State     *cupnode.State
	Limit     int
	Threshold float64
}

func walkAndScore(nodes []*cupnode.Node, parentChain []*cupnode.Node, targetRoles map[cupnode.Role]bool, nameTokens []string, state *cupnode.State, threshold float64, results *[]Result) {
	for _, node := range nodes {
		score := scoreNode(node, parentChain, targetRoles, nameTokens, state)
		if score >= threshold {
			shallow := *node
			shallow.Children = nil
			*results = append(*results, Result{Node: &shallow, Score: score})
		}
		if len(node.Children) > 0 {
			walkAndScore(node.Children, append(parentChain, node), targetRoles, nameTokens, state, threshold, results)
		}
	}
}

// SearchTree searches a full (unpruned) CUP tree with semantic role
// matching and relevance-ranked fuzzy name matching. Results are sorted
// by descending score; ties preserve tree (document) order because
// sort.SliceStable is used.
func SearchTree(tree []*cupnode.Node, q Query) []Result {
	limit := q.Limit
	if limit <= 0 {
		limit = 5
	}
	threshold := q.Threshold
	if threshold == 0 {
		threshold = 0.15
	}

	effectiveRole := q.Role
	var nameTokens []string

	switch {
	case q.Text != "":
		parsedRole, parsedName := ParseQuery(q.Text)
		if effectiveRole == "" {
			effectiveRole = parsedRole
		}
		if q.Name != "" {
			nameTokens = Tokenize(q.Name)
		} else {
			nameTokens = parsedName
		}
	case q.Name != "":
		nameTokens = Tokenize(q.Name)
	}

	var targetRoles map[cupnode.Role]bool
	if effectiveRole != "" {
		targetRoles = ResolveRoles(effectiveRole)
	}

	var results []Result
	walkAndScore(tree, nil, targetRoles, nameTokens, q.State, threshold, &results)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
