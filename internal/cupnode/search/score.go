package search

import (
	"strings"

	"github.com/cup-project/cup/internal/cupnode"
)

func scoreSecondary(queryTokens []string, description, value, placeholder string) float64 {
	best := 0.0
	for _, field := range []string{description, value, placeholder} {
		if field == "" {
			continue
		}
		fieldTokens := toSet(Tokenize(field))
		if len(fieldTokens) == 0 {
			continue
		}
		matched := 0
		for _, qt := range queryTokens {
			if fieldTokens[qt] {
				matched++
			}
		}
		ratio := float64(matched) / float64(len(queryTokens))
		if ratio > best {
			best = ratio
		}
	}
	return best
}

func toSet(tokens []string) map[string]bool {
	m := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		m[t] = true
	}
	return m
}

func anyHasPrefix(set map[string]bool, prefix string) bool {
	for t := range set {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

func anyContains(set map[string]bool, sub string) bool {
	for t := range set {
		if strings.Contains(t, sub) {
			return true
		}
	}
	return false
}

// scoreName scores how well a node's text fields match the query tokens,
// in [0, 1].
func scoreName(queryTokens []string, name, description, value, placeholder string) float64 {
	if len(queryTokens) == 0 {
		return 1.0
	}

	queryJoined := joinTokens(queryTokens)
	nameLower := strings.ToLower(name)

	fullSubstr := 0.0
	if strings.Contains(nameLower, queryJoined) {
		if queryJoined == nameLower {
			fullSubstr = 1.0
		} else {
			fullSubstr = 0.85
		}
	}

	nameTokens := toSet(Tokenize(name))
	tokenScore := 0.0
	if len(nameTokens) > 0 {
		matched := 0.0
		for _, qt := range queryTokens {
			switch {
			case nameTokens[qt]:
				matched += 1.0
			case anyHasPrefix(nameTokens, qt):
				matched += 0.7
			case reversePrefixMatch(queryTokens, nameTokens, qt):
				matched += 0.5
			case anyContains(nameTokens, qt):
				matched += 0.6
			}
		}
		tokenScore = matched / float64(len(queryTokens))
	}

	nameScore := fullSubstr
	if tokenScore > nameScore {
		nameScore = tokenScore
	}

	if len(nameTokens) > 0 && nameScore > 0 {
		overlap := 0
		for qt := range toSet(queryTokens) {
			if nameTokens[qt] {
				overlap++
			}
		}
		ratio := float64(overlap) / float64(len(nameTokens))
		nameScore = nameScore * (0.85 + 0.15*ratio)
	}

	secondary := scoreSecondary(queryTokens, description, value, placeholder)

	total := nameScore + secondary*0.15
	if total > 1.0 {
		total = 1.0
	}
	return total
}

// reversePrefixMatch checks "qt startswith nt" for some name token nt —
// the mirror image of the prefix case above.
func reversePrefixMatch(_ []string, nameTokens map[string]bool, qt string) bool {
	for nt := range nameTokens {
		if strings.HasPrefix(qt, nt) {
			return true
		}
	}
	return false
}

// scoreContext scores contextual relevance: ancestor name/role matches,
// interactivity, visibility, and focus.
func scoreContext(node *cupnode.Node, parentChain []*cupnode.Node, queryTokens []string, targetRoles map[cupnode.Role]bool) float64 {
	score := 0.0

	if len(queryTokens) > 0 {
		qtSet := toSet(queryTokens)
		for _, ancestor := range parentChain {
			hit := false
			for _, t := range Tokenize(ancestor.Name) {
				if qtSet[t] {
					hit = true
					break
				}
			}
			if hit {
				score += 0.1
				break
			}
		}
	}

	if len(targetRoles) > 0 {
		for _, ancestor := range parentChain {
			if targetRoles[ancestor.Role] {
				score += 0.1
				break
			}
		}
	}

	if node.HasNonFocusAction() {
		score += 0.05
	}

	if !node.HasState(cupnode.StateOffscreen) {
		score += 0.05
	}

	if node.HasState(cupnode.StateFocused) {
		score += 0.02
	}

	return score
}

// scoreNode scores a single node, returning 0 if hard-filtered out by
// state or role.
func scoreNode(node *cupnode.Node, parentChain []*cupnode.Node, targetRoles map[cupnode.Role]bool, nameTokens []string, state *cupnode.State) float64 {
	if state != nil && !node.HasState(*state) {
		return 0.0
	}

	roleScore := 0.0
	if targetRoles != nil {
		if targetRoles[node.Role] {
			roleScore = 0.35
		} else {
			return 0.0
		}
	}

	var nameScore float64
	if len(nameTokens) > 0 {
		placeholder := ""
		if node.Attributes != nil {
			placeholder = node.Attributes.Placeholder
		}
		raw := scoreName(nameTokens, node.Name, node.Description, node.Value, placeholder)
		if raw == 0.0 {
			return 0.0
		}
		nameScore = raw * 0.50
	} else if targetRoles != nil {
		nameScore = 0.15
	}

	stateScore := 0.0
	if state != nil {
		stateScore = 0.10
	}

	contextScore := scoreContext(node, parentChain, nameTokens, targetRoles)

	return roleScore + nameScore + stateScore + contextScore
}
