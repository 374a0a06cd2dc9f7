package search

// noiseWords are filtered out of the residual name query once a role hint
// has been parsed out of a freeform query.
var noiseWords = map[string]bool{
	"the": true, "a": true, "an": true, "this": true, "that": true,
	"for": true, "in": true, "on": true, "of": true, "with": true,
	"to": true, "and": true, "or": true, "is": true, "it": true,
	"its": true, "my": true, "your": true,
}

// ParseQuery parses a freeform query into (roleHint, nameTokens), trying
// longest-first 1-3-token subsequences against RoleSynonyms; whatever
// tokens remain (minus noise words) become the name query.
func ParseQuery(query string) (string, []string) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return "", nil
	}

	bestRole := ""
	bestStart, bestEnd := 0, 0

	maxLen := len(tokens)
	if maxLen > 3 {
		maxLen = 3
	}

outer:
	for length := maxLen; length >= 1; length-- {
		for start := 0; start+length <= len(tokens); start++ {
			candidate := joinTokens(tokens[start : start+length])
			if _, ok := RoleSynonyms[candidate]; ok {
				bestRole = candidate
				bestStart, bestEnd = start, start+length
				break outer
			}
		}
	}

	var nameTokens []string
	if bestRole != "" {
		nameTokens = append(nameTokens, tokens[:bestStart]...)
		nameTokens = append(nameTokens, tokens[bestEnd:]...)
	} else {
		nameTokens = tokens
	}

	filtered := nameTokens[:0:0]
	for _, t := range nameTokens {
		if !noiseWords[t] {
			filtered = append(filtered, t)
		}
	}

	return bestRole, filtered
}

func joinTokens(tokens []string) string {
	out := tokens[0]
	for _, t := range tokens[1:] {
		out += " " + t
	}
	return out
}
