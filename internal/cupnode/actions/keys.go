// Package actions implements the CUP action dispatcher shared across
// platforms: keyboard combo parsing, the cross-platform executor, and the
// Handler seam each platform adapter implements.
package actions

import "strings"

// modifierAliases normalises modifier spellings before classification:
// cmd/win/super all collapse to meta.
var modifierAliases = map[string]string{
	"cmd":   "meta",
	"super": "meta",
	"win":   "meta",
}

// keyAliases normalises non-modifier key spellings.
var keyAliases = map[string]string{
	"return": "enter",
	"esc":    "escape",
	"del":    "delete",
	"bs":     "backspace",
	"pgup":   "pageup",
	"pgdn":   "pagedown",
	"pgdown": "pagedown",
}

func isModifierName(s string) bool {
	switch s {
	case "ctrl", "alt", "shift", "meta":
		return true
	default:
		return false
	}
}

// ParseCombo parses a key-combination string into (modifiers, keys),
// joined by "+". Modifier aliases (cmd/win/super→meta) and key aliases
// (return→enter, esc→escape, ...) are normalised first.
//
// A combo consisting only of modifier names — e.g. "meta" alone — is
// reclassified as a press of that name as a main key, since a bare
// modifier cannot be "held" without another key and the protocol treats
// it as the user pressing that key by itself. This reclassification
// lives here rather than inside any single platform handler so every
// backend exhibits the same behaviour for ParseCombo("meta").
func ParseCombo(combo string) (modifiers, keys []string) {
	rawParts := strings.Split(combo, "+")
	for _, p := range rawParts {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		normalized := p
		if alias, ok := modifierAliases[p]; ok {
			normalized = alias
		} else if alias, ok := keyAliases[p]; ok {
			normalized = alias
		}
		if isModifierName(normalized) {
			modifiers = append(modifiers, normalized)
		} else {
			keys = append(keys, normalized)
		}
	}

	if len(modifiers) > 0 && len(keys) == 0 {
		keys = modifiers
		modifiers = nil
	}

	return modifiers, keys
}
