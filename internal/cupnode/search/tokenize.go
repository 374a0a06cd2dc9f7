// Package search implements the CUP semantic search engine: role synonym
// resolution, freeform query parsing, and weighted relevance scoring over
// a full (unpruned) tree.
package search

import (
	"strings"
)

// combiningMarkStrip folds accented Latin letters to their bare ASCII
// form so "café" and "cafe" tokenize identically. A static table covers
// the accents that actually occur in UI labels without pulling in a full
// Unicode normalisation dependency.
var combiningMarkStrip = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ä': 'a', 'ã': 'a', 'å': 'a', 'ā': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e', 'ē': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i', 'ī': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o', 'ō': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u', 'ū': 'u',
	'ñ': 'n', 'ç': 'c', 'ý': 'y', 'ÿ': 'y',
	'Á': 'A', 'À': 'A', 'Â': 'A', 'Ä': 'A', 'Ã': 'A', 'Å': 'A',
	'É': 'E', 'È': 'E', 'Ê': 'E', 'Ë': 'E',
	'Í': 'I', 'Ì': 'I', 'Î': 'I', 'Ï': 'I',
	'Ó': 'O', 'Ò': 'O', 'Ô': 'O', 'Ö': 'O', 'Õ': 'O',
	'Ú': 'U', 'Ù': 'U', 'Û': 'U', 'Ü': 'U',
	'Ñ': 'N', 'Ç': 'C', 'Ý': 'Y',
}

func foldAccents(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if folded, ok := combiningMarkStrip[r]; ok {
			r = folded
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isSplitChar(r rune) bool {
	return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
}

// Tokenize splits text into lowercase tokens, folding accents and
// splitting on anything that isn't an ASCII letter or digit after
// lowercasing and folding; other non-ASCII letters act as separators.
func Tokenize(text string) []string {
	folded := foldAccents(strings.ToLower(text))
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range folded {
		if isSplitChar(r) {
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return tokens
}
