package actions_test

import (
	"testing"

	"github.com/cup-project/cup/internal/cupnode/actions"
	"github.com/stretchr/testify/assert"
)

func TestFuzzyMatchExact(t *testing.T) {
	match, ok := actions.FuzzyMatch("Slack", []string{"Slack", "Slack Helper"})
	assert.True(t, ok)
	assert.Equal(t, "Slack", match)
}

func TestFuzzyMatchSubstringShortestWins(t *testing.T) {
	match, ok := actions.FuzzyMatch("code", []string{"Visual Studio Code", "Code", "Code Insiders"})
	assert.True(t, ok)
	assert.Equal(t, "Code", match)
}

func TestFuzzyMatchReverseSubstring(t *testing.T) {
	match, ok := actions.FuzzyMatch("google chrome browser", []string{"Google Chrome", "Firefox"})
	assert.True(t, ok)
	assert.Equal(t, "Google Chrome", match)
}

func TestFuzzyMatchLevenshteinFloor(t *testing.T) {
	_, ok := actions.FuzzyMatch("xyzabc123notathing", []string{"Slack", "Firefox"})
	assert.False(t, ok, "a query with no meaningful overlap should not match")
}

func TestFuzzyMatchLevenshteinTypo(t *testing.T) {
	match, ok := actions.FuzzyMatch("fierfox", []string{"Firefox", "Slack"})
	assert.True(t, ok)
	assert.Equal(t, "Firefox", match)
}
