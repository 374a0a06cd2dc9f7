package actions_test

import (
	"testing"

	"github.com/cup-project/cup/internal/cupnode/actions"
	"github.com/stretchr/testify/assert"
)

func TestParseComboSingleModifierAndKey(t *testing.T) {
	mods, keys := actions.ParseCombo("ctrl+s")
	assert.Equal(t, []string{"ctrl"}, mods)
	assert.Equal(t, []string{"s"}, keys)
}

func TestParseComboMultipleModifiers(t *testing.T) {
	mods, keys := actions.ParseCombo("Ctrl+Shift+P")
	assert.Equal(t, []string{"ctrl", "shift"}, mods)
	assert.Equal(t, []string{"p"}, keys)
}

func TestParseComboBareKey(t *testing.T) {
	mods, keys := actions.ParseCombo("enter")
	assert.Empty(t, mods)
	assert.Equal(t, []string{"enter"}, keys)
}

func TestParseComboAliases(t *testing.T) {
	mods, keys := actions.ParseCombo("cmd+return")
	assert.Equal(t, []string{"meta"}, mods)
	assert.Equal(t, []string{"enter"}, keys)
}

func TestParseComboModifierOnlyReclassifiedAsMainKey(t *testing.T) {
	mods, keys := actions.ParseCombo("meta")
	assert.Empty(t, mods, "a bare modifier has no other modifier to apply to")
	assert.Equal(t, []string{"meta"}, keys, "modifier-only combos become a main-key press")
}

func TestParseComboMultipleModifiersOnlyAllBecomeKeys(t *testing.T) {
	mods, keys := actions.ParseCombo("ctrl+shift")
	assert.Empty(t, mods)
	assert.Equal(t, []string{"ctrl", "shift"}, keys)
}
