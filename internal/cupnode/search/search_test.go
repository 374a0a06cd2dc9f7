package search_test

import (
	"testing"

	"github.com/cup-project/cup/internal/cupnode"
	"github.com/cup-project/cup/internal/cupnode/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeFoldsAccentsAndSplits(t *testing.T) {
	assert.Equal(t, []string{"cafe", "du", "monde"}, search.Tokenize("Café du Monde!"))
}

func TestResolveRolesExactSynonym(t *testing.T) {
	roles := search.ResolveRoles("search bar")
	assert.True(t, roles[cupnode.RoleSearchBox])
	assert.True(t, roles[cupnode.RoleTextbox])
}

func TestResolveRolesIdentity(t *testing.T) {
	roles := search.ResolveRoles("button")
	assert.Equal(t, map[cupnode.Role]bool{cupnode.RoleButton: true}, roles)
}

func TestResolveRolesSubstringFallback(t *testing.T) {
	roles := search.ResolveRoles("dial")
	assert.True(t, roles[cupnode.RoleDialog])
	assert.True(t, roles[cupnode.RoleAlertDialog])
}

func TestResolveRolesNoMatch(t *testing.T) {
	assert.Nil(t, search.ResolveRoles("zz"))
}

func TestParseQueryExtractsRoleHint(t *testing.T) {
	role, name := search.ParseQuery("the play button")
	assert.Equal(t, "button", role)
	assert.Equal(t, []string{"play"}, name)
}

func TestParseQueryLongestFirstMultiWordRole(t *testing.T) {
	role, name := search.ParseQuery("search input")
	assert.Equal(t, "search input", role)
	assert.Empty(t, name)
}

func TestParseQueryNoRoleHint(t *testing.T) {
	role, name := search.ParseQuery("Submit")
	assert.Equal(t, "", role)
	assert.Equal(t, []string{"submit"}, name)
}

func TestParseQueryVolumeSlider(t *testing.T) {
	role, name := search.ParseQuery("volume slider")
	assert.Equal(t, "slider", role)
	assert.Equal(t, []string{"volume"}, name)
}

func tree() []*cupnode.Node {
	return []*cupnode.Node{
		{ID: "e1", Role: cupnode.RoleGroup, Name: "toolbar", Children: []*cupnode.Node{
			{ID: "e2", Role: cupnode.RoleButton, Name: "Play"},
			{ID: "e3", Role: cupnode.RoleButton, Name: "Pause"},
			{ID: "e4", Role: cupnode.RoleSlider, Name: "Volume", Attributes: &cupnode.Attributes{}},
		}},
	}
}

func TestSearchTreeFindsByRoleAndName(t *testing.T) {
	results := search.SearchTree(tree(), search.Query{Text: "play button"})
	require.NotEmpty(t, results)
	assert.Equal(t, "e2", results[0].Node.ID)
}

func TestSearchTreeFiltersByRoleOnly(t *testing.T) {
	results := search.SearchTree(tree(), search.Query{Role: "button"})
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.Node.ID)
	}
	assert.ElementsMatch(t, []string{"e2", "e3"}, ids)
}

func TestSearchTreeStateHardFilter(t *testing.T) {
	focused := cupnode.StateFocused
	withState := append(tree(), &cupnode.Node{ID: "e5", Role: cupnode.RoleButton, Name: "Focused one", States: []cupnode.State{cupnode.StateFocused}})
	results := search.SearchTree(withState, search.Query{Role: "button", State: &focused})
	require.Len(t, results, 1)
	assert.Equal(t, "e5", results[0].Node.ID)
}

func TestSearchTreeRespectsLimit(t *testing.T) {
	results := search.SearchTree(tree(), search.Query{Role: "button", Limit: 1})
	assert.Len(t, results, 1)
}

func TestSearchTreeStableSortPreservesTreeOrderForTies(t *testing.T) {
	results := search.SearchTree(tree(), search.Query{Role: "button"})
	require.Len(t, results, 2)
	assert.Equal(t, "e2", results[0].Node.ID)
	assert.Equal(t, "e3", results[1].Node.ID)
}
