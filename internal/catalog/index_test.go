package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willardjansen/cubby-remote-reaper/internal/reabank"
)

func testBanks() []*reabank.Bank {
	return []*reabank.Bank{
		{MSB: 1, LSB: 0, Name: "BBCSO Violins 1 Long"},
		{MSB: 1, LSB: 1, Name: "BBCSO Violins 2 Long"},
		{MSB: 1, LSB: 2, Name: "BBCSO Horn Solo"},
		{MSB: 2, LSB: 0, Name: "CSS Full Ensemble"},
		{MSB: 3, LSB: 0, Name: "some unsorted thing"},
	}
}

func TestBuildTree_EveryBankInExactlyOneFolder(t *testing.T) {
	banks := testBanks()
	tree := BuildTree(banks)

	seen := map[string]int{}
	tree.Walk(func(f *Folder) {
		for _, entry := range f.Banks {
			seen[entry.Bank.Key()]++
		}
	})

	require.Len(t, seen, len(banks))
	for key, count := range seen {
		assert.Equal(t, 1, count, "bank %s", key)
	}
}

func TestBuildTree_PathsAndLabels(t *testing.T) {
	tree := BuildTree(testBanks())

	violins := tree.Find("Spitfire BBC SO/Violins")
	require.NotNil(t, violins)
	assert.Equal(t, "Spitfire BBC SO/Violins", violins.Path)
	require.Len(t, violins.Banks, 2)
	assert.Equal(t, "Violins 1 Long", violins.Banks[0].Label)

	other := tree.Find("Other")
	require.NotNil(t, other)
	require.Len(t, other.Banks, 1)
	assert.Equal(t, "some unsorted thing", other.Banks[0].Label)

	assert.Nil(t, tree.Find("Spitfire BBC SO/Tubas"))
}

func TestSearch_ANDSemantics(t *testing.T) {
	banks := testBanks()

	matched := Search(banks, "violins long")
	require.Len(t, matched, 2)
	for _, bank := range matched {
		assert.Contains(t, bank.Name, "Violins")
	}

	// Order of terms is irrelevant, case is ignored.
	assert.Equal(t, matched, Search(banks, "LONG violins"))

	assert.Empty(t, Search(banks, "violins horn"))
	assert.Len(t, Search(banks, "bbcso"), 3)
}

func TestSearch_EmptyQueryIsIdentity(t *testing.T) {
	banks := testBanks()
	assert.Equal(t, banks, Search(banks, ""))
	assert.Equal(t, banks, Search(banks, "   \t "))
}

func TestState_Recursive(t *testing.T) {
	tree := BuildTree(testBanks())
	bbcso := tree.Find("Spitfire BBC SO")
	require.NotNil(t, bbcso)

	selected := map[string]bool{}
	assert.Equal(t, SelectionNone, State(bbcso, selected))

	// One violin selected: the library folder is partial even though the
	// selection sits a level deeper.
	selected["1-0"] = true
	assert.Equal(t, SelectionSome, State(bbcso, selected))
	assert.Equal(t, SelectionSome, State(tree.Find("Spitfire BBC SO/Violins"), selected))

	selected["1-1"] = true
	assert.Equal(t, SelectionAll, State(tree.Find("Spitfire BBC SO/Violins"), selected))
	assert.Equal(t, SelectionSome, State(bbcso, selected))

	selected["1-2"] = true
	assert.Equal(t, SelectionAll, State(bbcso, selected))
}

func TestToggle_PartialSelectsAll(t *testing.T) {
	tree := BuildTree(testBanks())
	bbcso := tree.Find("Spitfire BBC SO")
	require.NotNil(t, bbcso)

	selected := map[string]bool{"1-0": true}
	Toggle(bbcso, selected)
	assert.Equal(t, SelectionAll, State(bbcso, selected))

	Toggle(bbcso, selected)
	assert.Equal(t, SelectionNone, State(bbcso, selected))
	assert.Empty(t, selected)

	Toggle(bbcso, selected)
	assert.Equal(t, SelectionAll, State(bbcso, selected))
	// Toggling one folder never touches banks outside it.
	assert.False(t, selected["2-0"])
}

func TestStore_ReloadLastDeclarationWins(t *testing.T) {
	store := NewStore()

	count, errs := store.Reload([]Source{
		{Name: "factory.reabank", Text: "Bank 1 1 First Declaration\nBank 1 1 Second Declaration\n"},
	})
	require.Empty(t, errs)
	assert.Equal(t, 2, count)

	// Both declarations survive in the ordered list; the key index keeps
	// only the later one.
	assert.Len(t, store.Banks(), 2)
	bank, ok := store.Lookup(1, 1)
	require.True(t, ok)
	assert.Equal(t, "Second Declaration", bank.Name)
}

func TestStore_ReloadPrefixesErrorsWithSource(t *testing.T) {
	store := NewStore()
	_, errs := store.Reload([]Source{
		{Name: "broken.reabank", Text: "Bank 42 1\n"},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "broken.reabank: line 1")
}

func TestStore_WildcardCountersSpanSources(t *testing.T) {
	store := NewStore()
	count, errs := store.Reload([]Source{
		{Name: "a.reabank", Text: "Bank * * Wild A\n"},
		{Name: "b.reabank", Text: "Bank * * Wild B\n"},
	})
	require.Empty(t, errs)
	require.Equal(t, 2, count)

	banks := store.Banks()
	assert.Equal(t, 1, banks[0].MSB)
	assert.Equal(t, 2, banks[1].MSB)
}

func TestStore_Invalidate(t *testing.T) {
	store := NewStore()
	store.Reload([]Source{{Name: "x", Text: "Bank 1 1 Something\n"}})
	require.Len(t, store.Banks(), 1)

	store.Invalidate()
	assert.Empty(t, store.Banks())
	_, ok := store.Lookup(1, 1)
	assert.False(t, ok)
	assert.NotNil(t, store.Tree())
}
