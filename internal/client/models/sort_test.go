package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareLabels_NumericBeforeLexicographic(t *testing.T) {
	// Numeric labels ascend numerically and precede non-numeric ones:
	// never the lexicographic "10, 2, A".
	assert.Negative(t, CompareLabels("2", "10"))
	assert.Negative(t, CompareLabels("10", "A"))
	assert.Negative(t, CompareLabels("2", "A"))
	assert.Positive(t, CompareLabels("A", "10"))
	assert.Zero(t, CompareLabels("3", "3"))
	assert.Negative(t, CompareLabels("Attic", "Basement"))
}

func TestSortItems_ShelfCaseName(t *testing.T) {
	items := []Item{
		{ID: "1", GameName: "Zork", Shelf: "A", Case: "1"},
		{ID: "2", GameName: "Azul", Shelf: "10", Case: "2"},
		{ID: "3", GameName: "Brass", Shelf: "2", Case: "1"},
		{ID: "4", GameName: "azul duel", Shelf: "2", Case: "1"},
		{ID: "5", GameName: "Catan", Shelf: "2", Case: "10"},
	}

	SortItems(items)

	got := make([]string, 0, len(items))
	for _, it := range items {
		got = append(got, string(it.ID))
	}
	// Shelf 2 before shelf 10 before shelf A; within shelf 2 case 1 before
	// case 10; within a case, case-insensitive name order.
	require.Equal(t, []string{"4", "3", "5", "2", "1"}, got)
}

func TestSortItems_UnnamedSortsAsUnknownGame(t *testing.T) {
	items := []Item{
		{ID: "1", GameName: "", Shelf: "1", Case: "1"},
		{ID: "2", GameName: "Agricola", Shelf: "1", Case: "1"},
	}
	SortItems(items)
	assert.Equal(t, ID("2"), items[0].ID, "Agricola sorts before Unknown Game")
}

func TestGroupByShelf(t *testing.T) {
	items := []Item{
		{ID: "1", GameName: "Catan", Shelf: "2", Case: "1"},
		{ID: "2", GameName: "Root", Shelf: "2", Case: "2"},
		{ID: "3", GameName: "Brass", Shelf: "1", Case: "1"},
		{ID: "4", GameName: "Azul", Shelf: "", Case: ""},
	}

	groups := GroupByShelf(items)
	require.Len(t, groups, 3)

	assert.Equal(t, "1", groups[0].Shelf)
	assert.Equal(t, "2", groups[1].Shelf)
	assert.Equal(t, UnassignedLabel, groups[2].Shelf)

	require.Len(t, groups[1].Cases, 2)
	assert.Equal(t, "1", groups[1].Cases[0].Case)
	assert.Equal(t, "2", groups[1].Cases[1].Case)
	require.Len(t, groups[1].Cases[0].Items, 1)
	assert.Equal(t, "Catan", groups[1].Cases[0].Items[0].GameName)
}
