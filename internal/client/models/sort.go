package models

import (
	"sort"
	"strconv"
	"strings"
)

// UnassignedLabel is the display label for items without a shelf or case.
const UnassignedLabel = "Unassigned"

// CompareLabels orders shelf/case labels: numeric-looking labels ascend
// numerically and precede all non-numeric ones; non-numeric labels order
// lexicographically among themselves.
func CompareLabels(a, b string) int {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)

	switch {
	case errA == nil && errB == nil:
		if fa < fb {
			return -1
		}
		if fa > fb {
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// SortItems orders items by shelf, then case (CompareLabels policy for
// both), with a final case-insensitive tiebreak on game name. Unnamed
// items compare as UnknownGameName. The sort is stable and in place.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if c := CompareLabels(a.Shelf, b.Shelf); c != 0 {
			return c < 0
		}
		if c := CompareLabels(a.Case, b.Case); c != 0 {
			return c < 0
		}
		return strings.ToLower(nameOrUnknown(a.GameName)) < strings.ToLower(nameOrUnknown(b.GameName))
	})
}

func nameOrUnknown(name string) string {
	if name == "" {
		return UnknownGameName
	}
	return name
}

// DisplayLabel substitutes UnassignedLabel for empty shelf/case labels.
func DisplayLabel(s string) string {
	if s == "" {
		return UnassignedLabel
	}
	return s
}

// CaseGroup holds the items of one case within a shelf, in sorted order.
type CaseGroup struct {
	Case  string
	Items []Item
}

// ShelfGroup holds one shelf's cases, in sorted order.
type ShelfGroup struct {
	Shelf string
	Cases []CaseGroup
}

// GroupByShelf arranges items into the shelf/case hierarchy used for
// presentation. Input order does not matter; output follows SortItems.
func GroupByShelf(items []Item) []ShelfGroup {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	SortItems(sorted)

	var groups []ShelfGroup
	for _, item := range sorted {
		shelf := DisplayLabel(item.Shelf)
		if len(groups) == 0 || groups[len(groups)-1].Shelf != shelf {
			groups = append(groups, ShelfGroup{Shelf: shelf})
		}
		g := &groups[len(groups)-1]

		caseID := DisplayLabel(item.Case)
		if len(g.Cases) == 0 || g.Cases[len(g.Cases)-1].Case != caseID {
			g.Cases = append(g.Cases, CaseGroup{Case: caseID})
		}
		c := &g.Cases[len(g.Cases)-1]
		c.Items = append(c.Items, item)
	}
	return groups
}
