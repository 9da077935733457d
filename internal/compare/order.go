package compare

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Partition splits the keys of a and b into those only in a, only in b, and
// in both. Each slice is sorted bytewise.
func Partition[V any](a, b map[string]V) (onlyA, onlyB, both []string) {
	for key := range a {
		if _, ok := b[key]; ok {
			both = append(both, key)
		} else {
			onlyA = append(onlyA, key)
		}
	}
	for key := range b {
		if _, ok := a[key]; !ok {
			onlyB = append(onlyB, key)
		}
	}

	sort.Strings(onlyA)
	sort.Strings(onlyB)
	sort.Strings(both)
	return onlyA, onlyB, both
}

// PathOrder orders relative paths with the root-locale collator, falling
// back to byte order for paths the collator considers equal.
type PathOrder struct {
	col *collate.Collator
}

// NewPathOrder returns a path ordering. A collator is not safe for concurrent
// use, so each sort gets its own.
func NewPathOrder() *PathOrder {
	return &PathOrder{col: collate.New(language.Und)}
}

func (o *PathOrder) Compare(a, b string) int {
	if c := o.col.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortEntries sorts entries by relative path.
func SortEntries(entries []DiffEntry) {
	order := NewPathOrder()
	slices.SortFunc(entries, func(a, b DiffEntry) int {
		return order.Compare(a.RelativePath, b.RelativePath)
	})
}
