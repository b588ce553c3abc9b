package ui

import (
	"sort"
	"strings"
)

// severityRank orders alert severities for sorting. Unknown values rank
// below Low.
var severityRank = map[string]int{
	"Critical": 4,
	"High":     3,
	"Medium":   2,
	"Low":      1,
}

// SeverityRank returns the sort rank of an alert severity. Unknown
// severities rank lowest.
func SeverityRank(severity string) int {
	return severityRank[severity]
}

// CellValue is what a column extracts from a row for comparison. Use
// string, int, int64, float64, or Ranked.
type CellValue any

// Ranked compares by an explicit integer rank, for enum-like columns
// such as severity.
type Ranked int

// Table presents a fetched collection as sortable rows. Sorting never
// mutates the underlying collection, only the rendered view. At most
// one row menu is open at a time.
type Table[T any] struct {
	columns map[string]func(T) CellValue

	rows      []T
	sortKey   string
	ascending bool

	openMenu   int64
	menuIsOpen bool
}

// NewTable creates a table with the given sortable columns.
func NewTable[T any](columns map[string]func(T) CellValue) *Table[T] {
	return &Table[T]{columns: columns, ascending: true}
}

// SetRows replaces the underlying collection. The current sort choice
// is kept so a refresh does not reset the user's ordering.
func (t *Table[T]) SetRows(rows []T) {
	t.rows = rows
}

// RequestSort toggles direction when the same column is clicked twice
// in a row, otherwise switches to the new column ascending.
func (t *Table[T]) RequestSort(column string) {
	if _, ok := t.columns[column]; !ok {
		return
	}
	if t.sortKey == column {
		t.ascending = !t.ascending
		return
	}
	t.sortKey = column
	t.ascending = true
}

// SortKey returns the active sort column and direction.
func (t *Table[T]) SortKey() (string, bool) {
	return t.sortKey, t.ascending
}

// View returns the rows in render order. The returned slice is a copy;
// the fetched collection is never reordered.
func (t *Table[T]) View() []T {
	view := make([]T, len(t.rows))
	copy(view, t.rows)

	extract, ok := t.columns[t.sortKey]
	if !ok {
		return view
	}

	sort.SliceStable(view, func(i, j int) bool {
		c := compareCells(extract(view[i]), extract(view[j]))
		if t.ascending {
			return c < 0
		}
		return c > 0
	})
	return view
}

// compareCells orders two cell values without panicking on nil or
// mismatched types. Strings compare case-insensitively, nil sorts as
// the zero value.
func compareCells(a, b CellValue) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
	case Ranked:
		bv, _ := b.(Ranked)
		return int(av) - int(bv)
	case int:
		bv, _ := b.(int)
		return compareOrdered(av, bv)
	case int64:
		bv, _ := b.(int64)
		return compareOrdered(av, bv)
	case float64:
		bv, _ := b.(float64)
		return compareOrdered(av, bv)
	case nil:
		if b == nil {
			return 0
		}
		return -compareCells(b, nil)
	default:
		return 0
	}
}

func compareOrdered[V int | int64 | float64](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// OpenMenu opens the action menu for one row, closing any other.
func (t *Table[T]) OpenMenu(rowID int64) {
	t.openMenu = rowID
	t.menuIsOpen = true
}

// CloseMenus closes any open row menu, as a click outside does.
func (t *Table[T]) CloseMenus() {
	t.menuIsOpen = false
	t.openMenu = 0
}

// OpenMenuID reports which row menu is open, if any.
func (t *Table[T]) OpenMenuID() (int64, bool) {
	return t.openMenu, t.menuIsOpen
}
