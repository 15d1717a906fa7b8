package view

import "github.com/perf-calltree/internal/profile"

// TopFunctions is a flat table over the root level of the current forest.
// With top-functions mode active each row is one distinct symbol.
type TopFunctions struct {
	profile *profile.Profile
}

// NewTopFunctions creates a TopFunctions table over p.
func NewTopFunctions(p *profile.Profile) *TopFunctions {
	return &TopFunctions{profile: p}
}

// RowCount returns the number of rows.
func (t *TopFunctions) RowCount() int {
	return len(t.profile.Roots())
}

// Row returns the i-th row.
func (t *TopFunctions) Row(i int) (Row, bool) {
	roots := t.profile.Roots()
	if i < 0 || i >= len(roots) {
		return Row{}, false
	}
	return newRow(roots[i], uint64(t.profile.FilteredEventCount())), true
}

// Rows returns all rows in display order.
func (t *TopFunctions) Rows() []Row {
	return NewCallTree(t.profile).Children(nil)
}
