package view

import (
	"github.com/perf-calltree/internal/calltree"
	"github.com/perf-calltree/internal/profile"
)

// CallTree is the hierarchical model over a profile's current forest.
// It always reads the forest of the latest rebuild.
type CallTree struct {
	profile *profile.Profile
}

var _ TreeModel = (*CallTree)(nil)

// NewCallTree creates a CallTree over p.
func NewCallTree(p *profile.Profile) *CallTree {
	return &CallTree{profile: p}
}

func (t *CallTree) level(parent Path) []*calltree.Node {
	if len(parent) == 0 {
		return t.profile.Roots()
	}
	node := t.profile.Forest().Find(parent)
	if node == nil {
		return nil
	}
	return node.Children()
}

func (t *CallTree) total() uint64 {
	return uint64(t.profile.FilteredEventCount())
}

// RowCount returns the number of children of parent.
func (t *CallTree) RowCount(parent Path) int {
	return len(t.level(parent))
}

// Row returns the i-th child of parent.
func (t *CallTree) Row(parent Path, i int) (Row, bool) {
	nodes := t.level(parent)
	if i < 0 || i >= len(nodes) {
		return Row{}, false
	}
	return newRow(nodes[i], t.total()), true
}

// Children returns all children of parent in display order.
func (t *CallTree) Children(parent Path) []Row {
	nodes := t.level(parent)
	rows := make([]Row, len(nodes))
	for i, n := range nodes {
		rows[i] = newRow(n, t.total())
	}
	return rows
}

// FlattenOptions limits Flatten output.
type FlattenOptions struct {
	MaxDepth   int     // rows deeper than this are omitted; 0 means unlimited
	MinPercent float64 // rows below this total percentage are omitted with their subtrees
}

// Flatten returns the visible rows depth-first in display order.
func (t *CallTree) Flatten(opts FlattenOptions) []Row {
	total := t.total()
	var rows []Row
	t.profile.Forest().Walk(func(n *calltree.Node) bool {
		depth := n.Depth()
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return false
		}
		row := newRow(n, total)
		if row.TotalPercent < opts.MinPercent {
			return false
		}
		rows = append(rows, row)
		return true
	})
	return rows
}
