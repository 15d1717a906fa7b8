package testutil

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/perf-calltree/internal/calltree"
)

// Shape is a comparable snapshot of a node and its subtree.
type Shape struct {
	Symbol   string
	Self     uint64
	Total    uint64
	Children []Shape
}

// ShapeOf snapshots every root of the forest in display order.
func ShapeOf(f *calltree.Forest) []Shape {
	return shapes(f.Roots())
}

func shapes(nodes []*calltree.Node) []Shape {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Shape, len(nodes))
	for i, n := range nodes {
		out[i] = Shape{
			Symbol:   n.Symbol,
			Self:     n.SelfCount(),
			Total:    n.TotalCount(),
			Children: shapes(n.Children()),
		}
	}
	return out
}

var defaultCmpOptions = []cmp.Option{
	cmpopts.EquateEmpty(),
}

// Diff returns a human-readable diff of a and b, or "" when equal.
func Diff(a, b interface{}, opts ...cmp.Option) string {
	opts = append(opts, defaultCmpOptions...)
	return cmp.Diff(a, b, opts...)
}

// ForestDiff compares the full shape of two forests.
func ForestDiff(a, b *calltree.Forest) string {
	return Diff(ShapeOf(a), ShapeOf(b))
}
