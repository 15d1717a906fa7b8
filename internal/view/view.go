// Package view exposes read-only row models over a profile's current
// forest for tree, table and per-address rendering.
package view

import (
	"strings"

	"github.com/perf-calltree/internal/calltree"
	"github.com/perf-calltree/internal/profile"
)

// PathSeparator joins the symbols of a Path in its string form.
const PathSeparator = ";"

// Path is a symbol path from a root. It identifies a node across rebuilds.
type Path []string

// ParsePath splits s on PathSeparator. Empty input yields an empty path.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, PathSeparator))
}

// String returns the path in its "a;b;c" form.
func (p Path) String() string {
	return strings.Join(p, PathSeparator)
}

// Child returns a new path extended by symbol.
func (p Path) Child(symbol string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = symbol
	return out
}

// Row is one displayable node.
type Row struct {
	Symbol       string  `json:"symbol"`
	Address      uint32  `json:"address"`
	Offset       uint32  `json:"offset"`
	SelfCount    uint64  `json:"self_count"`
	TotalCount   uint64  `json:"total_count"`
	SelfPercent  float64 `json:"self_percent"`
	TotalPercent float64 `json:"total_percent"`
	Path         Path    `json:"path"`
	Depth        int     `json:"depth"`
	ChildCount   int     `json:"child_count"`
}

// TreeModel is the hierarchical read surface. A nil parent addresses the
// root level.
type TreeModel interface {
	RowCount(parent Path) int
	Row(parent Path, i int) (Row, bool)
	Children(parent Path) []Row
}

func newRow(n *calltree.Node, total uint64) Row {
	return Row{
		Symbol:       n.Symbol,
		Address:      n.Address,
		Offset:       n.Offset,
		SelfCount:    n.SelfCount(),
		TotalCount:   n.TotalCount(),
		SelfPercent:  profile.Percent(n.SelfCount(), total),
		TotalPercent: profile.Percent(n.TotalCount(), total),
		Path:         Path(n.Path()),
		Depth:        n.Depth(),
		ChildCount:   n.ChildCount(),
	}
}
