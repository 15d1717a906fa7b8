package view

import (
	"sort"

	"github.com/perf-calltree/internal/calltree"
	"github.com/perf-calltree/internal/profile"
	apperrors "github.com/perf-calltree/pkg/errors"
)

// DisassemblyRow is the hit count of one instruction address.
type DisassemblyRow struct {
	Address uint32  `json:"address"`
	Offset  uint32  `json:"offset"`
	Hits    uint64  `json:"hits"`
	Percent float64 `json:"percent"`
}

// Disassembly is the per-address histogram of one node, sorted by address.
// Percentages are relative to the node's total count and offsets to the
// start of the symbol.
type Disassembly struct {
	Symbol  string
	Address uint32
	Base    uint32
	Total   uint64
	rows    []DisassemblyRow
}

// NewDisassembly snapshots the histogram of the node at path.
func NewDisassembly(p *profile.Profile, path Path) (*Disassembly, error) {
	node := p.Forest().Find(path)
	if node == nil {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "no node at path %q", path.String())
	}
	return newDisassembly(node), nil
}

func newDisassembly(node *calltree.Node) *Disassembly {
	d := &Disassembly{
		Symbol:  node.Symbol,
		Address: node.Address,
		Base:    symbolBase(node),
		Total:   node.TotalCount(),
	}
	for addr, hits := range node.AddressHits() {
		row := DisassemblyRow{
			Address: addr,
			Hits:    hits,
			Percent: profile.Percent(hits, d.Total),
		}
		if addr >= d.Base {
			row.Offset = addr - d.Base
		}
		d.rows = append(d.rows, row)
	}
	sort.Slice(d.rows, func(i, j int) bool {
		return d.rows[i].Address < d.rows[j].Address
	})
	return d
}

// symbolBase is the start address of the node's symbol, derived from the
// first frame that created the node.
func symbolBase(node *calltree.Node) uint32 {
	if node.Offset > node.Address {
		return node.Address
	}
	return node.Address - node.Offset
}

// RowCount returns the number of distinct addresses.
func (d *Disassembly) RowCount() int {
	return len(d.rows)
}

// Row returns the i-th row.
func (d *Disassembly) Row(i int) (DisassemblyRow, bool) {
	if i < 0 || i >= len(d.rows) {
		return DisassemblyRow{}, false
	}
	return d.rows[i], true
}

// Rows returns a copy of all rows.
func (d *Disassembly) Rows() []DisassemblyRow {
	out := make([]DisassemblyRow, len(d.rows))
	copy(out, d.rows)
	return out
}
