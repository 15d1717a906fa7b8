package view

import (
	"github.com/perf-calltree/internal/calltree"
	"github.com/perf-calltree/internal/profile"
)

// Document is the serialisable form of a profile's current forest.
type Document struct {
	Executable string              `json:"executable"`
	Mode       string              `json:"mode"`
	Filter     profile.FilterState `json:"filter"`
	Statistics profile.Statistics  `json:"statistics"`
	Roots      []DocumentNode      `json:"roots"`
}

// DocumentNode is one node of a Document.
type DocumentNode struct {
	Symbol       string            `json:"symbol"`
	Address      uint32            `json:"address"`
	Offset       uint32            `json:"offset"`
	SelfCount    uint64            `json:"self_count"`
	TotalCount   uint64            `json:"total_count"`
	SelfPercent  float64           `json:"self_percent"`
	TotalPercent float64           `json:"total_percent"`
	AddressHits  map[uint32]uint64 `json:"address_hits,omitempty"`
	Children     []DocumentNode    `json:"children,omitempty"`
}

// NewDocument snapshots p's current forest.
func NewDocument(p *profile.Profile) *Document {
	total := uint64(p.FilteredEventCount())
	filter := p.Filter()
	return &Document{
		Executable: p.Log().ExecutablePath(),
		Mode:       filter.Mode(),
		Filter:     filter,
		Statistics: p.Statistics(),
		Roots:      documentNodes(p.Roots(), total),
	}
}

func documentNodes(nodes []*calltree.Node, total uint64) []DocumentNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]DocumentNode, len(nodes))
	for i, n := range nodes {
		out[i] = DocumentNode{
			Symbol:       n.Symbol,
			Address:      n.Address,
			Offset:       n.Offset,
			SelfCount:    n.SelfCount(),
			TotalCount:   n.TotalCount(),
			SelfPercent:  profile.Percent(n.SelfCount(), total),
			TotalPercent: profile.Percent(n.TotalCount(), total),
			Children:     documentNodes(n.Children(), total),
		}
		if hits := n.AddressHits(); len(hits) > 0 {
			out[i].AddressHits = hits
		}
	}
	return out
}
