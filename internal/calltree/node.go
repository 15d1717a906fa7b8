// Package calltree merges per-event call stacks into aggregated call forests.
package calltree

import (
	"github.com/perf-calltree/pkg/collections"
)

// Node is one call-path node of a merged forest. It owns its children;
// the parent pointer is used for navigation only.
type Node struct {
	Symbol         string
	Address        uint32
	Offset         uint32
	FirstTimestamp uint64

	selfCount  uint64
	totalCount uint64

	parent     *Node
	children   []*Node
	childIndex map[string]*Node
	seq        int // insertion order among siblings

	addressHits map[uint32]uint64

	// roots only: events already counted against this root
	seenEvents *collections.Bitset
}

func newNode(parent *Node, symbol string, address, offset uint32, timestamp uint64, seq int) *Node {
	return &Node{
		Symbol:         symbol,
		Address:        address,
		Offset:         offset,
		FirstTimestamp: timestamp,
		parent:         parent,
		seq:            seq,
	}
}

// SelfCount returns the number of events for which this node was the
// currently executing frame.
func (n *Node) SelfCount() uint64 {
	return n.selfCount
}

// TotalCount returns the number of events whose path passes through this node.
func (n *Node) TotalCount() uint64 {
	return n.totalCount
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// Children returns the node's children in display order.
// The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the child with the given symbol, or nil.
func (n *Node) Child(symbol string) *Node {
	return n.childIndex[symbol]
}

// FindOrCreateChild returns the child with the given symbol, creating it
// with the supplied address, offset and timestamp if it does not exist.
// Children are keyed by symbol alone: later frames with the same symbol at
// a different address or offset reuse the existing child.
func (n *Node) FindOrCreateChild(symbol string, address, offset uint32, timestamp uint64) *Node {
	if child, ok := n.childIndex[symbol]; ok {
		return child
	}
	if n.childIndex == nil {
		n.childIndex = make(map[string]*Node)
	}
	child := newNode(n, symbol, address, offset, timestamp, len(n.children))
	n.children = append(n.children, child)
	n.childIndex[symbol] = child
	return child
}

// IncrementSelfCount adds one event for which this node is the executing frame.
func (n *Node) IncrementSelfCount() {
	n.selfCount++
}

// IncrementTotalCount adds one event passing through this node.
func (n *Node) IncrementTotalCount() {
	n.totalCount++
}

// AddEventPerAddress records a hit at an instruction address inside this node.
func (n *Node) AddEventPerAddress(address uint32) {
	if n.addressHits == nil {
		n.addressHits = make(map[uint32]uint64)
	}
	n.addressHits[address]++
}

// AddressHits returns a copy of the per-address hit histogram.
func (n *Node) AddressHits() map[uint32]uint64 {
	hits := make(map[uint32]uint64, len(n.addressHits))
	for addr, count := range n.addressHits {
		hits[addr] = count
	}
	return hits
}

// TrackSeenEvents allocates the root's event marker for eventCount events.
func (n *Node) TrackSeenEvents(eventCount int) {
	n.seenEvents = collections.NewBitset(eventCount)
}

// MarkEventSeen marks the event index as counted and reports whether it
// was newly marked. Nodes without a marker always report true.
func (n *Node) MarkEventSeen(index int) bool {
	if n.seenEvents == nil {
		return true
	}
	return !n.seenEvents.TestAndSet(index)
}

// HasSeenEvent reports whether the event index was already counted.
func (n *Node) HasSeenEvent(index int) bool {
	return n.seenEvents != nil && n.seenEvents.Test(index)
}

// Path returns the symbols from the root down to this node.
func (n *Node) Path() []string {
	depth := 0
	for cur := n; cur != nil; cur = cur.parent {
		depth++
	}
	path := make([]string, depth)
	for cur := n; cur != nil; cur = cur.parent {
		depth--
		path[depth] = cur.Symbol
	}
	return path
}

// Depth returns the number of ancestors of the node.
func (n *Node) Depth() int {
	depth := 0
	for cur := n.parent; cur != nil; cur = cur.parent {
		depth++
	}
	return depth
}

// sortChildren orders children by descending total count; equal totals
// keep first-insertion order.
func (n *Node) sortChildren() {
	sortNodes(n.children)
	for _, child := range n.children {
		child.sortChildren()
	}
}
