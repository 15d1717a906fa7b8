package calltree

import "sort"

// Forest is the set of root nodes produced by one build.
type Forest struct {
	roots      []*Node
	rootIndex  map[string]*Node
	eventCount int
}

// NewForest creates an empty forest whose roots track eventCount events.
func NewForest(eventCount int) *Forest {
	return &Forest{
		rootIndex:  make(map[string]*Node),
		eventCount: eventCount,
	}
}

// EventCount returns the number of events the forest was built from.
func (f *Forest) EventCount() int {
	return f.eventCount
}

// Roots returns the roots in display order. The slice must not be modified.
func (f *Forest) Roots() []*Node {
	return f.roots
}

// RootCount returns the number of roots.
func (f *Forest) RootCount() int {
	return len(f.roots)
}

// Root returns the root with the given symbol, or nil.
func (f *Forest) Root(symbol string) *Node {
	return f.rootIndex[symbol]
}

// FindOrCreateRoot returns the root with the given symbol, creating it if
// needed. New roots get an event marker sized to the forest's event count.
func (f *Forest) FindOrCreateRoot(symbol string, address, offset uint32, timestamp uint64) *Node {
	if root, ok := f.rootIndex[symbol]; ok {
		return root
	}
	root := newNode(nil, symbol, address, offset, timestamp, len(f.roots))
	root.TrackSeenEvents(f.eventCount)
	f.roots = append(f.roots, root)
	f.rootIndex[symbol] = root
	return root
}

// Find resolves a symbol path from a root. It returns nil for an empty or
// unknown path.
func (f *Forest) Find(path []string) *Node {
	if len(path) == 0 {
		return nil
	}
	node := f.rootIndex[path[0]]
	for _, symbol := range path[1:] {
		if node == nil {
			return nil
		}
		node = node.Child(symbol)
	}
	return node
}

// Walk visits every node depth-first in display order. Returning false
// from fn skips the node's children.
func (f *Forest) Walk(fn func(node *Node) bool) {
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			if fn(n) {
				visit(n.children)
			}
		}
	}
	visit(f.roots)
}

// NodeCount returns the number of nodes in the forest.
func (f *Forest) NodeCount() int {
	count := 0
	f.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// RootTotal returns the sum of total counts over all roots.
func (f *Forest) RootTotal() uint64 {
	var total uint64
	for _, root := range f.roots {
		total += root.totalCount
	}
	return total
}

// Sort orders siblings at every level by descending total count, keeping
// first-insertion order between equal totals.
func (f *Forest) Sort() {
	sortNodes(f.roots)
	for _, root := range f.roots {
		root.sortChildren()
	}
}

func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].totalCount != nodes[j].totalCount {
			return nodes[i].totalCount > nodes[j].totalCount
		}
		return nodes[i].seq < nodes[j].seq
	})
}

// Merge adds the counts of other into f. Nodes are matched by symbol path;
// nodes missing from f are appended after the existing siblings, keeping
// other's insertion order. Both forests must be unsorted.
func (f *Forest) Merge(other *Forest) {
	if other == nil {
		return
	}
	f.eventCount += other.eventCount
	for _, src := range other.roots {
		dst, ok := f.rootIndex[src.Symbol]
		if !ok {
			dst = newNode(nil, src.Symbol, src.Address, src.Offset, src.FirstTimestamp, len(f.roots))
			f.roots = append(f.roots, dst)
			f.rootIndex[src.Symbol] = dst
		}
		mergeNode(dst, src)
	}
}

func mergeNode(dst, src *Node) {
	dst.selfCount += src.selfCount
	dst.totalCount += src.totalCount
	if len(src.addressHits) > 0 && dst.addressHits == nil {
		dst.addressHits = make(map[uint32]uint64, len(src.addressHits))
	}
	for addr, hits := range src.addressHits {
		dst.addressHits[addr] += hits
	}
	for _, child := range src.children {
		mergeNode(dst.FindOrCreateChild(child.Symbol, child.Address, child.Offset, child.FirstTimestamp), child)
	}
}
