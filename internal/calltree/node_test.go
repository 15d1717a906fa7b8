package calltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_FindOrCreateChild(t *testing.T) {
	root := newNode(nil, "main", 0x100, 0, 5, 0)

	foo := root.FindOrCreateChild("foo", 0x200, 4, 6)
	again := root.FindOrCreateChild("foo", 0x280, 12, 9)
	bar := root.FindOrCreateChild("bar", 0x300, 0, 7)

	assert.Same(t, foo, again, "same symbol at another address reuses the child")
	assert.Equal(t, uint32(0x200), foo.Address)
	assert.Equal(t, uint32(4), foo.Offset)
	assert.Equal(t, uint64(6), foo.FirstTimestamp)
	assert.Equal(t, 2, root.ChildCount())
	assert.Same(t, bar, root.Child("bar"))
	assert.Nil(t, root.Child("baz"))
	assert.Same(t, root, foo.Parent())
	assert.True(t, root.IsRoot())
	assert.False(t, foo.IsRoot())
}

func TestNode_Counters(t *testing.T) {
	n := newNode(nil, "f", 0, 0, 0, 0)

	n.IncrementTotalCount()
	n.IncrementTotalCount()
	n.IncrementSelfCount()
	n.AddEventPerAddress(0x10)
	n.AddEventPerAddress(0x10)
	n.AddEventPerAddress(0x14)

	assert.Equal(t, uint64(2), n.TotalCount())
	assert.Equal(t, uint64(1), n.SelfCount())
	assert.Equal(t, map[uint32]uint64{0x10: 2, 0x14: 1}, n.AddressHits())

	hits := n.AddressHits()
	hits[0x10] = 99
	assert.Equal(t, uint64(2), n.AddressHits()[0x10], "AddressHits returns a copy")
}

func TestNode_SeenEvents(t *testing.T) {
	n := newNode(nil, "main", 0, 0, 0, 0)
	assert.True(t, n.MarkEventSeen(0), "untracked nodes never deduplicate")
	assert.False(t, n.HasSeenEvent(0))

	n.TrackSeenEvents(3)
	assert.True(t, n.MarkEventSeen(1))
	assert.False(t, n.MarkEventSeen(1))
	assert.True(t, n.HasSeenEvent(1))
	assert.False(t, n.HasSeenEvent(2))
}

func TestNode_Path(t *testing.T) {
	root := newNode(nil, "main", 0, 0, 0, 0)
	leaf := root.FindOrCreateChild("foo", 0, 0, 0).FindOrCreateChild("bar", 0, 0, 0)

	assert.Equal(t, []string{"main", "foo", "bar"}, leaf.Path())
	assert.Equal(t, 2, leaf.Depth())
	assert.Equal(t, []string{"main"}, root.Path())
}

func TestForest_SortKeepsInsertionOrderOnTies(t *testing.T) {
	f := NewForest(4)
	a := f.FindOrCreateRoot("a", 0, 0, 0)
	b := f.FindOrCreateRoot("b", 0, 0, 0)
	c := f.FindOrCreateRoot("c", 0, 0, 0)
	a.IncrementTotalCount()
	b.IncrementTotalCount()
	c.IncrementTotalCount()
	c.IncrementTotalCount()

	x := a.FindOrCreateChild("x", 0, 0, 0)
	y := a.FindOrCreateChild("y", 0, 0, 0)
	y.IncrementTotalCount()
	_ = x

	f.Sort()

	var order []string
	for _, r := range f.Roots() {
		order = append(order, r.Symbol)
	}
	assert.Equal(t, []string{"c", "a", "b"}, order)
	require.Len(t, a.Children(), 2)
	assert.Equal(t, "y", a.Children()[0].Symbol)
}

func TestForest_Find(t *testing.T) {
	f := NewForest(1)
	root := f.FindOrCreateRoot("main", 0, 0, 0)
	foo := root.FindOrCreateChild("foo", 0, 0, 0)

	assert.Same(t, foo, f.Find([]string{"main", "foo"}))
	assert.Same(t, root, f.Find([]string{"main"}))
	assert.Nil(t, f.Find([]string{"main", "bar"}))
	assert.Nil(t, f.Find([]string{"nope", "foo"}))
	assert.Nil(t, f.Find(nil))
	assert.Equal(t, 2, f.NodeCount())
}

func TestForest_Merge(t *testing.T) {
	left := NewForest(2)
	main := left.FindOrCreateRoot("main", 0x10, 0, 1)
	main.IncrementTotalCount()
	foo := main.FindOrCreateChild("foo", 0x20, 0, 1)
	foo.IncrementTotalCount()
	foo.IncrementSelfCount()
	foo.AddEventPerAddress(0x20)

	right := NewForest(3)
	main2 := right.FindOrCreateRoot("main", 0x11, 0, 7)
	main2.IncrementTotalCount()
	foo2 := main2.FindOrCreateChild("foo", 0x21, 0, 7)
	foo2.IncrementTotalCount()
	foo2.IncrementSelfCount()
	foo2.AddEventPerAddress(0x24)
	bar := main2.FindOrCreateChild("bar", 0x30, 0, 8)
	bar.IncrementTotalCount()
	other := right.FindOrCreateRoot("other", 0x40, 0, 9)
	other.IncrementTotalCount()

	left.Merge(right)
	left.Merge(nil)

	assert.Equal(t, 5, left.EventCount())
	require.Equal(t, 2, left.RootCount())
	assert.Equal(t, uint64(2), main.TotalCount())
	assert.Equal(t, uint64(1), main.FirstTimestamp, "earlier partial keeps first-seen values")
	assert.Equal(t, uint32(0x10), main.Address)
	assert.Equal(t, uint64(2), foo.SelfCount())
	assert.Equal(t, map[uint32]uint64{0x20: 1, 0x24: 1}, foo.AddressHits())
	assert.Equal(t, []*Node{foo, main.Child("bar")}, main.Children())
	assert.Equal(t, uint64(9), left.Root("other").FirstTimestamp)
	assert.Equal(t, uint64(3), left.RootTotal())
}
