package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perf-calltree/internal/profile"
	"github.com/perf-calltree/internal/testutil"
	"github.com/perf-calltree/internal/view"
	apperrors "github.com/perf-calltree/pkg/errors"
	"github.com/perf-calltree/pkg/model"
)

func newProfile(t *testing.T, log *model.EventLog, opts ...profile.Option) *profile.Profile {
	t.Helper()
	p, err := profile.New(log, opts...)
	require.NoError(t, err)
	return p
}

func symbolsOf(rows []view.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Symbol
	}
	return out
}

func TestPath(t *testing.T) {
	p := view.ParsePath("main;foo;bar")
	assert.Equal(t, view.Path{"main", "foo", "bar"}, p)
	assert.Equal(t, "main;foo;bar", p.String())
	assert.Nil(t, view.ParsePath(""))

	child := p.Child("baz")
	assert.Equal(t, view.Path{"main", "foo", "bar", "baz"}, child)
	assert.Len(t, p, 3, "Child does not modify the receiver")
}

func TestCallTree_Rows(t *testing.T) {
	tree := view.NewCallTree(newProfile(t, testutil.MainFooBar()))

	assert.Equal(t, 1, tree.RowCount(nil))
	root, ok := tree.Row(nil, 0)
	require.True(t, ok)
	assert.Equal(t, "main", root.Symbol)
	assert.Equal(t, uint64(3), root.TotalCount)
	assert.InDelta(t, 100.0, root.TotalPercent, 1e-9)
	assert.InDelta(t, 0.0, root.SelfPercent, 1e-9)
	assert.Equal(t, 2, root.ChildCount)
	assert.Equal(t, view.Path{"main"}, root.Path)

	children := tree.Children(root.Path)
	assert.Equal(t, []string{"foo", "bar"}, symbolsOf(children))
	assert.InDelta(t, 200.0/3, children[0].TotalPercent, 1e-9)
	assert.Equal(t, 1, children[0].Depth)
	assert.Equal(t, view.Path{"main", "bar"}, children[1].Path)

	_, ok = tree.Row(nil, 1)
	assert.False(t, ok)
	_, ok = tree.Row(nil, -1)
	assert.False(t, ok)
	assert.Equal(t, 0, tree.RowCount(view.Path{"missing"}))
	assert.Empty(t, tree.Children(view.Path{"main", "foo", "nope"}))
}

func TestCallTree_FollowsRebuilds(t *testing.T) {
	p := newProfile(t, testutil.MainFooBar())
	tree := view.NewCallTree(p)

	p.SetInverted(true)

	assert.Equal(t, []string{"foo", "bar"}, symbolsOf(tree.Children(nil)))
	assert.Equal(t, []string{"main"}, symbolsOf(tree.Children(view.Path{"foo"})))
}

func TestCallTree_Flatten(t *testing.T) {
	log := model.NewEventLog("", []model.Event{
		testutil.Sample(1, "main", "a", "b"),
		testutil.Sample(2, "main", "a", "b"),
		testutil.Sample(3, "main", "a", "c"),
		testutil.Sample(4, "main", "d"),
	})
	tree := view.NewCallTree(newProfile(t, log))

	all := tree.Flatten(view.FlattenOptions{})
	assert.Equal(t, []string{"main", "a", "b", "c", "d"}, symbolsOf(all))

	shallow := tree.Flatten(view.FlattenOptions{MaxDepth: 2})
	assert.Equal(t, []string{"main", "a", "d"}, symbolsOf(shallow))

	hot := tree.Flatten(view.FlattenOptions{MinPercent: 50})
	assert.Equal(t, []string{"main", "a", "b"}, symbolsOf(hot))
}

func TestTopFunctions(t *testing.T) {
	p := newProfile(t, testutil.MainFooBar(), profile.WithFilter(profile.FilterState{TopFunctions: true}))
	table := view.NewTopFunctions(p)

	assert.Equal(t, 3, table.RowCount())
	assert.Equal(t, []string{"main", "foo", "bar"}, symbolsOf(table.Rows()))

	foo, ok := table.Row(1)
	require.True(t, ok)
	assert.Equal(t, uint64(2), foo.SelfCount)
	assert.InDelta(t, 200.0/3, foo.SelfPercent, 1e-9)

	_, ok = table.Row(3)
	assert.False(t, ok)

	for _, row := range table.Rows() {
		assert.LessOrEqual(t, row.TotalPercent, 100.0)
	}
}

func TestTopFunctions_EmptyProfile(t *testing.T) {
	table := view.NewTopFunctions(newProfile(t, model.NewEventLog("", nil)))

	assert.Equal(t, 0, table.RowCount())
	assert.Empty(t, table.Rows())
}

func TestDisassembly(t *testing.T) {
	log := model.NewEventLog("", []model.Event{
		{Timestamp: 1, Frames: []model.Frame{{Symbol: "main", Address: 0x100}, {Symbol: "foo", Address: 0x208, Offset: 8}}},
		{Timestamp: 2, Frames: []model.Frame{{Symbol: "main", Address: 0x100}, {Symbol: "foo", Address: 0x204, Offset: 4}}},
		{Timestamp: 3, Frames: []model.Frame{{Symbol: "main", Address: 0x100}, {Symbol: "foo", Address: 0x208, Offset: 8}}},
		{Timestamp: 4, Frames: []model.Frame{{Symbol: "main", Address: 0x100}, {Symbol: "foo", Address: 0x204, Offset: 4}, {Symbol: "bar", Address: 0x300}}},
	})
	p := newProfile(t, log)

	d, err := view.NewDisassembly(p, view.Path{"main", "foo"})
	require.NoError(t, err)

	assert.Equal(t, "foo", d.Symbol)
	assert.Equal(t, uint32(0x208), d.Address)
	assert.Equal(t, uint32(0x200), d.Base)
	assert.Equal(t, uint64(4), d.Total)
	require.Equal(t, 2, d.RowCount())
	assert.Equal(t, []view.DisassemblyRow{
		{Address: 0x204, Offset: 4, Hits: 1, Percent: 25},
		{Address: 0x208, Offset: 8, Hits: 2, Percent: 50},
	}, d.Rows())

	_, ok := d.Row(2)
	assert.False(t, ok)

	_, err = view.NewDisassembly(p, view.Path{"main", "nope"})
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
}

func TestDisassembly_OffsetsRelativeToSymbolStart(t *testing.T) {
	// the node is created by the higher address; the lower one must not clamp to 0
	log := model.NewEventLog("", []model.Event{
		{Timestamp: 1, Frames: []model.Frame{{Symbol: "foo", Address: 0x208, Offset: 8}}},
		{Timestamp: 2, Frames: []model.Frame{{Symbol: "foo", Address: 0x204, Offset: 4}}},
	})
	p := newProfile(t, log)

	d, err := view.NewDisassembly(p, view.Path{"foo"})
	require.NoError(t, err)
	assert.Equal(t, uint32(0x200), d.Base)
	assert.Equal(t, []view.DisassemblyRow{
		{Address: 0x204, Offset: 4, Hits: 1, Percent: 50},
		{Address: 0x208, Offset: 8, Hits: 1, Percent: 50},
	}, d.Rows())
}

func TestDisassembly_UnknownOffset(t *testing.T) {
	log := model.NewEventLog("", []model.Event{
		{Timestamp: 1, Frames: []model.Frame{{Symbol: "main", Address: 0x100}}},
		{Timestamp: 2, Frames: []model.Frame{{Symbol: "main", Address: 0x10c}}},
	})
	p := newProfile(t, log)

	d, err := view.NewDisassembly(p, view.Path{"main"})
	require.NoError(t, err)
	assert.Equal(t, []view.DisassemblyRow{
		{Address: 0x100, Offset: 0, Hits: 1, Percent: 50},
		{Address: 0x10c, Offset: 0xc, Hits: 1, Percent: 50},
	}, d.Rows())
}

func TestSelection(t *testing.T) {
	p := newProfile(t, testutil.MainFooBar())
	var sel view.Selection

	assert.True(t, sel.IsEmpty())
	assert.Nil(t, sel.Resolve(p))
	assert.Nil(t, sel.Disassembly(p))

	path := view.Path{"main", "bar"}
	sel.Select(path)
	path[1] = "foo"
	assert.Equal(t, view.Path{"main", "bar"}, sel.Path(), "Select copies the path")

	node := sel.Resolve(p)
	require.NotNil(t, node)
	assert.Equal(t, "bar", node.Symbol)

	require.NoError(t, p.SetTimestampRange(10, 20))
	assert.Nil(t, sel.Resolve(p), "bar is filtered out")

	p.ClearTimestampRange()
	again := sel.Resolve(p)
	require.NotNil(t, again)
	assert.NotSame(t, node, again)
	assert.Equal(t, uint64(1), again.TotalCount())
	require.NotNil(t, sel.Disassembly(p))
	assert.Equal(t, 1, sel.Disassembly(p).RowCount())

	sel.Clear()
	assert.True(t, sel.IsEmpty())
}

func TestNewDocument(t *testing.T) {
	p := newProfile(t, testutil.MainFooBar())
	doc := view.NewDocument(p)

	assert.Equal(t, "/bin/app", doc.Executable)
	assert.Equal(t, "normal", doc.Mode)
	assert.Equal(t, 3, doc.Statistics.FilteredEventCount)
	require.Len(t, doc.Roots, 1)

	main := doc.Roots[0]
	assert.Equal(t, "main", main.Symbol)
	assert.Nil(t, main.AddressHits)
	require.Len(t, main.Children, 2)
	assert.Equal(t, "foo", main.Children[0].Symbol)
	assert.Equal(t, map[uint32]uint64{testutil.FrameAddress(1): 2}, main.Children[0].AddressHits)
	assert.Empty(t, main.Children[0].Children)
}
