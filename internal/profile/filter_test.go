package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/perf-calltree/pkg/model"
)

func frames(symbols ...string) []model.Frame {
	out := make([]model.Frame, len(symbols))
	for i, s := range symbols {
		out[i] = model.Frame{Symbol: s}
	}
	return out
}

func timestamps(events []model.Event) []uint64 {
	out := make([]uint64, len(events))
	for i, ev := range events {
		out[i] = ev.Timestamp
	}
	return out
}

func TestSelectEvents_Range(t *testing.T) {
	events := []model.Event{
		{Timestamp: 1, Frames: frames("main")},
		{Timestamp: 5, Frames: frames("main")},
		{Timestamp: 9, Frames: frames("main")},
	}

	assert.Equal(t, []uint64{1, 5, 9}, timestamps(SelectEvents(events, FilterState{})))
	assert.Equal(t, []uint64{5, 9}, timestamps(SelectEvents(events, FilterState{HasRange: true, Start: 5, End: 9})))
	assert.Empty(t, SelectEvents(events, FilterState{HasRange: true, Start: 6, End: 8}))
}

func TestSelectEvents_SkipsEmptyStacks(t *testing.T) {
	events := []model.Event{
		{Timestamp: 1},
		{Timestamp: 2, Frames: frames("main")},
	}
	assert.Equal(t, []uint64{2}, timestamps(SelectEvents(events, FilterState{})))
}

func TestSelectEvents_MemoryLiveness(t *testing.T) {
	events := []model.Event{
		{Timestamp: 1, Kind: model.EventKindMalloc, Ptr: 0xa, Frames: frames("main", "alloc")},
		{Timestamp: 2, Kind: model.EventKindMalloc, Ptr: 0xb, Frames: frames("main", "alloc")},
		{Timestamp: 3, Kind: model.EventKindFree, Ptr: 0xa, Frames: frames("main", "release")},
		{Timestamp: 4, Kind: model.EventKindMalloc, Ptr: 0xa, Frames: frames("main", "alloc")},
		{Timestamp: 5, Kind: model.EventKindSample, Frames: frames("main")},
		{Timestamp: 6, Kind: model.EventKindFree, Ptr: 0xb, Frames: frames("main", "release")},
	}

	tests := []struct {
		name     string
		filter   FilterState
		expected []uint64
	}{
		{
			name:     "whole log keeps only the reused pointer",
			filter:   FilterState{},
			expected: []uint64{4, 5},
		},
		{
			name:     "free outside the window keeps the allocation live",
			filter:   FilterState{HasRange: true, Start: 1, End: 5},
			expected: []uint64{2, 4, 5},
		},
		{
			name:     "window with frees only",
			filter:   FilterState{HasRange: true, Start: 6, End: 6},
			expected: []uint64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, timestamps(SelectEvents(events, tt.filter)))
		})
	}
}

func TestSelectEvents_UnknownKindCountsAsSample(t *testing.T) {
	events := []model.Event{
		{Timestamp: 1, Kind: model.EventKindUnknown, Frames: frames("main")},
	}
	assert.Len(t, SelectEvents(events, FilterState{}), 1)
}

func TestFilterState_Mode(t *testing.T) {
	assert.Equal(t, "normal", FilterState{}.Mode())
	assert.Equal(t, "inverted", FilterState{Inverted: true}.Mode())
	assert.Equal(t, "top-functions", FilterState{Inverted: true, TopFunctions: true}.Mode())
}
