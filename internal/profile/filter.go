package profile

import "github.com/perf-calltree/pkg/model"

// FilterState is the set of inputs a rebuild derives the forest from.
type FilterState struct {
	HasRange        bool   `json:"has_range"`
	Start           uint64 `json:"start"` // inclusive
	End             uint64 `json:"end"`   // inclusive
	Inverted        bool   `json:"inverted"`
	TopFunctions    bool   `json:"top_functions"`
	ShowPercentages bool   `json:"show_percentages"`
}

// InRange reports whether ts passes the timestamp filter.
func (f FilterState) InRange(ts uint64) bool {
	if !f.HasRange {
		return true
	}
	return ts >= f.Start && ts <= f.End
}

// Mode returns a short name of the tree shape the state produces.
func (f FilterState) Mode() string {
	switch {
	case f.TopFunctions:
		return "top-functions"
	case f.Inverted:
		return "inverted"
	default:
		return "normal"
	}
}

// SelectEvents returns the events of log, in log order, that contribute to
// a forest under f:
//   - events outside the timestamp range are dropped;
//   - a malloc contributes only while its pointer is still live at the end
//     of the window, and frees never contribute;
//   - events without frames are dropped.
func SelectEvents(events []model.Event, f FilterState) []model.Event {
	window := make([]int, 0, len(events))
	for i := range events {
		if f.InRange(events[i].Timestamp) {
			window = append(window, i)
		}
	}

	live := liveAllocations(events, window)

	selected := make([]model.Event, 0, len(window))
	for _, i := range window {
		ev := &events[i]
		switch ev.Kind {
		case model.EventKindFree:
			continue
		case model.EventKindMalloc:
			if !live[i] {
				continue
			}
		}
		if len(ev.Frames) == 0 {
			continue
		}
		selected = append(selected, *ev)
	}
	return selected
}

// liveAllocations marks the mallocs in window that no later free in the
// window releases. Each free pairs with the nearest earlier malloc of the
// same pointer.
func liveAllocations(events []model.Event, window []int) map[int]bool {
	live := make(map[int]bool)
	pendingFrees := make(map[uint64]int)

	for w := len(window) - 1; w >= 0; w-- {
		i := window[w]
		ev := &events[i]
		switch ev.Kind {
		case model.EventKindFree:
			pendingFrees[ev.Ptr]++
		case model.EventKindMalloc:
			if pendingFrees[ev.Ptr] > 0 {
				pendingFrees[ev.Ptr]--
				continue
			}
			live[i] = true
		}
	}
	return live
}
