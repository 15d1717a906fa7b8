package testutil

import "github.com/perf-calltree/pkg/model"

// FrameAddress is the synthetic address given to the frame at depth i by Stack.
func FrameAddress(i int) uint32 {
	return uint32(0x1000 * (i + 1))
}

// Stack builds outermost-first frames from symbols.
func Stack(symbols ...string) []model.Frame {
	frames := make([]model.Frame, len(symbols))
	for i, s := range symbols {
		frames[i] = model.Frame{Symbol: s, Address: FrameAddress(i)}
	}
	return frames
}

// Sample builds a sample event with the given outermost-first stack.
func Sample(timestamp uint64, symbols ...string) model.Event {
	return model.Event{
		Timestamp: timestamp,
		Kind:      model.EventKindSample,
		Frames:    Stack(symbols...),
	}
}

// Malloc builds an allocation event of ptr.
func Malloc(timestamp, ptr, size uint64, symbols ...string) model.Event {
	return model.Event{
		Timestamp: timestamp,
		Kind:      model.EventKindMalloc,
		Ptr:       ptr,
		Size:      size,
		Frames:    Stack(symbols...),
	}
}

// Free builds a release event of ptr.
func Free(timestamp, ptr uint64, symbols ...string) model.Event {
	return model.Event{
		Timestamp: timestamp,
		Kind:      model.EventKindFree,
		Ptr:       ptr,
		Frames:    Stack(symbols...),
	}
}

// MainFooBar returns the three-event log [main foo] [main foo] [main bar]
// at timestamps 10, 20, 30.
func MainFooBar() *model.EventLog {
	return model.NewEventLog("/bin/app", []model.Event{
		Sample(10, "main", "foo"),
		Sample(20, "main", "foo"),
		Sample(30, "main", "bar"),
	})
}
