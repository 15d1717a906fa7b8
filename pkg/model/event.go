// Package model defines the core data structures used throughout the application.
package model

import "strings"

// UnknownSymbol is the placeholder given to frames whose address could not be
// resolved to a symbol.
const UnknownSymbol = "??"

// EventKind represents the kind of a captured event.
type EventKind int

const (
	EventKindUnknown EventKind = iota // Unrecognized event type, treated as a sample
	EventKindSample                   // CPU sample
	EventKindMalloc                   // Memory allocation
	EventKindFree                     // Memory release
)

// String returns the string representation of EventKind.
func (k EventKind) String() string {
	switch k {
	case EventKindSample:
		return "sample"
	case EventKindMalloc:
		return "malloc"
	case EventKindFree:
		return "free"
	default:
		return "unknown"
	}
}

// IsMemory reports whether the event carries an allocation payload.
func (k EventKind) IsMemory() bool {
	return k == EventKindMalloc || k == EventKindFree
}

// ParseEventKind parses the event type string used in capture files.
func ParseEventKind(s string) EventKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sample", "cpu":
		return EventKindSample
	case "malloc", "alloc":
		return EventKindMalloc
	case "free":
		return EventKindFree
	default:
		return EventKindUnknown
	}
}

// Frame is a single resolved stack entry.
type Frame struct {
	Symbol  string `json:"symbol"`
	Address uint32 `json:"address"`
	Offset  uint32 `json:"offset"`
}

// Event is one captured observation of the profiled process.
// Frames are ordered outermost caller first; the last frame is the
// instruction that was executing when the event was taken.
type Event struct {
	Timestamp uint64    `json:"timestamp"`
	Kind      EventKind `json:"kind"`
	Ptr       uint64    `json:"ptr,omitempty"`
	Size      uint64    `json:"size,omitempty"`
	InKernel  bool      `json:"in_kernel"`
	Frames    []Frame   `json:"frames"`
}

// Innermost returns the currently executing frame.
func (e *Event) Innermost() (Frame, bool) {
	if len(e.Frames) == 0 {
		return Frame{}, false
	}
	return e.Frames[len(e.Frames)-1], true
}

// Depth returns the number of frames in the event's call stack.
func (e *Event) Depth() int {
	return len(e.Frames)
}

// EventLog is the full, ordered sequence of events for a profiled run.
// It is built once and never mutated afterwards.
type EventLog struct {
	executablePath string
	events         []Event

	firstTimestamp    uint64
	lastTimestamp     uint64
	deepestStackDepth int
}

// NewEventLog creates an EventLog and derives its load-time statistics.
// The events slice is owned by the log after this call.
func NewEventLog(executablePath string, events []Event) *EventLog {
	log := &EventLog{
		executablePath: executablePath,
		events:         events,
	}

	for i := range events {
		ev := &events[i]
		if i == 0 || ev.Timestamp < log.firstTimestamp {
			log.firstTimestamp = ev.Timestamp
		}
		if i == 0 || ev.Timestamp > log.lastTimestamp {
			log.lastTimestamp = ev.Timestamp
		}
		if len(ev.Frames) > log.deepestStackDepth {
			log.deepestStackDepth = len(ev.Frames)
		}
	}

	return log
}

// ExecutablePath returns the path of the profiled executable, if known.
func (l *EventLog) ExecutablePath() string {
	return l.executablePath
}

// Len returns the number of events in the log.
func (l *EventLog) Len() int {
	return len(l.events)
}

// At returns the event at index i.
func (l *EventLog) At(i int) *Event {
	return &l.events[i]
}

// Events returns the underlying events. Callers must not modify them.
func (l *EventLog) Events() []Event {
	return l.events
}

// FirstTimestamp returns the smallest timestamp in the log.
func (l *EventLog) FirstTimestamp() uint64 {
	return l.firstTimestamp
}

// LastTimestamp returns the largest timestamp in the log.
func (l *EventLog) LastTimestamp() uint64 {
	return l.lastTimestamp
}

// DeepestStackDepth returns the largest frame count of any event.
func (l *EventLog) DeepestStackDepth() int {
	return l.deepestStackDepth
}
