package utils

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed step of a larger operation.
type Phase struct {
	Name     string
	Duration time.Duration
}

// Timer records sequential phase durations of one operation, such as a
// capture load or a tree rebuild. It is not safe for concurrent use.
type Timer struct {
	name   string
	clock  Clock
	start  time.Time
	phases []Phase
}

// PhaseTimer times a single phase. Stop is safe to call more than once.
type PhaseTimer struct {
	timer   *Timer
	index   int
	started time.Time
	stopped bool
}

// TimerOption configures a Timer instance.
type TimerOption func(*Timer)

// WithClock sets a custom clock for testability.
func WithClock(clock Clock) TimerOption {
	return func(t *Timer) {
		t.clock = clock
	}
}

// NewTimer creates a new Timer with the given name.
func NewTimer(name string, opts ...TimerOption) *Timer {
	t := &Timer{name: name, clock: RealClock{}}
	for _, opt := range opts {
		opt(t)
	}
	t.start = t.clock.Now()
	return t
}

// Start begins timing a new phase.
func (t *Timer) Start(phaseName string) *PhaseTimer {
	t.phases = append(t.phases, Phase{Name: phaseName})
	return &PhaseTimer{timer: t, index: len(t.phases) - 1, started: t.clock.Now()}
}

// Stop records the phase duration and returns it.
func (pt *PhaseTimer) Stop() time.Duration {
	phase := &pt.timer.phases[pt.index]
	if !pt.stopped {
		phase.Duration = pt.timer.clock.Since(pt.started)
		pt.stopped = true
	}
	return phase.Duration
}

// Phases returns a copy of the recorded phases in start order.
func (t *Timer) Phases() []Phase {
	out := make([]Phase, len(t.phases))
	copy(out, t.phases)
	return out
}

// Total returns the time elapsed since the timer was created.
func (t *Timer) Total() time.Duration {
	return t.clock.Since(t.start)
}

// Summary returns a one-line description of all phases.
func (t *Timer) Summary() string {
	parts := make([]string, 0, len(t.phases)+1)
	for _, p := range t.phases {
		parts = append(parts, fmt.Sprintf("%s=%v", p.Name, p.Duration))
	}
	parts = append(parts, fmt.Sprintf("total=%v", t.Total()))
	return fmt.Sprintf("%s: %s", t.name, strings.Join(parts, " "))
}

// Log writes the summary to logger at debug level.
func (t *Timer) Log(logger Logger) {
	if logger != nil {
		logger.Debug("%s", t.Summary())
	}
}
