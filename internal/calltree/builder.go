package calltree

import (
	"context"

	"github.com/perf-calltree/pkg/model"
	"github.com/perf-calltree/pkg/parallel"
)

// DefaultChunkSize is the smallest number of events a parallel build hands to one worker.
const DefaultChunkSize = 4096

// Builder turns a slice of events into a sorted Forest.
type Builder struct {
	inverted     bool
	topFunctions bool
	workers      int
	chunkSize    int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithInverted walks stacks from the executing frame outwards, producing
// callee-rooted trees.
func WithInverted(inverted bool) BuilderOption {
	return func(b *Builder) {
		b.inverted = inverted
	}
}

// WithTopFunctions builds one root per distinct symbol, each followed by
// the callees seen below it. Inversion is ignored in this mode.
func WithTopFunctions(topFunctions bool) BuilderOption {
	return func(b *Builder) {
		b.topFunctions = topFunctions
	}
}

// WithWorkers splits the build over n goroutines. Values below 2 build serially.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		b.workers = n
	}
}

// WithChunkSize sets the minimum number of events per parallel chunk.
func WithChunkSize(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.chunkSize = n
		}
	}
}

// NewBuilder creates a Builder. The zero configuration builds a
// caller-rooted tree serially.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{workers: 1, chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build merges events into a sorted forest. Events without frames are
// skipped but still occupy their index in the root event markers.
func (b *Builder) Build(events []model.Event) *Forest {
	forest, _ := b.BuildContext(context.Background(), events)
	return forest
}

// BuildContext is Build with cancellation of the parallel phase.
func (b *Builder) BuildContext(ctx context.Context, events []model.Event) (*Forest, error) {
	var forest *Forest
	if b.workers > 1 && len(events) >= 2*b.chunkSize {
		proc := parallel.NewChunkProcessor[model.Event, *Forest](parallel.PoolConfig{
			MaxWorkers:   b.workers,
			MinChunkSize: b.chunkSize,
		})
		forest = proc.ProcessChunks(ctx, events,
			func(_ context.Context, chunk []model.Event, _ int) *Forest {
				return b.buildSerial(chunk)
			},
			mergeForests,
		)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	} else {
		forest = b.buildSerial(events)
	}

	forest.Sort()
	return forest, nil
}

func mergeForests(partials []*Forest) *Forest {
	merged := NewForest(0)
	for _, partial := range partials {
		merged.Merge(partial)
	}
	return merged
}

func (b *Builder) buildSerial(events []model.Event) *Forest {
	forest := NewForest(len(events))
	for i := range events {
		ev := &events[i]
		if len(ev.Frames) == 0 {
			continue
		}
		if b.topFunctions {
			addTopFunctions(forest, ev, i)
		} else {
			addStack(forest, ev, i, b.inverted)
		}
	}
	return forest
}

// addStack inserts one event's stack, walking outermost to innermost or,
// when inverted, innermost to outermost.
func addStack(forest *Forest, ev *model.Event, index int, inverted bool) {
	frames := ev.Frames
	last := len(frames) - 1

	var node *Node
	for step := 0; step <= last; step++ {
		fi := step
		if inverted {
			fi = last - step
		}
		frame := frames[fi]

		if node == nil {
			node = forest.FindOrCreateRoot(frame.Symbol, frame.Address, frame.Offset, ev.Timestamp)
			if node.MarkEventSeen(index) {
				node.IncrementTotalCount()
			}
		} else {
			node = node.FindOrCreateChild(frame.Symbol, frame.Address, frame.Offset, ev.Timestamp)
			node.IncrementTotalCount()
		}

		if fi == last {
			node.IncrementSelfCount()
			node.AddEventPerAddress(frame.Address)
		}
	}
}

// addTopFunctions inserts every suffix of the stack that ends at the
// executing frame, so each symbol on the stack becomes a root.
func addTopFunctions(forest *Forest, ev *model.Event, index int) {
	frames := ev.Frames
	last := len(frames) - 1

	for start := 0; start <= last; start++ {
		var node *Node
		for fi := start; fi <= last; fi++ {
			frame := frames[fi]

			if node == nil {
				node = forest.FindOrCreateRoot(frame.Symbol, frame.Address, frame.Offset, ev.Timestamp)
				if node.MarkEventSeen(index) {
					node.IncrementTotalCount()
				}
			} else {
				node = node.FindOrCreateChild(frame.Symbol, frame.Address, frame.Offset, ev.Timestamp)
				node.IncrementTotalCount()
			}

			if fi == last {
				node.IncrementSelfCount()
				node.AddEventPerAddress(frame.Address)
			}
		}
	}
}
