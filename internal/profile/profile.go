// Package profile owns a loaded event log together with the filter state
// and the call forest derived from it.
package profile

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/perf-calltree/internal/calltree"
	apperrors "github.com/perf-calltree/pkg/errors"
	"github.com/perf-calltree/pkg/model"
	"github.com/perf-calltree/pkg/telemetry"
	"github.com/perf-calltree/pkg/utils"
)

// Profile is an event log plus the forest for its current filter state.
// Every setter rebuilds the forest before returning. A Profile is not safe
// for concurrent use.
type Profile struct {
	log     *model.EventLog
	filter  FilterState
	forest  *calltree.Forest
	workers int
	logger  utils.Logger

	filteredCount int
}

// Option configures a Profile.
type Option func(*Profile)

// WithLogger sets the logger used for rebuild diagnostics.
func WithLogger(logger utils.Logger) Option {
	return func(p *Profile) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithWorkers sets the number of goroutines used by the tree builder.
func WithWorkers(n int) Option {
	return func(p *Profile) {
		p.workers = n
	}
}

// WithFilter sets the initial filter state.
func WithFilter(f FilterState) Option {
	return func(p *Profile) {
		p.filter = f
	}
}

// New creates a Profile over log and builds its initial forest.
func New(log *model.EventLog, opts ...Option) (*Profile, error) {
	if log == nil {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "event log is nil")
	}

	p := &Profile{
		log:     log,
		workers: 1,
		logger:  &utils.NullLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.filter.HasRange && p.filter.Start > p.filter.End {
		return nil, invalidRange(p.filter.Start, p.filter.End)
	}

	p.Rebuild()
	return p, nil
}

// Log returns the underlying event log.
func (p *Profile) Log() *model.EventLog {
	return p.log
}

// Filter returns a copy of the current filter state.
func (p *Profile) Filter() FilterState {
	return p.filter
}

// Forest returns the forest for the current filter state. It is replaced,
// not mutated, by the next rebuild.
func (p *Profile) Forest() *calltree.Forest {
	return p.forest
}

// Roots returns the root level of the current forest.
func (p *Profile) Roots() []*calltree.Node {
	return p.forest.Roots()
}

// FilteredEventCount returns the number of events that contributed to the
// current forest.
func (p *Profile) FilteredEventCount() int {
	return p.filteredCount
}

// SetTimestampRange restricts the forest to events with start <= ts <= end.
// A range with start > end is rejected and leaves the profile unchanged.
func (p *Profile) SetTimestampRange(start, end uint64) error {
	if start > end {
		return invalidRange(start, end)
	}
	p.filter.HasRange = true
	p.filter.Start = start
	p.filter.End = end
	p.Rebuild()
	return nil
}

// ClearTimestampRange removes the timestamp filter.
func (p *Profile) ClearTimestampRange() {
	p.filter.HasRange = false
	p.filter.Start = 0
	p.filter.End = 0
	p.Rebuild()
}

// HasTimestampRange reports whether a timestamp filter is active.
func (p *Profile) HasTimestampRange() bool {
	return p.filter.HasRange
}

// SetInverted switches between caller-rooted and callee-rooted trees.
func (p *Profile) SetInverted(inverted bool) {
	p.filter.Inverted = inverted
	p.Rebuild()
}

// IsInverted reports whether the forest is callee-rooted.
func (p *Profile) IsInverted() bool {
	return p.filter.Inverted
}

// SetShowTopFunctions switches the top-functions forest on or off.
func (p *Profile) SetShowTopFunctions(show bool) {
	p.filter.TopFunctions = show
	p.Rebuild()
}

// ShowTopFunctions reports whether the top-functions forest is active.
func (p *Profile) ShowTopFunctions() bool {
	return p.filter.TopFunctions
}

// SetShowPercentages sets the display flag for percentage columns.
func (p *Profile) SetShowPercentages(show bool) {
	p.filter.ShowPercentages = show
	p.Rebuild()
}

// ShowPercentages reports whether views should render percentages.
func (p *Profile) ShowPercentages() bool {
	return p.filter.ShowPercentages
}

// Rebuild discards the current forest and derives a new one from the log
// and the current filter state.
func (p *Profile) Rebuild() {
	_ = p.RebuildContext(context.Background())
}

// RebuildContext is Rebuild with a caller-supplied context for tracing and
// cancellation of a parallel build. On cancellation the previous forest is
// kept.
func (p *Profile) RebuildContext(ctx context.Context) error {
	ctx, span := telemetry.Tracer().Start(ctx, "profile.Rebuild")
	defer span.End()

	timer := utils.NewTimer("rebuild")

	selectPhase := timer.Start("select")
	selected := SelectEvents(p.log.Events(), p.filter)
	selectPhase.Stop()

	buildPhase := timer.Start("build")
	builder := calltree.NewBuilder(
		calltree.WithInverted(p.filter.Inverted),
		calltree.WithTopFunctions(p.filter.TopFunctions),
		calltree.WithWorkers(p.workers),
	)
	forest, err := builder.BuildContext(ctx, selected)
	buildPhase.Stop()
	if err != nil {
		span.RecordError(err)
		return err
	}

	p.forest = forest
	p.filteredCount = len(selected)

	span.SetAttributes(
		attribute.Int("profile.event_count", p.log.Len()),
		attribute.Int("profile.filtered_event_count", p.filteredCount),
		attribute.Int("profile.root_count", forest.RootCount()),
		attribute.String("profile.mode", p.filter.Mode()),
	)

	p.logger.Debug("Rebuilt %s forest: %d of %d events, %d roots",
		p.filter.Mode(), p.filteredCount, p.log.Len(), forest.RootCount())
	timer.Log(p.logger)
	return nil
}

func invalidRange(start, end uint64) error {
	return apperrors.Newf(apperrors.CodeInvalidRange, "range start %d is after end %d", start, end)
}
