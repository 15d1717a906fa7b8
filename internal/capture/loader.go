package capture

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/perf-calltree/pkg/compression"
	apperrors "github.com/perf-calltree/pkg/errors"
	"github.com/perf-calltree/pkg/model"
	"github.com/perf-calltree/pkg/telemetry"
	"github.com/perf-calltree/pkg/utils"
)

const (
	// sniffLen is how much of the decompressed stream is inspected when
	// the format is not given and the extension is unknown.
	sniffLen = 512

	readBufferSize = 64 * 1024
)

type loadOptions struct {
	format      string
	symbolizer  Symbolizer
	placeholder string
	strict      bool
	maxCount    int64
	logger      utils.Logger
	registry    *Registry
}

// Option configures Load.
type Option func(*loadOptions)

// WithFormat forces a reader instead of detecting one from the path or content.
func WithFormat(format string) Option {
	return func(o *loadOptions) {
		o.format = format
	}
}

// WithSymbolizer resolves address-only frames with s instead of the
// capture's own symbol table.
func WithSymbolizer(s Symbolizer) Option {
	return func(o *loadOptions) {
		o.symbolizer = s
	}
}

// WithPlaceholderSymbol sets the symbol given to frames that cannot be resolved.
func WithPlaceholderSymbol(symbol string) Option {
	return func(o *loadOptions) {
		if symbol != "" {
			o.placeholder = symbol
		}
	}
}

// WithStrict fails the load on malformed collapsed lines instead of skipping them.
func WithStrict(strict bool) Option {
	return func(o *loadOptions) {
		o.strict = strict
	}
}

// WithMaxLineCount caps the number of events one collapsed line may expand
// to. A larger count fails the load as CORRUPT.
func WithMaxLineCount(n int64) Option {
	return func(o *loadOptions) {
		if n > 0 {
			o.maxCount = n
		}
	}
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(logger utils.Logger) Option {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRegistry replaces the default reader registry.
func WithRegistry(r *Registry) Option {
	return func(o *loadOptions) {
		o.registry = r
	}
}

// Load reads the artifact at path into an event log. It fails with a
// NOT_FOUND, CORRUPT, UNRESOLVABLE_IMAGE or UNSUPPORTED_FORMAT error and
// never returns a partial log.
func Load(ctx context.Context, path string, opts ...Option) (*model.EventLog, error) {
	o := &loadOptions{
		placeholder: model.UnknownSymbol,
		maxCount:    DefaultMaxLineCount,
		logger:      &utils.NullLogger{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry(o.strict, o.maxCount)
	}

	ctx, span := telemetry.Tracer().Start(ctx, "capture.Load")
	defer span.End()
	span.SetAttributes(attribute.String("capture.path", path))

	log, err := load(ctx, path, o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperrors.GetErrorCode(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("capture.event_count", log.Len()),
		attribute.Int("capture.deepest_stack_depth", log.DeepestStackDepth()),
	)
	return log, nil
}

func load(ctx context.Context, path string, o *loadOptions) (*model.EventLog, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.CodeNotFound, "capture not found: "+path, err)
		}
		return nil, apperrors.Wrap(apperrors.CodeCorrupt, "failed to open capture", err)
	}
	defer f.Close()

	rc, ctype, err := compression.NewReader(f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCorrupt, "failed to open compressed stream", err)
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, readBufferSize)
	reader, err := o.pickReader(path, br)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("Reading %s as %s (compression: %s)", path, reader.Name(), ctype)

	c, err := reader.Read(ctx, br)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.Wrap(apperrors.CodeCorrupt, "failed to decode "+reader.Name()+" capture", err)
	}

	events, err := o.normalize(c)
	if err != nil {
		return nil, err
	}

	log := model.NewEventLog(c.ExecutablePath, events)
	o.logger.Debug("Loaded %d events from %s (deepest stack %d)", log.Len(), path, log.DeepestStackDepth())
	return log, nil
}

func (o *loadOptions) pickReader(path string, br *bufio.Reader) (Reader, error) {
	if o.format != "" {
		reader, ok := o.registry.Get(o.format)
		if !ok {
			return nil, apperrors.Newf(apperrors.CodeUnsupportedFormat, "unknown capture format %q", o.format)
		}
		return reader, nil
	}
	if reader, ok := o.registry.ForPath(path); ok {
		return reader, nil
	}

	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, apperrors.Wrap(apperrors.CodeCorrupt, "failed to read capture header", err)
	}
	if reader, ok := o.registry.Sniff(head); ok {
		return reader, nil
	}
	return nil, apperrors.Newf(apperrors.CodeUnsupportedFormat, "cannot detect the format of %s", path)
}

// normalize validates the symbol table, resolves frames, converts stacks
// to outermost-first events and orders the events by timestamp.
func (o *loadOptions) normalize(c *Capture) ([]model.Event, error) {
	for i, sym := range c.Symbols {
		if sym.Name == "" || sym.Size == 0 {
			return nil, apperrors.Newf(apperrors.CodeUnresolvableImage,
				"symbol table entry %d at %#x has no name or size", i, sym.Address)
		}
	}

	symbolizer := o.symbolizer
	if symbolizer == nil {
		if c.ExecutablePath == "" && len(c.Symbols) == 0 && hasUnnamedFrame(c) {
			return nil, apperrors.New(apperrors.CodeUnresolvableImage,
				"capture has address-only frames but no executable or symbol table")
		}
		symbolizer = NewTableSymbolizer(c.Symbols)
	}

	placeholders := 0
	events := make([]model.Event, len(c.Events))
	for i := range c.Events {
		raw := &c.Events[i]
		frames := make([]model.Frame, len(raw.Stack))
		for j, rf := range raw.Stack {
			dst := j
			if c.InnermostFirst {
				dst = len(raw.Stack) - 1 - j
			}
			frame := model.Frame{Symbol: rf.Symbol, Address: rf.Address, Offset: rf.Offset}
			if frame.Symbol == "" {
				if sym, off, ok := symbolizer.Symbolize(rf.Address); ok {
					frame.Symbol, frame.Offset = sym, off
				} else {
					frame.Symbol = o.placeholder
					placeholders++
				}
			}
			frames[dst] = frame
		}
		events[i] = model.Event{
			Timestamp: raw.Timestamp,
			Kind:      model.ParseEventKind(raw.Type),
			Ptr:       raw.Ptr,
			Size:      raw.Size,
			InKernel:  raw.InKernel,
			Frames:    frames,
		}
	}

	if placeholders > 0 {
		o.logger.Debug("%d frames could not be symbolized, using %q", placeholders, o.placeholder)
	}

	// events with equal timestamps keep their capture order
	byTime := func(i, j int) bool { return events[i].Timestamp < events[j].Timestamp }
	if !sort.SliceIsSorted(events, byTime) {
		o.logger.Debug("Capture events are out of timestamp order, sorting %d events", len(events))
		sort.SliceStable(events, byTime)
	}
	return events, nil
}

func hasUnnamedFrame(c *Capture) bool {
	for i := range c.Events {
		for _, f := range c.Events[i].Stack {
			if f.Symbol == "" {
				return true
			}
		}
	}
	return false
}
