package capture

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/perf-calltree/pkg/compression"
)

// Reader decodes one artifact format.
type Reader interface {
	// Read decodes an uncompressed artifact stream.
	Read(ctx context.Context, r io.Reader) (*Capture, error)

	// Name returns the format name used by WithFormat and configuration.
	Name() string

	// Extensions returns the file extensions the format is recognised by.
	Extensions() []string

	// Sniff reports whether head looks like the start of this format.
	Sniff(head []byte) bool
}

// Registry holds the known artifact readers.
type Registry struct {
	readers map[string]Reader
	order   []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		readers: make(map[string]Reader),
	}
}

// DefaultRegistry returns a registry with the perfcore and collapsed readers.
// strict and maxLineCount configure the collapsed reader.
func DefaultRegistry(strict bool, maxLineCount int64) *Registry {
	r := NewRegistry()
	r.Register(NewPerfcoreReader())
	r.Register(NewCollapsedReader(strict, maxLineCount))
	return r
}

// Register adds a reader under its name. A later registration of the same
// name replaces the earlier one.
func (r *Registry) Register(reader Reader) {
	name := reader.Name()
	if _, ok := r.readers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.readers[name] = reader
}

// Get returns the reader registered under format.
func (r *Registry) Get(format string) (Reader, bool) {
	reader, ok := r.readers[strings.ToLower(format)]
	return reader, ok
}

// Names returns the registered format names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// ForPath returns the reader whose extension matches path, ignoring a
// compression suffix.
func (r *Registry) ForPath(path string) (Reader, bool) {
	ext := strings.ToLower(filepath.Ext(compression.TrimExtension(path)))
	if ext == "" {
		return nil, false
	}
	for _, name := range r.order {
		reader := r.readers[name]
		for _, e := range reader.Extensions() {
			if e == ext {
				return reader, true
			}
		}
	}
	return nil, false
}

// Sniff returns the first registered reader that recognises head.
func (r *Registry) Sniff(head []byte) (Reader, bool) {
	for _, name := range r.order {
		if reader := r.readers[name]; reader.Sniff(head) {
			return reader, true
		}
	}
	return nil, false
}
