// Package writer provides JSON writers for exported call-tree views.
package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/perf-calltree/pkg/compression"
)

// JSONWriter writes data as JSON, optionally compressed.
type JSONWriter[T any] struct {
	// Indent specifies the indentation for pretty printing.
	// Empty string means compact output.
	Indent string

	// Compression is applied to the encoded stream.
	Compression compression.Type

	// Level is the compression level used when Compression is not TypeNone.
	Level compression.Level
}

// NewJSONWriter creates a new JSON writer with compact, uncompressed output.
func NewJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{Level: compression.LevelDefault}
}

// NewPrettyJSONWriter creates a JSON writer with pretty printing.
func NewPrettyJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{Indent: "  ", Level: compression.LevelDefault}
}

// WithCompression returns a copy of the writer using the given compression.
func (w *JSONWriter[T]) WithCompression(t compression.Type) *JSONWriter[T] {
	c := *w
	c.Compression = t
	return &c
}

// Write writes the data as JSON to the writer.
func (w *JSONWriter[T]) Write(data T, writer io.Writer) error {
	cw, err := compression.NewWriter(writer, w.Compression, w.Level)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cw)
	if w.Indent != "" {
		encoder.SetIndent("", w.Indent)
	}
	if err := encoder.Encode(data); err != nil {
		cw.Close()
		return fmt.Errorf("failed to encode data: %w", err)
	}

	if err := cw.Close(); err != nil {
		return fmt.Errorf("failed to flush %s stream: %w", w.Compression, err)
	}
	return nil
}

// WriteResult contains statistics about the written file.
type WriteResult struct {
	Path        string
	Compression compression.Type
	Size        int64
}

// WriteToFile writes the data to path. When the writer has no compression
// configured, the compression is chosen from the file extension
// (.gz, .zst, .lz4).
func (w *JSONWriter[T]) WriteToFile(data T, path string) (*WriteResult, error) {
	out := w
	if out.Compression == compression.TypeNone {
		out = w.WithCompression(compression.TypeFromExtension(path))
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	counter := &countingWriter{w: file}
	if err := out.Write(data, counter); err != nil {
		return nil, err
	}

	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return &WriteResult{
		Path:        path,
		Compression: out.Compression,
		Size:        counter.n,
	}, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
