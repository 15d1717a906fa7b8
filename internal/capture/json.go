package capture

import (
	"bytes"
	"context"
	"io"

	"github.com/goccy/go-json"
)

// FormatPerfcore is the JSON event-log format written by the kernel profiler.
const FormatPerfcore = "perfcore"

// PerfcoreReader decodes perfcore JSON captures. Stacks in this format are
// innermost-first.
type PerfcoreReader struct{}

// NewPerfcoreReader creates a perfcore reader.
func NewPerfcoreReader() *PerfcoreReader {
	return &PerfcoreReader{}
}

// Name implements Reader.
func (r *PerfcoreReader) Name() string {
	return FormatPerfcore
}

// Extensions implements Reader.
func (r *PerfcoreReader) Extensions() []string {
	return []string{".json", ".perfcore"}
}

// Sniff implements Reader.
func (r *PerfcoreReader) Sniff(head []byte) bool {
	head = bytes.TrimLeft(head, " \t\r\n")
	return len(head) > 0 && head[0] == '{'
}

// Read implements Reader.
func (r *PerfcoreReader) Read(_ context.Context, in io.Reader) (*Capture, error) {
	var c Capture
	if err := json.NewDecoder(in).Decode(&c); err != nil {
		return nil, err
	}
	c.InnermostFirst = true
	return &c, nil
}
