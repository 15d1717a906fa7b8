package capture

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// FormatCollapsed is the folded-stack text format: "thread;f1;f2 count".
const FormatCollapsed = "collapsed"

// maxLineSize bounds a single folded stack line.
const maxLineSize = 4 * 1024 * 1024

// DefaultMaxLineCount is the largest count a single line may expand to.
const DefaultMaxLineCount = 1_000_000

// APM thread marker: [Thread-7 tid=1060369]
var apmFormatRegex = regexp.MustCompile(`^\[(.+)\s+tid=(\d+)\]$`)

// Corrupt perf-script record: 5_2175795_[002]_83367.826506:-?/10101010
var invalidDataRegex = regexp.MustCompile(`^\d+_\d+_`)

var collapsedLineRegex = regexp.MustCompile(`^[^;\s]+(;[^;]+)*\s+\d+$`)

var (
	// ErrInvalidLine is returned in strict mode for a line that does not parse.
	ErrInvalidLine = errors.New("invalid collapsed line")
	// ErrCountTooLarge is returned for a line whose count exceeds the reader's limit.
	ErrCountTooLarge = errors.New("collapsed line count too large")
)

// CollapsedReader decodes folded stacks. Each line expands to count
// sample events whose timestamp is the line number.
type CollapsedReader struct {
	strict       bool
	maxLineCount int64
}

// NewCollapsedReader creates a collapsed reader. In strict mode a malformed
// line fails the read instead of being skipped. A line whose count exceeds
// maxLineCount always fails the read; zero or less selects
// DefaultMaxLineCount.
func NewCollapsedReader(strict bool, maxLineCount int64) *CollapsedReader {
	if maxLineCount <= 0 {
		maxLineCount = DefaultMaxLineCount
	}
	return &CollapsedReader{strict: strict, maxLineCount: maxLineCount}
}

// Name implements Reader.
func (r *CollapsedReader) Name() string {
	return FormatCollapsed
}

// Extensions implements Reader.
func (r *CollapsedReader) Extensions() []string {
	return []string{".collapsed", ".folded", ".txt"}
}

// Sniff implements Reader.
func (r *CollapsedReader) Sniff(head []byte) bool {
	line := head
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return IsCollapsedLine(string(line))
}

// Read implements Reader.
func (r *CollapsedReader) Read(ctx context.Context, in io.Reader) (*Capture, error) {
	c := &Capture{}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		stack, count, err := parseCollapsedLine(line)
		if err != nil {
			if r.strict {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			continue
		}
		if stack == nil {
			continue
		}
		if count > r.maxLineCount {
			return nil, fmt.Errorf("line %d: %w: %d exceeds %d", lineNum, ErrCountTooLarge, count, r.maxLineCount)
		}

		inKernel := false
		if n := len(stack); n > 0 {
			inKernel = stack[n-1].kernel
		}
		frames := make([]RawFrame, len(stack))
		for i, f := range stack {
			frames[i] = RawFrame{Symbol: f.symbol}
		}
		for i := int64(0); i < count; i++ {
			c.Events = append(c.Events, RawEvent{
				Timestamp: uint64(lineNum),
				Type:      "sample",
				InKernel:  inKernel,
				Stack:     frames,
			})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return c, nil
}

type foldedFrame struct {
	symbol string
	kernel bool
}

// parseCollapsedLine splits "thread;f1;f2 count" into outermost-first
// frames. A nil stack with a nil error means the line is a known-bad
// record that is skipped silently.
func parseCollapsedLine(line string) ([]foldedFrame, int64, error) {
	lastSpace := strings.LastIndexAny(line, " \t")
	if lastSpace == -1 {
		return nil, 0, ErrInvalidLine
	}

	count, err := strconv.ParseInt(strings.TrimSpace(line[lastSpace+1:]), 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid count value: %v", ErrInvalidLine, err)
	}
	if count < 0 {
		return nil, 0, fmt.Errorf("%w: negative count %d", ErrInvalidLine, count)
	}

	parts := strings.Split(strings.TrimSpace(line[:lastSpace]), ";")
	if IsInvalidData(parts[0]) {
		return nil, 0, nil
	}

	// parts[0] names the thread
	start := 1
	if start < len(parts) && apmFormatRegex.MatchString(parts[start]) {
		start++
	}

	stack := make([]foldedFrame, 0, len(parts)-start)
	for _, part := range parts[start:] {
		if part == "" || part == "[]" {
			continue
		}
		symbol, kernel := strings.CutSuffix(part, "_[k]")
		symbol, _ = SplitFuncAndModule(symbol)
		stack = append(stack, foldedFrame{symbol: symbol, kernel: kernel})
	}
	return stack, count, nil
}

// SplitFuncAndModule splits "funcName(module)" into its parts.
// A frame without a trailing module yields an empty module.
func SplitFuncAndModule(funcModule string) (function, module string) {
	lastParen := strings.LastIndex(funcModule, "(")
	if lastParen <= 0 || !strings.HasSuffix(funcModule, ")") {
		return funcModule, ""
	}
	return funcModule[:lastParen], funcModule[lastParen+1 : len(funcModule)-1]
}

// IsInvalidData reports whether the thread frame is a corrupt perf-script record.
func IsInvalidData(threadFrame string) bool {
	return invalidDataRegex.MatchString(threadFrame)
}

// IsCollapsedLine reports whether line looks like a folded stack line.
func IsCollapsedLine(line string) bool {
	return collapsedLineRegex.MatchString(strings.TrimSpace(line))
}
