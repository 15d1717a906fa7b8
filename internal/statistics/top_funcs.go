// Package statistics provides utilities for calculating profiling statistics.
package statistics

import (
	"sort"
	"strings"

	"github.com/perf-calltree/internal/calltree"
	"github.com/perf-calltree/internal/profile"
)

// SortBy selects the column top functions are ranked by.
type SortBy string

const (
	SortBySelf  SortBy = "self"
	SortByTotal SortBy = "total"
)

// ParseSortBy parses a sort column name, defaulting to SortBySelf.
func ParseSortBy(s string) SortBy {
	if strings.EqualFold(strings.TrimSpace(s), string(SortByTotal)) {
		return SortByTotal
	}
	return SortBySelf
}

// TopFuncsCalculator calculates top function statistics from a forest.
type TopFuncsCalculator struct {
	topN   int
	sortBy SortBy
	flat   bool
}

// TopFuncsOption configures the TopFuncsCalculator.
type TopFuncsOption func(*TopFuncsCalculator)

// WithTopN sets the number of top functions to return. Zero or less returns all.
func WithTopN(n int) TopFuncsOption {
	return func(c *TopFuncsCalculator) {
		c.topN = n
	}
}

// WithSortBy sets the ranking column.
func WithSortBy(by SortBy) TopFuncsOption {
	return func(c *TopFuncsCalculator) {
		c.sortBy = by
	}
}

// WithFlatForest declares that the forest was built in top-functions mode,
// so its roots already aggregate each symbol.
func WithFlatForest(flat bool) TopFuncsOption {
	return func(c *TopFuncsCalculator) {
		c.flat = flat
	}
}

// NewTopFuncsCalculator creates a new TopFuncsCalculator.
func NewTopFuncsCalculator(opts ...TopFuncsOption) *TopFuncsCalculator {
	c := &TopFuncsCalculator{
		topN:   15,
		sortBy: SortBySelf,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TopFuncEntry represents a function with its statistics.
type TopFuncEntry struct {
	Name         string  `json:"name"`
	SelfSamples  int64   `json:"self_samples"`
	SelfPercent  float64 `json:"self_percent"`
	TotalSamples int64   `json:"total_samples"`
	TotalPercent float64 `json:"total_percent"`
}

// TopFuncsResult holds the calculation result.
type TopFuncsResult struct {
	TopFuncs       []TopFuncEntry
	TotalSamples   int64
	FuncCallstacks map[string]map[string]int64
}

// CallStackInfo lists the heaviest call paths ending in a function.
type CallStackInfo struct {
	FunctionName string   `json:"function_name"`
	CallStacks   []string `json:"call_stacks"`
	Count        int      `json:"count"`
}

// Calculate ranks the symbols of forest. filteredCount is the number of
// events the forest was built from and is the percentage denominator.
//
// A symbol's total is the number of events whose stack contains it,
// counted once per event even under recursion: only the first occurrence
// of the symbol along each root path contributes.
func (c *TopFuncsCalculator) Calculate(forest *calltree.Forest, filteredCount int) *TopFuncsResult {
	result := &TopFuncsResult{
		TopFuncs:       make([]TopFuncEntry, 0),
		TotalSamples:   int64(filteredCount),
		FuncCallstacks: make(map[string]map[string]int64),
	}
	if forest == nil || forest.RootCount() == 0 {
		return result
	}

	self := make(map[string]int64)
	total := make(map[string]int64)

	if c.flat {
		for _, root := range forest.Roots() {
			self[root.Symbol] += int64(root.SelfCount())
			total[root.Symbol] += int64(root.TotalCount())
		}
	} else {
		for _, root := range forest.Roots() {
			c.collect(root, make(map[string]int), self, total, result.FuncCallstacks)
		}
	}

	entries := make([]TopFuncEntry, 0, len(total))
	for name, t := range total {
		entries = append(entries, TopFuncEntry{
			Name:         name,
			SelfSamples:  self[name],
			SelfPercent:  profile.Percent(uint64(self[name]), uint64(filteredCount)),
			TotalSamples: t,
			TotalPercent: profile.Percent(uint64(t), uint64(filteredCount)),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		ka, kb := a.SelfSamples, b.SelfSamples
		if c.sortBy == SortByTotal {
			ka, kb = a.TotalSamples, b.TotalSamples
		}
		if ka != kb {
			return ka > kb
		}
		return a.Name < b.Name
	})

	topN := c.topN
	if topN <= 0 || topN > len(entries) {
		topN = len(entries)
	}
	result.TopFuncs = entries[:topN]

	return result
}

// collect walks node's subtree. onPath counts the symbols of the current
// path so only first occurrences add to total.
func (c *TopFuncsCalculator) collect(node *calltree.Node, onPath map[string]int, self, total map[string]int64, callstacks map[string]map[string]int64) {
	if onPath[node.Symbol] == 0 {
		total[node.Symbol] += int64(node.TotalCount())
	}
	if node.SelfCount() > 0 {
		self[node.Symbol] += int64(node.SelfCount())
		if _, ok := callstacks[node.Symbol]; !ok {
			callstacks[node.Symbol] = make(map[string]int64)
		}
		callstacks[node.Symbol][joinCallStack(node.Path())] += int64(node.SelfCount())
	}

	onPath[node.Symbol]++
	for _, child := range node.Children() {
		c.collect(child, onPath, self, total, callstacks)
	}
	onPath[node.Symbol]--
}

// GetTopFuncsCallstacks returns call stack information for top functions.
func (r *TopFuncsResult) GetTopFuncsCallstacks(maxCallstacks int) map[string]*CallStackInfo {
	result := make(map[string]*CallStackInfo)

	for _, entry := range r.TopFuncs {
		callstacks, ok := r.FuncCallstacks[entry.Name]
		if !ok {
			continue
		}

		type csEntry struct {
			stack string
			count int64
		}
		csEntries := make([]csEntry, 0, len(callstacks))
		for stack, count := range callstacks {
			csEntries = append(csEntries, csEntry{stack: stack, count: count})
		}

		sort.Slice(csEntries, func(i, j int) bool {
			if csEntries[i].count != csEntries[j].count {
				return csEntries[i].count > csEntries[j].count
			}
			return csEntries[i].stack < csEntries[j].stack
		})

		topStacks := make([]string, 0, maxCallstacks)
		for i := 0; i < len(csEntries) && i < maxCallstacks; i++ {
			topStacks = append(topStacks, csEntries[i].stack)
		}

		result[entry.Name] = &CallStackInfo{
			FunctionName: entry.Name,
			CallStacks:   topStacks,
			Count:        len(callstacks),
		}
	}

	return result
}

func joinCallStack(stack []string) string {
	return strings.Join(stack, ";")
}
