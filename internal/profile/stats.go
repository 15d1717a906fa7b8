package profile

// Statistics are the aggregate numbers shown alongside a forest.
type Statistics struct {
	EventCount         int    `json:"event_count"`
	FilteredEventCount int    `json:"filtered_event_count"`
	FirstTimestamp     uint64 `json:"first_timestamp"`
	LastTimestamp      uint64 `json:"last_timestamp"`
	LengthInMs         uint64 `json:"length_ms"`
	DeepestStackDepth  int    `json:"deepest_stack_depth"`
	RootCount          int    `json:"root_count"`
	NodeCount          int    `json:"node_count"`
}

// Statistics returns the aggregate numbers for the current state.
// Timestamps and depth describe the whole log, not the filtered window.
func (p *Profile) Statistics() Statistics {
	return Statistics{
		EventCount:         p.log.Len(),
		FilteredEventCount: p.filteredCount,
		FirstTimestamp:     p.log.FirstTimestamp(),
		LastTimestamp:      p.log.LastTimestamp(),
		LengthInMs:         p.LengthInMs(),
		DeepestStackDepth:  p.log.DeepestStackDepth(),
		RootCount:          p.forest.RootCount(),
		NodeCount:          p.forest.NodeCount(),
	}
}

// LengthInMs returns the span between the first and last event of the log.
func (p *Profile) LengthInMs() uint64 {
	return p.log.LastTimestamp() - p.log.FirstTimestamp()
}

// Percent returns count as a percentage of total, clamped to [0, 100].
// A zero total yields 0.
func Percent(count, total uint64) float64 {
	if total == 0 {
		return 0
	}
	pct := float64(count) / float64(total) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
