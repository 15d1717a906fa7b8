package view

import (
	"github.com/perf-calltree/internal/calltree"
	"github.com/perf-calltree/internal/profile"
)

// Selection remembers a node by path so it survives rebuilds.
type Selection struct {
	path Path
}

// Select stores a copy of path.
func (s *Selection) Select(path Path) {
	s.path = append(Path(nil), path...)
}

// Clear drops the selection.
func (s *Selection) Clear() {
	s.path = nil
}

// Path returns the selected path, or nil.
func (s *Selection) Path() Path {
	return s.path
}

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool {
	return len(s.path) == 0
}

// Resolve finds the selected node in p's current forest. It returns nil
// when nothing is selected or the path no longer exists.
func (s *Selection) Resolve(p *profile.Profile) *calltree.Node {
	if s.IsEmpty() {
		return nil
	}
	return p.Forest().Find(s.path)
}

// Disassembly returns the histogram of the selected node, or nil.
func (s *Selection) Disassembly(p *profile.Profile) *Disassembly {
	node := s.Resolve(p)
	if node == nil {
		return nil
	}
	return newDisassembly(node)
}
