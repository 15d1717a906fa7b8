package capture

import "sort"

// Symbolizer resolves an instruction address to the symbol containing it.
type Symbolizer interface {
	// Symbolize returns the symbol and the address's offset into it.
	Symbolize(address uint32) (symbol string, offset uint32, ok bool)
}

// TableSymbolizer resolves addresses against a capture's symbol table.
type TableSymbolizer struct {
	symbols []Symbol // sorted by address
}

// NewTableSymbolizer creates a symbolizer over symbols. The input slice is
// not modified.
func NewTableSymbolizer(symbols []Symbol) *TableSymbolizer {
	sorted := make([]Symbol, len(symbols))
	copy(sorted, symbols)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Address < sorted[j].Address
	})
	return &TableSymbolizer{symbols: sorted}
}

// Symbolize implements Symbolizer. Addresses that fall between symbols or
// past the last symbol's end are unresolved.
func (s *TableSymbolizer) Symbolize(address uint32) (string, uint32, bool) {
	i := sort.Search(len(s.symbols), func(i int) bool {
		return s.symbols[i].Address > address
	})
	if i == 0 {
		return "", 0, false
	}
	sym := s.symbols[i-1]
	offset := address - sym.Address
	if offset >= sym.Size {
		return "", 0, false
	}
	return sym.Name, offset, true
}

// Len returns the number of symbols in the table.
func (s *TableSymbolizer) Len() int {
	return len(s.symbols)
}
