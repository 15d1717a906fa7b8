// Package collections provides compact data structures used by the tree builder.
package collections

import "math/bits"

// Bitset is a fixed-size boolean set using 1 bit per element.
// It marks which events have already been counted against a root node.
type Bitset struct {
	bits []uint64
	size int
}

// NewBitset creates a bitset able to hold indices [0, size).
// A non-positive size yields an empty set on which every Test is false.
func NewBitset(size int) *Bitset {
	if size < 0 {
		size = 0
	}
	return &Bitset{
		bits: make([]uint64, (size+63)/64),
		size: size,
	}
}

// Set sets the bit at index i. Out-of-range indices are ignored.
func (b *Bitset) Set(i int) {
	if i < 0 || i >= b.size {
		return
	}
	b.bits[i/64] |= 1 << (i % 64)
}

// Clear clears the bit at index i.
func (b *Bitset) Clear(i int) {
	if i < 0 || i >= b.size {
		return
	}
	b.bits[i/64] &^= 1 << (i % 64)
}

// Test returns true if the bit at index i is set.
func (b *Bitset) Test(i int) bool {
	if i < 0 || i >= b.size {
		return false
	}
	return b.bits[i/64]&(1<<(i%64)) != 0
}

// TestAndSet sets the bit at index i and reports whether it was already set.
func (b *Bitset) TestAndSet(i int) bool {
	if i < 0 || i >= b.size {
		return false
	}
	mask := uint64(1) << (i % 64)
	wasSet := b.bits[i/64]&mask != 0
	b.bits[i/64] |= mask
	return wasSet
}

// ClearAll clears all bits to 0.
func (b *Bitset) ClearAll() {
	for i := range b.bits {
		b.bits[i] = 0
	}
}

// Count returns the number of set bits (population count).
func (b *Bitset) Count() int {
	count := 0
	for _, word := range b.bits {
		count += bits.OnesCount64(word)
	}
	return count
}

// Size returns the number of addressable bits.
func (b *Bitset) Size() int {
	return b.size
}

// Iterate calls fn for each set bit index in ascending order until fn returns false.
func (b *Bitset) Iterate(fn func(i int) bool) {
	for wordIdx, word := range b.bits {
		base := wordIdx * 64
		for word != 0 {
			tz := bits.TrailingZeros64(word)
			if !fn(base + tz) {
				return
			}
			word &= word - 1
		}
	}
}

// ToSlice returns a slice of all set bit indices.
func (b *Bitset) ToSlice() []int {
	result := make([]int, 0, b.Count())
	b.Iterate(func(i int) bool {
		result = append(result, i)
		return true
	})
	return result
}
