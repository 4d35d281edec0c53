// Package bloom provides probabilistic URL membership with Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Set remembers URLs in constant memory. False positives are possible at
// the configured rate; false negatives are not.
type Set struct {
	f *bloom.BloomFilter
}

// NewSet creates a Set sized for n expected URLs with the given false
// positive rate.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{f: bloom.NewWithEstimates(n, fpRate)}
}

// Insert adds url and reports whether it was absent before.
func (s *Set) Insert(url string) bool {
	return !s.f.TestAndAddString(url)
}

// Contains reports whether url may have been inserted.
func (s *Set) Contains(url string) bool {
	return s.f.TestString(url)
}

// Len returns the approximate number of inserted URLs.
func (s *Set) Len() uint {
	return uint(s.f.ApproximatedSize())
}
