package sitekb

import (
	"context"
	"sort"
)

// HashSet is a set of content hashes.
type HashSet map[string]struct{}

// NewHashSet returns a set holding hashes.
func NewHashSet(hashes ...string) HashSet {
	s := make(HashSet, len(hashes))
	for _, h := range hashes {
		s[h] = struct{}{}
	}
	return s
}

// Has reports whether h is in the set.
func (s HashSet) Has(h string) bool {
	_, ok := s[h]
	return ok
}

// Add inserts h.
func (s HashSet) Add(h string) {
	s[h] = struct{}{}
}

// Union returns a new set with the members of s and other.
func (s HashSet) Union(other HashSet) HashSet {
	u := make(HashSet, len(s)+len(other))
	for h := range s {
		u[h] = struct{}{}
	}
	for h := range other {
		u[h] = struct{}{}
	}
	return u
}

// Sorted returns the members in ascending order.
func (s HashSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// HashRegistry persists the hashes of content already added to the
// knowledge store. A hash present in the registry implies its content is
// in the store.
type HashRegistry interface {
	// Load returns the persisted set. A missing registry is an empty set.
	Load(ctx context.Context) (HashSet, error)

	// Save replaces the persisted set.
	Save(ctx context.Context, hashes HashSet) error

	// Reset forgets every hash.
	Reset(ctx context.Context) error
}
