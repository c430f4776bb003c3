// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package hash

import "sort"

// HashSlice is a sortable, comparable slice of Hash, ordered by
// Hash.Less. HashSet.ToSlice returns one in sorted order.
type HashSlice []Hash

func (hs HashSlice) Len() int           { return len(hs) }
func (hs HashSlice) Less(i, j int) bool { return hs[i].Less(hs[j]) }
func (hs HashSlice) Swap(i, j int)      { hs[i], hs[j] = hs[j], hs[i] }

var _ sort.Interface = HashSlice(nil)

// Equals reports whether hs and other contain the same hashes in the
// same order.
func (hs HashSlice) Equals(other HashSlice) bool {
	if len(hs) != len(other) {
		return false
	}
	for i := range hs {
		if hs[i] != other[i] {
			return false
		}
	}
	return true
}

// HashSet is an unordered, deduplicated collection of Hash.
type HashSet map[Hash]struct{}

// NewHashSet builds a HashSet from the given hashes.
func NewHashSet(hs ...Hash) HashSet {
	s := make(HashSet, len(hs))
	for _, h := range hs {
		s[h] = struct{}{}
	}
	return s
}

// Insert adds h to the set.
func (s HashSet) Insert(h Hash) { s[h] = struct{}{} }

// Has reports whether h is in the set.
func (s HashSet) Has(h Hash) bool {
	_, ok := s[h]
	return ok
}

// ToSlice returns the set's members in canonical (sorted) order.
func (s HashSet) ToSlice() HashSlice {
	out := make(HashSlice, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	sort.Sort(out)
	return out
}
