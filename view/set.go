// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package view

import (
	"context"
	"sync"

	"github.com/atomdb/atomdb/chunks"
	"github.com/atomdb/atomdb/hash"
	"github.com/atomdb/atomdb/value"
)

// SetView is a lazy view over a set node: an ordered sequence of
// unique child hashes, stably sorted by canonical form at persistence
// time (spec §4.6, §4.8).
type SetView struct {
	nodeBase

	mu     sync.Mutex
	loaded map[int]Node
}

var _ Counted = (*SetView)(nil)
var _ Seq = (*SetView)(nil)

func newSetView(base nodeBase) *SetView {
	return &SetView{nodeBase: base, loaded: map[int]Node{}}
}

func (s *SetView) Kind() value.Kind { return value.SetKind }

func (s *SetView) Count() int { return len(s.rec.SeqChildren) }

// Nth returns the i-th member in the set's stored (canonical) order;
// not part of the set protocol proper, but useful for iteration.
func (s *SetView) Nth(ctx context.Context, i int) (Node, error) {
	if i < 0 || i >= len(s.rec.SeqChildren) {
		return nil, &IndexOutOfRangeError{Index: i, Count: len(s.rec.SeqChildren)}
	}

	s.mu.Lock()
	if n, ok := s.loaded[i]; ok {
		s.mu.Unlock()
		return n, nil
	}
	s.mu.Unlock()

	n, err := wrapNode(ctx, s.store, s.cch, s.codec, s.rec.SeqChildren[i])
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.loaded[i] = n
	s.mu.Unlock()
	return n, nil
}

// Contains persists x (idempotent - no new chunk if x is already
// present) and checks its hash against the child-hash table: since
// equal values always persist to the same hash, this decides
// membership without loading any existing member.
func (s *SetView) Contains(ctx context.Context, x value.Value) (bool, error) {
	h, err := s.persister().Persist(ctx, x)
	if err != nil {
		return false, err
	}
	return containsHash(s.rec.SeqChildren, h), nil
}

// Add always fails: SetView is immutable. Use Conj to obtain a new
// view with the member applied.
func (s *SetView) Add(ctx context.Context, x value.Value) error {
	return &ImmutableViewError{Kind: value.SetKind, Op: "add"}
}

// Conj returns a new SetView with x as a member. If x is already
// present the returned view has identical content (and, since Put is
// idempotent, the identical hash) to the receiver. The new member's
// hash is inserted at the position its canonical form demands, not
// appended, so the child table stays sorted exactly as
// persist.Persister.persistSeq leaves it for value.Set.Canonical -
// two equal sets must hash identically regardless of how they were
// built (spec §4.6, §3).
func (s *SetView) Conj(ctx context.Context, x value.Value) (*SetView, error) {
	h, err := s.persister().Persist(ctx, x)
	if err != nil {
		return nil, err
	}
	if containsHash(s.rec.SeqChildren, h) {
		return s.write(ctx, s.rec.SeqChildren)
	}

	idx, err := s.canonicalInsertIndex(ctx, x)
	if err != nil {
		return nil, err
	}
	children := make([]hash.Hash, len(s.rec.SeqChildren)+1)
	copy(children, s.rec.SeqChildren[:idx])
	children[idx] = h
	copy(children[idx+1:], s.rec.SeqChildren[idx:])
	return s.write(ctx, children)
}

// canonicalInsertIndex finds where x belongs among the set's current
// members so the child table stays ordered by member canonical form.
// Member order isn't recoverable from hashes alone, so this loads
// (binary-searching, not scanning every member) each candidate's full
// value to compare against x.
func (s *SetView) canonicalInsertIndex(ctx context.Context, x value.Value) (int, error) {
	loader := s.loader()
	lo, hi := 0, len(s.rec.SeqChildren)
	for lo < hi {
		mid := (lo + hi) / 2
		mv, err := loader.Load(ctx, s.rec.SeqChildren[mid])
		if err != nil {
			return 0, err
		}
		if value.Compare(mv, x) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// Disj returns a new SetView with x removed, if present.
func (s *SetView) Disj(ctx context.Context, x value.Value) (*SetView, error) {
	h, err := s.persister().Persist(ctx, x)
	if err != nil {
		return nil, err
	}
	children := make([]hash.Hash, 0, len(s.rec.SeqChildren))
	for _, c := range s.rec.SeqChildren {
		if c == h {
			continue
		}
		children = append(children, c)
	}
	return s.write(ctx, children)
}

func (s *SetView) write(ctx context.Context, children []hash.Hash) (*SetView, error) {
	rec := &chunks.Record{Tag: chunks.TagSet, SeqChildren: children}
	bs, err := s.codec.Serialize(rec)
	if err != nil {
		return nil, err
	}
	h, err := s.store.Put(ctx, bs)
	if err != nil {
		return nil, err
	}
	return newSetView(nodeBase{store: s.store, cch: s.cch, codec: s.codec, h: h, rec: rec}), nil
}
