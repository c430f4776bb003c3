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

// VectorView is a lazy view over a vector node: an ordered, random
// access sequence of child hashes with a per-index load cache
// (spec §4.8).
type VectorView struct {
	nodeBase

	mu     sync.Mutex
	loaded map[int]Node
}

var _ Counted = (*VectorView)(nil)
var _ Indexed = (*VectorView)(nil)
var _ Seq = (*VectorView)(nil)

func newVectorView(base nodeBase) *VectorView {
	return &VectorView{nodeBase: base, loaded: map[int]Node{}}
}

func (v *VectorView) Kind() value.Kind { return value.VectorKind }

func (v *VectorView) Count() int { return len(v.rec.SeqChildren) }

// Nth loads and returns the element at i, O(1) plus at most one child
// load. i must satisfy 0 <= i < Count.
func (v *VectorView) Nth(ctx context.Context, i int) (Node, error) {
	if i < 0 || i >= len(v.rec.SeqChildren) {
		return nil, &IndexOutOfRangeError{Index: i, Count: len(v.rec.SeqChildren)}
	}

	v.mu.Lock()
	if n, ok := v.loaded[i]; ok {
		v.mu.Unlock()
		return n, nil
	}
	v.mu.Unlock()

	n, err := wrapNode(ctx, v.store, v.cch, v.codec, v.rec.SeqChildren[i])
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.loaded[i] = n
	v.mu.Unlock()
	return n, nil
}

// Contains reports whether x appears in the vector. Since Persist is a
// deterministic, content-addressed function of value content, two
// values are Equal iff they persist to the same hash, so membership is
// decided by hashing x and scanning the child-hash table - no child
// chunk ever needs to be loaded.
func (v *VectorView) Contains(ctx context.Context, x value.Value) (bool, error) {
	h, err := v.persister().Persist(ctx, x)
	if err != nil {
		return false, err
	}
	return containsHash(v.rec.SeqChildren, h), nil
}

func containsHash(hs []hash.Hash, h hash.Hash) bool {
	for _, c := range hs {
		if c == h {
			return true
		}
	}
	return false
}

// Set always fails: VectorView is immutable. Use Assoc to obtain a
// new view with the index updated.
func (v *VectorView) Set(ctx context.Context, i int, val value.Value) error {
	return &ImmutableViewError{Kind: value.VectorKind, Op: "set"}
}

// Assoc returns a new VectorView with index i bound to val. i == Count
// appends; any other out-of-range index fails.
func (v *VectorView) Assoc(ctx context.Context, i int, val value.Value) (*VectorView, error) {
	count := len(v.rec.SeqChildren)
	if i < 0 || i > count {
		return nil, &IndexOutOfRangeError{Index: i, Count: count}
	}
	h, err := v.persister().Persist(ctx, val)
	if err != nil {
		return nil, err
	}
	children := make([]hash.Hash, count, count+1)
	copy(children, v.rec.SeqChildren)
	if i == count {
		children = append(children, h)
	} else {
		children[i] = h
	}
	return v.write(ctx, children)
}

func (v *VectorView) write(ctx context.Context, children []hash.Hash) (*VectorView, error) {
	rec := &chunks.Record{Tag: chunks.TagVector, SeqChildren: children}
	bs, err := v.codec.Serialize(rec)
	if err != nil {
		return nil, err
	}
	h, err := v.store.Put(ctx, bs)
	if err != nil {
		return nil, err
	}
	return newVectorView(nodeBase{store: v.store, cch: v.cch, codec: v.codec, h: h, rec: rec}), nil
}
