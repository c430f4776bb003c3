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

// ListView is a lazy view over a list node: structurally identical to
// VectorView's child table, but intended for front-extension via Cons
// rather than random-access Assoc (spec §4.8).
type ListView struct {
	nodeBase

	mu     sync.Mutex
	loaded map[int]Node
}

var _ Counted = (*ListView)(nil)
var _ Indexed = (*ListView)(nil)
var _ Seq = (*ListView)(nil)

func newListView(base nodeBase) *ListView {
	return &ListView{nodeBase: base, loaded: map[int]Node{}}
}

func (l *ListView) Kind() value.Kind { return value.ListKind }

func (l *ListView) Count() int { return len(l.rec.SeqChildren) }

func (l *ListView) Nth(ctx context.Context, i int) (Node, error) {
	if i < 0 || i >= len(l.rec.SeqChildren) {
		return nil, &IndexOutOfRangeError{Index: i, Count: len(l.rec.SeqChildren)}
	}

	l.mu.Lock()
	if n, ok := l.loaded[i]; ok {
		l.mu.Unlock()
		return n, nil
	}
	l.mu.Unlock()

	n, err := wrapNode(ctx, l.store, l.cch, l.codec, l.rec.SeqChildren[i])
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.loaded[i] = n
	l.mu.Unlock()
	return n, nil
}

// Contains mirrors VectorView.Contains: equal values always persist to
// the same hash, so membership is a hash scan with no child loads.
func (l *ListView) Contains(ctx context.Context, x value.Value) (bool, error) {
	h, err := l.persister().Persist(ctx, x)
	if err != nil {
		return false, err
	}
	return containsHash(l.rec.SeqChildren, h), nil
}

// Set always fails: ListView is immutable. Use Assoc or Cons to
// obtain a new view.
func (l *ListView) Set(ctx context.Context, i int, val value.Value) error {
	return &ImmutableViewError{Kind: value.ListKind, Op: "set"}
}

// Assoc returns a new ListView with index i bound to val. i == Count
// appends; any other out-of-range index fails.
func (l *ListView) Assoc(ctx context.Context, i int, val value.Value) (*ListView, error) {
	count := len(l.rec.SeqChildren)
	if i < 0 || i > count {
		return nil, &IndexOutOfRangeError{Index: i, Count: count}
	}
	h, err := l.persister().Persist(ctx, val)
	if err != nil {
		return nil, err
	}
	children := make([]hash.Hash, count, count+1)
	copy(children, l.rec.SeqChildren)
	if i == count {
		children = append(children, h)
	} else {
		children[i] = h
	}
	return l.write(ctx, children)
}

// Cons returns a new ListView with val prepended as the new first
// element.
func (l *ListView) Cons(ctx context.Context, val value.Value) (*ListView, error) {
	h, err := l.persister().Persist(ctx, val)
	if err != nil {
		return nil, err
	}
	children := make([]hash.Hash, 0, len(l.rec.SeqChildren)+1)
	children = append(children, h)
	children = append(children, l.rec.SeqChildren...)
	return l.write(ctx, children)
}

func (l *ListView) write(ctx context.Context, children []hash.Hash) (*ListView, error) {
	rec := &chunks.Record{Tag: chunks.TagList, SeqChildren: children}
	bs, err := l.codec.Serialize(rec)
	if err != nil {
		return nil, err
	}
	h, err := l.store.Put(ctx, bs)
	if err != nil {
		return nil, err
	}
	return newListView(nodeBase{store: l.store, cch: l.cch, codec: l.codec, h: h, rec: rec}), nil
}
