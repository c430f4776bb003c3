// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package view

import (
	"context"
	"sort"
	"sync"

	"github.com/atomdb/atomdb/chunks"
	"github.com/atomdb/atomdb/value"
)

// MapView is a lazy view over a map node: a key → child-hash table
// with a per-view cache of already-loaded values (spec §4.8).
type MapView struct {
	nodeBase

	mu     sync.Mutex
	index  map[string]chunks.ChildRef
	loaded map[string]Node
}

var _ Counted = (*MapView)(nil)
var _ Keyed = (*MapView)(nil)

func newMapView(base nodeBase) *MapView {
	idx := make(map[string]chunks.ChildRef, len(base.rec.MapChildren))
	for _, c := range base.rec.MapChildren {
		idx[string(c.Key.CanonicalBytes())] = c
	}
	return &MapView{nodeBase: base, index: idx, loaded: map[string]Node{}}
}

func (m *MapView) Kind() value.Kind { return value.MapKind }

// Count returns the number of entries without loading any value.
func (m *MapView) Count() int { return len(m.rec.MapChildren) }

// Has reports key membership without loading the associated value.
func (m *MapView) Has(key value.Value) bool {
	_, ok := m.index[string(key.CanonicalBytes())]
	return ok
}

// Keys returns every key in the codec's canonical order (spec §4.8).
func (m *MapView) Keys() []value.Value {
	keys := make([]value.Value, len(m.rec.MapChildren))
	for i, c := range m.rec.MapChildren {
		keys[i] = c.Key
	}
	sort.Slice(keys, func(i, j int) bool { return value.Compare(keys[i], keys[j]) < 0 })
	return keys
}

// Get returns the value for key, loading and caching it on first
// access; the second return reports whether key is present.
func (m *MapView) Get(ctx context.Context, key value.Value) (Node, bool, error) {
	ck := string(key.CanonicalBytes())
	ref, ok := m.index[ck]
	if !ok {
		return nil, false, nil
	}

	m.mu.Lock()
	if n, ok := m.loaded[ck]; ok {
		m.mu.Unlock()
		return n, true, nil
	}
	m.mu.Unlock()

	n, err := wrapNode(ctx, m.store, m.cch, m.codec, ref.Hash)
	if err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	m.loaded[ck] = n
	m.mu.Unlock()
	return n, true, nil
}

// Put always fails: MapView is immutable. Use Assoc to obtain a new
// view with the entry applied.
func (m *MapView) Put(ctx context.Context, key, val value.Value) error {
	return &ImmutableViewError{Kind: value.MapKind, Op: "put"}
}

// Assoc persists val and returns a new MapView with key bound to it,
// leaving the receiver untouched (spec §4.8). Every other entry's
// child hash is carried over unchanged.
func (m *MapView) Assoc(ctx context.Context, key, val value.Value) (*MapView, error) {
	h, err := m.persister().Persist(ctx, val)
	if err != nil {
		return nil, err
	}

	ck := string(key.CanonicalBytes())
	children := make([]chunks.ChildRef, 0, len(m.rec.MapChildren)+1)
	replaced := false
	for _, c := range m.rec.MapChildren {
		if string(c.Key.CanonicalBytes()) == ck {
			children = append(children, chunks.ChildRef{Key: key, Hash: h})
			replaced = true
			continue
		}
		children = append(children, c)
	}
	if !replaced {
		children = append(children, chunks.ChildRef{Key: key, Hash: h})
	}
	sort.Slice(children, func(i, j int) bool { return value.Compare(children[i].Key, children[j].Key) < 0 })

	return m.writeMap(ctx, children)
}

// Dissoc returns a new MapView with key removed, or the receiver's
// same content (as a new MapView value, same hash) if key was absent.
func (m *MapView) Dissoc(ctx context.Context, key value.Value) (*MapView, error) {
	ck := string(key.CanonicalBytes())
	children := make([]chunks.ChildRef, 0, len(m.rec.MapChildren))
	for _, c := range m.rec.MapChildren {
		if string(c.Key.CanonicalBytes()) == ck {
			continue
		}
		children = append(children, c)
	}
	return m.writeMap(ctx, children)
}

func (m *MapView) writeMap(ctx context.Context, children []chunks.ChildRef) (*MapView, error) {
	rec := &chunks.Record{Tag: chunks.TagMap, MapChildren: children}
	bs, err := m.codec.Serialize(rec)
	if err != nil {
		return nil, err
	}
	h, err := m.store.Put(ctx, bs)
	if err != nil {
		return nil, err
	}
	return newMapView(nodeBase{store: m.store, cch: m.cch, codec: m.codec, h: h, rec: rec}), nil
}
