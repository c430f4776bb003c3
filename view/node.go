// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package view implements the lazy collection views of spec §4.8: a
// view over a map/vector/list/set node reads its child table from a
// single chunk but defers loading any child until it is actually
// requested, caching each loaded child locally. Functional updates
// (Assoc/Dissoc/Conj/Disj) persist a new node and return a brand new
// view; the receiver is never modified.
package view

import (
	"context"
	"fmt"

	"github.com/atomdb/atomdb/cache"
	"github.com/atomdb/atomdb/chunks"
	"github.com/atomdb/atomdb/d"
	"github.com/atomdb/atomdb/hash"
	"github.com/atomdb/atomdb/load"
	"github.com/atomdb/atomdb/persist"
	"github.com/atomdb/atomdb/value"
)

// Node is anything element access can return: either a fully
// materialized scalar/collection value.Value, or a lazy view over a
// nested collection. Both satisfy Node trivially via Kind.
type Node interface {
	Kind() value.Kind
}

// Counted reports the size of a view's child table without loading
// any child.
type Counted interface {
	Count() int
}

// Indexed is the vector/list read protocol.
type Indexed interface {
	Nth(ctx context.Context, i int) (Node, error)
}

// Keyed is the map read protocol.
type Keyed interface {
	Get(ctx context.Context, key value.Value) (Node, bool, error)
	Keys() []value.Value
}

// Seq is the set/vector/list membership protocol.
type Seq interface {
	Contains(ctx context.Context, v value.Value) (bool, error)
}

// Hash reports the chunk hash a view is rooted at, letting Equal
// short-circuit without materializing when two views share a store.
type Hash interface {
	Hash() hash.Hash
}

// Materializer fully resolves a Node into an in-memory value.Value,
// recursively loading every descendant (equivalent to load.Loader).
type Materializer interface {
	Materialize(ctx context.Context) (value.Value, error)
}

// StructuralHasher reports the codec-independent hash of a view's
// content (spec §4.8), distinct from Hash's codec-dependent chunk
// hash. Every concrete view type satisfies this via nodeBase.
type StructuralHasher interface {
	StructuralHash(ctx context.Context) (hash.Hash, error)
}

func materialize(ctx context.Context, n Node) (value.Value, error) {
	if v, ok := n.(value.Value); ok {
		return v, nil
	}
	if m, ok := n.(Materializer); ok {
		return m.Materialize(ctx)
	}
	return nil, fmt.Errorf("view: node of kind %v cannot be materialized", n.Kind())
}

// Equal reports whether a and b denote the same value (spec §4.8):
// short-circuits on matching node hashes when both are views, and
// otherwise fully materializes both sides and compares by value
// equality.
func Equal(ctx context.Context, a, b Node) (bool, error) {
	if ah, ok := a.(Hash); ok {
		if bh, ok := b.(Hash); ok {
			if ah.Hash() == bh.Hash() {
				return true, nil
			}
		}
	}
	av, err := materialize(ctx, a)
	if err != nil {
		return false, err
	}
	bv, err := materialize(ctx, b)
	if err != nil {
		return false, err
	}
	return av.Equals(bv), nil
}

// StructuralHashOf returns n's codec-independent structural hash (spec
// §4.8), working uniformly whether n is a lazy view or an already
// materialized scalar value.Value.
func StructuralHashOf(ctx context.Context, n Node) (hash.Hash, error) {
	if v, ok := n.(value.Value); ok {
		return value.StructuralHash(v), nil
	}
	if sh, ok := n.(StructuralHasher); ok {
		return sh.StructuralHash(ctx)
	}
	return hash.Hash{}, fmt.Errorf("view: node of kind %v has no structural hash", n.Kind())
}

// nodeBase holds the plumbing shared by every view kind: the backend,
// the codec used to decode this node and its children, the node's own
// hash and already-deserialized record.
type nodeBase struct {
	store chunks.Store
	cch   cache.Cache
	codec chunks.Codec
	h     hash.Hash
	rec   *chunks.Record
}

func (b *nodeBase) Hash() hash.Hash { return b.h }

// StructuralHash returns the codec-independent structural hash of the
// view's materialized value (spec §4.8), as opposed to Hash, which is
// the codec-dependent chunk hash of this particular store/codec
// combination. Two views over equal content backed by different codecs
// share a StructuralHash even though their Hash differs.
func (b *nodeBase) StructuralHash(ctx context.Context) (hash.Hash, error) {
	v, err := b.Materialize(ctx)
	if err != nil {
		return hash.Hash{}, err
	}
	return value.StructuralHash(v), nil
}

func (b *nodeBase) persister() *persist.Persister { return persist.New(b.store, b.codec) }

func (b *nodeBase) loader() *load.Loader { return load.New(b.store, b.codec) }

func (b *nodeBase) Materialize(ctx context.Context) (value.Value, error) {
	return b.loader().Load(ctx, b.h)
}

// getChunk reads a chunk's bytes, trying the cache before the store
// and filling the cache on a store hit (spec §4.4).
func getChunk(ctx context.Context, store chunks.Store, c cache.Cache, h hash.Hash) ([]byte, error) {
	if bs, ok := c.Get(h); ok {
		return bs, nil
	}
	bs, ok, err := store.Get(ctx, h)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &chunks.ChunkMissingError{Hash: h}
	}
	c.Put(h, bs)
	return bs, nil
}

// wrapNode loads the record at h and wraps it as a Node: a fresh lazy
// view for a collection, or a fully materialized scalar value.Value
// for a leaf (spec §4.8: "collections yielding lazy views, scalars
// fully materialized").
func wrapNode(ctx context.Context, store chunks.Store, c cache.Cache, codec chunks.Codec, h hash.Hash) (Node, error) {
	bs, err := getChunk(ctx, store, c, h)
	if err != nil {
		return nil, err
	}
	rec, err := codec.Deserialize(bs)
	if err != nil {
		return nil, err
	}
	base := nodeBase{store: store, cch: c, codec: codec, h: h, rec: rec}
	switch rec.Tag {
	case chunks.TagMap:
		return newMapView(base), nil
	case chunks.TagVector:
		return newVectorView(base), nil
	case chunks.TagList:
		return newListView(base), nil
	case chunks.TagSet:
		return newSetView(base), nil
	default:
		return scalarFromRecord(rec)
	}
}

// scalarFromRecord mirrors load.Loader's leaf-record handling; kept
// local to view so wrapNode never has to fully materialize a
// collection child just to inspect its tag.
func scalarFromRecord(r *chunks.Record) (value.Value, error) {
	switch r.Tag {
	case chunks.TagLeaf:
		return r.Leaf, nil
	case chunks.TagBool:
		return value.Bool(r.Bool), nil
	case chunks.TagSymbol:
		return value.Symbol(r.Name), nil
	case chunks.TagString:
		return value.String(r.Name), nil
	case chunks.TagKeyword:
		return value.Keyword{NS: r.NS, Name: r.Name}, nil
	case chunks.TagUUID:
		return value.ParseUUIDText(r.Text)
	case chunks.TagDate:
		return value.ParseTimestampText(r.Text)
	case chunks.TagBigDec:
		return value.NewBigDecimal(r.Text)
	case chunks.TagRatio:
		return value.ParseRatio(r.Text)
	default:
		d.Unreachable("view: unexpected scalar record tag %q", r.Tag)
		panic("unreachable")
	}
}

// Root loads the view or scalar rooted at h, the entry point a cell
// uses to deref its current root hash.
func Root(ctx context.Context, store chunks.Store, c cache.Cache, codec chunks.Codec, h hash.Hash) (Node, error) {
	return wrapNode(ctx, store, c, codec, h)
}
