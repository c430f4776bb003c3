// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomdb/atomdb/cache"
	"github.com/atomdb/atomdb/chunks"
	"github.com/atomdb/atomdb/persist"
	"github.com/atomdb/atomdb/value"
)

type fixture struct {
	store chunks.Store
	cch   cache.Cache
	codec chunks.Codec
	p     *persist.Persister
}

func newFixture() *fixture {
	store := chunks.NewMemoryStore()
	codec := chunks.TextualCodec{}
	return &fixture{store: store, cch: cache.NoOp{}, codec: codec, p: persist.New(store, codec)}
}

func (f *fixture) root(t *testing.T, v value.Value) Node {
	t.Helper()
	h, err := f.p.Persist(context.Background(), v)
	require.NoError(t, err)
	n, err := Root(context.Background(), f.store, f.cch, f.codec, h)
	require.NoError(t, err)
	return n
}

func TestMapViewGetAndCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	n := f.root(t, value.NewMap(
		value.MapEntry{Key: value.String("a"), Val: value.Int(1)},
		value.MapEntry{Key: value.String("b"), Val: value.Int(2)},
	))
	m := n.(*MapView)
	assert.Equal(t, 2, m.Count())

	got, ok, err := m.Get(ctx, value.String("a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, value.Int(1), got)

	_, ok, err = m.Get(ctx, value.String("missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMapViewKeysAreCanonicalOrder(t *testing.T) {
	f := newFixture()
	n := f.root(t, value.NewMap(
		value.MapEntry{Key: value.Int(3), Val: value.Null{}},
		value.MapEntry{Key: value.Int(1), Val: value.Null{}},
		value.MapEntry{Key: value.Int(2), Val: value.Null{}},
	))
	m := n.(*MapView)
	keys := m.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, value.Int(1), keys[0])
	assert.Equal(t, value.Int(2), keys[1])
	assert.Equal(t, value.Int(3), keys[2])
}

func TestMapViewPutFailsImmutable(t *testing.T) {
	f := newFixture()
	n := f.root(t, value.NewMap())
	m := n.(*MapView)
	err := m.Put(context.Background(), value.String("a"), value.Int(1))
	var immErr *ImmutableViewError
	assert.ErrorAs(t, err, &immErr)
}

func TestMapViewAssocReturnsNewViewLeavesOriginalUnaffected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	n := f.root(t, value.NewMap(value.MapEntry{Key: value.String("a"), Val: value.Int(1)}))
	orig := n.(*MapView)

	updated, err := orig.Assoc(ctx, value.String("b"), value.Int(2))
	require.NoError(t, err)

	assert.Equal(t, 1, orig.Count())
	assert.Equal(t, 2, updated.Count())

	_, ok, err := orig.Get(ctx, value.String("b"))
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := updated.Get(ctx, value.String("b"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, value.Int(2), v)
}

func TestMapViewDissoc(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	n := f.root(t, value.NewMap(
		value.MapEntry{Key: value.String("a"), Val: value.Int(1)},
		value.MapEntry{Key: value.String("b"), Val: value.Int(2)},
	))
	m := n.(*MapView)

	updated, err := m.Dissoc(ctx, value.String("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Count())
	_, ok, err := updated.Get(ctx, value.String("a"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVectorViewNthAndAssocAppend(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	n := f.root(t, value.NewVector(value.Int(1), value.Int(2)))
	vv := n.(*VectorView)
	assert.Equal(t, 2, vv.Count())

	got, err := vv.Nth(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), got)

	_, err = vv.Nth(ctx, 5)
	var oor *IndexOutOfRangeError
	assert.ErrorAs(t, err, &oor)

	updated, err := vv.Assoc(ctx, 2, value.Int(3))
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Count())
	assert.Equal(t, 2, vv.Count())
}

func TestVectorViewAssocOutOfRange(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	n := f.root(t, value.NewVector(value.Int(1)))
	vv := n.(*VectorView)
	_, err := vv.Assoc(ctx, 5, value.Int(9))
	var oor *IndexOutOfRangeError
	assert.ErrorAs(t, err, &oor)
}

func TestVectorViewSetFailsImmutable(t *testing.T) {
	f := newFixture()
	n := f.root(t, value.NewVector(value.Int(1)))
	vv := n.(*VectorView)
	err := vv.Set(context.Background(), 0, value.Int(5))
	var immErr *ImmutableViewError
	assert.ErrorAs(t, err, &immErr)
}

func TestVectorViewContains(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	n := f.root(t, value.NewVector(value.Int(1), value.Int(2)))
	vv := n.(*VectorView)

	ok, err := vv.Contains(ctx, value.Int(2))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = vv.Contains(ctx, value.Int(99))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListViewCons(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	n := f.root(t, value.NewList(value.Int(2), value.Int(3)))
	lv := n.(*ListView)

	updated, err := lv.Cons(ctx, value.Int(1))
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Count())

	first, err := updated.Nth(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), first)
	assert.Equal(t, 2, lv.Count())
}

func TestSetViewConjDedupesAndDisj(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	n := f.root(t, value.NewSet(value.Int(1), value.Int(2)))
	sv := n.(*SetView)
	assert.Equal(t, 2, sv.Count())

	same, err := sv.Conj(ctx, value.Int(1))
	require.NoError(t, err)
	assert.Equal(t, 2, same.Count())
	assert.Equal(t, sv.Hash(), same.Hash())

	bigger, err := sv.Conj(ctx, value.Int(3))
	require.NoError(t, err)
	assert.Equal(t, 3, bigger.Count())

	smaller, err := bigger.Disj(ctx, value.Int(2))
	require.NoError(t, err)
	assert.Equal(t, 2, smaller.Count())
	ok, err := smaller.Contains(ctx, value.Int(2))
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestSetViewConjKeepsCanonicalOrder grows a set through Conj with a
// new member that must sort first, and checks the resulting hash
// matches a set built directly in canonical order: Conj must insert,
// not append, or the two diverge (spec §4.6, §3).
func TestSetViewConjKeepsCanonicalOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	n := f.root(t, value.NewSet(value.Int(3), value.Int(4)))
	sv := n.(*SetView)

	grown, err := sv.Conj(ctx, value.Int(1))
	require.NoError(t, err)
	assert.Equal(t, 3, grown.Count())

	direct := f.root(t, value.NewSet(value.Int(1), value.Int(3), value.Int(4)))
	assert.Equal(t, direct.(*SetView).Hash(), grown.Hash())

	first, err := grown.Nth(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), first)
}

func TestSetViewAddFailsImmutable(t *testing.T) {
	f := newFixture()
	n := f.root(t, value.NewSet())
	sv := n.(*SetView)
	err := sv.Add(context.Background(), value.Int(1))
	var immErr *ImmutableViewError
	assert.ErrorAs(t, err, &immErr)
}

func TestNestedCollectionAccessYieldsLazyView(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	n := f.root(t, value.NewVector(value.NewVector(value.Int(1), value.Int(2))))
	outer := n.(*VectorView)

	inner, err := outer.Nth(ctx, 0)
	require.NoError(t, err)
	_, isView := inner.(*VectorView)
	assert.True(t, isView, "nested collection access should yield a lazy view, not a materialized value")
}

func TestEqualShortCircuitsOnMatchingHash(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.root(t, value.NewVector(value.Int(1), value.Int(2)))
	b := f.root(t, value.NewVector(value.Int(1), value.Int(2)))

	eq, err := Equal(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEqualAcrossViewAndMaterializedValue(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.root(t, value.NewVector(value.Int(1), value.Int(2)))

	eq, err := Equal(ctx, a, value.NewVector(value.Int(1), value.Int(2)))
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = Equal(ctx, a, value.NewVector(value.Int(9)))
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestMaterializeRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	orig := value.NewMap(value.MapEntry{Key: value.String("k"), Val: value.Int(1)})
	n := f.root(t, orig)
	m := n.(Materializer)

	got, err := m.Materialize(ctx)
	require.NoError(t, err)
	assert.True(t, orig.Equals(got))
}

// TestStructuralHashIsCodecIndependent persists the same content under
// both codecs and checks their views' structural hashes agree even
// though their chunk hashes (Hash) differ, matching spec §4.8's "hash
// of a view" being defined over content, not wire format.
func TestStructuralHashIsCodecIndependent(t *testing.T) {
	ctx := context.Background()
	v := value.NewVector(value.Int(1), value.String("two"), value.NewMap(value.MapEntry{Key: value.Symbol("k"), Val: value.Bool(true)}))

	textStore := chunks.NewMemoryStore()
	textCodec := chunks.TextualCodec{}
	textH, err := persist.New(textStore, textCodec).Persist(ctx, v)
	require.NoError(t, err)
	textNode, err := Root(ctx, textStore, cache.NoOp{}, textCodec, textH)
	require.NoError(t, err)

	binStore := chunks.NewMemoryStore()
	binCodec := chunks.BinaryCodec{}
	binH, err := persist.New(binStore, binCodec).Persist(ctx, v)
	require.NoError(t, err)
	binNode, err := Root(ctx, binStore, cache.NoOp{}, binCodec, binH)
	require.NoError(t, err)

	assert.NotEqual(t, textNode.(Hash).Hash(), binNode.(Hash).Hash())

	textSH, err := StructuralHashOf(ctx, textNode)
	require.NoError(t, err)
	binSH, err := StructuralHashOf(ctx, binNode)
	require.NoError(t, err)
	assert.Equal(t, textSH, binSH)
	assert.Equal(t, value.StructuralHash(v), textSH)
}

// TestStructuralHashOfMaterializedScalar checks StructuralHashOf works
// directly on an already-materialized leaf Node, not just a view.
func TestStructuralHashOfMaterializedScalar(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	n := f.root(t, value.Int(42))

	sh, err := StructuralHashOf(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, value.StructuralHash(value.Int(42)), sh)
}
