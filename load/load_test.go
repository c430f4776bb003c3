// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package load

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomdb/atomdb/chunks"
	"github.com/atomdb/atomdb/hash"
	"github.com/atomdb/atomdb/persist"
	"github.com/atomdb/atomdb/value"
)

func TestLoadMissingRootIsFatal(t *testing.T) {
	store := chunks.NewMemoryStore()
	l := New(store, chunks.TextualCodec{})

	_, err := l.Load(context.Background(), hash.Of([]byte("never written")))
	require.Error(t, err)
	var missing *chunks.ChunkMissingError
	assert.ErrorAs(t, err, &missing)
}

func TestLoadMissingChildIsFatal(t *testing.T) {
	ctx := context.Background()
	store := chunks.NewMemoryStore()
	codec := chunks.TextualCodec{}
	p := persist.New(store, codec)

	h, err := p.Persist(ctx, value.NewVector(value.Int(1), value.Int(2)))
	require.NoError(t, err)

	rootBytes, ok, err := store.Get(ctx, h)
	require.NoError(t, err)
	require.True(t, ok)
	rec, err := codec.Deserialize(rootBytes)
	require.NoError(t, err)
	require.NotEmpty(t, rec.SeqChildren)

	// a fresh store holds the root chunk but none of its children, so
	// loading must fail fatally on the first child hash it resolves.
	fresh := chunks.NewMemoryStore()
	gotH, err := fresh.Put(ctx, rootBytes)
	require.NoError(t, err)
	require.Equal(t, h, gotH)

	l2 := New(fresh, codec)
	_, err = l2.Load(ctx, h)
	require.Error(t, err)
	var missing *chunks.ChunkMissingError
	assert.ErrorAs(t, err, &missing)
}

func TestLoadBigDecAndRatio(t *testing.T) {
	ctx := context.Background()
	store := chunks.NewMemoryStore()
	codec := chunks.TextualCodec{}
	p := persist.New(store, codec)
	l := New(store, codec)

	d, err := value.NewBigDecimal("1.50")
	require.NoError(t, err)
	h, err := p.Persist(ctx, d)
	require.NoError(t, err)
	got, err := l.Load(ctx, h)
	require.NoError(t, err)
	assert.True(t, d.Equals(got))

	r := value.NewRatio(2, 4)
	h, err = p.Persist(ctx, r)
	require.NoError(t, err)
	got, err = l.Load(ctx, h)
	require.NoError(t, err)
	assert.True(t, r.Equals(got))
}
