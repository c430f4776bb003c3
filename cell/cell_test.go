// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package cell

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomdb/atomdb/value"
	"github.com/atomdb/atomdb/view"
)

func TestOpenWithInitValue(t *testing.T) {
	ctx := context.Background()
	c, err := Open(Config{Store: StoreMemory{}, Init: value.Int(1)})
	require.NoError(t, err)

	n, err := c.Deref(ctx)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, value.Int(1), n)

	h, ok := c.RootHash()
	assert.True(t, ok)
	assert.False(t, h.IsEmpty())
}

func TestOpenWithoutInitIsNullRoot(t *testing.T) {
	ctx := context.Background()
	c, err := Open(Config{Store: StoreMemory{}})
	require.NoError(t, err)

	n, err := c.Deref(ctx)
	require.NoError(t, err)
	assert.Nil(t, n)

	_, ok := c.RootHash()
	assert.False(t, ok)
}

func TestResetReplacesRoot(t *testing.T) {
	ctx := context.Background()
	c, err := Open(Config{Store: StoreMemory{}, Init: value.Int(1)})
	require.NoError(t, err)

	v, err := c.Reset(ctx, value.String("hello"))
	require.NoError(t, err)
	assert.Equal(t, value.String("hello"), v)

	n, err := c.Deref(ctx)
	require.NoError(t, err)
	assert.Equal(t, value.String("hello"), n)
}

// TestSwapCountsToTen mirrors the canonical counter scenario: ten
// sequential swaps on a cell starting at 0 must each observe a
// distinct root hash and land on 10.
func TestSwapCountsToTen(t *testing.T) {
	ctx := context.Background()
	c, err := Open(Config{Store: StoreMemory{}, Init: value.Int(0)})
	require.NoError(t, err)

	seen := map[string]bool{}
	if h, ok := c.RootHash(); ok {
		seen[h.String()] = true
	}

	for i := 0; i < 10; i++ {
		_, err := c.Swap(ctx, func(ctx context.Context, current view.Node) (value.Value, error) {
			n := current.(value.Int)
			return value.Int(int64(n) + 1), nil
		})
		require.NoError(t, err)
		h, ok := c.RootHash()
		require.True(t, ok)
		seen[h.String()] = true
	}

	n, err := c.Deref(ctx)
	require.NoError(t, err)
	assert.Equal(t, value.Int(10), n)
	assert.Len(t, seen, 11) // the initial root plus 10 distinct swaps
}

func TestSwapOnNullRoot(t *testing.T) {
	ctx := context.Background()
	c, err := Open(Config{Store: StoreMemory{}})
	require.NoError(t, err)

	v, err := c.Swap(ctx, func(ctx context.Context, current view.Node) (value.Value, error) {
		assert.Nil(t, current)
		return value.NewVector(value.Int(1)), nil
	})
	require.NoError(t, err)
	assert.Equal(t, value.NewVector(value.Int(1)), v)
}

func TestCompareAndSet(t *testing.T) {
	ctx := context.Background()
	c, err := Open(Config{Store: StoreMemory{}, Init: value.Int(1)})
	require.NoError(t, err)

	ok, err := c.CompareAndSet(ctx, value.Int(2), value.Int(3))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.CompareAndSet(ctx, value.Int(1), value.Int(3))
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := c.Deref(ctx)
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), n)
}

func TestCompareAndSetOnNullRoot(t *testing.T) {
	ctx := context.Background()
	c, err := Open(Config{Store: StoreMemory{}})
	require.NoError(t, err)

	ok, err := c.CompareAndSet(ctx, value.Int(1), value.Int(2))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.CompareAndSet(ctx, nil, value.Int(2))
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := c.Deref(ctx)
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), n)
}

func TestFilesystemCellSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "atomdb")

	c1, err := Open(Config{Store: StoreFilesystem{Path: dir}, Init: value.String("durable")})
	require.NoError(t, err)
	h1, ok := c1.RootHash()
	require.True(t, ok)

	c2, err := Open(Config{Store: StoreFilesystem{Path: dir}})
	require.NoError(t, err)
	// a freshly reopened cell has no root of its own: the root hash
	// lives in the cell, not the store, so this simply confirms the
	// backing store kept the chunk available to deref by hash.
	n, err := view.Root(ctx, c2.Store(), c2.Cache(), c2.codec, h1)
	require.NoError(t, err)
	assert.Equal(t, value.String("durable"), n)
}

func TestSetOrderingIsCanonicalRegardlessOfInsertion(t *testing.T) {
	ctx := context.Background()
	c, err := Open(Config{Store: StoreMemory{}, Init: value.NewSet(value.Int(3), value.Int(1), value.Int(2))})
	require.NoError(t, err)
	h1, _ := c.RootHash()

	c2, err := Open(Config{Store: StoreMemory{}, Init: value.NewSet(value.Int(1), value.Int(2), value.Int(3))})
	require.NoError(t, err)
	h2, _ := c2.RootHash()

	assert.Equal(t, h1, h2)

	n, err := c.Deref(ctx)
	require.NoError(t, err)
	assert.Equal(t, value.SetKind, n.Kind())
}

func TestLRUCacheConfiguredOnCell(t *testing.T) {
	c, err := Open(Config{Store: StoreMemory{}, Cache: CacheLRU{Capacity: 16}})
	require.NoError(t, err)
	_, ok := c.Cache().(interface{ Len() int })
	assert.True(t, ok)
}

func TestTTLCacheConfiguredOnCell(t *testing.T) {
	c, err := Open(Config{Store: StoreMemory{}, Cache: CacheTTL{TTL: time.Minute}})
	require.NoError(t, err)
	_, ok := c.Cache().(interface{ Len() int })
	assert.True(t, ok)
}
