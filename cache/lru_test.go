// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomdb/atomdb/hash"
)

func TestLRUPutGet(t *testing.T) {
	c, err := NewLRU(2)
	require.NoError(t, err)

	h := hash.Of([]byte("a"))
	c.Put(h, []byte("a-bytes"))
	bs, ok := c.Get(h)
	assert.True(t, ok)
	assert.Equal(t, []byte("a-bytes"), bs)
}

func TestLRUMissOnAbsent(t *testing.T) {
	c, err := NewLRU(2)
	require.NoError(t, err)
	bs, ok := c.Get(hash.Of([]byte("never put")))
	assert.False(t, ok)
	assert.Nil(t, bs)
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewLRU(2)
	require.NoError(t, err)

	ha := hash.Of([]byte("a"))
	hb := hash.Of([]byte("b"))
	hc := hash.Of([]byte("c"))

	c.Put(ha, []byte("a"))
	c.Put(hb, []byte("b"))
	// touch a so b becomes least-recently-used
	c.Get(ha)
	c.Put(hc, []byte("c"))

	_, ok := c.Get(hb)
	assert.False(t, ok, "b should have been evicted")

	_, ok = c.Get(ha)
	assert.True(t, ok)
	_, ok = c.Get(hc)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}
