// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/atomdb/atomdb/hash"
)

// LRU is a fixed-capacity, least-recently-used chunk cache, grounded on
// the teacher's own use of hashicorp/golang-lru/v2 as a hash-keyed
// bucket cache (go/libraries/doltcore/sqle/statspro's stats cache).
type LRU struct {
	inner *lru.Cache[hash.Hash, []byte]
}

var _ Cache = (*LRU)(nil)

// NewLRU returns an LRU cache holding at most capacity chunks. capacity
// must be positive.
func NewLRU(capacity int) (*LRU, error) {
	c, err := lru.New[hash.Hash, []byte](capacity)
	if err != nil {
		return nil, err
	}
	return &LRU{inner: c}, nil
}

func (c *LRU) Get(h hash.Hash) ([]byte, bool) {
	bs, ok := c.inner.Get(h)
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(bs))
	copy(cp, bs)
	return cp, true
}

func (c *LRU) Put(h hash.Hash, bs []byte) {
	cp := make([]byte, len(bs))
	copy(cp, bs)
	c.inner.Add(h, cp)
}

// Len reports the number of chunks currently cached.
func (c *LRU) Len() int { return c.inner.Len() }
