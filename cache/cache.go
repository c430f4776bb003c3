// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package cache implements the pluggable chunk caches of spec §4.4: an
// LRU cache backed by hashicorp/golang-lru, a time-based TTL cache, and
// a no-op cache. A Cache sits in front of a chunks.Store and is always
// a pure performance layer - a cache miss is never an error, and an
// absent cache must behave identically to a present-but-empty one.
package cache

import "github.com/atomdb/atomdb/hash"

// Cache is a chunk-level read cache keyed by content hash. Get reports
// presence through its boolean return, mirroring chunks.Store.Get.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(h hash.Hash) (bs []byte, ok bool)
	Put(h hash.Hash, bs []byte)
}
