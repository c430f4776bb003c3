// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package cell

import (
	"time"

	"github.com/atomdb/atomdb/value"
)

// StoreVariant selects a Cell's chunk backend (spec §6).
type StoreVariant interface{ isStoreVariant() }

// StoreMemory selects the in-process MemoryStore backend.
type StoreMemory struct{}

func (StoreMemory) isStoreVariant() {}

// StoreFilesystem selects the FileStore backend rooted at Path.
type StoreFilesystem struct{ Path string }

func (StoreFilesystem) isStoreVariant() {}

// CacheVariant selects a Cell's chunk cache (spec §6).
type CacheVariant interface{ isCacheVariant() }

// CacheLRU selects a fixed-capacity LRU cache.
type CacheLRU struct{ Capacity int }

func (CacheLRU) isCacheVariant() {}

// CacheTTL selects a time-based expiring cache.
type CacheTTL struct{ TTL time.Duration }

func (CacheTTL) isCacheVariant() {}

// CacheNone selects no caching.
type CacheNone struct{}

func (CacheNone) isCacheVariant() {}

// CodecVariant selects a Cell's wire codec (spec §6).
type CodecVariant interface{ isCodecVariant() }

// CodecTextual selects the self-describing textual codec.
type CodecTextual struct{}

func (CodecTextual) isCodecVariant() {}

// CodecBinary selects the compact binary codec.
type CodecBinary struct{}

func (CodecBinary) isCodecVariant() {}

// Config describes how Open should build a Cell (spec §6): which
// backend, which cache, which codec, and an optional initial value to
// persist and set as the root before returning.
type Config struct {
	Store StoreVariant
	Cache CacheVariant
	Codec CodecVariant
	Init  value.Value // nil means the cell opens with a null root
}
