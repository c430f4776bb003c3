// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package cell implements the root cell of spec §4.9 and §6: a
// mutable "current root hash" behind a compare-and-swap primitive,
// fronting a chunks.Store/cache.Cache/chunks.Codec trio selected by
// Config. Grounded on the teacher's go/store/datas Database/Dataset
// CAS-over-a-ref pattern, simplified to a single atomic root per cell
// with no dataset addressing or commit log.
package cell

import (
	"context"
	"fmt"

	"github.com/atomdb/atomdb/cache"
	"github.com/atomdb/atomdb/chunks"
	"github.com/atomdb/atomdb/persist"
)

// Open builds a Cell per cfg: selects the backend, cache, and codec,
// and, if cfg.Init is set, persists it and makes it the initial root.
func Open(cfg Config) (*Cell, error) {
	store, err := buildStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	c := buildCache(cfg.Cache)
	codec, err := buildCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}

	cl := &Cell{
		store: store,
		cache: c,
		codec: codec,
	}

	if cfg.Init != nil {
		h, err := cl.persister().Persist(context.Background(), cfg.Init)
		if err != nil {
			return nil, err
		}
		cl.root.Store(&h)
	}
	return cl, nil
}

func buildStore(v StoreVariant) (chunks.Store, error) {
	switch t := v.(type) {
	case nil, StoreMemory:
		return chunks.NewMemoryStore(), nil
	case StoreFilesystem:
		return chunks.NewFileStore(t.Path)
	default:
		return nil, fmt.Errorf("cell: unknown store variant %T", v)
	}
}

func buildCache(v CacheVariant) cache.Cache {
	switch t := v.(type) {
	case CacheLRU:
		c, err := cache.NewLRU(t.Capacity)
		if err != nil {
			return cache.NoOp{}
		}
		return c
	case CacheTTL:
		return cache.NewTTL(t.TTL)
	default:
		return cache.NoOp{}
	}
}

func buildCodec(v CodecVariant) (chunks.Codec, error) {
	switch v.(type) {
	case nil, CodecTextual:
		return chunks.TextualCodec{}, nil
	case CodecBinary:
		return chunks.BinaryCodec{}, nil
	default:
		return nil, fmt.Errorf("cell: unknown codec variant %T", v)
	}
}

func (c *Cell) persister() *persist.Persister { return persist.New(c.store, c.codec) }
