// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package load reconstructs a value.Value from its root chunk hash,
// recursively resolving every child reference (spec §4.1). Loading is
// strict: any hash referenced by a Record that the store can't produce
// is a fatal chunks.ChunkMissingError, not a partial result.
package load

import (
	"context"

	"github.com/atomdb/atomdb/chunks"
	"github.com/atomdb/atomdb/d"
	"github.com/atomdb/atomdb/hash"
	"github.com/atomdb/atomdb/value"
)

// Loader reconstructs values from a chunks.Store using a chunks.Codec.
type Loader struct {
	Store chunks.Store
	Codec chunks.Codec
}

// New returns a Loader over store using codec.
func New(store chunks.Store, codec chunks.Codec) *Loader {
	return &Loader{Store: store, Codec: codec}
}

// Load fully materializes the value rooted at h, recursively loading
// every child chunk.
func (l *Loader) Load(ctx context.Context, h hash.Hash) (value.Value, error) {
	r, err := l.readRecord(ctx, h)
	if err != nil {
		return nil, err
	}
	return l.fromRecord(ctx, r)
}

func (l *Loader) readRecord(ctx context.Context, h hash.Hash) (*chunks.Record, error) {
	bs, ok, err := l.Store.Get(ctx, h)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &chunks.ChunkMissingError{Hash: h}
	}
	return l.Codec.Deserialize(bs)
}

func (l *Loader) fromRecord(ctx context.Context, r *chunks.Record) (value.Value, error) {
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
		u, err := value.ParseUUIDText(r.Text)
		if err != nil {
			return nil, err
		}
		return u, nil
	case chunks.TagDate:
		return value.ParseTimestampText(r.Text)
	case chunks.TagBigDec:
		return value.NewBigDecimal(r.Text)
	case chunks.TagRatio:
		return value.ParseRatio(r.Text)
	case chunks.TagMap:
		return l.loadMap(ctx, r)
	case chunks.TagVector:
		items, err := l.loadSeq(ctx, r.SeqChildren)
		if err != nil {
			return nil, err
		}
		return value.NewVector(items...), nil
	case chunks.TagList:
		items, err := l.loadSeq(ctx, r.SeqChildren)
		if err != nil {
			return nil, err
		}
		return value.NewList(items...), nil
	case chunks.TagSet:
		items, err := l.loadSeq(ctx, r.SeqChildren)
		if err != nil {
			return nil, err
		}
		return value.NewSet(items...), nil
	default:
		d.Unreachable("load: unknown record tag %q", r.Tag)
		panic("unreachable")
	}
}

func (l *Loader) loadMap(ctx context.Context, r *chunks.Record) (value.Value, error) {
	entries := make([]value.MapEntry, len(r.MapChildren))
	for i, c := range r.MapChildren {
		v, err := l.Load(ctx, c.Hash)
		if err != nil {
			return nil, err
		}
		entries[i] = value.MapEntry{Key: c.Key, Val: v}
	}
	return value.NewMap(entries...), nil
}

func (l *Loader) loadSeq(ctx context.Context, hashes []hash.Hash) ([]value.Value, error) {
	items := make([]value.Value, len(hashes))
	for i, h := range hashes {
		v, err := l.Load(ctx, h)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}
