// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package persist decomposes a value.Value into a tree of chunks.Record
// nodes and writes them to a chunks.Store bottom-up (spec §4.1, §4.6):
// children are always persisted, and their hashes known, before their
// parent is serialized, so every hash a Record embeds already names a
// chunk that exists in the store.
package persist

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/atomdb/atomdb/chunks"
	"github.com/atomdb/atomdb/d"
	"github.com/atomdb/atomdb/hash"
	"github.com/atomdb/atomdb/value"
)

// Persister writes values to a chunks.Store using a chunks.Codec,
// returning the hash of the root chunk.
type Persister struct {
	Store chunks.Store
	Codec chunks.Codec
}

// New returns a Persister over store using codec.
func New(store chunks.Store, codec chunks.Codec) *Persister {
	return &Persister{Store: store, Codec: codec}
}

// Persist recursively decomposes v into Records, writes every node to
// the store (children first), and returns the root's hash. Put is
// idempotent, so persisting a value that shares structure with an
// already-persisted one reuses the existing chunks instead of
// duplicating them (spec's structural sharing property).
func (p *Persister) Persist(ctx context.Context, v value.Value) (hash.Hash, error) {
	r, err := p.toRecord(ctx, v)
	if err != nil {
		return hash.Hash{}, err
	}
	return p.writeRecord(ctx, r)
}

func (p *Persister) writeRecord(ctx context.Context, r *chunks.Record) (hash.Hash, error) {
	bs, err := p.Codec.Serialize(r)
	if err != nil {
		return hash.Hash{}, err
	}
	h, err := p.Store.Put(ctx, bs)
	if err != nil {
		return hash.Hash{}, errors.Wrap(err, "persist: writing chunk")
	}
	return h, nil
}

func (p *Persister) toRecord(ctx context.Context, v value.Value) (*chunks.Record, error) {
	switch t := v.(type) {
	case value.Null, value.Int, value.Float:
		return &chunks.Record{Tag: chunks.TagLeaf, Leaf: v}, nil
	case value.Bool:
		return &chunks.Record{Tag: chunks.TagBool, Bool: bool(t)}, nil
	case value.Symbol:
		return &chunks.Record{Tag: chunks.TagSymbol, Name: string(t)}, nil
	case value.String:
		return &chunks.Record{Tag: chunks.TagString, Name: string(t)}, nil
	case value.Keyword:
		return &chunks.Record{Tag: chunks.TagKeyword, NS: t.NS, Name: t.Name}, nil
	case value.UUID:
		return &chunks.Record{Tag: chunks.TagUUID, Text: t.U.String()}, nil
	case value.Timestamp:
		return &chunks.Record{Tag: chunks.TagDate, Text: t.T.UTC().Format(time.RFC3339Nano)}, nil
	case value.BigDecimal:
		return &chunks.Record{Tag: chunks.TagBigDec, Text: t.Dec.String()}, nil
	case value.Ratio:
		return &chunks.Record{Tag: chunks.TagRatio, Text: t.String()}, nil
	case value.Map:
		return p.persistMap(ctx, t)
	case value.Vector:
		return p.persistSeq(ctx, chunks.TagVector, t.Items)
	case value.List:
		return p.persistSeq(ctx, chunks.TagList, t.Items)
	case value.Set:
		return p.persistSeq(ctx, chunks.TagSet, t.Canonical())
	default:
		d.Unreachable("persist: unhandled value kind %v", v.Kind())
		panic("unreachable")
	}
}

func (p *Persister) persistMap(ctx context.Context, m value.Map) (*chunks.Record, error) {
	canon := m.Canonical()
	children := make([]chunks.ChildRef, len(canon))
	for i, e := range canon {
		childRec, err := p.toRecord(ctx, e.Val)
		if err != nil {
			return nil, err
		}
		h, err := p.writeRecord(ctx, childRec)
		if err != nil {
			return nil, err
		}
		children[i] = chunks.ChildRef{Key: e.Key, Hash: h}
	}
	return &chunks.Record{Tag: chunks.TagMap, MapChildren: children}, nil
}

func (p *Persister) persistSeq(ctx context.Context, tag chunks.Tag, items []value.Value) (*chunks.Record, error) {
	hashes := make([]hash.Hash, len(items))
	for i, it := range items {
		childRec, err := p.toRecord(ctx, it)
		if err != nil {
			return nil, err
		}
		h, err := p.writeRecord(ctx, childRec)
		if err != nil {
			return nil, err
		}
		hashes[i] = h
	}
	return &chunks.Record{Tag: tag, SeqChildren: hashes}, nil
}
