// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package chunks defines the ChunkRecord schema (spec §3), the Codec
// contract for (de)serializing a record to bytes (spec §4.2), and the
// ChunkStore contract with its memory and filesystem backends
// (spec §4.3).
package chunks

import (
	"github.com/atomdb/atomdb/hash"
	"github.com/atomdb/atomdb/value"
)

// Tag names the shape of a Record, mirroring the wire tags of spec §3.
type Tag string

const (
	TagMap     Tag = "map"
	TagVector  Tag = "vector"
	TagList    Tag = "list"
	TagSet     Tag = "set"
	TagKeyword Tag = "keyword"
	TagSymbol  Tag = "symbol"
	TagString  Tag = "string"
	TagUUID    Tag = "uuid"
	TagDate    Tag = "date"
	TagBigDec  Tag = "bigdec"
	TagRatio   Tag = "ratio"
	TagBool    Tag = "bool"
	TagLeaf    Tag = "leaf"
)

// ChildRef is one entry of a map node's child table: the original key
// value (retained, not hashed, so containment checks don't require a
// chunk load - spec §4.6) paired with the hash of the persisted child.
type ChildRef struct {
	Key  value.Value
	Hash hash.Hash
}

// Record is the tagged node written to a ChunkStore. Exactly the
// fields relevant to Tag are populated; see spec §3's shape table.
type Record struct {
	Tag Tag

	// TagKeyword
	NS   string
	Name string

	// TagSymbol / TagString: Name holds the textual value.

	// TagUUID / TagDate / TagBigDec / TagRatio: Text holds the
	// canonical textual value.
	Text string

	// TagBool
	Bool bool

	// TagLeaf: any scalar not covered by a dedicated tag (int, float,
	// null).
	Leaf value.Value

	// TagMap
	MapChildren []ChildRef

	// TagVector / TagList / TagSet: ordered child hashes. For TagSet
	// the order is the stable sort of the elements' canonical forms
	// established at persistence time (spec §4.6), not insertion
	// order.
	SeqChildren []hash.Hash
}

// IsCollection reports whether r is a map/vector/list/set node, i.e.
// has children instead of an inline scalar payload.
func (r *Record) IsCollection() bool {
	switch r.Tag {
	case TagMap, TagVector, TagList, TagSet:
		return true
	default:
		return false
	}
}
