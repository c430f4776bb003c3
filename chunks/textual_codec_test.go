// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package chunks

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomdb/atomdb/hash"
	"github.com/atomdb/atomdb/value"
)

func roundTrip(t *testing.T, c Codec, r *Record) *Record {
	t.Helper()
	bs, err := c.Serialize(r)
	require.NoError(t, err)
	got, err := c.Deserialize(bs)
	require.NoError(t, err)
	return got
}

func TestTextualCodecLeafScalars(t *testing.T) {
	c := TextualCodec{}

	cases := []*Record{
		{Tag: TagLeaf, Leaf: value.Null{}},
		{Tag: TagLeaf, Leaf: value.Int(-42)},
		{Tag: TagLeaf, Leaf: value.Float(3.5)},
		{Tag: TagBool, Bool: true},
		{Tag: TagBool, Bool: false},
		{Tag: TagSymbol, Name: "foo-bar?"},
		{Tag: TagString, Name: "hello, \"world\"\n"},
		{Tag: TagKeyword, NS: "ns.sub", Name: "kw"},
		{Tag: TagKeyword, NS: "", Name: "kw"},
		{Tag: TagUUID, Text: uuid.New().String()},
		{Tag: TagDate, Text: "2024-01-02T03:04:05.000000006Z"},
		{Tag: TagBigDec, Text: "1.50"},
		{Tag: TagRatio, Text: "1/2"},
	}
	for _, want := range cases {
		got := roundTrip(t, c, want)
		assert.Equal(t, want, got)
	}
}

func TestTextualCodecMap(t *testing.T) {
	c := TextualCodec{}
	h1 := hash.Of([]byte("a"))
	h2 := hash.Of([]byte("b"))
	r := &Record{
		Tag: TagMap,
		MapChildren: []ChildRef{
			{Key: value.String("a"), Hash: h1},
			{Key: value.Int(7), Hash: h2},
		},
	}
	got := roundTrip(t, c, r)
	assert.Equal(t, r, got)
}

func TestTextualCodecSequence(t *testing.T) {
	c := TextualCodec{}
	h1 := hash.Of([]byte("x"))
	h2 := hash.Of([]byte("y"))
	for _, tag := range []Tag{TagVector, TagList, TagSet} {
		r := &Record{Tag: tag, SeqChildren: []hash.Hash{h1, h2}}
		got := roundTrip(t, c, r)
		assert.Equal(t, r, got)
	}
}

func TestTextualCodecNestedLeafCollections(t *testing.T) {
	c := TextualCodec{}
	m := value.NewMap(
		value.MapEntry{Key: value.String("k"), Val: value.Int(1)},
		value.MapEntry{Key: value.Keyword{Name: "other"}, Val: value.NewVector(value.Int(1), value.Int(2))},
	)
	r := &Record{Tag: TagLeaf, Leaf: m}
	got := roundTrip(t, c, r)
	assert.True(t, m.Equals(got.Leaf))
}

func TestTextualCodecDeserializeMalformed(t *testing.T) {
	c := TextualCodec{}
	_, err := c.Deserialize([]byte("not-a-record"))
	assert.Error(t, err)

	_, err = c.Deserialize([]byte("bogus(true)"))
	assert.Error(t, err)
}
