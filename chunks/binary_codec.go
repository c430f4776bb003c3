// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package chunks

import (
	"encoding/binary"
	"fmt"

	"github.com/atomdb/atomdb/hash"
	"github.com/atomdb/atomdb/value"
)

// binary tag bytes, stable across versions - reordering these would
// change every existing chunk's hash.
const (
	binTagMap byte = iota
	binTagVector
	binTagList
	binTagSet
	binTagKeyword
	binTagSymbol
	binTagString
	binTagUUID
	binTagDate
	binTagBigDec
	binTagRatio
	binTagBool
	binTagLeaf
)

var tagToByte = map[Tag]byte{
	TagMap:     binTagMap,
	TagVector:  binTagVector,
	TagList:    binTagList,
	TagSet:     binTagSet,
	TagKeyword: binTagKeyword,
	TagSymbol:  binTagSymbol,
	TagString:  binTagString,
	TagUUID:    binTagUUID,
	TagDate:    binTagDate,
	TagBigDec:  binTagBigDec,
	TagRatio:   binTagRatio,
	TagBool:    binTagBool,
	TagLeaf:    binTagLeaf,
}

var byteToTag = func() map[byte]Tag {
	m := make(map[byte]Tag, len(tagToByte))
	for t, b := range tagToByte {
		m[b] = t
	}
	return m
}()

// BinaryCodec is the compact, length-prefixed, typed codec of spec
// §4.2, grounded on the teacher's typed binary value encoder
// (go/store/types/codec_test.go's typedBinaryNomsWriter/valueDecoder
// shape: a type-tag byte followed by a kind-specific payload, varint
// lengths for strings and collections).
type BinaryCodec struct{}

var _ Codec = BinaryCodec{}

type binWriter struct {
	buf []byte
}

func (w *binWriter) writeByte(b byte) { w.buf = append(w.buf, b) }

func (w *binWriter) writeUvarint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf = append(w.buf, tmp[:n]...)
}

func (w *binWriter) writeBytes(bs []byte) {
	w.writeUvarint(uint64(len(bs)))
	w.buf = append(w.buf, bs...)
}

func (w *binWriter) writeString(s string) { w.writeBytes([]byte(s)) }

func (w *binWriter) writeHash(h hash.Hash) { w.buf = append(w.buf, h[:]...) }

func (BinaryCodec) Serialize(r *Record) ([]byte, error) {
	tb, ok := tagToByte[r.Tag]
	if !ok {
		return nil, &CodecError{Err: fmt.Errorf("binary codec: unknown tag %q", r.Tag)}
	}
	w := &binWriter{}
	w.writeByte(tb)
	switch r.Tag {
	case TagMap:
		w.writeUvarint(uint64(len(r.MapChildren)))
		for _, c := range r.MapChildren {
			w.writeBytes(c.Key.CanonicalBytes())
			w.writeHash(c.Hash)
		}
	case TagVector, TagList, TagSet:
		w.writeUvarint(uint64(len(r.SeqChildren)))
		for _, h := range r.SeqChildren {
			w.writeHash(h)
		}
	case TagKeyword:
		w.writeString(r.NS)
		w.writeString(r.Name)
	case TagSymbol, TagString:
		w.writeString(r.Name)
	case TagUUID, TagDate, TagBigDec, TagRatio:
		w.writeString(r.Text)
	case TagBool:
		v := byte(0)
		if r.Bool {
			v = 1
		}
		w.writeByte(v)
	case TagLeaf:
		w.writeBytes(r.Leaf.CanonicalBytes())
	}
	return w.buf, nil
}

type binReader struct {
	bs  []byte
	off int
}

func (r *binReader) errf(format string, args ...interface{}) error {
	return &CodecError{Err: fmt.Errorf("binary codec: "+format, args...)}
}

func (r *binReader) readByte() (byte, error) {
	if r.off >= len(r.bs) {
		return 0, r.errf("unexpected end of input")
	}
	b := r.bs[r.off]
	r.off++
	return b, nil
}

func (r *binReader) readUvarint() (uint64, error) {
	v, n := binary.Uvarint(r.bs[r.off:])
	if n <= 0 {
		return 0, r.errf("invalid varint")
	}
	r.off += n
	return v, nil
}

func (r *binReader) readBytes() ([]byte, error) {
	l, err := r.readUvarint()
	if err != nil {
		return nil, err
	}
	if uint64(len(r.bs)-r.off) < l {
		return nil, r.errf("truncated bytes field")
	}
	out := r.bs[r.off : r.off+int(l)]
	r.off += int(l)
	return out, nil
}

func (r *binReader) readString() (string, error) {
	bs, err := r.readBytes()
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

func (r *binReader) readHash() (hash.Hash, error) {
	if len(r.bs)-r.off < hash.ByteLen {
		return hash.Hash{}, r.errf("truncated hash field")
	}
	var h hash.Hash
	copy(h[:], r.bs[r.off:r.off+hash.ByteLen])
	r.off += hash.ByteLen
	return h, nil
}

func (BinaryCodec) Deserialize(bs []byte) (*Record, error) {
	r := &binReader{bs: bs}
	tb, err := r.readByte()
	if err != nil {
		return nil, err
	}
	tag, ok := byteToTag[tb]
	if !ok {
		return nil, r.errf("unknown tag byte %d", tb)
	}
	rec := &Record{Tag: tag}
	switch tag {
	case TagMap:
		n, err := r.readUvarint()
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < n; i++ {
			kBytes, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			k, _, err := value.Decode(kBytes)
			if err != nil {
				return nil, &CodecError{Err: err}
			}
			h, err := r.readHash()
			if err != nil {
				return nil, err
			}
			rec.MapChildren = append(rec.MapChildren, ChildRef{Key: k, Hash: h})
		}
	case TagVector, TagList, TagSet:
		n, err := r.readUvarint()
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < n; i++ {
			h, err := r.readHash()
			if err != nil {
				return nil, err
			}
			rec.SeqChildren = append(rec.SeqChildren, h)
		}
	case TagKeyword:
		ns, err := r.readString()
		if err != nil {
			return nil, err
		}
		name, err := r.readString()
		if err != nil {
			return nil, err
		}
		rec.NS, rec.Name = ns, name
	case TagSymbol, TagString:
		name, err := r.readString()
		if err != nil {
			return nil, err
		}
		rec.Name = name
	case TagUUID, TagDate, TagBigDec, TagRatio:
		text, err := r.readString()
		if err != nil {
			return nil, err
		}
		rec.Text = text
	case TagBool:
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		rec.Bool = b != 0
	case TagLeaf:
		bs, err := r.readBytes()
		if err != nil {
			return nil, err
		}
		v, _, err := value.Decode(bs)
		if err != nil {
			return nil, &CodecError{Err: err}
		}
		rec.Leaf = v
	}
	return rec, nil
}
