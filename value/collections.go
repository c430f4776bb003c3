// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package value

import (
	"encoding/binary"
	"sort"
)

// writeBlock appends a 4-byte big-endian length prefix followed by bs,
// so concatenated canonical blocks can't be confused with each other
// (e.g. a 2-element collection of 1-byte values vs a 1-element
// collection of a 2-byte value).
func writeBlock(buf []byte, bs []byte) []byte {
	var lenBs [4]byte
	binary.BigEndian.PutUint32(lenBs[:], uint32(len(bs)))
	buf = append(buf, lenBs[:]...)
	return append(buf, bs...)
}

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key Value
	Val Value
}

// Map is an in-memory, fully materialized mapping from Value to Value
// with unique keys (spec §3). Entry order carries no meaning for
// equality; canonical order is computed on demand for iteration,
// persistence, and hashing.
type Map struct {
	Entries []MapEntry
}

// NewMap builds a Map from entries, which must have distinct keys.
func NewMap(entries ...MapEntry) Map {
	return Map{Entries: entries}
}

func (m Map) Kind() Kind { return MapKind }

func (m Map) get(k Value) (Value, bool) {
	for _, e := range m.Entries {
		if e.Key.Equals(k) {
			return e.Val, true
		}
	}
	return nil, false
}

func (m Map) Equals(other Value) bool {
	o, ok := other.(Map)
	if !ok || len(m.Entries) != len(o.Entries) {
		return false
	}
	for _, e := range m.Entries {
		ov, ok := o.get(e.Key)
		if !ok || !e.Val.Equals(ov) {
			return false
		}
	}
	return true
}

// Canonical returns m's entries sorted by canonical key order (spec
// §4.6, §4.8: "keys are returned in the codec's canonical order").
func (m Map) Canonical() []MapEntry {
	out := make([]MapEntry, len(m.Entries))
	copy(out, m.Entries)
	sort.Slice(out, func(i, j int) bool { return Compare(out[i].Key, out[j].Key) < 0 })
	return out
}

func (m Map) Less(other Value) bool {
	o, ok := other.(Map)
	if !ok {
		return false
	}
	a, b := m.Canonical(), o.Canonical()
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i].Key, b[i].Key); c != 0 {
			return c < 0
		}
		if c := Compare(a[i].Val, b[i].Val); c != 0 {
			return c < 0
		}
	}
	return len(a) < len(b)
}

func (m Map) CanonicalBytes() []byte {
	buf := tagByte(MapKind)
	for _, e := range m.Canonical() {
		buf = writeBlock(buf, e.Key.CanonicalBytes())
		buf = writeBlock(buf, e.Val.CanonicalBytes())
	}
	return buf
}

// Vector is an ordered, random-access sequence of Value.
type Vector struct {
	Items []Value
}

func NewVector(items ...Value) Vector { return Vector{Items: items} }

func (v Vector) Kind() Kind { return VectorKind }

func (v Vector) Equals(other Value) bool {
	o, ok := other.(Vector)
	if !ok || len(v.Items) != len(o.Items) {
		return false
	}
	for i := range v.Items {
		if !v.Items[i].Equals(o.Items[i]) {
			return false
		}
	}
	return true
}

func (v Vector) Less(other Value) bool {
	o, ok := other.(Vector)
	if !ok {
		return false
	}
	for i := 0; i < len(v.Items) && i < len(o.Items); i++ {
		if c := Compare(v.Items[i], o.Items[i]); c != 0 {
			return c < 0
		}
	}
	return len(v.Items) < len(o.Items)
}

func (v Vector) CanonicalBytes() []byte {
	buf := tagByte(VectorKind)
	for _, it := range v.Items {
		buf = writeBlock(buf, it.CanonicalBytes())
	}
	return buf
}

// List is an ordered sequence of Value intended for front-extension
// (cons); structurally identical to Vector but a distinct Kind.
type List struct {
	Items []Value
}

func NewList(items ...Value) List { return List{Items: items} }

func (l List) Kind() Kind { return ListKind }

func (l List) Equals(other Value) bool {
	o, ok := other.(List)
	if !ok || len(l.Items) != len(o.Items) {
		return false
	}
	for i := range l.Items {
		if !l.Items[i].Equals(o.Items[i]) {
			return false
		}
	}
	return true
}

func (l List) Less(other Value) bool {
	o, ok := other.(List)
	if !ok {
		return false
	}
	for i := 0; i < len(l.Items) && i < len(o.Items); i++ {
		if c := Compare(l.Items[i], o.Items[i]); c != 0 {
			return c < 0
		}
	}
	return len(l.Items) < len(o.Items)
}

func (l List) CanonicalBytes() []byte {
	buf := tagByte(ListKind)
	for _, it := range l.Items {
		buf = writeBlock(buf, it.CanonicalBytes())
	}
	return buf
}

// Set is an unordered collection of unique Value (spec §3). Equality
// and canonical order ignore insertion order.
type Set struct {
	Items []Value
}

// NewSet builds a Set, deduplicating items by value equality.
func NewSet(items ...Value) Set {
	out := make([]Value, 0, len(items))
	for _, it := range items {
		dup := false
		for _, o := range out {
			if it.Equals(o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	return Set{Items: out}
}

func (s Set) Kind() Kind { return SetKind }

func (s Set) has(v Value) bool {
	for _, it := range s.Items {
		if it.Equals(v) {
			return true
		}
	}
	return false
}

func (s Set) Equals(other Value) bool {
	o, ok := other.(Set)
	if !ok || len(s.Items) != len(o.Items) {
		return false
	}
	for _, it := range s.Items {
		if !o.has(it) {
			return false
		}
	}
	return true
}

// Canonical returns s's members sorted by a stable order of their
// canonical forms, so equal sets compare and hash identically
// regardless of insertion order (spec §4.6).
func (s Set) Canonical() []Value {
	out := make([]Value, len(s.Items))
	copy(out, s.Items)
	sort.Slice(out, func(i, j int) bool { return Compare(out[i], out[j]) < 0 })
	return out
}

func (s Set) Less(other Value) bool {
	o, ok := other.(Set)
	if !ok {
		return false
	}
	a, b := s.Canonical(), o.Canonical()
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c < 0
		}
	}
	return len(a) < len(b)
}

func (s Set) CanonicalBytes() []byte {
	buf := tagByte(SetKind)
	for _, it := range s.Canonical() {
		buf = writeBlock(buf, it.CanonicalBytes())
	}
	return buf
}
