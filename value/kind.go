// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package value defines AtomDB's tagged value variant: the closed set
// of scalar and collection kinds every persisted value belongs to
// (spec §3, §4.5).
package value

// Kind classifies a Value into one of the kinds the store understands.
// Dispatch on Kind chooses the persistence and reification path for a
// value; adding a new kind requires a new Kind constant, a new Value
// implementation, and new arms in the persist/load packages.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	BigDecimalKind
	RatioKind
	StringKind
	SymbolKind
	KeywordKind
	UUIDKind
	TimestampKind
	MapKind
	VectorKind
	ListKind
	SetKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case BigDecimalKind:
		return "bigdec"
	case RatioKind:
		return "ratio"
	case StringKind:
		return "string"
	case SymbolKind:
		return "symbol"
	case KeywordKind:
		return "keyword"
	case UUIDKind:
		return "uuid"
	case TimestampKind:
		return "date"
	case MapKind:
		return "map"
	case VectorKind:
		return "vector"
	case ListKind:
		return "list"
	case SetKind:
		return "set"
	default:
		return "unknown"
	}
}

// IsCollection reports whether k is one of the four collection kinds.
func (k Kind) IsCollection() bool {
	return k == MapKind || k == VectorKind || k == ListKind || k == SetKind
}
