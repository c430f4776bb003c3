// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package value

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Decode is the inverse of CanonicalBytes: it reads one encoded Value
// from the front of bs and returns it along with the number of bytes
// consumed. It is used by chunks.Codec implementations to embed map
// keys directly in a node chunk's bytes (spec §4.6: keys are retained
// as values, not hash references). Because BigDecimal and Ratio
// canonicalize their textual form, decoding a key recovers the
// canonical (not necessarily original) textual representation -
// exactly the behavior required so that two differently-formatted but
// equal keys collide to a single map entry.
func Decode(bs []byte) (Value, int, error) {
	if len(bs) < 1 {
		return nil, 0, fmt.Errorf("atomdb: empty value encoding")
	}
	kind := Kind(bs[0])
	rest := bs[1:]
	switch kind {
	case NullKind:
		return Null{}, 1, nil
	case BoolKind:
		if len(rest) < 1 {
			return nil, 0, fmt.Errorf("atomdb: truncated bool encoding")
		}
		return Bool(rest[0] != 0), 2, nil
	case IntKind:
		if len(rest) < 8 {
			return nil, 0, fmt.Errorf("atomdb: truncated int encoding")
		}
		var u uint64
		for i := 0; i < 8; i++ {
			u = (u << 8) | uint64(rest[i])
		}
		return Int(int64(u ^ (1 << 63))), 9, nil
	case FloatKind:
		f, n, err := readUntilNoMoreDigits(rest)
		if err != nil {
			return nil, 0, err
		}
		return f, 1 + n, nil
	case BigDecimalKind:
		s, n := readRestAsString(rest)
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, 0, err
		}
		return BigDecimal{Dec: d}, 1 + n, nil
	case RatioKind:
		s, n := readRestAsString(rest)
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return nil, 0, fmt.Errorf("atomdb: invalid ratio encoding %q", s)
		}
		return Ratio{R: r}, 1 + n, nil
	case StringKind:
		s, n := readRestAsString(rest)
		return String(s), 1 + n, nil
	case SymbolKind:
		s, n := readRestAsString(rest)
		return Symbol(s), 1 + n, nil
	case KeywordKind:
		s, n := readRestAsString(rest)
		ns, name := splitKeyword(s)
		return Keyword{NS: ns, Name: name}, 1 + n, nil
	case UUIDKind:
		if len(rest) < 16 {
			return nil, 0, fmt.Errorf("atomdb: truncated uuid encoding")
		}
		var u uuid.UUID
		copy(u[:], rest[:16])
		return UUID{U: u}, 1 + 16, nil
	case TimestampKind:
		s, n := readRestAsString(rest)
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, 0, err
		}
		return Timestamp{T: t.UTC()}, 1 + n, nil
	case MapKind:
		entries, n, err := decodeBlocks2(rest)
		if err != nil {
			return nil, 0, err
		}
		out := make([]MapEntry, len(entries))
		for i, pair := range entries {
			out[i] = MapEntry{Key: pair[0], Val: pair[1]}
		}
		return NewMap(out...), 1 + n, nil
	case VectorKind:
		items, n, err := decodeBlocks1(rest)
		if err != nil {
			return nil, 0, err
		}
		return NewVector(items...), 1 + n, nil
	case ListKind:
		items, n, err := decodeBlocks1(rest)
		if err != nil {
			return nil, 0, err
		}
		return NewList(items...), 1 + n, nil
	case SetKind:
		items, n, err := decodeBlocks1(rest)
		if err != nil {
			return nil, 0, err
		}
		return NewSet(items...), 1 + n, nil
	default:
		return nil, 0, fmt.Errorf("atomdb: unknown value kind tag %d", kind)
	}
}

// readUntilNoMoreDigits re-parses the %g form Float.CanonicalBytes
// produces. CanonicalBytes pads to a minimum width of 24 so small
// floats sort consistently, but large-magnitude values run longer than
// that, so the encoding isn't fixed-width: every caller hands Decode an
// exact-length slice (readBytes/readBlock already strip any length
// prefix), so the float text is simply whatever remains of rest.
func readUntilNoMoreDigits(rest []byte) (Float, int, error) {
	if len(rest) == 0 {
		return 0, 0, fmt.Errorf("atomdb: truncated float encoding")
	}
	var f float64
	if _, err := fmt.Sscanf(string(rest), "%g", &f); err != nil {
		return 0, 0, err
	}
	return Float(f), len(rest), nil
}

func readRestAsString(rest []byte) (string, int) {
	return string(rest), len(rest)
}

func splitKeyword(s string) (ns, name string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return s[:i], s[i+1:]
		}
	}
	return "", s
}

func readBlock(bs []byte) ([]byte, int, error) {
	if len(bs) < 4 {
		return nil, 0, fmt.Errorf("atomdb: truncated length prefix")
	}
	l := binary.BigEndian.Uint32(bs[:4])
	if uint32(len(bs)-4) < l {
		return nil, 0, fmt.Errorf("atomdb: truncated block")
	}
	return bs[4 : 4+l], 4 + int(l), nil
}

func decodeBlocks1(bs []byte) ([]Value, int, error) {
	var items []Value
	off := 0
	for off < len(bs) {
		block, n, err := readBlock(bs[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n
		v, _, err := Decode(block)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, off, nil
}

func decodeBlocks2(bs []byte) ([][2]Value, int, error) {
	var pairs [][2]Value
	off := 0
	for off < len(bs) {
		kBlock, n, err := readBlock(bs[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n
		vBlock, n, err := readBlock(bs[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n
		k, _, err := Decode(kBlock)
		if err != nil {
			return nil, 0, err
		}
		v, _, err := Decode(vBlock)
		if err != nil {
			return nil, 0, err
		}
		pairs = append(pairs, [2]Value{k, v})
	}
	return pairs, off, nil
}
