// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package value

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Value is the tagged variant every persistable value implements:
// scalars (Null, Bool, Int, Float, BigDecimal, Ratio, String, Symbol,
// Keyword, UUID, Timestamp) and collections (Map, Vector, List, Set).
//
// CanonicalBytes returns a codec-independent byte encoding of the
// value. It is what a value's structural hash is computed over (spec
// §4.8, §9), the final tiebreak of Compare, and the form in which
// chunks.BinaryCodec embeds map keys and leaf scalars in a record
// (Decode reads it back). chunks.TextualCodec does not use it.
type Value interface {
	Kind() Kind
	Equals(other Value) bool
	Less(other Value) bool
	CanonicalBytes() []byte
}

// Compare imposes a single total order across every Value kind: first
// by Kind, then by the kind's own Less, with CanonicalBytes as a final
// tiebreak so the order is always deterministic even between two
// distinct collections whose element-wise Less agrees up to a prefix.
func Compare(a, b Value) int {
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return -1
		}
		return 1
	}
	if a.Equals(b) {
		return 0
	}
	if a.Less(b) {
		return -1
	}
	if b.Less(a) {
		return 1
	}
	ab, bb := a.CanonicalBytes(), b.CanonicalBytes()
	switch {
	case string(ab) < string(bb):
		return -1
	case string(ab) > string(bb):
		return 1
	default:
		return 0
	}
}

func tagByte(k Kind) []byte { return []byte{byte(k)} }

// Null is the singleton null scalar.
type Null struct{}

func (Null) Kind() Kind { return NullKind }
func (Null) Equals(other Value) bool {
	_, ok := other.(Null)
	return ok
}
func (Null) Less(other Value) bool  { return false }
func (Null) CanonicalBytes() []byte { return tagByte(NullKind) }

// Bool is a boolean scalar.
type Bool bool

func (b Bool) Kind() Kind { return BoolKind }
func (b Bool) Equals(other Value) bool {
	o, ok := other.(Bool)
	return ok && b == o
}
func (b Bool) Less(other Value) bool {
	o, ok := other.(Bool)
	return ok && !bool(b) && bool(o)
}
func (b Bool) CanonicalBytes() []byte {
	v := byte(0)
	if b {
		v = 1
	}
	return append(tagByte(BoolKind), v)
}

// Int is a 64-bit signed integer scalar, covered by the "leaf" chunk
// tag along with Float and Null (spec §3).
type Int int64

func (i Int) Kind() Kind { return IntKind }
func (i Int) Equals(other Value) bool {
	o, ok := other.(Int)
	return ok && i == o
}
func (i Int) Less(other Value) bool {
	o, ok := other.(Int)
	return ok && i < o
}
func (i Int) CanonicalBytes() []byte {
	bs := make([]byte, 9)
	bs[0] = byte(IntKind)
	u := uint64(i) ^ (1 << 63) // order-preserving two's complement flip, unused for ordering but stable for equality
	for k := 0; k < 8; k++ {
		bs[8-k] = byte(u)
		u >>= 8
	}
	return bs
}

// Float is a 64-bit floating point scalar.
type Float float64

func (f Float) Kind() Kind { return FloatKind }
func (f Float) Equals(other Value) bool {
	o, ok := other.(Float)
	return ok && f == o
}
func (f Float) Less(other Value) bool {
	o, ok := other.(Float)
	return ok && f < o
}
func (f Float) CanonicalBytes() []byte {
	return append(tagByte(FloatKind), []byte(fmt.Sprintf("%024.17g", float64(f)))...)
}

// BigDecimal is an arbitrary-precision decimal scalar, stored
// textually on the wire (spec §3).
type BigDecimal struct {
	Dec decimal.Decimal
}

func NewBigDecimal(s string) (BigDecimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return BigDecimal{}, err
	}
	return BigDecimal{Dec: d}, nil
}

func (d BigDecimal) Kind() Kind { return BigDecimalKind }
func (d BigDecimal) Equals(other Value) bool {
	o, ok := other.(BigDecimal)
	return ok && d.Dec.Equal(o.Dec)
}
func (d BigDecimal) Less(other Value) bool {
	o, ok := other.(BigDecimal)
	return ok && d.Dec.LessThan(o.Dec)
}

// CanonicalBytes normalizes away representational differences between
// equal decimals (e.g. "1.50" and "1.5") by trimming trailing
// fractional zeros, so I3 holds for BigDecimal map keys and set
// members regardless of how the value's textual form was originally
// written.
func (d BigDecimal) CanonicalBytes() []byte {
	return append(tagByte(BigDecimalKind), []byte(canonicalDecimalString(d.Dec.String()))...)
}

func canonicalDecimalString(s string) string {
	if !strings.Contains(s, ".") {
		if s == "-0" {
			return "0"
		}
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" || s == "-0" {
		return "0"
	}
	return s
}

// Ratio is an exact rational scalar, stored textually as "n/d".
type Ratio struct {
	R *big.Rat
}

func NewRatio(num, den int64) Ratio {
	return Ratio{R: big.NewRat(num, den)}
}

// ParseRatio parses the canonical "n/d" textual form (spec §3).
func ParseRatio(s string) (Ratio, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Ratio{}, fmt.Errorf("atomdb: invalid ratio %q", s)
	}
	return Ratio{R: r}, nil
}

func (r Ratio) String() string {
	return fmt.Sprintf("%s/%s", r.R.Num().String(), r.R.Denom().String())
}

func (r Ratio) Kind() Kind { return RatioKind }
func (r Ratio) Equals(other Value) bool {
	o, ok := other.(Ratio)
	return ok && r.R.Cmp(o.R) == 0
}
func (r Ratio) Less(other Value) bool {
	o, ok := other.(Ratio)
	return ok && r.R.Cmp(o.R) < 0
}
func (r Ratio) CanonicalBytes() []byte {
	// big.Rat is always stored in lowest terms with a positive
	// denominator, so its String() form is already canonical.
	return append(tagByte(RatioKind), []byte(r.R.String())...)
}

// String is a UTF-8 text scalar.
type String string

func (s String) Kind() Kind { return StringKind }
func (s String) Equals(other Value) bool {
	o, ok := other.(String)
	return ok && s == o
}
func (s String) Less(other Value) bool {
	o, ok := other.(String)
	return ok && s < o
}
func (s String) CanonicalBytes() []byte {
	return append(tagByte(StringKind), []byte(s)...)
}

// Symbol is a textual symbol scalar, distinct from String and Keyword.
type Symbol string

func (s Symbol) Kind() Kind { return SymbolKind }
func (s Symbol) Equals(other Value) bool {
	o, ok := other.(Symbol)
	return ok && s == o
}
func (s Symbol) Less(other Value) bool {
	o, ok := other.(Symbol)
	return ok && s < o
}
func (s Symbol) CanonicalBytes() []byte {
	return append(tagByte(SymbolKind), []byte(s)...)
}

// Keyword is a namespace-qualified (optional) name scalar.
type Keyword struct {
	NS   string // empty means unqualified
	Name string
}

func (k Keyword) Kind() Kind { return KeywordKind }
func (k Keyword) Equals(other Value) bool {
	o, ok := other.(Keyword)
	return ok && k.NS == o.NS && k.Name == o.Name
}
func (k Keyword) Less(other Value) bool {
	o, ok := other.(Keyword)
	if !ok {
		return false
	}
	if k.NS != o.NS {
		return k.NS < o.NS
	}
	return k.Name < o.Name
}
func (k Keyword) CanonicalBytes() []byte {
	return append(tagByte(KeywordKind), []byte(k.NS+"/"+k.Name)...)
}

func (k Keyword) String() string {
	if k.NS == "" {
		return ":" + k.Name
	}
	return ":" + k.NS + "/" + k.Name
}

// UUID is a canonical-form UUID scalar.
type UUID struct {
	U uuid.UUID
}

func NewUUID(u uuid.UUID) UUID { return UUID{U: u} }

// ParseUUIDText parses a UUID's canonical textual form (spec §3).
func ParseUUIDText(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, err
	}
	return UUID{U: u}, nil
}

func (u UUID) Kind() Kind { return UUIDKind }
func (u UUID) Equals(other Value) bool {
	o, ok := other.(UUID)
	return ok && u.U == o.U
}
func (u UUID) Less(other Value) bool {
	o, ok := other.(UUID)
	return ok && u.U.String() < o.U.String()
}
func (u UUID) CanonicalBytes() []byte {
	return append(tagByte(UUIDKind), u.U[:]...)
}

// Timestamp is an ISO-8601 UTC instant scalar.
type Timestamp struct {
	T time.Time
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{T: t.UTC()} }

// ParseTimestampText parses a Timestamp's canonical RFC3339Nano textual
// form (spec §3).
func ParseTimestampText(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp{T: t.UTC()}, nil
}

func (t Timestamp) Kind() Kind { return TimestampKind }
func (t Timestamp) Equals(other Value) bool {
	o, ok := other.(Timestamp)
	return ok && t.T.Equal(o.T)
}
func (t Timestamp) Less(other Value) bool {
	o, ok := other.(Timestamp)
	return ok && t.T.Before(o.T)
}
func (t Timestamp) CanonicalBytes() []byte {
	return append(tagByte(TimestampKind), []byte(t.T.UTC().Format(time.RFC3339Nano))...)
}
