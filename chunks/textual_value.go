// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package chunks

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atomdb/atomdb/value"
)

// FormatText renders a fully materialized value.Value as the textual
// codec's self-describing notation, the form cmd/atomdb's show
// subcommand prints a dereferenced root as.
func FormatText(v value.Value) string {
	return encodeValueText(v)
}

// encodeValueText renders any value.Value as self-describing text of
// the form `<letter>(...)`, used by the textual codec both for a leaf
// scalar's payload and for a map key embedded inline in a map node
// (spec §4.2's "textual self-describing codec").
func encodeValueText(v value.Value) string {
	switch t := v.(type) {
	case value.Null:
		return "n()"
	case value.Bool:
		return fmt.Sprintf("b(%t)", bool(t))
	case value.Int:
		return fmt.Sprintf("i(%d)", int64(t))
	case value.Float:
		return fmt.Sprintf("f(%s)", strconv.FormatFloat(float64(t), 'g', 17, 64))
	case value.BigDecimal:
		return fmt.Sprintf("d(%s)", quote(t.Dec.String()))
	case value.Ratio:
		return fmt.Sprintf("r(%s)", quote(t.String()))
	case value.String:
		return fmt.Sprintf("s(%s)", quote(string(t)))
	case value.Symbol:
		return fmt.Sprintf("y(%s)", quote(string(t)))
	case value.Keyword:
		return fmt.Sprintf("k(%s,%s)", quote(t.NS), quote(t.Name))
	case value.UUID:
		return fmt.Sprintf("u(%s)", quote(t.U.String()))
	case value.Timestamp:
		return fmt.Sprintf("t(%s)", quote(t.T.UTC().Format(time.RFC3339Nano)))
	case value.Map:
		var parts []string
		for _, e := range t.Canonical() {
			parts = append(parts, encodeValueText(e.Key)+"=>"+encodeValueText(e.Val))
		}
		return "m(" + strings.Join(parts, ",") + ")"
	case value.Vector:
		return "v(" + joinValues(t.Items) + ")"
	case value.List:
		return "l(" + joinValues(t.Items) + ")"
	case value.Set:
		return "z(" + joinValues(t.Canonical()) + ")"
	default:
		panic(fmt.Sprintf("atomdb: unencodable value type %T", v))
	}
}

func joinValues(vs []value.Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = encodeValueText(v)
	}
	return strings.Join(parts, ",")
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

type textParser struct {
	s string
	i int
}

func (p *textParser) errf(format string, args ...interface{}) error {
	return &CodecError{Err: fmt.Errorf("textual codec: "+format+" at offset %d", append(args, p.i)...)}
}

func (p *textParser) peek() byte {
	if p.i >= len(p.s) {
		return 0
	}
	return p.s[p.i]
}

func (p *textParser) expect(c byte) error {
	if p.peek() != c {
		return p.errf("expected %q", c)
	}
	p.i++
	return nil
}

func (p *textParser) parseQuoted() (string, error) {
	if err := p.expect('"'); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		if p.i >= len(p.s) {
			return "", p.errf("unterminated string")
		}
		c := p.s[p.i]
		if c == '"' {
			p.i++
			return b.String(), nil
		}
		if c == '\\' {
			p.i++
			if p.i >= len(p.s) {
				return "", p.errf("unterminated escape")
			}
			b.WriteByte(p.s[p.i])
			p.i++
			continue
		}
		b.WriteByte(c)
		p.i++
	}
}

func (p *textParser) parseHash() (string, error) {
	if err := p.expect('#'); err != nil {
		return "", err
	}
	start := p.i
	for p.i < len(p.s) && isHex(p.s[p.i]) {
		p.i++
	}
	return p.s[start:p.i], nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

func (p *textParser) parseValue() (value.Value, error) {
	if p.i >= len(p.s) {
		return nil, p.errf("unexpected end of input")
	}
	letter := p.s[p.i]
	p.i++
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var result value.Value
	var err error
	switch letter {
	case 'n':
		result = value.Null{}
	case 'b':
		if strings.HasPrefix(p.s[p.i:], "true") {
			result, p.i = value.Bool(true), p.i+4
		} else if strings.HasPrefix(p.s[p.i:], "false") {
			result, p.i = value.Bool(false), p.i+5
		} else {
			return nil, p.errf("invalid bool literal")
		}
	case 'i':
		start := p.i
		if p.peek() == '-' {
			p.i++
		}
		for p.i < len(p.s) && p.s[p.i] >= '0' && p.s[p.i] <= '9' {
			p.i++
		}
		n, perr := strconv.ParseInt(p.s[start:p.i], 10, 64)
		if perr != nil {
			return nil, p.errf("invalid int literal: %v", perr)
		}
		result = value.Int(n)
	case 'f':
		start := p.i
		for p.i < len(p.s) && p.s[p.i] != ')' {
			p.i++
		}
		f, perr := strconv.ParseFloat(p.s[start:p.i], 64)
		if perr != nil {
			return nil, p.errf("invalid float literal: %v", perr)
		}
		result = value.Float(f)
	case 'd':
		s, qerr := p.parseQuoted()
		if qerr != nil {
			return nil, qerr
		}
		dec, derr := decimal.NewFromString(s)
		if derr != nil {
			return nil, p.errf("invalid bigdec literal: %v", derr)
		}
		result = value.BigDecimal{Dec: dec}
	case 'r':
		s, qerr := p.parseQuoted()
		if qerr != nil {
			return nil, qerr
		}
		rat, ok := new(big.Rat).SetString(s)
		if !ok {
			return nil, p.errf("invalid ratio literal %q", s)
		}
		result = value.Ratio{R: rat}
	case 's':
		s, qerr := p.parseQuoted()
		if qerr != nil {
			return nil, qerr
		}
		result = value.String(s)
	case 'y':
		s, qerr := p.parseQuoted()
		if qerr != nil {
			return nil, qerr
		}
		result = value.Symbol(s)
	case 'k':
		ns, qerr := p.parseQuoted()
		if qerr != nil {
			return nil, qerr
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		name, qerr := p.parseQuoted()
		if qerr != nil {
			return nil, qerr
		}
		result = value.Keyword{NS: ns, Name: name}
	case 'u':
		s, qerr := p.parseQuoted()
		if qerr != nil {
			return nil, qerr
		}
		u, uerr := uuid.Parse(s)
		if uerr != nil {
			return nil, p.errf("invalid uuid literal: %v", uerr)
		}
		result = value.UUID{U: u}
	case 't':
		s, qerr := p.parseQuoted()
		if qerr != nil {
			return nil, qerr
		}
		tm, terr := time.Parse(time.RFC3339Nano, s)
		if terr != nil {
			return nil, p.errf("invalid timestamp literal: %v", terr)
		}
		result = value.Timestamp{T: tm.UTC()}
	case 'm':
		var entries []value.MapEntry
		for p.peek() != ')' {
			k, kerr := p.parseValue()
			if kerr != nil {
				return nil, kerr
			}
			if err := p.expectStr("=>"); err != nil {
				return nil, err
			}
			v, verr := p.parseValue()
			if verr != nil {
				return nil, verr
			}
			entries = append(entries, value.MapEntry{Key: k, Val: v})
			if p.peek() == ',' {
				p.i++
			}
		}
		result = value.NewMap(entries...)
	case 'v', 'l', 'z':
		var items []value.Value
		for p.peek() != ')' {
			v, verr := p.parseValue()
			if verr != nil {
				return nil, verr
			}
			items = append(items, v)
			if p.peek() == ',' {
				p.i++
			}
		}
		switch letter {
		case 'v':
			result = value.NewVector(items...)
		case 'l':
			result = value.NewList(items...)
		case 'z':
			result = value.NewSet(items...)
		}
	default:
		return nil, p.errf("unknown value tag %q", letter)
	}
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *textParser) expectStr(s string) error {
	if !strings.HasPrefix(p.s[p.i:], s) {
		return p.errf("expected %q", s)
	}
	p.i += len(s)
	return nil
}
