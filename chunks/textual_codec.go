// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package chunks

import (
	"fmt"
	"strings"

	"github.com/atomdb/atomdb/hash"
)

// TextualCodec is the human-readable, self-describing codec of spec
// §4.2: stable key ordering for maps, canonical numeric forms, UTF-8
// text. Grounded on the teacher's human-readable Noms printer
// (go/store/types's EncodedValue tests) and its go/store/nomdl
// tokenizer, adapted to a record-shaped grammar: `tag(field, ...)`.
type TextualCodec struct{}

var _ Codec = TextualCodec{}

func (TextualCodec) Serialize(r *Record) ([]byte, error) {
	var b strings.Builder
	b.WriteString(string(r.Tag))
	b.WriteByte('(')
	switch r.Tag {
	case TagMap:
		for i, c := range r.MapChildren {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(encodeValueText(c.Key))
			b.WriteString("=>#")
			b.WriteString(c.Hash.String())
		}
	case TagVector, TagList, TagSet:
		for i, h := range r.SeqChildren {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('#')
			b.WriteString(h.String())
		}
	case TagKeyword:
		b.WriteString(quote(r.NS))
		b.WriteByte(',')
		b.WriteString(quote(r.Name))
	case TagSymbol, TagString:
		b.WriteString(quote(r.Name))
	case TagUUID, TagDate, TagBigDec, TagRatio:
		b.WriteString(quote(r.Text))
	case TagBool:
		fmt.Fprintf(&b, "%t", r.Bool)
	case TagLeaf:
		b.WriteString(encodeValueText(r.Leaf))
	default:
		return nil, &CodecError{Err: fmt.Errorf("textual codec: unknown tag %q", r.Tag)}
	}
	b.WriteByte(')')
	return []byte(b.String()), nil
}

func (TextualCodec) Deserialize(bs []byte) (*Record, error) {
	s := string(bs)
	idx := strings.IndexByte(s, '(')
	if idx < 0 || !strings.HasSuffix(s, ")") {
		return nil, &CodecError{Err: fmt.Errorf("textual codec: malformed record")}
	}
	tag := Tag(s[:idx])
	body := s[idx+1 : len(s)-1]
	p := &textParser{s: body}

	r := &Record{Tag: tag}
	switch tag {
	case TagMap:
		for p.i < len(p.s) {
			k, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			if err := p.expectStr("=>"); err != nil {
				return nil, err
			}
			h, err := p.parseHash()
			if err != nil {
				return nil, err
			}
			hv, ok := hash.MaybeParse(h)
			if !ok {
				return nil, p.errf("invalid child hash %q", h)
			}
			r.MapChildren = append(r.MapChildren, ChildRef{Key: k, Hash: hv})
			if p.peek() == ',' {
				p.i++
			}
		}
	case TagVector, TagList, TagSet:
		for p.i < len(p.s) {
			h, err := p.parseHash()
			if err != nil {
				return nil, err
			}
			hv, ok := hash.MaybeParse(h)
			if !ok {
				return nil, p.errf("invalid child hash %q", h)
			}
			r.SeqChildren = append(r.SeqChildren, hv)
			if p.peek() == ',' {
				p.i++
			}
		}
	case TagKeyword:
		ns, err := p.parseQuoted()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		name, err := p.parseQuoted()
		if err != nil {
			return nil, err
		}
		r.NS, r.Name = ns, name
	case TagSymbol, TagString:
		name, err := p.parseQuoted()
		if err != nil {
			return nil, err
		}
		r.Name = name
	case TagUUID, TagDate, TagBigDec, TagRatio:
		text, err := p.parseQuoted()
		if err != nil {
			return nil, err
		}
		r.Text = text
	case TagBool:
		if strings.HasPrefix(p.s[p.i:], "true") {
			r.Bool = true
		} else if strings.HasPrefix(p.s[p.i:], "false") {
			r.Bool = false
		} else {
			return nil, p.errf("invalid bool literal")
		}
	case TagLeaf:
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		r.Leaf = v
	default:
		return nil, &CodecError{Err: fmt.Errorf("textual codec: unknown tag %q", tag)}
	}
	return r, nil
}
