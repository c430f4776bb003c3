// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package hash computes and parses the content hashes that identify
// chunks in the store. A Hash is the SHA-256 digest of a chunk's
// serialized bytes, rendered as 64 lowercase hex characters.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ByteLen is the number of raw digest bytes (SHA-256).
const ByteLen = sha256.Size

// StringLen is the length of a Hash's canonical hex string form.
const StringLen = ByteLen * 2

// Hash is a SHA-256 digest identifying a chunk by its serialized
// contents. The zero Hash is the empty hash, used to represent "no
// root" on a cell that has never been written to.
type Hash [ByteLen]byte

// Of returns the Hash of bs, i.e. the SHA-256 digest of those bytes.
func Of(bs []byte) Hash {
	return Hash(sha256.Sum256(bs))
}

// Parse decodes a 64-character lowercase hex string into a Hash. It
// panics if s isn't a well-formed hash string; callers that need to
// validate untrusted input should use MaybeParse instead.
func Parse(s string) Hash {
	h, ok := MaybeParse(s)
	if !ok {
		panic(fmt.Sprintf("invalid hash: %q", s))
	}
	return h
}

// MaybeParse decodes s into a Hash, returning ok=false rather than
// panicking if s is not a well-formed 64-character lowercase hex
// string.
func MaybeParse(s string) (h Hash, ok bool) {
	if len(s) != StringLen {
		return Hash{}, false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return Hash{}, false
		}
	}
	bs, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, false
	}
	copy(h[:], bs)
	return h, true
}

// String renders h as 64 lowercase hex characters.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsEmpty reports whether h is the zero Hash.
func (h Hash) IsEmpty() bool {
	return h == Hash{}
}

// Less defines a total order over Hash values, used for deterministic
// sorting of hash slices and sets.
func (h Hash) Less(other Hash) bool {
	return h.Compare(other) < 0
}

// Compare returns -1, 0 or 1 as h is less than, equal to, or greater
// than other, by lexicographic byte order.
func (h Hash) Compare(other Hash) int {
	for i := range h {
		if h[i] != other[i] {
			if h[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
