// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package chunks

// Codec deterministically (de)serializes a Record to bytes (spec
// §4.2). Implementations must be deterministic (the same Record always
// serializes to the same bytes), round-trip exact for every Record
// shape, and self-describing enough that Deserialize alone can
// reconstruct the Record. Two stores using different Codecs are not
// byte-compatible, since the chunk hash is computed over the codec's
// output, not a codec-independent canonical form (spec §4.1).
type Codec interface {
	Serialize(r *Record) ([]byte, error)
	Deserialize(bs []byte) (*Record, error)
}

// CodecError wraps a serialize/deserialize failure, optionally naming
// the value path that caused it (spec §7).
type CodecError struct {
	Path string
	Err  error
}

func (e *CodecError) Error() string {
	if e.Path == "" {
		return "atomdb: codec error: " + e.Err.Error()
	}
	return "atomdb: codec error at " + e.Path + ": " + e.Err.Error()
}

func (e *CodecError) Unwrap() error { return e.Err }
