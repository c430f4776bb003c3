// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package value

import "github.com/atomdb/atomdb/hash"

// StructuralHash returns v's structural hash: the SHA-256 digest of its
// canonical byte form (spec §4.8 "hash of a view", §9 "a portable
// implementation must define the structural hash independently"). It
// is defined purely over Value and is independent of any chunks.Codec,
// so a lazy view's hash always agrees with the hash of its fully
// materialized counterpart regardless of which codec the backing store
// uses.
func StructuralHash(v Value) hash.Hash {
	return hash.Of(v.CanonicalBytes())
}
