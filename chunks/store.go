// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package chunks

import (
	"context"

	"github.com/atomdb/atomdb/hash"
)

// Store is the pluggable chunk backend of spec §4.3: content-addressed,
// immutable, append-only. Put is idempotent - putting the same bytes
// twice is a no-op that returns the same hash both times. Get reports
// absence through the second return value, never through an error:
// a missing hash is an expected outcome for a speculative lookup, not
// a store failure.
type Store interface {
	Put(ctx context.Context, bs []byte) (hash.Hash, error)
	Get(ctx context.Context, h hash.Hash) (bs []byte, ok bool, err error)
}
