// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package chunks

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/atomdb/atomdb/hash"
)

// StoreIOError wraps an underlying I/O failure (disk full, permission
// denied, ...) encountered while talking to a ChunkStore. It is always
// fatal: retrying without addressing the underlying condition is
// pointless (spec §7).
type StoreIOError struct {
	Op  string
	Err error
}

func (e *StoreIOError) Error() string {
	return fmt.Sprintf("atomdb: chunk store I/O error during %s: %v", e.Op, e.Err)
}

func (e *StoreIOError) Unwrap() error { return e.Err }

func wrapIOError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreIOError{Op: op, Err: errors.WithStack(err)}
}

// ChunkMissingError reports that a hash referenced by a Record was not
// found in the store. Loaders treat this as fatal and do not retry
// (spec §4.3, §7): a missing chunk means the DAG is incomplete, not
// that the caller should wait and re-fetch.
type ChunkMissingError struct {
	Hash hash.Hash
}

func (e *ChunkMissingError) Error() string {
	return fmt.Sprintf("atomdb: chunk missing: %s", e.Hash.String())
}
