// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package cache

import "github.com/atomdb/atomdb/hash"

// NoOp never stores anything; every Get misses. Used when a cell is
// opened with no cache configured (spec §4.4, §6).
type NoOp struct{}

var _ Cache = NoOp{}

func (NoOp) Get(h hash.Hash) ([]byte, bool) { return nil, false }

func (NoOp) Put(h hash.Hash, bs []byte) {}
