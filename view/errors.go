// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package view

import (
	"fmt"

	"github.com/atomdb/atomdb/value"
)

// ImmutableViewError reports an attempt to mutate a view in place
// (spec §4.8: every view is immutable; only the functional assoc /
// dissoc / conj / disj family returns a new view).
type ImmutableViewError struct {
	Kind value.Kind
	Op   string
}

func (e *ImmutableViewError) Error() string {
	return fmt.Sprintf("atomdb: %s view is immutable: %s not supported, use the functional update instead", e.Kind, e.Op)
}

// IndexOutOfRangeError reports an out-of-range vector/list index.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("atomdb: index %d out of range for count %d", e.Index, e.Count)
}
