// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package value

import "fmt"

// UnsupportedKindError is returned by From when a native Go value has
// no classification arm (spec §7 UnsupportedKind): any Go type that
// From does not list, which includes some numeric types and typed
// slices and maps (see From). From never returns a Value of the wrong
// kind instead of this error.
type UnsupportedKindError struct {
	Description string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("atomdb: unsupported value kind: %s", e.Description)
}
