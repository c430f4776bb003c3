// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package d holds small assertion/panic helpers for internal invariant
// checks: conditions that indicate a bug in this package's own code,
// never a caller input error (those are returned as typed errors
// instead). Grounded on the teacher's go/store/d package.
package d

import "fmt"

// PanicIfTrue panics if b is true.
func PanicIfTrue(b bool) {
	if b {
		panic("invariant violated: condition was true")
	}
}

// PanicIfFalse panics if b is false.
func PanicIfFalse(b bool) {
	if !b {
		panic("invariant violated: condition was false")
	}
}

// PanicIfError panics if err is non-nil.
func PanicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

// Unreachable panics with a formatted invariant-violation message.
// Use it in a "default" arm guarding a closed set of cases (a tagged
// union switch, a record tag already validated by a Codec) where
// reaching the arm can only mean this package's own code fell out of
// sync with the set it assumes, never bad caller input.
func Unreachable(format string, args ...interface{}) {
	panic(fmt.Sprintf("invariant violated: "+format, args...))
}

// PanicIfNotType panics unless v's dynamic type matches one of types;
// returns v so callers can chain a type-narrowing assertion inline.
func PanicIfNotType(v interface{}, types ...interface{}) interface{} {
	vt := fmt.Sprintf("%T", v)
	for _, t := range types {
		if fmt.Sprintf("%T", t) == vt {
			return v
		}
	}
	panic(fmt.Sprintf("invariant violated: %T is not one of the expected types", v))
}

type wrappedError struct {
	msg   string
	cause error
}

func (e wrappedError) Error() string { return e.msg + ": " + e.cause.Error() }
func (e wrappedError) Cause() error  { return e.cause }

// Wrap attaches a generic message to err, or returns err unchanged if
// it is already wrapped. Wrap(nil) is nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if we, ok := err.(wrappedError); ok {
		return we
	}
	return wrappedError{msg: "wrapped", cause: err}
}

// Unwrap returns err's underlying cause if it was produced by Wrap,
// otherwise err itself.
func Unwrap(err error) error {
	if we, ok := err.(wrappedError); ok {
		return we.cause
	}
	return err
}
