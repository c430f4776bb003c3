// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package convert implements ToPlain (spec §4.10): walking a lazy view
// (or an already-materialized value) back into a fully materialized
// plain value.Value tree, recursively resolving every nested view.
// This is the inverse direction of the teacher's marshal package -
// view/value in, not Go struct out - since AtomDB has no struct
// marshaling layer (schema evolution is an explicit non-goal).
package convert

import (
	"context"

	"github.com/atomdb/atomdb/value"
	"github.com/atomdb/atomdb/view"
)

// ToPlain fully materializes n, recursively resolving every nested
// view so the result contains no lazy views at all - only concrete
// value.Map/Vector/List/Set/scalar values.
func ToPlain(ctx context.Context, n view.Node) (value.Value, error) {
	switch t := n.(type) {
	case value.Value:
		// already concrete: a value.Map/Vector/List/Set's own items are
		// always concrete values too, never lazy views, so there is
		// nothing left to resolve.
		return t, nil
	case *view.MapView:
		return toPlainMap(ctx, t)
	case *view.VectorView:
		items, err := toPlainItems(ctx, t, t.Count())
		if err != nil {
			return nil, err
		}
		return value.NewVector(items...), nil
	case *view.ListView:
		items, err := toPlainItems(ctx, t, t.Count())
		if err != nil {
			return nil, err
		}
		return value.NewList(items...), nil
	case *view.SetView:
		items, err := toPlainItems(ctx, t, t.Count())
		if err != nil {
			return nil, err
		}
		return value.NewSet(items...), nil
	default:
		m, ok := n.(view.Materializer)
		if !ok {
			return nil, errUnconvertible(n)
		}
		v, err := m.Materialize(ctx)
		if err != nil {
			return nil, err
		}
		return ToPlain(ctx, v)
	}
}

func toPlainMap(ctx context.Context, m *view.MapView) (value.Value, error) {
	keys := m.Keys()
	entries := make([]value.MapEntry, 0, len(keys))
	for _, k := range keys {
		n, ok, err := m.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		v, err := ToPlain(ctx, n)
		if err != nil {
			return nil, err
		}
		entries = append(entries, value.MapEntry{Key: k, Val: v})
	}
	return value.NewMap(entries...), nil
}

type indexed interface {
	Nth(ctx context.Context, i int) (view.Node, error)
}

func toPlainItems(ctx context.Context, v indexed, count int) ([]value.Value, error) {
	items := make([]value.Value, count)
	for i := 0; i < count; i++ {
		n, err := v.Nth(ctx, i)
		if err != nil {
			return nil, err
		}
		pv, err := ToPlain(ctx, n)
		if err != nil {
			return nil, err
		}
		items[i] = pv
	}
	return items, nil
}

func errUnconvertible(n view.Node) error {
	return &UnconvertibleNodeError{Kind: n.Kind()}
}

// UnconvertibleNodeError reports a view.Node that is neither a
// value.Value nor a view.Materializer, which should not occur for any
// node this package itself produces.
type UnconvertibleNodeError struct {
	Kind value.Kind
}

func (e *UnconvertibleNodeError) Error() string {
	return "atomdb: cannot convert node of kind " + e.Kind.String() + " to a plain value"
}
