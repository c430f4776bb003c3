// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package cell

import (
	"context"
	"sync/atomic"

	"github.com/atomdb/atomdb/cache"
	"github.com/atomdb/atomdb/chunks"
	"github.com/atomdb/atomdb/d"
	"github.com/atomdb/atomdb/hash"
	"github.com/atomdb/atomdb/value"
	"github.com/atomdb/atomdb/view"
)

// Cell is a root CAS cell (spec §4.9): a mutable current-root-hash
// behind a compare-and-swap primitive, plus the store and cache handles
// that back every view it hands out. A nil root pointer means "no
// root": Deref returns a nil Node and RootHash reports false for it.
type Cell struct {
	store chunks.Store
	cache cache.Cache
	codec chunks.Codec
	root  atomic.Pointer[hash.Hash]
}

// Deref returns a lazy view over the cell's current root, or nil if the
// root is null (spec §4.9: "If the root hash is null, returns null").
func (c *Cell) Deref(ctx context.Context) (view.Node, error) {
	return c.derefPtr(ctx, c.root.Load())
}

// derefPtr resolves a root pointer as Deref/Swap/CompareAndSet all do:
// nil means the null root. A stored pointer is only ever set from a
// Persist result (Open/Reset/Swap/CompareAndSet), which never yields
// the empty hash, so a non-nil pointer to an empty hash here means
// something bypassed that path - a bug in this package, not a null
// root, which is why it's asserted rather than treated as "no root".
func (c *Cell) derefPtr(ctx context.Context, p *hash.Hash) (view.Node, error) {
	if p == nil {
		return nil, nil
	}
	d.PanicIfTrue(p.IsEmpty())
	return view.Root(ctx, c.store, c.cache, c.codec, *p)
}

// Reset persists v and makes it the cell's new root unconditionally,
// returning v.
func (c *Cell) Reset(ctx context.Context, v value.Value) (value.Value, error) {
	h, err := c.persister().Persist(ctx, v)
	if err != nil {
		return nil, err
	}
	c.root.Store(&h)
	return v, nil
}

// SwapFunc computes a cell's next value from its current view. current
// is nil if the cell's root is null. The function must be effectively
// pure: a contended cell may invoke it more than once per Swap call.
type SwapFunc func(ctx context.Context, current view.Node) (value.Value, error)

// Swap retries fn against the cell's current root until it can install
// the result via compare-and-swap without a concurrent writer having
// raced it, then returns the installed value.
func (c *Cell) Swap(ctx context.Context, fn SwapFunc) (value.Value, error) {
	for {
		oldPtr := c.root.Load()
		current, err := c.derefPtr(ctx, oldPtr)
		if err != nil {
			return nil, err
		}

		next, err := fn(ctx, current)
		if err != nil {
			return nil, err
		}

		h, err := c.persister().Persist(ctx, next)
		if err != nil {
			return nil, err
		}

		if c.root.CompareAndSwap(oldPtr, &h) {
			return next, nil
		}
		// lost the race to a concurrent writer; reload and retry.
	}
}

// CompareAndSet installs new as the cell's root iff the cell's current
// value is equal to old by value, not by hash: old is compared against
// whatever the root currently materializes to, the same equality spec
// §3's Equals defines for every value kind. Returns false without any
// side effect if the comparison fails.
func (c *Cell) CompareAndSet(ctx context.Context, old, newVal value.Value) (bool, error) {
	oldPtr := c.root.Load()

	current, err := c.derefPtr(ctx, oldPtr)
	if err != nil {
		return false, err
	}

	equal, err := currentEquals(ctx, current, old)
	if err != nil {
		return false, err
	}
	if !equal {
		return false, nil
	}

	h, err := c.persister().Persist(ctx, newVal)
	if err != nil {
		return false, err
	}
	if !c.root.CompareAndSwap(oldPtr, &h) {
		// a concurrent writer raced us between the read and the swap.
		return false, nil
	}
	return true, nil
}

func currentEquals(ctx context.Context, current view.Node, old value.Value) (bool, error) {
	if current == nil {
		return old == nil || old.Kind() == value.NullKind, nil
	}
	if old == nil {
		return false, nil
	}
	return view.Equal(ctx, current, old)
}

// RootHash returns the cell's current root hash and true, or a zero
// Hash and false if the cell's root is null.
func (c *Cell) RootHash() (hash.Hash, bool) {
	h := c.currentRoot()
	if h.IsEmpty() {
		return hash.Hash{}, false
	}
	return h, true
}

// Store returns the cell's backing chunk store (spec §6: store(cell)).
func (c *Cell) Store() chunks.Store { return c.store }

// Cache returns the cell's chunk cache (spec §6: cache(cell)).
func (c *Cell) Cache() cache.Cache { return c.cache }

func (c *Cell) currentRoot() hash.Hash {
	p := c.root.Load()
	if p == nil {
		return hash.Hash{}
	}
	return *p
}
