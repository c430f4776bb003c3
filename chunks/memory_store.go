// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package chunks

import (
	"context"
	"sync"

	"github.com/atomdb/atomdb/hash"
)

// MemoryStore is an in-process, thread-safe chunk store backed by a
// map. Grounded on the teacher's go/store/chunks TestStore shape: a
// mutex-guarded map keyed by hash, used heavily as the backing store
// in the teacher's own unit tests.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[hash.Hash][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: map[hash.Hash][]byte{}}
}

func (s *MemoryStore) Put(ctx context.Context, bs []byte) (hash.Hash, error) {
	h := hash.Of(bs)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, present := s.chunks[h]; !present {
		cp := make([]byte, len(bs))
		copy(cp, bs)
		s.chunks[h] = cp
	}
	return h, nil
}

func (s *MemoryStore) Get(ctx context.Context, h hash.Hash) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bs, ok := s.chunks[h]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(bs))
	copy(cp, bs)
	return cp, true, nil
}

// Len reports the number of distinct chunks held, mostly useful from
// tests asserting deduplication.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}
