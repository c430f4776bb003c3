// Copyright 2024 The AtomDB Authors. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package chunks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomdb/atomdb/hash"
)

func TestFileStorePutGet(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	h, err := s.Put(ctx, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, hash.Of([]byte("hello")), h)

	bs, ok, err := s.Get(ctx, h)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), bs)
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	h, err := s.Put(ctx, []byte("layout"))
	require.NoError(t, err)

	hs := h.String()
	want := filepath.Join(dir, hs[:2], hs[2:])
	_, statErr := os.Stat(want)
	assert.NoError(t, statErr, "expected chunk at %s", want)
}

func TestFileStoreGetMissingIsNotError(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	bs, ok, err := s.Get(ctx, hash.Of([]byte("absent")))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, bs)
}

func TestFileStorePutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	h1, err := s.Put(ctx, []byte("same"))
	require.NoError(t, err)
	h2, err := s.Put(ctx, []byte("same"))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	entries, err := os.ReadDir(filepath.Join(dir, h1.String()[:2]))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreNoTempFilesLeftBehind(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	h, err := s.Put(ctx, []byte("clean"))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, h.String()[:2]))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, filepath.Ext(e.Name()) == ".tmp")
	}
}
