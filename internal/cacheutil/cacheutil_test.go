// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withCacheDir points the cache at a fresh temp dir with caching enabled.
func withCacheDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATADIFF_CACHE_DIR", dir)
	t.Setenv("DATADIFF_CACHE", "")
	return dir
}

func TestDir(t *testing.T) {
	dir := withCacheDir(t)

	got, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, dir, got)

	t.Setenv("DATADIFF_CACHE_DIR", "")
	got, ok = Dir()
	if ok {
		assert.Equal(t, "datadiff", filepath.Base(got))
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"1", true},
		{"yes", true},
		{"0", false},
		{"false", false},
		{"FALSE", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("DATADIFF_CACHE", tt.value)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestEnsureBaseDir(t *testing.T) {
	dir := withCacheDir(t)
	base := filepath.Join(dir, "nested", "cache")
	t.Setenv("DATADIFF_CACHE_DIR", base)

	got, ok, err := EnsureBaseDir()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, base, got)
	assert.DirExists(t, base)

	t.Setenv("DATADIFF_CACHE", "0")
	got, ok, err = EnsureBaseDir()
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestWriteThenRead(t *testing.T) {
	withCacheDir(t)
	subdirs := []string{"s3", "bucket"}
	key := Key("bucket", "env/prod.json", "v1")
	body := []byte("\x82\xa1a\x01 \n")

	_, found := Read(subdirs, key)
	assert.False(t, found)

	require.NoError(t, Write(subdirs, key, body))

	entry, found := Read(subdirs, key)
	require.True(t, found)
	assert.Equal(t, body, entry.Data, "binary bodies are kept byte for byte")
	assert.Equal(t, key, entry.Key)
	assert.Equal(t, encodeKey(key), entry.EncodedKey)

	p, exists := EntryPath(subdirs, key)
	assert.True(t, exists)
	assert.Equal(t, entry.Path, p)

	require.NoError(t, Write(subdirs, key, []byte("replaced")))
	entry, found = Read(subdirs, key)
	require.True(t, found)
	assert.Equal(t, []byte("replaced"), entry.Data)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(p), ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestWriteAndReadDisabled(t *testing.T) {
	dir := withCacheDir(t)
	t.Setenv("DATADIFF_CACHE", "false")

	require.NoError(t, Write([]string{"x"}, "k", []byte("v")))
	assert.NoDirExists(t, filepath.Join(dir, "x"))

	_, found := Read([]string{"x"}, "k")
	assert.False(t, found)
}

func TestKeyIsUnambiguous(t *testing.T) {
	assert.NotEqual(t, Key("a", "bc"), Key("ab", "c"))
	assert.Len(t, encodeKey(Key("a")), 64)
}

func TestPurge(t *testing.T) {
	withCacheDir(t)
	require.NoError(t, Write([]string{"s3"}, "old", []byte("1")))
	require.NoError(t, Write([]string{"s3"}, "new", []byte("2")))

	oldPath, _ := EntryPath([]string{"s3"}, "old")
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	require.NoError(t, Purge(0))
	assert.FileExists(t, oldPath)

	require.NoError(t, Purge(24))
	assert.NoFileExists(t, oldPath)

	_, found := Read([]string{"s3"}, "new")
	assert.True(t, found)
}

func TestPurgeMissingBase(t *testing.T) {
	t.Setenv("DATADIFF_CACHE_DIR", filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, Purge(1))
}
