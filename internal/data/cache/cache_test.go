package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/util"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func snapshot(t *testing.T, path string) util.FileInfo {
	t.Helper()
	info, err := util.GetFileInfo(path)
	require.NoError(t, err)
	return *info
}

func testSamples() []model.Sample {
	return []model.Sample{{Timestamp: time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC), StudiedSeconds: 600}}
}

func TestSampleCacheHit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Math.parquet")
	writeFile(t, path, "v1")

	c := NewSampleCache(Options{})
	res := c.Get("Math", path)
	assert.False(t, res.Found)
	assert.Equal(t, MissReasonNotFound, res.MissReason)

	c.Set("Math", snapshot(t, path), testSamples())
	res = c.Get("Math", path)
	require.True(t, res.Found)
	assert.Equal(t, testSamples(), res.Samples)

	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
}

func TestSampleCacheValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, path string)
		reason CacheMissReason
	}{
		{
			name:   "size_changed",
			mutate: func(t *testing.T, path string) { writeFile(t, path, "version-two") },
			reason: MissReasonSize,
		},
		{
			name: "mod_time_changed",
			mutate: func(t *testing.T, path string) {
				later := time.Now().Add(time.Hour)
				require.NoError(t, os.Chtimes(path, later, later))
			},
			reason: MissReasonModTime,
		},
		{
			name: "replaced_by_rename",
			mutate: func(t *testing.T, path string) {
				tmp := path + ".tmp"
				writeFile(t, tmp, "v2")
				require.NoError(t, os.Rename(tmp, path))
			},
			reason: MissReasonInode,
		},
		{
			name:   "deleted",
			mutate: func(t *testing.T, path string) { require.NoError(t, os.Remove(path)) },
			reason: MissReasonError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "Math.parquet")
			writeFile(t, path, "v1")

			c := NewSampleCache(Options{TTL: time.Hour})
			c.Set("Math", snapshot(t, path), testSamples())

			tt.mutate(t, path)
			res := c.Get("Math", path)
			assert.False(t, res.Found)
			assert.Equal(t, tt.reason, res.MissReason)

			// stale entry was evicted
			assert.Equal(t, MissReasonNotFound, c.Get("Math", path).MissReason)
		})
	}
}

func TestSampleCacheInvalidate(t *testing.T) {
	dir := t.TempDir()
	math := filepath.Join(dir, "Math.parquet")
	art := filepath.Join(dir, "Art.parquet")
	writeFile(t, math, "m")
	writeFile(t, art, "a")

	c := NewSampleCache(Options{MaxSubjects: 10})
	c.Set("Math", snapshot(t, math), testSamples())
	c.Set("Art", snapshot(t, art), testSamples())

	c.Invalidate("Math")
	assert.False(t, c.Get("Math", math).Found)
	assert.True(t, c.Get("Art", art).Found)

	c.Clear()
	assert.False(t, c.Get("Art", art).Found)
}

func TestSampleCacheReplacedAfterSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Math.parquet")
	writeFile(t, path, "v1")
	info := snapshot(t, path)

	// another writer swaps the file between the snapshot and Set
	tmp := path + ".tmp"
	writeFile(t, tmp, "v2")
	require.NoError(t, os.Rename(tmp, path))

	c := NewSampleCache(Options{TTL: time.Hour})
	c.Set("Math", info, testSamples())

	res := c.Get("Math", path)
	assert.False(t, res.Found)
	assert.Equal(t, MissReasonInode, res.MissReason)
}

func TestCacheMissReasonString(t *testing.T) {
	assert.Equal(t, "inode", MissReasonInode.String())
	assert.Equal(t, "unknown", CacheMissReason(99).String())
}
