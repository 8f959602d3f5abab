package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/data/cache"
	"github.com/penwyp/go-study-tracker/internal/util"
)

func newTestStore(t *testing.T, c cache.Cache) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir(), Location: time.UTC, Cache: c})
	require.NoError(t, err)
	return s
}

func hour(h int) time.Time {
	return time.Date(2024, time.March, 11, h, 0, 0, 0, time.UTC)
}

func TestParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Math.parquet")
	samples := []model.Sample{
		{Timestamp: hour(9), StudiedSeconds: 1800},
		{Timestamp: hour(11), StudiedSeconds: 600.5},
	}
	require.NoError(t, writeParquet(path, samples))

	got, err := readParquet(context.Background(), path, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range samples {
		assert.True(t, samples[i].Timestamp.Equal(got[i].Timestamp))
		assert.Equal(t, samples[i].StudiedSeconds, got[i].StudiedSeconds)
	}
}

func TestParquetEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Empty.parquet")
	require.NoError(t, writeParquet(path, nil))

	got, err := readParquet(context.Background(), path, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadSamplesConvertsLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	dir := t.TempDir()
	s, err := New(Config{DataDir: dir, Location: tokyo})
	require.NoError(t, err)

	require.NoError(t, s.AddSamples(context.Background(), "Math", []model.Sample{{Timestamp: hour(0), StudiedSeconds: 60}}))
	got, err := s.ReadSamples(context.Background(), "Math")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tokyo, got[0].Timestamp.Location())
	assert.Equal(t, 9, got[0].Timestamp.Hour())
}

func TestAddSamplesMergesByHour(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, s.AddSamples(ctx, "Math", []model.Sample{
		{Timestamp: hour(9).Add(40 * time.Minute), StudiedSeconds: 1200},
		{Timestamp: hour(10), StudiedSeconds: 300},
	}))
	require.NoError(t, s.AddSamples(ctx, "Math", []model.Sample{
		{Timestamp: hour(9), StudiedSeconds: 600},
		{Timestamp: hour(8), StudiedSeconds: 60},
		{Timestamp: hour(12), StudiedSeconds: 0},
	}))

	got, err := s.ReadSamples(ctx, "Math")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, hour(8).Equal(got[0].Timestamp))
	assert.Equal(t, 60.0, got[0].StudiedSeconds)
	assert.True(t, hour(9).Equal(got[1].Timestamp))
	assert.Equal(t, 1800.0, got[1].StudiedSeconds)
	assert.Equal(t, 300.0, got[2].StudiedSeconds)
}

func TestReadSamplesUsesCache(t *testing.T) {
	c := cache.NewSampleCache(cache.Options{TTL: time.Hour})
	s := newTestStore(t, c)
	ctx := context.Background()

	require.NoError(t, s.AddSamples(ctx, "Math", []model.Sample{{Timestamp: hour(9), StudiedSeconds: 60}}))

	_, err := s.ReadSamples(ctx, "Math")
	require.NoError(t, err)
	_, err = s.ReadSamples(ctx, "Math")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Stats().Hits)

	// a write replaces the file and drops the entry
	require.NoError(t, s.AddSamples(ctx, "Math", []model.Sample{{Timestamp: hour(10), StudiedSeconds: 60}}))
	got, err := s.ReadSamples(ctx, "Math")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// writeDuringSet runs write once, between a file being decoded and its
// samples being cached.
type writeDuringSet struct {
	*cache.SampleCache
	write func()
}

func (c *writeDuringSet) Set(subject string, info util.FileInfo, samples []model.Sample) {
	if c.write != nil {
		write := c.write
		c.write = nil
		write()
	}
	c.SampleCache.Set(subject, info, samples)
}

func TestReadSamplesConcurrentReplace(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := &writeDuringSet{SampleCache: cache.NewSampleCache(cache.Options{TTL: time.Hour})}
	reader, err := New(Config{DataDir: dir, Location: time.UTC, Cache: c})
	require.NoError(t, err)
	writer, err := New(Config{DataDir: dir, Location: time.UTC})
	require.NoError(t, err)

	require.NoError(t, writer.AddSamples(ctx, "Math", []model.Sample{{Timestamp: hour(9), StudiedSeconds: 60}}))
	c.write = func() {
		require.NoError(t, writer.AddSamples(ctx, "Math", []model.Sample{{Timestamp: hour(10), StudiedSeconds: 60}}))
	}

	got, err := reader.ReadSamples(ctx, "Math")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = reader.ReadSamples(ctx, "Math")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAddSamplesFromSeparateStores(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	const writers, perWriter = 4, 6

	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	for w := 0; w < writers; w++ {
		// one store per writer stands in for separate processes
		s, err := New(Config{DataDir: dir, Location: time.UTC})
		require.NoError(t, err)
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				ts := hour(0).Add(time.Duration(w*perWriter+i) * time.Hour)
				errs <- s.AddSamples(ctx, "Math", []model.Sample{{Timestamp: ts, StudiedSeconds: 60}})
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	s, err := New(Config{DataDir: dir, Location: time.UTC})
	require.NoError(t, err)
	got, err := s.ReadSamples(ctx, "Math")
	require.NoError(t, err)
	assert.Len(t, got, writers*perWriter)

	subjects, err := s.ListSubjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"Math"}, subjects)
}

func TestReadSamplesMissingSubject(t *testing.T) {
	s := newTestStore(t, nil)
	_, err := s.ReadSamples(context.Background(), "Nope")
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestReadSamplesCorruptFile(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, os.WriteFile(s.Path("Broken"), []byte("not parquet"), 0644))

	_, err := s.ReadSamples(context.Background(), "Broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSubjectNotFound)
}

func TestSubjectLifecycle(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, s.EnsureDefaultSubject())
	names, err := s.ListSubjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"General"}, names)

	require.NoError(t, s.CreateSubject("Math"))
	assert.ErrorIs(t, s.CreateSubject("Math"), ErrSubjectExists)

	require.NoError(t, s.AddSamples(ctx, "Math", []model.Sample{{Timestamp: hour(9), StudiedSeconds: 60}}))
	require.NoError(t, s.RenameSubject("Math", "Algebra"))
	assert.ErrorIs(t, s.RenameSubject("Math", "X"), ErrSubjectNotFound)
	assert.ErrorIs(t, s.RenameSubject("Algebra", "General"), ErrSubjectExists)

	got, err := s.ReadSamples(ctx, "Algebra")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, s.DeleteSubject("General"))
	assert.ErrorIs(t, s.DeleteSubject("General"), ErrSubjectNotFound)

	names, err = s.ListSubjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"Algebra"}, names)

	// not empty: no default is added
	require.NoError(t, s.EnsureDefaultSubject())
	names, err = s.ListSubjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"Algebra"}, names)

	// no leftover temp files
	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestValidateSubject(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"General", true},
		{"Linear Algebra", true},
		{"物理", true},
		{"", false},
		{"   ", false},
		{" Math", false},
		{"a/b", false},
		{`a\b`, false},
		{"..", false},
		{".hidden", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubject(tt.name)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSubject)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	india := time.FixedZone("IST", 5*3600+1800)
	a := []model.Sample{{Timestamp: time.Date(2024, 3, 11, 9, 10, 0, 0, india), StudiedSeconds: 100}}
	b := []model.Sample{
		{Timestamp: time.Date(2024, 3, 11, 9, 50, 0, 0, india), StudiedSeconds: 50},
		{Timestamp: time.Date(2024, 3, 11, 8, 0, 0, 0, india), StudiedSeconds: 5},
		{Timestamp: time.Date(2024, 3, 11, 7, 0, 0, 0, india), StudiedSeconds: -5},
	}

	merged := Merge(a, b)
	require.Len(t, merged, 2)
	assert.Equal(t, time.Date(2024, 3, 11, 8, 0, 0, 0, india), merged[0].Timestamp)
	assert.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, india), merged[1].Timestamp)
	assert.Equal(t, 150.0, merged[1].StudiedSeconds)
}

func TestNewRequiresDir(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
