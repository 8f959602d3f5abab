package cache

import (
	"sync/atomic"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/penwyp/go-study-tracker/internal/core/constants"
	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonNotFound
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
)

func (r CacheMissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonNotFound:
		return "not_found"
	case MissReasonError:
		return "stat_error"
	case MissReasonInode:
		return "inode"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "mod_time"
	default:
		return "unknown"
	}
}

type CacheResult struct {
	Samples    []model.Sample
	Found      bool
	MissReason CacheMissReason
}

// Cache holds decoded subject files in memory keyed by subject.
type Cache interface {
	Get(subject, path string) CacheResult
	Set(subject string, info util.FileInfo, samples []model.Sample)
	Invalidate(subject string)
	Clear()
	Stats() Stats
}

// Stats counts lookups since the cache was created.
type Stats struct {
	Hits   int64
	Misses int64
}

type entry struct {
	samples []model.Sample
	info    util.FileInfo
}

// SampleCache is an otter-backed Cache whose entries are only served while
// the file they were decoded from is unchanged on disk.
type SampleCache struct {
	cache  *otter.Cache[string, entry]
	hits   atomic.Int64
	misses atomic.Int64
}

// Options configures a SampleCache.
type Options struct {
	MaxSubjects int
	TTL         time.Duration
}

func NewSampleCache(opts Options) *SampleCache {
	if opts.MaxSubjects <= 0 {
		opts.MaxSubjects = 1_000
	}
	if opts.TTL <= 0 {
		opts.TTL = constants.DefaultCacheTTL
	}

	return &SampleCache{
		cache: otter.Must(&otter.Options[string, entry]{
			MaximumSize:      opts.MaxSubjects,
			ExpiryCalculator: otter.ExpiryWriting[string, entry](opts.TTL),
		}),
	}
}

// Get returns cached samples for subject when path still matches the
// snapshot taken at Set time. Stale entries are evicted.
func (c *SampleCache) Get(subject, path string) CacheResult {
	e, ok := c.cache.GetIfPresent(subject)
	if !ok {
		return c.miss(subject, MissReasonNotFound)
	}

	if reason := validate(e.info, path); reason != MissReasonNone {
		c.cache.Invalidate(subject)
		return c.miss(subject, reason)
	}

	c.hits.Add(1)
	return CacheResult{Samples: e.samples, Found: true, MissReason: MissReasonNone}
}

func (c *SampleCache) miss(subject string, reason CacheMissReason) CacheResult {
	c.misses.Add(1)
	util.LogDebug("sample cache miss", util.F("subject", subject), util.F("reason", reason.String()))
	return CacheResult{Found: false, MissReason: reason}
}

func validate(cached util.FileInfo, path string) CacheMissReason {
	info, err := util.GetFileInfo(path)
	if err != nil {
		return MissReasonError
	}
	switch {
	case info.Inode != cached.Inode:
		return MissReasonInode
	case info.Size != cached.Size:
		return MissReasonSize
	case info.ModTime != cached.ModTime:
		return MissReasonModTime
	}
	return MissReasonNone
}

// Set stores samples under subject. info must be taken before the file was
// decoded, so a replace that lands mid-read fails validation on the next Get.
func (c *SampleCache) Set(subject string, info util.FileInfo, samples []model.Sample) {
	c.cache.Set(subject, entry{samples: samples, info: info})
}

func (c *SampleCache) Invalidate(subject string) {
	c.cache.Invalidate(subject)
}

func (c *SampleCache) Clear() {
	c.cache.InvalidateAll()
}

func (c *SampleCache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
