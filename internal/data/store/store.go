// Package store persists raw study samples, one parquet file per subject.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/penwyp/go-study-tracker/internal/core/calendar"
	"github.com/penwyp/go-study-tracker/internal/core/constants"
	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/data/cache"
	"github.com/penwyp/go-study-tracker/internal/data/scanner"
	"github.com/penwyp/go-study-tracker/internal/util"
)

var (
	ErrInvalidSubject  = errors.New("invalid subject name")
	ErrSubjectNotFound = errors.New("subject not found")
	ErrSubjectExists   = errors.New("subject already exists")
)

// Config configures a Store.
type Config struct {
	DataDir  string
	Location *time.Location // timestamps are returned in this zone
	Cache    cache.Cache    // optional

	// Read retry policy for files caught mid-replace.
	ReadAttempts uint
	RetryDelay   time.Duration
}

// Store reads and writes subject files under one data directory.
type Store struct {
	dir      string
	loc      *time.Location
	cache    cache.Cache
	scanner  *scanner.FileScanner
	attempts uint
	delay    time.Duration

	// serializes read-modify-write cycles
	mu sync.Mutex
}

func New(cfg Config) (*Store, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.ReadAttempts == 0 {
		cfg.ReadAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 50 * time.Millisecond
	}

	return &Store{
		dir:      cfg.DataDir,
		loc:      cfg.Location,
		cache:    cfg.Cache,
		scanner:  scanner.NewFileScanner(cfg.DataDir),
		attempts: cfg.ReadAttempts,
		delay:    cfg.RetryDelay,
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// ValidateSubject rejects names that cannot be used as a file name.
func ValidateSubject(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidSubject)
	case name != strings.TrimSpace(name):
		return fmt.Errorf("%w: %q has surrounding spaces", ErrInvalidSubject, name)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidSubject, name)
	case name == "." || name == ".." || strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidSubject, name)
	}
	return nil
}

// Path returns the file backing subject.
func (s *Store) Path(subject string) string {
	return filepath.Join(s.dir, subject+scanner.Extension)
}

// ListSubjects returns every subject name in the data directory, sorted.
func (s *Store) ListSubjects() ([]string, error) {
	return s.scanner.Names()
}

// Exists reports whether subject has a file.
func (s *Store) Exists(subject string) bool {
	_, err := os.Stat(s.Path(subject))
	return err == nil
}

// EnsureDefaultSubject creates the default subject when the data directory
// holds no subjects at all.
func (s *Store) EnsureDefaultSubject() error {
	names, err := s.ListSubjects()
	if err != nil {
		return err
	}
	if len(names) > 0 {
		return nil
	}
	util.LogInfo("creating default subject", util.F("subject", constants.DefaultSubject))
	return s.CreateSubject(constants.DefaultSubject)
}

// CreateSubject writes an empty file for a new subject.
func (s *Store) CreateSubject(subject string) error {
	if err := ValidateSubject(subject); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Exists(subject) {
		return fmt.Errorf("%w: %s", ErrSubjectExists, subject)
	}
	return s.replace(subject, nil)
}

// DeleteSubject removes a subject file and its cached samples.
func (s *Store) DeleteSubject(subject string) error {
	if err := ValidateSubject(subject); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(subject)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSubjectNotFound, subject)
		}
		return err
	}
	s.invalidate(subject)
	return nil
}

// RenameSubject moves a subject's samples to a new name.
func (s *Store) RenameSubject(from, to string) error {
	if err := ValidateSubject(from); err != nil {
		return err
	}
	if err := ValidateSubject(to); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Exists(from) {
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, from)
	}
	if s.Exists(to) {
		return fmt.Errorf("%w: %s", ErrSubjectExists, to)
	}
	if err := os.Rename(s.Path(from), s.Path(to)); err != nil {
		return fmt.Errorf("failed to rename subject: %w", err)
	}
	s.invalidate(from)
	s.invalidate(to)
	return nil
}

// ReadSamples returns every stored sample of subject sorted by timestamp.
// Reads are served from the cache while the file is unchanged; transient
// open errors are retried.
func (s *Store) ReadSamples(ctx context.Context, subject string) ([]model.Sample, error) {
	if err := ValidateSubject(subject); err != nil {
		return nil, err
	}
	path := s.Path(subject)

	if s.cache != nil {
		if res := s.cache.Get(subject, path); res.Found {
			return res.Samples, nil
		}
	}

	var (
		samples []model.Sample
		info    *util.FileInfo
	)
	err := retry.Do(
		func() error {
			// fingerprint before decoding; a replace after this point
			// changes the inode and the cached entry fails validation
			var readErr error
			info, readErr = util.GetFileInfo(path)
			if readErr == nil {
				samples, readErr = readParquet(ctx, path, s.loc)
			}
			if errors.Is(readErr, fs.ErrNotExist) {
				return retry.Unrecoverable(fmt.Errorf("%w: %s", ErrSubjectNotFound, subject))
			}
			return readErr
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.MaxDelay(time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ErrSchema) && !errors.Is(err, context.Canceled)
		}),
		retry.OnRetry(func(n uint, err error) {
			util.LogDebug("retrying subject read", util.F("subject", subject), util.F("attempt", n+1), util.F("error", err))
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read subject %s: %w", subject, err)
	}

	sortSamples(samples)
	if s.cache != nil {
		s.cache.Set(subject, *info, samples)
	}
	return samples, nil
}

// AddSamples merges samples into a subject, creating it if needed. Samples
// landing on the same local hour are summed.
func (s *Store) AddSamples(ctx context.Context, subject string, samples []model.Sample) error {
	if err := ValidateSubject(subject); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	unlock, err := lockDir(s.dir)
	if err != nil {
		return err
	}
	defer unlock()

	var existing []model.Sample
	if s.Exists(subject) {
		existing, err = s.ReadSamples(ctx, subject)
		if err != nil {
			return err
		}
	}

	merged := Merge(existing, samples)
	if err := s.replace(subject, merged); err != nil {
		return err
	}
	util.LogInfo("stored samples", util.F("subject", subject), util.F("added", len(samples)), util.F("rows", len(merged)))
	return nil
}

// replace atomically swaps the subject file for one holding samples.
// Caller holds s.mu.
func (s *Store) replace(subject string, samples []model.Sample) error {
	tmp, err := os.CreateTemp(s.dir, "."+subject+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	if err := writeParquet(tmpPath, samples); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write subject %s: %w", subject, err)
	}
	if err := os.Rename(tmpPath, s.Path(subject)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace subject %s: %w", subject, err)
	}
	s.invalidate(subject)
	return nil
}

func (s *Store) invalidate(subject string) {
	if s.cache != nil {
		s.cache.Invalidate(subject)
	}
}

// Merge combines two sample sets, aligning every timestamp to the start of
// its local hour and summing samples that share an hour.
func Merge(a, b []model.Sample) []model.Sample {
	byHour := make(map[int64]model.Sample, len(a)+len(b))
	add := func(samples []model.Sample) {
		for _, sm := range samples {
			if sm.StudiedSeconds <= 0 {
				continue
			}
			hour := calendar.StartOfHour(sm.Timestamp)
			key := hour.Unix()
			cur, ok := byHour[key]
			if !ok {
				cur = model.Sample{Timestamp: hour}
			}
			cur.StudiedSeconds += sm.StudiedSeconds
			byHour[key] = cur
		}
	}
	add(a)
	add(b)

	merged := make([]model.Sample, 0, len(byHour))
	for _, sm := range byHour {
		merged = append(merged, sm)
	}
	sortSamples(merged)
	return merged
}

func sortSamples(samples []model.Sample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})
}
