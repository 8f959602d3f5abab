package util

import (
	"fmt"
	"sync"
	"time"
)

// TimeProvider is a global time utility that handles timezone-aware time operations
type TimeProvider struct {
	location *time.Location
	now      func() time.Time
	mu       sync.RWMutex
}

var (
	globalTimeProvider *TimeProvider
	mu                 sync.Mutex
)

// InitializeTimeProvider initializes the global time provider with the specified timezone
func InitializeTimeProvider(timezone string) error {
	provider := &TimeProvider{now: time.Now}
	if err := provider.SetTimezone(timezone); err != nil {
		return err
	}

	mu.Lock()
	globalTimeProvider = provider
	mu.Unlock()
	return nil
}

// GetTimeProvider returns the global time provider instance
// If not initialized, it defaults to Local timezone
func GetTimeProvider() *TimeProvider {
	mu.Lock()
	defer mu.Unlock()
	if globalTimeProvider == nil {
		globalTimeProvider = &TimeProvider{location: time.Local, now: time.Now}
	}
	return globalTimeProvider
}

// LoadLocation resolves a timezone name; "" and "Local" mean time.Local.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	l, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Asia/Shanghai, Europe/London", timezone, err)
	}
	return l, nil
}

// SetTimezone updates the timezone for the time provider
func (tp *TimeProvider) SetTimezone(timezone string) error {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return err
	}
	tp.mu.Lock()
	tp.location = loc
	tp.mu.Unlock()
	return nil
}

// SetNowFunc replaces the wall clock, for tests that need a fixed instant.
func (tp *TimeProvider) SetNowFunc(now func() time.Time) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	if now == nil {
		now = time.Now
	}
	tp.now = now
}

// Location returns the configured timezone
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// Now returns the current time in the configured timezone
func (tp *TimeProvider) Now() time.Time {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.now().In(tp.location)
}

// In converts a time to the configured timezone
func (tp *TimeProvider) In(t time.Time) time.Time {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return t.In(tp.location)
}

// Format formats a time according to the layout in the configured timezone
func (tp *TimeProvider) Format(t time.Time, layout string) string {
	return tp.In(t).Format(layout)
}

// ParseInLocation parses a wall-clock value in the configured timezone.
// Accepted layouts are RFC 3339, "2006-01-02 15:04" and "2006-01-02".
func (tp *TimeProvider) ParseInLocation(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return tp.In(t), nil
	}
	loc := tp.Location()
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want RFC3339, 2006-01-02 15:04 or 2006-01-02", value)
}
