package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetTimeProvider() {
	mu.Lock()
	globalTimeProvider = nil
	mu.Unlock()
}

func TestInitializeTimeProvider(t *testing.T) {
	t.Cleanup(resetTimeProvider)

	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "local timezone", timezone: "Local"},
		{name: "UTC timezone", timezone: "UTC"},
		{name: "valid timezone Asia/Shanghai", timezone: "Asia/Shanghai"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
		{name: "empty timezone defaults to Local", timezone: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetTimeProvider()
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timezone")
				mu.Lock()
				assert.Nil(t, globalTimeProvider)
				mu.Unlock()
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, GetTimeProvider().Location())
		})
	}
}

func TestGetTimeProviderDefaultsToLocal(t *testing.T) {
	resetTimeProvider()
	t.Cleanup(resetTimeProvider)

	tp := GetTimeProvider()
	assert.Equal(t, time.Local, tp.Location())
	assert.Same(t, tp, GetTimeProvider())
}

func TestTimeProviderNowUsesLocation(t *testing.T) {
	tp := &TimeProvider{now: time.Now}
	require.NoError(t, tp.SetTimezone("UTC"))

	fixed := time.Date(2024, time.March, 11, 12, 0, 0, 0, time.FixedZone("X", 3600))
	tp.SetNowFunc(func() time.Time { return fixed })

	now := tp.Now()
	assert.True(t, fixed.Equal(now))
	assert.Equal(t, time.UTC, now.Location())
	assert.Equal(t, "11:00", tp.Format(fixed, "15:04"))
}

func TestParseInLocation(t *testing.T) {
	tp := &TimeProvider{now: time.Now}
	require.NoError(t, tp.SetTimezone("UTC"))

	tests := []struct {
		value    string
		expected time.Time
		wantErr  bool
	}{
		{value: "2024-03-11T09:30:00+02:00", expected: time.Date(2024, 3, 11, 7, 30, 0, 0, time.UTC)},
		{value: "2024-03-11 09:30", expected: time.Date(2024, 3, 11, 9, 30, 0, 0, time.UTC)},
		{value: "2024-03-11", expected: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
		{value: "yesterday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := tp.ParseInLocation(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %v", got)
		})
	}
}

func TestTimeProviderConcurrentAccess(t *testing.T) {
	tp := &TimeProvider{now: time.Now}
	require.NoError(t, tp.SetTimezone("UTC"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = tp.SetTimezone("UTC")
			}
			_ = tp.Now()
		}(i)
	}
	wg.Wait()
}
