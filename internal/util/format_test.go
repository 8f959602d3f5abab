package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{name: "zero", input: 0, expected: "0s"},
		{name: "seconds", input: 40 * time.Second, expected: "40s"},
		{name: "minutes", input: 5*time.Minute + 20*time.Second, expected: "5m"},
		{name: "exactly one hour", input: time.Hour, expected: "1h 0m"},
		{name: "hours and minutes", input: 2*time.Hour + 5*time.Minute, expected: "2h 5m"},
		{name: "more than a day", input: 27 * time.Hour, expected: "27h 0m"},
		{name: "negative", input: -time.Minute, expected: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "1h 30m", FormatSeconds(5400))
	assert.Equal(t, "2s", FormatSeconds(1.6))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatClock(0, 0, 0))
	assert.Equal(t, "01:02:03", FormatClock(1, 2, 3))
	assert.Equal(t, "120:59:59", FormatClock(120, 59, 59))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v        float64
		unit     string
		expected string
	}{
		{30, "minutes", "30 min"},
		{29.6, "minutes", "30 min"},
		{1.24, "hours", "1.2 h"},
		{10, "hours", "10.0 h"},
		{3, "pages", "3.00 pages"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.v, tt.unit))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "25.0%", FormatPercent(1, 4))
	assert.Equal(t, "0.0%", FormatPercent(1, 0))
}
