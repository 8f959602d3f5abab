// Package calendar aligns instants to day, week, month and year boundaries
// and moves between them with calendar-aware arithmetic.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"github.com/penwyp/go-study-tracker/internal/core/constants"
	"github.com/penwyp/go-study-tracker/internal/core/model"
)

// Calendar carries the locale choices that affect window boundaries.
type Calendar struct {
	WeekStart time.Weekday
	Location  *time.Location
}

// New returns a calendar in loc whose weeks begin on weekStart.
// A nil loc means time.Local.
func New(weekStart time.Weekday, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{WeekStart: weekStart, Location: loc}
}

// Default is a Monday-first calendar in the local zone.
func Default() Calendar {
	return New(time.Monday, time.Local)
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Calendar) with(t time.Time) *now.Now {
	cfg := &now.Config{WeekStartDay: c.WeekStart, TimeLocation: c.location()}
	return cfg.With(t.In(c.location()))
}

// StartOf aligns t to the beginning of its day, week, month or year.
func (c Calendar) StartOf(t time.Time, g model.Granularity) (time.Time, error) {
	n := c.with(t)
	switch g {
	case model.GranularityDay:
		return n.BeginningOfDay(), nil
	case model.GranularityWeek:
		return n.BeginningOfWeek(), nil
	case model.GranularityMonth:
		return n.BeginningOfMonth(), nil
	case model.GranularityYear:
		return n.BeginningOfYear(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %v", model.ErrInvalidGranularity, g)
}

// Add moves t by n periods of g. Month and year steps clamp the day of
// month, so Jan 31 plus one month is Feb 28 (or 29).
func (c Calendar) Add(t time.Time, g model.Granularity, n int) (time.Time, error) {
	switch g {
	case model.GranularityDay:
		return t.AddDate(0, 0, n), nil
	case model.GranularityWeek:
		return t.AddDate(0, 0, constants.DaysPerWeek*n), nil
	case model.GranularityMonth:
		return AddMonths(t, n), nil
	case model.GranularityYear:
		return AddYears(t, n), nil
	}
	return time.Time{}, fmt.Errorf("%w: %v", model.ErrInvalidGranularity, g)
}

// StartOfHour drops minutes, seconds and nanoseconds of t on its local
// clock. Unlike Truncate it respects zones with sub-hour offsets.
func StartOfHour(t time.Time) time.Time {
	return t.Add(-time.Duration(t.Minute())*time.Minute -
		time.Duration(t.Second())*time.Second -
		time.Duration(t.Nanosecond()))
}

// AddMonths adds n calendar months, clamping the day to the target month.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	total := int(m) - 1 + n
	ty := y + floorDiv(total, 12)
	tm := time.Month(floorMod(total, 12) + 1)

	if last := DaysIn(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// AddYears adds n calendar years; Feb 29 becomes Feb 28 in common years.
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

// DaysIn returns the number of days in month m of year y.
func DaysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseWeekday accepts full or three-letter English weekday names.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("invalid weekday %q", s)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
