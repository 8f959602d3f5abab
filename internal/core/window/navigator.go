// Package window tracks the time range a chart currently shows.
package window

import (
	"fmt"
	"time"

	"github.com/penwyp/go-study-tracker/internal/core/calendar"
	"github.com/penwyp/go-study-tracker/internal/core/model"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Navigator owns the viewed window. Start is always aligned to the
// granularity boundary and End is exactly one period after Start.
type Navigator struct {
	cal   calendar.Calendar
	clock Clock

	granularity model.Granularity
	start       time.Time
	end         time.Time
}

// NewNavigator returns a navigator showing the period of g containing now.
func NewNavigator(cal calendar.Calendar, clock Clock, g model.Granularity) (*Navigator, error) {
	if clock == nil {
		clock = ClockFunc(time.Now)
	}
	n := &Navigator{cal: cal, clock: clock}
	if err := n.SetGranularity(g); err != nil {
		return nil, err
	}
	return n, nil
}

// SetGranularity switches the zoom level and re-aligns the window around now.
func (n *Navigator) SetGranularity(g model.Granularity) error {
	return n.align(n.clock.Now(), g)
}

// Jump keeps the zoom level and re-aligns the window around t.
func (n *Navigator) Jump(t time.Time) error {
	return n.align(t, n.granularity)
}

func (n *Navigator) align(t time.Time, g model.Granularity) error {
	if !g.Valid() {
		return fmt.Errorf("%w: %v", model.ErrInvalidGranularity, g)
	}
	start, err := n.cal.StartOf(t, g)
	if err != nil {
		return err
	}
	end, err := n.cal.Add(start, g, 1)
	if err != nil {
		return err
	}
	n.granularity, n.start, n.end = g, start, end
	return nil
}

// Shift moves the window one period back or forward.
func (n *Navigator) Shift(dir model.Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: %v", model.ErrInvalidDirection, dir)
	}
	// Step from the middle of the window and re-align. Stepping Start
	// itself keeps the wall clock of a midnight skipped by DST.
	mid := n.start.Add(n.end.Sub(n.start) / 2)
	target, err := n.cal.Add(mid, n.granularity, int(dir))
	if err != nil {
		return err
	}
	return n.align(target, n.granularity)
}

// Window returns a snapshot of the current state.
func (n *Navigator) Window() model.Window {
	return model.Window{Granularity: n.granularity, Start: n.start, End: n.end}
}

func (n *Navigator) Granularity() model.Granularity {
	return n.granularity
}

// Current reports whether the window contains now.
func (n *Navigator) Current() bool {
	return n.Window().Contains(n.clock.Now())
}
