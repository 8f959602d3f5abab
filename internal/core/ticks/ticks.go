// Package ticks picks the labelled positions of a chart's time axis.
package ticks

import (
	"fmt"
	"strconv"
	"time"

	"github.com/penwyp/go-study-tracker/internal/core/constants"
	"github.com/penwyp/go-study-tracker/internal/core/model"
)

// Ticks describes the labelled positions of a time axis.
type Ticks struct {
	Positions []time.Time
	Label     func(time.Time) string
	// Rotate asks the renderer to turn labels sideways; dense hourly axes
	// do not fit horizontally.
	Rotate bool
}

// Labels renders the label of every position.
func (t Ticks) Labels() []string {
	labels := make([]string, len(t.Positions))
	for i, p := range t.Positions {
		labels[i] = t.Label(p)
	}
	return labels
}

func blank(time.Time) string { return "" }

// Select chooses axis ticks for an aggregated series at granularity g.
// Day axes get a tick per hour; coarser axes get at most twelve evenly
// spaced ticks that always include the final point.
func Select(series model.Series, g model.Granularity) (Ticks, error) {
	label, err := labelFor(g)
	if err != nil {
		return Ticks{}, err
	}
	if series.Len() == 0 {
		return Ticks{Label: blank}, nil
	}

	if g == model.GranularityDay {
		return Ticks{Positions: series.Timestamps(), Label: label, Rotate: true}, nil
	}

	idx := Indices(series.Len(), constants.MaxTicks)
	positions := make([]time.Time, len(idx))
	for i, j := range idx {
		positions[i] = series.Points[j].Timestamp
	}
	return Ticks{Positions: positions, Label: label}, nil
}

// Indices returns at most limit indices into a sequence of length n, spaced
// by a constant stride starting at 0, with n-1 always present.
func Indices(n, limit int) []int {
	switch {
	case n <= 0 || limit <= 0:
		return nil
	case limit == 1:
		return []int{n - 1}
	case n <= limit:
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}

	stride := max(1, n/limit)
	for count(n, stride) > limit {
		stride++
	}

	idx := make([]int, 0, limit)
	for i := 0; i < n-1; i += stride {
		idx = append(idx, i)
	}
	return append(idx, n-1)
}

// count is the number of indices a stride would yield, the last one included.
func count(n, stride int) int {
	return (n-2)/stride + 2
}

func labelFor(g model.Granularity) (func(time.Time) string, error) {
	switch g {
	case model.GranularityDay:
		return func(t time.Time) string { return t.Format("15:04") }, nil
	case model.GranularityWeek:
		return func(t time.Time) string { return t.Format("Mon") }, nil
	case model.GranularityMonth:
		return func(t time.Time) string { return strconv.Itoa(t.Day()) }, nil
	case model.GranularityYear:
		return func(t time.Time) string { return t.Format("Jan") }, nil
	}
	return nil, fmt.Errorf("%w: %v", model.ErrInvalidGranularity, g)
}
