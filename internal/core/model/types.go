package model

import (
	"fmt"
	"strings"
	"time"
)

// Sample is one raw record of study time. Timestamp is aligned to a local
// hour and StudiedSeconds is the time studied inside that hour.
type Sample struct {
	Timestamp      time.Time `json:"timestamp"`
	StudiedSeconds float64   `json:"studied_seconds"`
}

// Field is a bitmask of the calendar fields carried by a Point.
type Field uint8

const (
	FieldDate Field = 1 << iota
	FieldMonth
	FieldYear

	FieldAll = FieldDate | FieldMonth | FieldYear
)

func (f Field) String() string {
	var names []string
	if f&FieldDate != 0 {
		names = append(names, "date")
	}
	if f&FieldMonth != 0 {
		names = append(names, "month")
	}
	if f&FieldYear != 0 {
		names = append(names, "year")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// CalendarFields are the calendar coordinates of a point, derived once at
// bucketing time so aggregation never recomputes them.
type CalendarFields struct {
	Date    time.Time  // local midnight
	Month   time.Month // 1..12
	Year    int
	Present Field
}

// CalendarOf derives every calendar field of t in t's location.
func CalendarOf(t time.Time) CalendarFields {
	y, m, d := t.Date()
	return CalendarFields{
		Date:    time.Date(y, m, d, 0, 0, 0, 0, t.Location()),
		Month:   m,
		Year:    y,
		Present: FieldAll,
	}
}

// Has reports whether every field in f is present.
func (c CalendarFields) Has(f Field) bool {
	return c.Present&f == f
}

// Point is one bucket of a gap-filled or aggregated series.
type Point struct {
	Timestamp time.Time
	Value     float64
	Fields    CalendarFields
}

// Series is a dense, strictly increasing sequence of points with a fixed step.
type Series struct {
	Step   Step
	Points []Point
}

func (s Series) Len() int {
	return len(s.Points)
}

// Values returns the point values in order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// Timestamps returns the point timestamps in order.
func (s Series) Timestamps() []time.Time {
	ts := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		ts[i] = p.Timestamp
	}
	return ts
}

// Sum adds up every point value.
func (s Series) Sum() float64 {
	total := 0.0
	for _, p := range s.Points {
		total += p.Value
	}
	return total
}

// Data converts the series into animation data keyed by timestamp.
func (s Series) Data() []Datum[time.Time] {
	data := make([]Datum[time.Time], len(s.Points))
	for i, p := range s.Points {
		data[i] = Datum[time.Time]{Key: p.Timestamp, Value: p.Value}
	}
	return data
}

// Window is the half-open time range [Start, End) currently viewed.
type Window struct {
	Granularity Granularity
	Start       time.Time
	End         time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Hours is the number of whole hours the window spans.
func (w Window) Hours() int {
	return int(w.End.Sub(w.Start) / time.Hour)
}

func (w Window) String() string {
	return fmt.Sprintf("%s [%s, %s)", w.Granularity,
		w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// Unit is the display unit of an aggregated series.
type Unit struct {
	Label   string
	Seconds float64 // seconds per unit
}

var (
	UnitMinutes = Unit{Label: "minutes", Seconds: 60}
	UnitHours   = Unit{Label: "hours", Seconds: 3600}
)

// FromSeconds converts a duration in seconds to the unit.
func (u Unit) FromSeconds(seconds float64) float64 {
	return seconds / u.Seconds
}

// ToSeconds converts a value in the unit back to seconds.
func (u Unit) ToSeconds(v float64) float64 {
	return v * u.Seconds
}

// Datum is the element an animation interpolates. K is time.Time for
// time-bucket charts and string for the per-subject share chart.
type Datum[K any] struct {
	Key   K       `json:"key"`
	Value float64 `json:"value"`
}

// Values extracts the values of data in order.
func Values[K any](data []Datum[K]) []float64 {
	values := make([]float64, len(data))
	for i, d := range data {
		values[i] = d.Value
	}
	return values
}

// RenderFrame is what a renderer draws: the series to show, the committed
// start state of the running transition and the unit label.
type RenderFrame[K any] struct {
	Series   []Datum[K]
	Previous []Datum[K]
	Unit     string
}

// FileEvent represents a file system event
type FileEvent struct {
	Path      string
	Operation string
}
