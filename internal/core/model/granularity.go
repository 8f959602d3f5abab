package model

import (
	"fmt"
	"strings"
)

// Granularity is the zoom level of a chart window.
type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityWeek
	GranularityMonth
	GranularityYear
)

// Granularity tokens
const (
	TokenDay   = "day"
	TokenWeek  = "week"
	TokenMonth = "month"
	TokenYear  = "year"
)

var granularityNames = map[Granularity]string{
	GranularityDay:   TokenDay,
	GranularityWeek:  TokenWeek,
	GranularityMonth: TokenMonth,
	GranularityYear:  TokenYear,
}

// Granularities lists every zoom level from finest to coarsest.
func Granularities() []Granularity {
	return []Granularity{GranularityDay, GranularityWeek, GranularityMonth, GranularityYear}
}

func (g Granularity) String() string {
	if name, ok := granularityNames[g]; ok {
		return name
	}
	return fmt.Sprintf("granularity(%d)", int(g))
}

// Valid reports whether g is one of the four known zoom levels.
func (g Granularity) Valid() bool {
	_, ok := granularityNames[g]
	return ok
}

// Step returns the spacing of the aggregated series for g.
func (g Granularity) Step() Step {
	switch g {
	case GranularityDay:
		return StepHour
	case GranularityWeek, GranularityMonth:
		return StepDay
	case GranularityYear:
		return StepMonth
	default:
		return StepHour
	}
}

// ParseGranularity accepts the long tokens ("day", "week", ...) and the
// single-letter shortcuts used by the interactive view ("d", "w", "m", "y").
func ParseGranularity(token string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case TokenDay, "d":
		return GranularityDay, nil
	case TokenWeek, "w":
		return GranularityWeek, nil
	case TokenMonth, "m":
		return GranularityMonth, nil
	case TokenYear, "y":
		return GranularityYear, nil
	}
	return GranularityDay, fmt.Errorf("%w: %q", ErrInvalidGranularity, token)
}

// Step is the fixed spacing between consecutive series points.
type Step int

const (
	StepHour Step = iota
	StepDay
	StepMonth
)

func (s Step) String() string {
	switch s {
	case StepHour:
		return "hour"
	case StepDay:
		return "day"
	case StepMonth:
		return "month"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Direction of a window shift.
type Direction int

const (
	DirectionBack Direction = iota - 1
	_
	DirectionForward
)

func (d Direction) String() string {
	switch d {
	case DirectionBack:
		return "back"
	case DirectionForward:
		return "forward"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is back or forward.
func (d Direction) Valid() bool {
	return d == DirectionBack || d == DirectionForward
}

// ParseDirection accepts "back"/"forward" and their aliases.
func ParseDirection(token string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "back", "backward", "prev", "previous", "h", "left":
		return DirectionBack, nil
	case "forward", "next", "l", "right":
		return DirectionForward, nil
	}
	return DirectionBack, fmt.Errorf("%w: %q", ErrInvalidDirection, token)
}
