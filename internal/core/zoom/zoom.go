// Package zoom re-buckets an hourly series to the resolution of a zoom level.
package zoom

import (
	"fmt"
	"time"

	"github.com/penwyp/go-study-tracker/internal/core/model"
)

// Aggregate groups an hourly series for display at granularity g.
//
//	Day          hourly points, minutes
//	Week, Month  one point per calendar date, hours
//	Year         one point per calendar month stamped on its first day, hours
//
// Output order follows the input, which is chronological.
func Aggregate(series model.Series, g model.Granularity) (model.Series, model.Unit, error) {
	switch g {
	case model.GranularityDay:
		return passThrough(series, model.UnitMinutes), model.UnitMinutes, nil
	case model.GranularityWeek, model.GranularityMonth:
		out, err := groupBy(series, model.FieldDate, model.StepDay, model.UnitHours, byDate)
		return out, model.UnitHours, err
	case model.GranularityYear:
		out, err := groupBy(series, model.FieldYear|model.FieldMonth, model.StepMonth, model.UnitHours, byMonth)
		return out, model.UnitHours, err
	}
	return model.Series{}, model.Unit{}, fmt.Errorf("%w: %v", model.ErrInvalidGranularity, g)
}

func passThrough(series model.Series, unit model.Unit) model.Series {
	points := make([]model.Point, len(series.Points))
	for i, p := range series.Points {
		points[i] = p
		points[i].Value = unit.FromSeconds(p.Value)
	}
	return model.Series{Step: model.StepHour, Points: points}
}

func byDate(p model.Point) time.Time {
	return p.Fields.Date
}

func byMonth(p model.Point) time.Time {
	return time.Date(p.Fields.Year, p.Fields.Month, 1, 0, 0, 0, 0, p.Timestamp.Location())
}

// groupBy sums consecutive points sharing a key. Input is chronological so
// equal keys are always adjacent.
func groupBy(series model.Series, required model.Field, step model.Step, unit model.Unit, key func(model.Point) time.Time) (model.Series, error) {
	var points []model.Point
	for i, p := range series.Points {
		if !p.Fields.Has(required) {
			return model.Series{}, fmt.Errorf("%w: point %d at %s has %s, needs %s",
				model.ErrCalendarFieldMissing, i, p.Timestamp.Format(time.RFC3339), p.Fields.Present, required)
		}

		k := key(p)
		if last := len(points) - 1; last >= 0 && points[last].Timestamp.Equal(k) {
			points[last].Value += p.Value
			continue
		}
		points = append(points, model.Point{Timestamp: k, Value: p.Value, Fields: model.CalendarOf(k)})
	}

	for i := range points {
		points[i].Value = unit.FromSeconds(points[i].Value)
	}
	return model.Series{Step: step, Points: points}, nil
}
