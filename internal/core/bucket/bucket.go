// Package bucket turns sparse hourly samples into a dense hourly series.
package bucket

import (
	"fmt"
	"math"
	"time"

	"github.com/penwyp/go-study-tracker/internal/core/constants"
	"github.com/penwyp/go-study-tracker/internal/core/model"
)

// Fill returns one point per hour in [start, end), in the location of start.
// Samples inside the range are summed into the bucket they fall in, samples
// outside are dropped, and hours without samples are zero. start == end
// yields an empty series.
func Fill(samples []model.Sample, start, end time.Time) (model.Series, error) {
	if end.Before(start) {
		return model.Series{}, fmt.Errorf("%w: start %s is after end %s",
			model.ErrInvalidWindow, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	n := int(end.Sub(start) / constants.BucketDuration)
	points := make([]model.Point, n)
	for i := range points {
		ts := start.Add(time.Duration(i) * constants.BucketDuration)
		points[i] = model.Point{Timestamp: ts, Fields: model.CalendarOf(ts)}
	}

	for _, s := range samples {
		if s.Timestamp.Before(start) || !s.Timestamp.Before(end) {
			continue
		}
		if s.StudiedSeconds < 0 || math.IsNaN(s.StudiedSeconds) || math.IsInf(s.StudiedSeconds, 0) {
			continue
		}
		idx := int(s.Timestamp.Sub(start) / constants.BucketDuration)
		if idx >= n {
			// Tail of a range that is not a whole number of hours.
			continue
		}
		points[idx].Value += s.StudiedSeconds
	}

	return model.Series{Step: model.StepHour, Points: points}, nil
}

// SamplesFromSeries converts every point of an hourly series back into a
// sample, zeros included, so Fill(SamplesFromSeries(s), ...) reproduces s.
func SamplesFromSeries(series model.Series) []model.Sample {
	samples := make([]model.Sample, len(series.Points))
	for i, p := range series.Points {
		samples[i] = model.Sample{Timestamp: p.Timestamp, StudiedSeconds: p.Value}
	}
	return samples
}
