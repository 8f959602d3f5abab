package top

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/go-study-tracker/internal/core/bucket"
	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/core/ticks"
	"github.com/penwyp/go-study-tracker/internal/core/zoom"
	"github.com/penwyp/go-study-tracker/internal/data/store"
	"github.com/penwyp/go-study-tracker/internal/util"
)

// Snapshot is everything one render cycle needs, computed from raw
// samples before any animation state is touched.
type Snapshot struct {
	Subject string
	Window  model.Window

	// Series is the aggregated chart of Subject
	Series model.Series
	Unit   model.Unit
	Ticks  ticks.Ticks

	// Shares holds per-subject hours in the window, in subject order
	Shares []model.Datum[string]

	TotalSeconds float64
	LoadedAt     time.Time
}

// DataLoader runs the sample pipeline: read, gap-fill, aggregate.
type DataLoader struct {
	reader SampleReader
}

func NewDataLoader(reader SampleReader) *DataLoader {
	return &DataLoader{reader: reader}
}

// ListSubjects returns the subjects the reader knows about
func (dl *DataLoader) ListSubjects() ([]string, error) {
	return dl.reader.ListSubjects()
}

// Load builds the snapshot of subject over w, with shares across subjects.
func (dl *DataLoader) Load(ctx context.Context, subject string, subjects []string, w model.Window) (*Snapshot, error) {
	hourly, err := dl.hourly(ctx, subject, w)
	if err != nil {
		return nil, err
	}
	series, unit, err := zoom.Aggregate(hourly, w.Granularity)
	if err != nil {
		return nil, fmt.Errorf("aggregating %s: %w", subject, err)
	}
	axis, err := ticks.Select(series, w.Granularity)
	if err != nil {
		return nil, fmt.Errorf("selecting ticks: %w", err)
	}
	shares, err := dl.shares(ctx, subjects, w)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Subject:      subject,
		Window:       w,
		Series:       series,
		Unit:         unit,
		Ticks:        axis,
		Shares:       shares,
		TotalSeconds: hourly.Sum(),
		LoadedAt:     util.GetTimeProvider().Now(),
	}, nil
}

// hourly returns the gap-filled hourly series of subject over w. A subject
// without a file has no samples.
func (dl *DataLoader) hourly(ctx context.Context, subject string, w model.Window) (model.Series, error) {
	var samples []model.Sample
	if subject != "" {
		var err error
		samples, err = dl.reader.ReadSamples(ctx, subject)
		if err != nil && !errors.Is(err, store.ErrSubjectNotFound) {
			return model.Series{}, fmt.Errorf("reading %s: %w", subject, err)
		}
	}
	series, err := bucket.Fill(samples, w.Start, w.End)
	if err != nil {
		return model.Series{}, fmt.Errorf("filling %s: %w", subject, err)
	}
	return series, nil
}

func (dl *DataLoader) shares(ctx context.Context, subjects []string, w model.Window) ([]model.Datum[string], error) {
	out := make([]model.Datum[string], 0, len(subjects))
	for _, s := range subjects {
		series, err := dl.hourly(ctx, s, w)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Datum[string]{Key: s, Value: model.UnitHours.FromSeconds(series.Sum())})
	}
	return out, nil
}
