// Package analyzer produces one-shot reports of studied time.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-study-tracker/internal/application/top"
	"github.com/penwyp/go-study-tracker/internal/core/calendar"
	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/core/window"
	"github.com/penwyp/go-study-tracker/internal/data/store"
	"github.com/penwyp/go-study-tracker/internal/presentation/display"
	"github.com/penwyp/go-study-tracker/internal/presentation/formatter"
	"github.com/penwyp/go-study-tracker/internal/presentation/layout"
	"github.com/penwyp/go-study-tracker/internal/util"
)

const (
	OutputChart = "chart"
	OutputShare = "share"

	// rows of bars in a printed chart
	chartHeight = 10
)

type Config struct {
	Subject     string
	Granularity model.Granularity
	// Shift moves the window by whole periods; negative is the past
	Shift int
	// At picks the period to report; zero means now
	At        time.Time
	Output    string
	Location  *time.Location
	WeekStart time.Weekday
	// Width of printed charts; zero detects the terminal
	Width int
}

type Analyzer struct {
	config *Config
	loader *top.DataLoader
	out    io.Writer
}

func New(config *Config, reader top.SampleReader, out io.Writer) *Analyzer {
	if config.Location == nil {
		config.Location = time.Local
	}
	return &Analyzer{
		config: config,
		loader: top.NewDataLoader(reader),
		out:    out,
	}
}

// Window resolves the reported period.
func (a *Analyzer) Window() (model.Window, error) {
	at := a.config.At
	if at.IsZero() {
		at = util.GetTimeProvider().Now()
	}
	cal := calendar.New(a.config.WeekStart, a.config.Location)
	nav, err := window.NewNavigator(cal, window.ClockFunc(func() time.Time { return at }), a.config.Granularity)
	if err != nil {
		return model.Window{}, err
	}

	dir := model.DirectionForward
	steps := a.config.Shift
	if steps < 0 {
		dir, steps = model.DirectionBack, -steps
	}
	for i := 0; i < steps; i++ {
		if err := nav.Shift(dir); err != nil {
			return model.Window{}, err
		}
	}
	return nav.Window(), nil
}

func (a *Analyzer) Run(ctx context.Context) error {
	startTime := time.Now()
	util.LogInfo("Starting study report...")

	// Phase 1: Resolve window
	w, err := a.Window()
	if err != nil {
		return fmt.Errorf("resolving window: %w", err)
	}
	util.LogDebug("Phase 1 - window resolved", util.F("window", w.String()))

	// Phase 2: Resolve subject
	subjects, err := a.loader.ListSubjects()
	if err != nil {
		return fmt.Errorf("listing subjects: %w", err)
	}
	subject, err := pickSubject(a.config.Subject, subjects)
	if err != nil {
		return err
	}
	util.LogDebug("Phase 2 - subject resolved", util.F("subject", subject), util.F("subjects", len(subjects)))

	// Phase 3: Load and aggregate
	loadStart := time.Now()
	snap, err := a.loader.Load(ctx, subject, subjects, w)
	if err != nil {
		return err
	}
	util.LogDebug("Phase 3 - samples aggregated",
		util.F("points", snap.Series.Len()),
		util.F("duration", time.Since(loadStart).String()))

	// Phase 4: Output
	if err := a.output(snap); err != nil {
		return err
	}

	util.LogInfo("Report complete", util.F("duration", time.Since(startTime).String()))
	return nil
}

func (a *Analyzer) output(snap *top.Snapshot) error {
	switch a.config.Output {
	case OutputChart:
		frame := model.RenderFrame[time.Time]{Series: snap.Series.Data(), Unit: snap.Unit.Label}
		chart := display.SeriesChart(frame, snap.Ticks)
		chart.Width = a.width()
		chart.Height = chartHeight
		return a.print(a.title(snap), snap.Unit.Label, chart.Lines())
	case OutputShare:
		frame := model.RenderFrame[string]{Series: snap.Shares, Unit: model.UnitHours.Label}
		return a.print(formatter.WindowTitle(snap.Window), "", display.ShareChartOf(frame, a.width()).Lines())
	}

	f, err := formatter.New(a.config.Output)
	if err != nil {
		return err
	}
	return f.Format(a.out, newReport(snap))
}

func (a *Analyzer) title(snap *top.Snapshot) string {
	return snap.Subject + " · " + formatter.WindowTitle(snap.Window) + " · " + util.FormatSeconds(snap.TotalSeconds)
}

func (a *Analyzer) print(title, unit string, lines []string) error {
	var sb strings.Builder
	sb.WriteString(util.FormatHeaderTitle(title) + "\n")
	if unit != "" {
		sb.WriteString(util.FormatDim(unit) + "\n")
	}
	for _, l := range lines {
		sb.WriteString(l + "\n")
	}
	_, err := io.WriteString(a.out, sb.String())
	return err
}

func (a *Analyzer) width() int {
	if a.config.Width > 0 {
		return a.config.Width
	}
	return layout.Detect().Width
}

func newReport(snap *top.Snapshot) *formatter.Report {
	names := make([]string, len(snap.Shares))
	totals := make([]float64, len(snap.Shares))
	for i, d := range snap.Shares {
		names[i] = d.Key
		totals[i] = model.UnitHours.ToSeconds(d.Value)
	}
	var shares []formatter.Share
	if len(names) > 1 {
		shares = formatter.Shares(names, totals)
	}
	return formatter.NewReport(snap.Subject, snap.Window, snap.Series, snap.Unit, shares)
}

// pickSubject defaults to the first subject and rejects unknown names.
func pickSubject(requested string, subjects []string) (string, error) {
	if requested == "" {
		if len(subjects) == 0 {
			return "", fmt.Errorf("no subjects found, add one with 'go-study-tracker subject add <name>'")
		}
		return subjects[0], nil
	}
	for _, s := range subjects {
		if s == requested {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s", store.ErrSubjectNotFound, requested)
}
