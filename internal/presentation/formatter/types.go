package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-study-tracker/internal/core/model"
)

// Row is one aggregated bucket of a report.
type Row struct {
	Timestamp time.Time
	Label     string
	Value     float64
}

// Share is one subject's slice of the total studied time.
type Share struct {
	Subject string
	Seconds float64
	Percent float64
}

// Report is the formatter input: one subject's series over a window
// plus the per-subject split of the same window.
type Report struct {
	Subject      string
	Window       model.Window
	Unit         model.Unit
	Rows         []Row
	TotalSeconds float64
	Shares       []Share
}

// Formatter writes a report in one output format.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

const (
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatSummary = "summary"
)

// New returns the formatter for name.
func New(name string) (Formatter, error) {
	switch name {
	case FormatTable, "":
		return NewTableFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	case FormatSummary:
		return NewSummaryFormatter(), nil
	}
	return nil, fmt.Errorf("unknown output format: %s", name)
}

// RowLabel names a bucket the way reports print it.
func RowLabel(t time.Time, g model.Granularity) string {
	switch g {
	case model.GranularityDay:
		return t.Format("15:04")
	case model.GranularityWeek:
		return t.Format("Mon 01-02")
	case model.GranularityMonth:
		return t.Format("2006-01-02")
	case model.GranularityYear:
		return t.Format("2006-01")
	}
	return t.Format(time.RFC3339)
}

// NewReport builds report rows from an aggregated series.
func NewReport(subject string, w model.Window, series model.Series, unit model.Unit, shares []Share) *Report {
	r := &Report{
		Subject: subject,
		Window:  w,
		Unit:    unit,
		Rows:    make([]Row, 0, series.Len()),
		Shares:  shares,
	}
	for _, p := range series.Points {
		r.Rows = append(r.Rows, Row{
			Timestamp: p.Timestamp,
			Label:     RowLabel(p.Timestamp, w.Granularity),
			Value:     p.Value,
		})
		r.TotalSeconds += unit.ToSeconds(p.Value)
	}
	return r
}

// Shares splits per-subject totals into percentages of their sum.
// Subjects keep the order given.
func Shares(subjects []string, totals []float64) []Share {
	var sum float64
	for _, v := range totals {
		sum += v
	}
	out := make([]Share, len(subjects))
	for i, s := range subjects {
		out[i] = Share{Subject: s, Seconds: totals[i]}
		if sum > 0 {
			out[i].Percent = totals[i] / sum * 100
		}
	}
	return out
}

// WindowTitle names the viewed period, e.g. "Week of Mon, Mar 11 2024".
func WindowTitle(w model.Window) string {
	switch w.Granularity {
	case model.GranularityDay:
		return w.Start.Format("Mon, Jan 2 2006")
	case model.GranularityWeek:
		return "Week of " + w.Start.Format("Mon, Jan 2 2006")
	case model.GranularityMonth:
		return w.Start.Format("January 2006")
	case model.GranularityYear:
		return w.Start.Format("2006")
	}
	return w.String()
}
