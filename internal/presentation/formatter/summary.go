package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-study-tracker/internal/util"
)

// SummaryFormatter prints totals and the busiest bucket instead of every row.
type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("Study Summary: " + r.Subject + "\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Window: %s\n\n", r.Window)

	if r.TotalSeconds <= 0 {
		b.WriteString("No study time recorded\n\n")
		b.WriteString(strings.Repeat("=", 60) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	best := r.Rows[0]
	active := 0
	for _, row := range r.Rows {
		if row.Value > best.Value {
			best = row
		}
		if row.Value > 0 {
			active++
		}
	}

	fmt.Fprintf(&b, "Total:        %s\n", util.FormatSeconds(r.TotalSeconds))
	fmt.Fprintf(&b, "Active:       %d of %d periods\n", active, len(r.Rows))
	fmt.Fprintf(&b, "Average:      %s per active period\n", util.FormatSeconds(r.TotalSeconds/float64(active)))
	fmt.Fprintf(&b, "Busiest:      %s (%s)\n", best.Label, util.FormatValue(best.Value, r.Unit.Label))

	if len(r.Shares) > 0 {
		b.WriteString("\nBy Subject:\n")
		b.WriteString(strings.Repeat("-", 60) + "\n")
		for _, s := range r.Shares {
			fmt.Fprintf(&b, "  %-24s %10s %6.1f%%\n", s.Subject, util.FormatSeconds(s.Seconds), s.Percent)
		}
	}

	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}
