package formatter

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/penwyp/go-study-tracker/internal/util"
)

type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Footer: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)
}

func (f *TableFormatter) Format(w io.Writer, r *Report) error {
	if _, err := fmt.Fprintf(w, "%s  %s\n", util.FormatHeaderTitle(r.Subject), r.Window); err != nil {
		return err
	}

	table := newTable(w)
	table.Header([]string{"Period", "Studied (" + r.Unit.Label + ")", "Duration"})

	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []string{
			row.Label,
			util.FormatValue(row.Value, r.Unit.Label),
			util.FormatSeconds(r.Unit.ToSeconds(row.Value)),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	table.Footer([]string{"Total", "", util.FormatSeconds(r.TotalSeconds)})
	if err := table.Render(); err != nil {
		return err
	}

	if len(r.Shares) == 0 {
		return nil
	}
	return formatShares(w, r.Shares)
}

func formatShares(w io.Writer, shares []Share) error {
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	table := newTable(w)
	table.Header([]string{"Subject", "Duration", "Share"})
	rows := make([][]string, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, []string{s.Subject, util.FormatSeconds(s.Seconds), fmt.Sprintf("%.1f%%", s.Percent)})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
