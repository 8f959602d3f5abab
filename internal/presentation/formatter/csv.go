package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)

	headers := []string{"Subject", "Timestamp", "Label", "Value", "Unit", "Seconds"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, row := range r.Rows {
		record := []string{
			r.Subject,
			row.Timestamp.Format(time.RFC3339),
			row.Label,
			strconv.FormatFloat(row.Value, 'f', 2, 64),
			r.Unit.Label,
			strconv.FormatFloat(r.Unit.ToSeconds(row.Value), 'f', 0, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
