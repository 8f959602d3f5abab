package formatter

import (
	"io"
	"time"

	"github.com/bytedance/sonic"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonRow struct {
	Timestamp string  `json:"timestamp"`
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
}

type jsonShare struct {
	Subject string  `json:"subject"`
	Seconds float64 `json:"seconds"`
	Percent float64 `json:"percent"`
}

type jsonReport struct {
	Subject      string      `json:"subject"`
	Granularity  string      `json:"granularity"`
	Start        string      `json:"start"`
	End          string      `json:"end"`
	Unit         string      `json:"unit"`
	TotalSeconds float64     `json:"total_seconds"`
	Rows         []jsonRow   `json:"rows"`
	Shares       []jsonShare `json:"shares,omitempty"`
}

func (f *JSONFormatter) Format(w io.Writer, r *Report) error {
	out := jsonReport{
		Subject:      r.Subject,
		Granularity:  r.Window.Granularity.String(),
		Start:        r.Window.Start.Format(time.RFC3339),
		End:          r.Window.End.Format(time.RFC3339),
		Unit:         r.Unit.Label,
		TotalSeconds: r.TotalSeconds,
		Rows:         make([]jsonRow, 0, len(r.Rows)),
	}
	for _, row := range r.Rows {
		out.Rows = append(out.Rows, jsonRow{
			Timestamp: row.Timestamp.Format(time.RFC3339),
			Label:     row.Label,
			Value:     row.Value,
		})
	}
	for _, s := range r.Shares {
		out.Shares = append(out.Shares, jsonShare(s))
	}

	encoder := sonic.ConfigStd.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
