package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlot(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		height    int
		axisWidth int
		labelRows int
		want      PlotArea
	}{
		{"standard_terminal", 80, 24, 8, 1, PlotArea{Width: 71, Height: 18}},
		{"rotated_labels", 80, 24, 8, 5, PlotArea{Width: 71, Height: 14}},
		{"tiny_terminal", 10, 6, 8, 5, PlotArea{Width: 1, Height: MinPlotHeight}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSizer(tt.width, tt.height).Plot(tt.axisWidth, tt.labelRows))
		})
	}
}

func TestPadString(t *testing.T) {
	s := Sizer{}
	tests := []struct {
		name      string
		input     string
		width     int
		leftAlign bool
		want      string
	}{
		{"left", "abc", 5, true, "abc  "},
		{"right", "abc", 5, false, "  abc"},
		{"too_long", "abcdef", 3, true, "abcdef"},
		{"wide_runes", "数学", 6, true, "数学  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.PadString(tt.input, tt.width, tt.leftAlign))
		})
	}
}

func TestTruncate(t *testing.T) {
	s := Sizer{}
	assert.Equal(t, "abc", s.Truncate("abc", 5))
	assert.Equal(t, "ab…", s.Truncate("abcdef", 3))
	assert.Equal(t, "", s.Truncate("abc", 0))
}

func TestDetectFallback(t *testing.T) {
	// stdout is not a terminal under go test
	s := Detect()
	assert.Positive(t, s.Width)
	assert.Positive(t, s.Height)
}
