package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/core/ticks"
	"github.com/penwyp/go-study-tracker/internal/presentation/layout"
	"github.com/penwyp/go-study-tracker/internal/testing/vt"
	"github.com/penwyp/go-study-tracker/internal/util"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestBarChartLines(t *testing.T) {
	chart := BarChart{
		Values: []float64{0, 1, 2},
		Ticks:  []AxisTick{{Index: 0, Label: "a"}, {Index: 2, Label: "c"}},
		Max:    2,
		Width:  11,
		Height: 2,
	}

	assert.Equal(t, []string{
		"2│      ██",
		"1│   ██ ██",
		"0└─────────",
		"  a     c",
	}, chart.Lines())
}

func TestBarChartRotatedLabels(t *testing.T) {
	chart := BarChart{
		Values: []float64{2, 0, 2},
		Ticks:  []AxisTick{{Index: 0, Label: "ab"}, {Index: 2, Label: "cd"}},
		Rotate: true,
		Max:    2,
		Width:  11,
		Height: 2,
	}
	lines := chart.Lines()
	require.Equal(t, 2, chart.LabelRows())
	require.Len(t, lines, 5)
	assert.Equal(t, "  a     c", lines[3])
	assert.Equal(t, "  b     d", lines[4])
}

func TestBarChartSkipsOverlappingLabels(t *testing.T) {
	chart := BarChart{
		Values: []float64{1, 1, 1},
		Ticks:  []AxisTick{{Index: 0, Label: "long"}, {Index: 1, Label: "x"}, {Index: 2, Label: "end"}},
		Max:    2,
		Width:  11,
		Height: 2,
	}
	lines := chart.Lines()
	// "x" would touch "long"
	assert.Equal(t, "  long  end", lines[len(lines)-1])
}

func TestBarChartAutoScale(t *testing.T) {
	chart := BarChart{Values: []float64{3}, Width: 10, Height: 4}
	lines := chart.Lines()
	assert.True(t, strings.HasPrefix(lines[0], "  5│"), lines[0])
}

func TestCell(t *testing.T) {
	assert.Equal(t, ' ', cell(0, 0))
	assert.Equal(t, '█', cell(1, 0))
	assert.Equal(t, '▄', cell(0.5, 0))
	assert.Equal(t, '▄', cell(2.5, 2))
	assert.Equal(t, ' ', cell(2.5, 3))
	assert.Equal(t, ' ', cell(-1, 0))
}

func TestNiceCeil(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 1},
		{-3, 1},
		{0.7, 1},
		{2, 2},
		{3, 5},
		{25, 25},
		{26, 50},
		{120, 200},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NiceCeil(tt.in), 1e-9, "NiceCeil(%v)", tt.in)
	}
}

func TestFormatAxis(t *testing.T) {
	assert.Equal(t, "200", formatAxis(200))
	assert.Equal(t, "2.5", formatAxis(2.5))
	assert.Equal(t, "1.25", formatAxis(1.25))
	assert.Equal(t, "1", formatAxis(1))
}

func TestShareChartLines(t *testing.T) {
	chart := ShareChart{
		Bars:  []ShareBar{{Label: "Math", Value: 3}, {Label: "Physics", Value: 1}},
		Unit:  "hours",
		Width: 40,
	}
	lines := chart.Lines()
	require.Len(t, lines, 2)

	assert.True(t, strings.HasPrefix(lines[0], "Math     "+strings.Repeat("█", 11)))
	assert.Contains(t, lines[0], "75.0%")
	assert.Contains(t, lines[0], "3.0 h")
	assert.True(t, strings.HasPrefix(lines[1], "Physics  ███▋"))
	assert.Contains(t, lines[1], "25.0%")
}

func TestShareChartEmpty(t *testing.T) {
	assert.Equal(t, []string{"no subjects"}, ShareChart{}.Lines())
}

func hours(n int) []model.Datum[time.Time] {
	start := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
	data := make([]model.Datum[time.Time], n)
	for i := range data {
		data[i] = model.Datum[time.Time]{Key: start.Add(time.Duration(i) * time.Hour), Value: float64(i)}
	}
	return data
}

func TestSeriesChart(t *testing.T) {
	series := hours(24)
	previous := hours(24)
	previous[3].Value = 90

	tk := ticks.Ticks{
		Positions: []time.Time{series[0].Key, series[23].Key, series[0].Key.Add(-time.Hour)},
		Label:     func(t time.Time) string { return t.Format("15") },
		Rotate:    true,
	}
	chart := SeriesChart(model.RenderFrame[time.Time]{Series: series, Previous: previous, Unit: "minutes"}, tk)

	assert.Equal(t, 100.0, chart.Max)
	assert.True(t, chart.Rotate)
	assert.Equal(t, []AxisTick{{Index: 0, Label: "00"}, {Index: 23, Label: "23"}}, chart.Ticks)
}

func TestTerminalDisplayRenderSeries(t *testing.T) {
	var buf bytes.Buffer
	td := NewTerminalDisplay(&buf, func() *layout.Sizer { return layout.NewSizer(80, 24) })

	tk := ticks.Ticks{
		Positions: []time.Time{hours(1)[0].Key},
		Label:     func(t time.Time) string { return t.Format("15:04") },
	}
	frame := model.RenderFrame[time.Time]{Series: hours(24), Unit: "minutes"}
	require.NoError(t, td.RenderSeries(Header{Title: "Math", Subtitle: "day", Help: "q quit"}, frame, tk))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, util.MoveCursorHome))
	assert.True(t, strings.HasSuffix(out, util.ClearToEnd))
	assert.Contains(t, out, "Math")
	assert.Contains(t, out, "minutes")
	assert.Contains(t, out, "00:00")
	assert.Contains(t, out, "q quit")
	// the frame fills the whole screen without scrolling it
	assert.Equal(t, 23, strings.Count(out, "\n"))
}

func TestTerminalDisplayRedrawsInPlace(t *testing.T) {
	screen := vt.NewScreen(24, 80)
	td := NewTerminalDisplay(screen, func() *layout.Sizer { return layout.NewSizer(80, 24) })
	td.EnterAlternateScreen()

	tk := ticks.Ticks{Label: func(t time.Time) string { return t.Format("15") }}
	series := model.RenderFrame[time.Time]{Series: hours(24), Unit: "minutes"}
	for i := 0; i < 3; i++ {
		require.NoError(t, td.RenderSeries(Header{Title: "Math", Help: "q quit"}, series, tk))
	}
	assert.Equal(t, 0, screen.Scrolled)
	assert.True(t, strings.HasPrefix(screen.Line(0), "Math"))
	assert.Equal(t, "minutes", screen.Line(3))
	assert.Equal(t, "q quit", screen.Line(23))

	// a shorter frame leaves nothing of the previous one behind
	shares := model.RenderFrame[string]{Series: []model.Datum[string]{{Key: "Art", Value: 1}}, Unit: "hours"}
	require.NoError(t, td.RenderShares(Header{Title: "Share"}, shares))
	assert.Equal(t, 0, screen.Scrolled)
	assert.True(t, strings.HasPrefix(screen.Line(0), "Share"))
	assert.False(t, screen.Contains("minutes"))
	assert.False(t, screen.Contains("q quit"))
	assert.True(t, screen.Contains("Art"))
}

func TestTerminalDisplayRenderShares(t *testing.T) {
	var buf bytes.Buffer
	td := NewTerminalDisplay(&buf, func() *layout.Sizer { return layout.NewSizer(60, 20) })

	frame := model.RenderFrame[string]{
		Series: []model.Datum[string]{{Key: "Math", Value: 2}, {Key: "Art", Value: 2}},
		Unit:   "hours",
	}
	require.NoError(t, td.RenderShares(Header{Title: "Share"}, frame))
	assert.Contains(t, buf.String(), "50.0%")
}

func TestAlternateScreen(t *testing.T) {
	var buf bytes.Buffer
	td := NewTerminalDisplay(&buf, nil)

	td.EnterAlternateScreen()
	td.EnterAlternateScreen()
	assert.Equal(t, 1, strings.Count(buf.String(), util.EnterAltScreen))

	td.ExitAlternateScreen()
	td.ExitAlternateScreen()
	assert.Equal(t, 1, strings.Count(buf.String(), util.ExitAltScreen))
}
