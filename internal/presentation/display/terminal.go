package display

import (
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/core/ticks"
	"github.com/penwyp/go-study-tracker/internal/presentation/layout"
	"github.com/penwyp/go-study-tracker/internal/util"
)

// Header is the text drawn above and below a chart.
type Header struct {
	Title    string
	Subtitle string
	Status   string
	Help     string
}

// Renderer draws animation frames.
type Renderer interface {
	RenderSeries(h Header, frame model.RenderFrame[time.Time], t ticks.Ticks) error
	RenderShares(h Header, frame model.RenderFrame[string]) error
}

type TerminalDisplay struct {
	out               io.Writer
	size              func() *layout.Sizer
	inAlternateScreen bool
}

// NewTerminalDisplay draws to out, asking size for the screen dimensions
// before every frame. A nil size detects the terminal.
func NewTerminalDisplay(out io.Writer, size func() *layout.Sizer) *TerminalDisplay {
	if size == nil {
		size = layout.Detect
	}
	return &TerminalDisplay{out: out, size: size}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	_, _ = io.WriteString(td.out, util.EnterAltScreen+util.HideCursor+util.ClearScreen+util.MoveCursorHome)
	td.inAlternateScreen = true
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	_, _ = io.WriteString(td.out, util.ShowCursor+util.ResetScrollRegion+util.ExitAltScreen)
	td.inAlternateScreen = false
}

func (td *TerminalDisplay) RenderSeries(h Header, frame model.RenderFrame[time.Time], t ticks.Ticks) error {
	sizer := td.size()
	chart := SeriesChart(frame, t)

	// one extra row for the unit line above the chart
	plot := sizer.Plot(axisWidth(chart.Max), chart.LabelRows()+1)
	chart.Width = sizer.Width
	chart.Height = plot.Height

	body := append([]string{util.FormatDim(frame.Unit)}, chart.Lines()...)
	return td.draw(sizer, h, body)
}

func (td *TerminalDisplay) RenderShares(h Header, frame model.RenderFrame[string]) error {
	sizer := td.size()
	return td.draw(sizer, h, ShareChartOf(frame, sizer.Width).Lines())
}

// SeriesChart lays out a time series frame. The scale covers both the
// frame and its start state so it stays fixed during a transition.
func SeriesChart(frame model.RenderFrame[time.Time], t ticks.Ticks) BarChart {
	values := model.Values(frame.Series)
	top := NiceCeil(max(maxOf(values), maxOf(model.Values(frame.Previous))))

	index := make(map[int64]int, len(frame.Series))
	for i, d := range frame.Series {
		index[d.Key.UnixNano()] = i
	}
	axis := make([]AxisTick, 0, len(t.Positions))
	for _, p := range t.Positions {
		if i, ok := index[p.UnixNano()]; ok {
			axis = append(axis, AxisTick{Index: i, Label: t.Label(p)})
		}
	}

	return BarChart{Values: values, Ticks: axis, Rotate: t.Rotate, Max: top}
}

// ShareChartOf lays out a per-subject frame.
func ShareChartOf(frame model.RenderFrame[string], width int) ShareChart {
	bars := make([]ShareBar, len(frame.Series))
	for i, d := range frame.Series {
		bars[i] = ShareBar{Label: d.Key, Value: d.Value}
	}
	top := max(maxOf(model.Values(frame.Series)), maxOf(model.Values(frame.Previous)))
	return ShareChart{Bars: bars, Unit: frame.Unit, Width: width, Max: top}
}

// draw repaints in place: home, overwrite each line, clear the rest.
func (td *TerminalDisplay) draw(sizer *layout.Sizer, h Header, body []string) error {
	lines := make([]string, 0, len(body)+5)
	lines = append(lines,
		util.FormatHeaderTitle(h.Title)+"  "+util.FormatDataTitle(h.Status),
		util.FormatDim(h.Subtitle),
		"",
	)
	lines = append(lines, body...)
	if h.Help != "" {
		lines = append(lines, util.FormatDim(sizer.Truncate(h.Help, sizer.Width)))
	}

	// no newline after the last line, it would scroll a full screen
	var sb strings.Builder
	sb.WriteString(util.MoveCursorHome)
	for i, l := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(l)
		sb.WriteString(util.ClearToEOL)
	}
	sb.WriteString(util.ClearToEnd)

	_, err := io.WriteString(td.out, sb.String())
	return err
}
