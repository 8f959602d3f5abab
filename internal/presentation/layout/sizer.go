package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/penwyp/go-study-tracker/internal/util"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24
	MinPlotHeight = 4

	// header, subtitle and the blank line under them
	headerRows = 3
	// help line at the bottom
	footerRows = 1
)

// Sizer splits a terminal screen into the regions the charts draw into.
type Sizer struct {
	Width  int
	Height int
}

func NewSizer(width, height int) *Sizer {
	return &Sizer{Width: width, Height: height}
}

// Detect reads the size of stdout, falling back to 80x24 when it is not
// a terminal.
func Detect() *Sizer {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		util.LogDebugf("terminal size unavailable, using %dx%d", DefaultWidth, DefaultHeight)
		return NewSizer(DefaultWidth, DefaultHeight)
	}
	return NewSizer(w, h)
}

// PlotArea is the cell grid available for bars once the axes are placed.
type PlotArea struct {
	Width  int
	Height int
}

// Plot returns the bar area after reserving axisWidth columns for the
// y-axis and labelRows rows for x-axis labels.
func (s Sizer) Plot(axisWidth, labelRows int) PlotArea {
	w := s.Width - axisWidth - 1
	if w < 1 {
		w = 1
	}
	h := s.Height - headerRows - footerRows - labelRows - 1
	if h < MinPlotHeight {
		h = MinPlotHeight
	}
	return PlotArea{Width: w, Height: h}
}

// displayWidth calculates the actual display width of a string containing emojis and Unicode characters
func (s Sizer) displayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads a string to a specific display width, handling emojis correctly
func (s Sizer) PadString(text string, width int, leftAlign bool) string {
	actualWidth := s.displayWidth(text)
	if actualWidth >= width {
		return text
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return text + padding
	}
	return padding + text
}

// Truncate shortens text to at most width display cells.
func (s Sizer) Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, "…")
}
