package display

import (
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Sub-block characters for fractional fill within a cell, bottom up.
var subBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

var (
	barStyle  = color.New(color.FgCyan)
	peakStyle = color.New(color.FgGreen, color.Bold)
	axisStyle = color.New(color.Faint)
)

// AxisTick is a labelled bar index on the x-axis.
type AxisTick struct {
	Index int
	Label string
}

// BarChart is a vertical bar chart drawn with eighth-block characters.
//
//	  2.0│      █
//	     │    ▄ █
//	  1.0│  █ █ █   ▂
//	     │  █ █ █ ▆ █
//	    0└──────────────
//	      Mon   Wed   Fri
type BarChart struct {
	Values []float64
	Ticks  []AxisTick
	// Rotate writes labels top to bottom, one rune per row.
	Rotate bool
	// Max fixes the top of the scale; zero scales to the data.
	Max    float64
	Width  int
	Height int
}

// Lines renders the chart. The result has Height rows of bars, one axis
// row and LabelRows rows of labels.
func (c BarChart) Lines() []string {
	height := max(c.Height, 2)
	top := c.Max
	if top <= 0 {
		top = NiceCeil(maxOf(c.Values))
	}

	axisLabels := []string{formatAxis(top), formatAxis(top / 2)}
	axisW := axisWidth(top)

	colW, barW := columns(len(c.Values), c.Width-axisW-1)
	plotW := colW * len(c.Values)

	lines := make([]string, 0, height+1+c.LabelRows())
	for row := height - 1; row >= 0; row-- {
		var sb strings.Builder

		label := ""
		switch row {
		case height - 1:
			label = axisLabels[0]
		case (height - 1) / 2:
			label = axisLabels[1]
		}
		sb.WriteString(axisStyle.Sprint(padLeft(label, axisW) + "│"))

		for _, v := range c.Values {
			ch := cell(v/top*float64(height), row)
			bar := strings.Repeat(string(ch), barW) + strings.Repeat(" ", colW-barW)
			if ch == ' ' {
				sb.WriteString(bar)
				continue
			}
			style := barStyle
			if v >= top {
				style = peakStyle
			}
			sb.WriteString(style.Sprint(bar))
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}

	lines = append(lines, axisStyle.Sprint(padLeft("0", axisW)+"└"+strings.Repeat("─", plotW)))

	prefix := strings.Repeat(" ", axisW+1)
	for _, l := range c.labelLines(colW, barW, plotW) {
		lines = append(lines, strings.TrimRight(prefix+axisStyle.Sprint(l), " "))
	}
	return lines
}

// LabelRows is the number of rows the x-axis labels take.
func (c BarChart) LabelRows() int {
	if len(c.Ticks) == 0 {
		return 0
	}
	if !c.Rotate {
		return 1
	}
	rows := 0
	for _, t := range c.Ticks {
		rows = max(rows, len([]rune(t.Label)))
	}
	return rows
}

func (c BarChart) labelLines(colW, barW, plotW int) []string {
	rows := c.LabelRows()
	if rows == 0 {
		return nil
	}

	if c.Rotate {
		grid := make([][]rune, rows)
		for r := range grid {
			grid[r] = []rune(strings.Repeat(" ", plotW))
		}
		for _, t := range c.Ticks {
			col := t.Index*colW + (barW-1)/2
			if col < 0 || col >= plotW {
				continue
			}
			for r, ch := range []rune(t.Label) {
				grid[r][col] = ch
			}
		}
		out := make([]string, rows)
		for r := range grid {
			out[r] = string(grid[r])
		}
		return out
	}

	var sb strings.Builder
	used := 0
	for _, t := range c.Ticks {
		col := t.Index * colW
		w := runewidth.StringWidth(t.Label)
		if col+w > plotW {
			col = plotW - w
		}
		col = max(col, 0)
		// the next label must not touch the previous one
		if used > 0 && col <= used {
			continue
		}
		sb.WriteString(strings.Repeat(" ", col-used))
		sb.WriteString(t.Label)
		used = col + w
	}
	return []string{sb.String()}
}

// columns splits width among n bars, leaving a one-cell gap when there is
// room for it.
func columns(n, width int) (colW, barW int) {
	if n <= 0 {
		return 1, 1
	}
	colW = max(1, width/n)
	barW = colW
	if colW >= 3 {
		barW = colW - 1
	}
	return colW, barW
}

// cell picks the block for row given a bar height measured in rows.
func cell(height float64, row int) rune {
	bottom := float64(row)
	switch {
	case math.IsNaN(height) || height <= bottom:
		return ' '
	case height >= bottom+1:
		return '█'
	}
	idx := int((height - bottom) * 8)
	return subBlocks[min(max(idx, 0), len(subBlocks)-1)]
}

// NiceCeil rounds v up to 1, 2, 2.5 or 5 times a power of ten.
func NiceCeil(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if v <= m*mag*(1+1e-9) {
			return m * mag
		}
	}
	return 10 * mag
}

func maxOf(values []float64) float64 {
	top := 0.0
	for _, v := range values {
		if v > top {
			top = v
		}
	}
	return top
}

func formatAxis(v float64) string {
	if v >= 10 || v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	if v*10 == math.Trunc(v*10) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func axisWidth(top float64) int {
	return max(len(formatAxis(top)), len(formatAxis(top/2)))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
