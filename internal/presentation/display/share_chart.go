package display

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/penwyp/go-study-tracker/internal/util"
)

// Left-aligned eighth blocks for fractional horizontal fill.
var hBlocks = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// ShareBar is one subject line of the share chart.
type ShareBar struct {
	Label string
	Value float64
}

// ShareChart draws one horizontal bar per subject with its percentage of
// the total.
//
//	Math     ██████████████▌      62.5%  5.0 h
//	Physics  ████████▍            37.5%  3.0 h
type ShareChart struct {
	Bars  []ShareBar
	Unit  string
	Width int
	// Max fixes the full-width value; zero scales to the largest bar.
	Max float64
}

func (c ShareChart) Lines() []string {
	if len(c.Bars) == 0 {
		return []string{util.FormatDim("no subjects")}
	}

	nameW := 0
	total := 0.0
	for _, b := range c.Bars {
		nameW = max(nameW, runewidth.StringWidth(b.Label))
		total += max(b.Value, 0)
	}
	nameW = min(nameW, 24)

	top := c.Max
	if top <= 0 {
		top = maxOf(barValues(c.Bars))
	}

	// name, two spaces, bar, "  100.0%  ", value
	const tailW = 20
	barW := max(c.Width-nameW-2-tailW, 4)

	lines := make([]string, 0, len(c.Bars))
	for _, b := range c.Bars {
		name := runewidth.FillRight(runewidth.Truncate(b.Label, nameW, "…"), nameW)
		bar := hbar(b.Value, top, barW)
		tail := fmt.Sprintf("%6s  %s", util.FormatPercent(max(b.Value, 0), total), util.FormatValue(b.Value, c.Unit))
		lines = append(lines, name+"  "+barStyle.Sprint(bar)+"  "+tail)
	}
	return lines
}

func hbar(v, top float64, width int) string {
	if top <= 0 || v <= 0 {
		return strings.Repeat(" ", width)
	}
	cells := min(v/top, 1) * float64(width)
	full := int(cells)
	var sb strings.Builder
	sb.WriteString(strings.Repeat("█", full))
	if full < width {
		sb.WriteRune(hBlocks[int((cells-float64(full))*8)])
		sb.WriteString(strings.Repeat(" ", width-full-1))
	}
	return sb.String()
}

func barValues(bars []ShareBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Value
	}
	return out
}
