package util

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ClearScreen       = "\033[2J"   // Clear entire screen
	ClearLine         = "\033[2K"   // Clear entire line
	ClearToEnd        = "\033[0J"   // Clear from cursor to end of screen
	ClearToEOL        = "\033[K"    // Clear from cursor to end of line
	MoveCursorHome    = "\033[H"    // Move cursor to home position
	HideCursor        = "\033[?25l" // Hide cursor
	ShowCursor        = "\033[?25h" // Show cursor
	EnterAltScreen    = "\033[?1049h"
	ExitAltScreen     = "\033[?1049l"
	ResetScrollRegion = "\033[r"
)

var (
	headerStyle = color.New(color.Bold, color.FgMagenta)
	dataStyle   = color.New(color.Bold, color.FgGreen)
	dimStyle    = color.New(color.Faint)
	errorStyle  = color.New(color.FgRed)
)

// GetDisplayWidth calculates the display width of a string, accounting for wide runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return headerStyle.Sprint(title)
}

// FormatDataTitle formats data section titles (Green + Bold)
func FormatDataTitle(title string) string {
	return dataStyle.Sprint(title)
}

// FormatDim renders secondary text such as hints and axis labels.
func FormatDim(text string) string {
	return dimStyle.Sprint(text)
}

// FormatError renders an inline error line.
func FormatError(text string) string {
	return errorStyle.Sprint(text)
}

// FormatSectionSeparator creates a visual separator line of the given width
func FormatSectionSeparator(width int) string {
	if width <= 0 {
		width = 40
	}
	return dimStyle.Sprint(strings.Repeat("─", width))
}

// MoveCursor returns ANSI sequence to move cursor to specific position
func MoveCursor(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}

// CenterText centers text within the given display width
func CenterText(text string, width int) string {
	w := runewidth.StringWidth(text)
	if w >= width {
		return runewidth.Truncate(text, width, "")
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-padding-w)
}
