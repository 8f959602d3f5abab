// Package vt replays terminal output onto a virtual screen so tests can
// assert what a user would see after several redraws.
package vt

import (
	"regexp"
	"strings"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// Screen is a fixed-size character grid with a cursor. It understands the
// subset of sequences the terminal display writes: cursor position, screen
// and line clears, CR, LF with scrolling. SGR and private modes are ignored.
type Screen struct {
	rows, cols int
	buffer     [][]rune
	x, y       int

	// Scrolled counts lines pushed off the top
	Scrolled int
}

func NewScreen(rows, cols int) *Screen {
	s := &Screen{rows: rows, cols: cols, buffer: make([][]rune, rows)}
	for i := range s.buffer {
		s.buffer[i] = blankRow(cols)
	}
	return s
}

func blankRow(cols int) []rune {
	row := make([]rune, cols)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// Write feeds output to the screen; it never fails.
func (s *Screen) Write(p []byte) (int, error) {
	s.feed([]rune(string(p)))
	return len(p), nil
}

func (s *Screen) feed(runes []rune) {
	for i := 0; i < len(runes); {
		switch r := runes[i]; {
		case r == '\x1b' && i+1 < len(runes) && runes[i+1] == '[':
			i = s.sequence(runes, i+2)
		case r == '\r':
			s.x = 0
			i++
		case r == '\n':
			s.lineFeed()
			i++
		default:
			s.put(r)
			i++
		}
	}
}

// sequence applies the CSI sequence starting at i and returns the index
// after it.
func (s *Screen) sequence(runes []rune, i int) int {
	var params []int
	current, private := 0, false
	for ; i < len(runes); i++ {
		switch r := runes[i]; {
		case r >= '0' && r <= '9':
			current = current*10 + int(r-'0')
		case r == ';':
			params = append(params, current)
			current = 0
		case r == '?':
			private = true
		default:
			params = append(params, current)
			if !private {
				s.command(r, params)
			}
			return i + 1
		}
	}
	return i
}

func (s *Screen) command(cmd rune, params []int) {
	param := func(n, def int) int {
		if n < len(params) && params[n] > 0 {
			return params[n]
		}
		return def
	}
	switch cmd {
	case 'H', 'f':
		s.y = min(param(0, 1), s.rows) - 1
		s.x = min(param(1, 1), s.cols) - 1
	case 'J':
		switch param(0, 0) {
		case 0:
			s.clearLine(s.x, s.cols)
			for i := s.y + 1; i < s.rows; i++ {
				s.buffer[i] = blankRow(s.cols)
			}
		case 2:
			for i := range s.buffer {
				s.buffer[i] = blankRow(s.cols)
			}
		}
	case 'K':
		switch param(0, 0) {
		case 0:
			s.clearLine(s.x, s.cols)
		case 1:
			s.clearLine(0, s.x+1)
		case 2:
			s.clearLine(0, s.cols)
		}
	case 'A':
		s.y = max(0, s.y-param(0, 1))
	case 'B':
		s.y = min(s.rows-1, s.y+param(0, 1))
	case 'C':
		s.x = min(s.cols-1, s.x+param(0, 1))
	case 'D':
		s.x = max(0, s.x-param(0, 1))
	}
}

func (s *Screen) clearLine(from, to int) {
	for j := max(from, 0); j < min(to, s.cols); j++ {
		s.buffer[s.y][j] = ' '
	}
}

func (s *Screen) put(r rune) {
	if s.x >= s.cols {
		// pending wrap
		s.x = 0
		s.lineFeed()
	}
	s.buffer[s.y][s.x] = r
	s.x++
}

func (s *Screen) lineFeed() {
	s.x = 0
	if s.y < s.rows-1 {
		s.y++
		return
	}
	copy(s.buffer, s.buffer[1:])
	s.buffer[s.rows-1] = blankRow(s.cols)
	s.Scrolled++
}

// Line returns row i without trailing spaces.
func (s *Screen) Line(i int) string {
	if i < 0 || i >= s.rows {
		return ""
	}
	return strings.TrimRight(string(s.buffer[i]), " ")
}

// Lines returns every row without trailing spaces.
func (s *Screen) Lines() []string {
	lines := make([]string, s.rows)
	for i := range lines {
		lines[i] = s.Line(i)
	}
	return lines
}

// Render returns the screen content as a string
func (s *Screen) Render() string {
	return strings.Join(s.Lines(), "\n")
}

// Contains checks if the screen contains specific text
func (s *Screen) Contains(text string) bool {
	return strings.Contains(s.Render(), text)
}
