package interaction

import (
	"io"
	"os"
)

// KeyboardReader handles keyboard input in raw mode
type KeyboardReader struct {
	in      io.Reader
	restore func() error
	input   chan KeyEvent
	stop    chan struct{}
}

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

const (
	keyCtrlC = 3
	keyEsc   = 27
)

// NewKeyboardReader puts stdin into raw mode and starts reading keys.
func NewKeyboardReader() (*KeyboardReader, error) {
	restore, err := enableRawMode(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}
	return newKeyboardReader(os.Stdin, restore), nil
}

func newKeyboardReader(in io.Reader, restore func() error) *KeyboardReader {
	kr := &KeyboardReader{
		in:      in,
		restore: restore,
		input:   make(chan KeyEvent, 10),
		stop:    make(chan struct{}),
	}
	go kr.readInput()
	return kr
}

// readInput reads keyboard input in a goroutine
func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 3)

	for {
		select {
		case <-kr.stop:
			return
		default:
		}

		n, err := kr.in.Read(buf)
		if err == io.EOF {
			return
		}
		if err != nil || n == 0 {
			continue
		}

		event := parseInput(buf[:n])
		if event == nil {
			continue
		}
		select {
		case kr.input <- *event:
		case <-kr.stop:
			return
		}
	}
}

// parseInput parses raw keyboard input
func parseInput(buf []byte) *KeyEvent {
	if len(buf) == 0 {
		return nil
	}

	if buf[0] == keyCtrlC {
		return &KeyEvent{Key: keyCtrlC, Type: KeyChar}
	}

	if buf[0] == keyEsc {
		if len(buf) == 1 {
			return &KeyEvent{Key: keyEsc, Type: KeyEscape}
		}
		// CSI arrows: ESC [ A..D
		if len(buf) >= 3 && buf[1] == '[' {
			switch buf[2] {
			case 'A':
				return &KeyEvent{Type: KeyUp}
			case 'B':
				return &KeyEvent{Type: KeyDown}
			case 'C':
				return &KeyEvent{Type: KeyRight}
			case 'D':
				return &KeyEvent{Type: KeyLeft}
			}
		}
		return nil
	}

	return &KeyEvent{Key: rune(buf[0]), Type: KeyChar}
}

// Events returns the keyboard event channel
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops the keyboard reader and restores terminal
func (kr *KeyboardReader) Close() error {
	select {
	case <-kr.stop:
		return nil
	default:
	}
	close(kr.stop)
	if kr.restore == nil {
		return nil
	}
	return kr.restore()
}
