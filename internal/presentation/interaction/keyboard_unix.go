//go:build darwin || linux

package interaction

import "golang.org/x/sys/unix"

// makeRaw disables echo and line buffering but keeps ISIG so Ctrl+C
// still reaches the signal handler.
func makeRaw(fd int, get, set uint) (func() error, error) {
	oldState, err := unix.IoctlGetTermios(fd, get)
	if err != nil {
		return nil, err
	}

	newState := *oldState
	newState.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN
	newState.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	newState.Cflag |= unix.CS8
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, set, &newState); err != nil {
		return nil, err
	}

	return func() error {
		return unix.IoctlSetTermios(fd, set, oldState)
	}, nil
}
