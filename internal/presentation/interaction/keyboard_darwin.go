//go:build darwin

package interaction

import "golang.org/x/sys/unix"

func enableRawMode(fd int) (func() error, error) {
	return makeRaw(fd, unix.TIOCGETA, unix.TIOCSETA)
}
