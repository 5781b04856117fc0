package gate

import "golang.org/x/sys/unix"

type fdProvider interface {
	Fd() uintptr
}

// isTerminal reports if fd refers to a terminal.
func isTerminal(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, unix.TCGETS)

	return err == nil
}

// disableEcho turns off the echo of typed characters on the terminal and
// returns a function restoring the previous state.
func disableEcho(fd int) (func(), error) {
	old, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	state := *old
	state.Lflag &^= unix.ECHO
	state.Lflag |= unix.ICANON | unix.ISIG

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &state); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return func() { _ = unix.IoctlSetTermios(fd, unix.TCSETS, old) }, nil
}
