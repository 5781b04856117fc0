package secret

import "golang.org/x/sys/unix"

// Unix is an implementation wrapping the Unix memory locking functions.
type Unix struct{}

// Mlock wraps around [unix.Mlock].
func (*Unix) Mlock(b []byte) error {
	return unix.Mlock(b)
}

// Munlock wraps around [unix.Munlock].
func (*Unix) Munlock(b []byte) error {
	return unix.Munlock(b)
}
