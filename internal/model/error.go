package model

import "errors"

var (
	// ErrUnknownScheme occurs when a partition scheme is not supported.
	ErrUnknownScheme = errors.New("unknown partition scheme")

	// ErrNoDefaultType occurs when no default partition type can be
	// determined for a combination of partition scheme and filesystem.
	ErrNoDefaultType = errors.New("no default partition type")
)
