package configuration

import "errors"

var (
	// ErrInvalidValue is returned when a setting has a value that is not
	// understood.
	ErrInvalidValue = errors.New("invalid configuration value")

	// ErrNoStateDir is returned when no directory for the default journal
	// could be determined.
	ErrNoStateDir = errors.New("no state directory")
)
