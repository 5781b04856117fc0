package gate

import "errors"

var (
	// ErrUnknownSaveMode occurs when a [SaveMode] name cannot be resolved.
	ErrUnknownSaveMode = errors.New("unknown save mode")

	// errMismatch occurs when the passphrase and its verification differ.
	errMismatch = errors.New("passphrases do not match")

	// errEmpty occurs when an empty passphrase was entered.
	errEmpty = errors.New("passphrase must not be empty")
)
