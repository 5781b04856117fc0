package journal

import "errors"

var (
	// ErrNoPath occurs when a journal is opened without a path.
	ErrNoPath = errors.New("no journal path")

	// ErrNotFound occurs when a journal entry does not exist.
	ErrNotFound = errors.New("journal entry not found")

	// ErrCorrupt occurs when a journal entry cannot be decoded.
	ErrCorrupt = errors.New("corrupt journal entry")
)
