package main

import "errors"

var (
	// ErrUnknownTarget occurs when a command line argument names no known
	// drive, array or volume.
	ErrUnknownTarget = errors.New("unknown target")

	// ErrWrongTarget occurs when a target is of the wrong kind for a
	// command, such as ejecting a partition.
	ErrWrongTarget = errors.New("wrong kind of target")

	// ErrNoUnallocatedSpace occurs when no partition can be created on a
	// drive for lack of space.
	ErrNoUnallocatedSpace = errors.New("no unallocated space")

	// ErrInvalidSize occurs when a size on the command line cannot be
	// parsed.
	ErrInvalidSize = errors.New("invalid size")

	// ErrNoJournal occurs when the journal is requested but disabled.
	ErrNoJournal = errors.New("operation journal is disabled")

	// ErrOperationsFailed occurs when at least one dispatched operation has
	// failed.
	ErrOperationsFailed = errors.New("operations have failed")

	// ErrNoSchedule occurs when periodic checks are requested without a
	// schedule.
	ErrNoSchedule = errors.New("no check schedule configured")
)
