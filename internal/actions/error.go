package actions

import (
	"errors"
	"fmt"

	"github.com/desertwitch/diskman/internal/schema"
)

var (
	// ErrNotEnoughComponents occurs when an array cannot be started with the
	// components that are present.
	ErrNotEnoughComponents = errors.New("not enough components available to start the array")

	// ErrArrayRunning occurs when a running array is to be started.
	ErrArrayRunning = fmt.Errorf("%w: array is already running", schema.ErrIneligible)

	// ErrArrayNotRunning occurs when the components of an array that is not
	// running are to be changed.
	ErrArrayNotRunning = fmt.Errorf("%w: array is not running", schema.ErrIneligible)

	// ErrAlreadyAttached occurs when a component to attach is already part
	// of the running array.
	ErrAlreadyAttached = fmt.Errorf("%w: component is already attached", schema.ErrIneligible)

	// ErrNotAttached occurs when a component to remove is not part of the
	// running array.
	ErrNotAttached = fmt.Errorf("%w: component is not attached", schema.ErrIneligible)

	// ErrNotPartitioned occurs when a partition is to be created on a drive
	// without a partition table.
	ErrNotPartitioned = fmt.Errorf("%w: drive has no partition table", schema.ErrIneligible)

	// ErrNoUnallocatedSpace occurs when a drive has no free space for a new
	// partition.
	ErrNoUnallocatedSpace = fmt.Errorf("%w: no unallocated space", schema.ErrIneligible)

	// ErrExtendedNotAllowed occurs when an extended partition is to be
	// created outside of the top level of a MBR partition table, or next to
	// an existing extended partition.
	ErrExtendedNotAllowed = fmt.Errorf("%w: extended partitions need a MBR table without one", schema.ErrIneligible)

	// ErrSizeExceedsSpace occurs when a requested partition is larger than
	// the unallocated space it is to be created in.
	ErrSizeExceedsSpace = fmt.Errorf("%w: size exceeds unallocated space", schema.ErrInvalidParams)

	// ErrNoCryptoDevice occurs when the encrypted device behind a new
	// cleartext device cannot be determined.
	ErrNoCryptoDevice = errors.New("no encrypted device for cleartext device")
)
