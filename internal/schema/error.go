package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the root of all validation errors. A validation error
	// means that a precondition of an operation was not met and that the
	// operation was refused before anything was sent to the daemon.
	ErrValidation = errors.New("validation failed")

	// ErrNoTarget occurs when an operation is requested without a target.
	ErrNoTarget = fmt.Errorf("%w: no target", ErrValidation)

	// ErrNoDevice occurs when the target has no backing device, for example
	// a RAID array that is not running.
	ErrNoDevice = fmt.Errorf("%w: target has no device", ErrValidation)

	// ErrIneligible occurs when the target cannot be subject to the requested
	// kind of operation, for example a partition creation on something that
	// is not a partition table.
	ErrIneligible = fmt.Errorf("%w: target is ineligible for operation", ErrValidation)

	// ErrInvalidParams occurs when the parameters of an operation are
	// malformed or do not match the requested kind.
	ErrInvalidParams = fmt.Errorf("%w: invalid parameters", ErrValidation)

	// ErrUnknownKind occurs when an operation name cannot be resolved.
	ErrUnknownKind = errors.New("unknown operation kind")
)

// OperationError is an error that was reported by the daemon for an operation
// that had been dispatched to it.
type OperationError struct {
	// Kind is the daemon's name for the error, e.g. a D-Bus error name.
	Kind string

	// Message is the human-readable description of the error.
	Message string
}

// Error returns the human-readable message of the [OperationError].
func (e *OperationError) Error() string {
	if e.Kind == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsValidation reports if err is or wraps a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// AsOperationError returns the [OperationError] contained in err, if any.
func AsOperationError(err error) (*OperationError, bool) {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr, true
	}

	return nil, false
}
