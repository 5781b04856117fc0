package udisks

import (
	"errors"
	"fmt"

	"github.com/desertwitch/diskman/internal/schema"
	"github.com/godbus/dbus/v5"
)

// ErrorKindTransport is the [schema.OperationError] kind of failures that
// happened before the daemon could reply, such as a lost bus connection.
const ErrorKindTransport = "transport"

var (
	// ErrUnsupportedOperation occurs when a request has a kind that has no
	// daemon method.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrNoSignals occurs when watching without a signal-capable connection.
	ErrNoSignals = errors.New("connection does not deliver signals")
)

// toOperationError maps an error of a D-Bus call to a
// [schema.OperationError].
func toOperationError(err error) error {
	var dbusErr dbus.Error
	if errors.As(err, &dbusErr) {
		msg := dbusErr.Name
		if len(dbusErr.Body) > 0 {
			if s, ok := dbusErr.Body[0].(string); ok {
				msg = s
			}
		}

		return &schema.OperationError{Kind: dbusErr.Name, Message: msg}
	}

	var dbusErrPtr *dbus.Error
	if errors.As(err, &dbusErrPtr) && dbusErrPtr != nil {
		return toOperationError(*dbusErrPtr)
	}

	return &schema.OperationError{Kind: ErrorKindTransport, Message: fmt.Sprintf("%v", err)}
}

// ErrInvalidPath occurs when an entity reference is not a valid object path.
var ErrInvalidPath = errors.New("invalid object path")
