package sections

import (
	"errors"
	"fmt"

	"github.com/desertwitch/diskman/internal/schema"
)

var (
	// ErrUnavailableButton occurs when a button is activated that the
	// section does not currently offer.
	ErrUnavailableButton = errors.New("button is not available")

	// ErrUnknownComponent occurs when the component of an array action is
	// not a known component or device.
	ErrUnknownComponent = fmt.Errorf("%w: unknown component", schema.ErrInvalidParams)

	// ErrUnknownDrive occurs when the drive for a new array component is not
	// a known drive.
	ErrUnknownDrive = fmt.Errorf("%w: unknown drive", schema.ErrInvalidParams)
)
