package schedule

import "errors"

// ErrInvalidSchedule occurs when a schedule cannot be parsed.
var ErrInvalidSchedule = errors.New("invalid schedule")
