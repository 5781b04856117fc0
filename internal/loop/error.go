package loop

import "errors"

// ErrAlreadyRunning occurs when a [Loop] is run more than once at a time.
var ErrAlreadyRunning = errors.New("loop is already running")
