package secret

import "errors"

var (
	// ErrNoOwner occurs when a passphrase is to be saved without an
	// identifying UUID of the encrypted device.
	ErrNoOwner = errors.New("no owner uuid for secret")

	// ErrEmptyPassphrase occurs when an empty or already wiped passphrase is
	// to be saved.
	ErrEmptyPassphrase = errors.New("passphrase is empty or wiped")

	// ErrPromptDismissed occurs when the user dismissed the Secret Service
	// unlock prompt.
	ErrPromptDismissed = errors.New("secret service prompt was dismissed")

	// ErrPromptUnsupported occurs when the Secret Service requires a prompt,
	// but no signal connection is available to wait for its completion.
	ErrPromptUnsupported = errors.New("secret service prompt cannot be awaited")
)
