// Package gate implements the modal collaborators of user actions: the
// confirmation gate in front of destructive operations, the presentation of
// operation errors and the prompt for new passphrases.
//
// All collaborators block their caller until the user has answered. When
// called from the loop, implementations keep the loop pumping through a
// [Pump], so that results of other operations are still delivered while a
// question is open.
package gate

import (
	"context"
	"strings"

	"github.com/desertwitch/diskman/internal/schema"
	"github.com/desertwitch/diskman/internal/secret"
)

// SaveMode describes if and how long a new passphrase is remembered.
type SaveMode int

const (
	// SaveNever does not remember the passphrase.
	SaveNever SaveMode = iota

	// SaveSession remembers the passphrase until the user logs out.
	SaveSession

	// SaveForever remembers the passphrase in the persistent keyring.
	SaveForever
)

// String returns the name of the [SaveMode].
func (m SaveMode) String() string {
	switch m {
	case SaveSession:
		return "session"
	case SaveForever:
		return "forever"
	case SaveNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseSaveMode resolves the name of a [SaveMode].
func ParseSaveMode(name string) (SaveMode, error) {
	for _, m := range []SaveMode{SaveNever, SaveSession, SaveForever} {
		if strings.EqualFold(m.String(), name) {
			return m, nil
		}
	}

	return SaveNever, ErrUnknownSaveMode
}

// Confirmation is a question put to the user before an operation.
type Confirmation struct {
	// TargetName is the user-facing name of the affected entity.
	TargetName string

	// Message is the question, e.g. "Are you sure you want to format the
	// drive?".
	Message string

	// Detail is an optional secondary text.
	Detail string

	// ActionLabel is the label of the affirmative answer. An underscore marks
	// the mnemonic character, e.g. "_Format".
	ActionLabel string
}

// Action returns the affirmative label without mnemonic markers.
func (c Confirmation) Action() string {
	return strings.ReplaceAll(c.ActionLabel, "_", "")
}

// Confirmer asks the user to confirm an operation.
type Confirmer interface {
	Confirm(ctx context.Context, c Confirmation) bool
}

// ErrorPresenter reports a failed operation to the user, naming the affected
// entity and the failed action.
type ErrorPresenter interface {
	ShowError(ctx context.Context, targetName string, title string, err error)
}

// SecretPrompter asks the user for a new passphrase. A false return means
// the user has cancelled, and the returned [secret.Passphrase] is nil.
// Otherwise the caller owns the passphrase and must wipe it.
type SecretPrompter interface {
	AskNewSecret(ctx context.Context) (*secret.Passphrase, SaveMode, bool)
}

// Modals combines all modal collaborators.
type Modals interface {
	Confirmer
	ErrorPresenter
	SecretPrompter
}

// Pump blocks until done is closed while keeping other work flowing.
type Pump interface {
	Wait(ctx context.Context, done <-chan struct{}) error
}

// await waits for done on the pump, or plainly if there is no pump.
func await(ctx context.Context, pump Pump, done <-chan struct{}) error {
	if pump != nil {
		return pump.Wait(ctx, done) //nolint:wrapcheck
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	}
}

// ErrorMessage returns the message of an error for presentation, without
// the daemon's error name.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if opErr, ok := schema.AsOperationError(err); ok && opErr.Message != "" {
		return opErr.Message
	}

	return err.Error()
}
