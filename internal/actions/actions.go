// Package actions implements the user actions of the disk utility. Every
// action is expressed as a chain of dispatched operations: each dependent
// step is only issued from the callback of the step before it, after its
// error was checked. Errors are presented once and never retried.
//
// Actions must be started on the loop, as confirmations and passphrase
// prompts block while the loop keeps delivering other results.
package actions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/desertwitch/diskman/internal/gate"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/operation"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/desertwitch/diskman/internal/secret"
)

// Titles of the errors presented for failed operations.
const (
	TitleEject               = "Error ejecting media"
	TitleDetach              = "Error detaching drive"
	TitleFormat              = "Error formatting drive"
	TitleStartArray          = "Error starting RAID Array"
	TitleNotEnoughComponents = "Not enough components available to start the RAID Array"
	TitleStopArray           = "Error stopping RAID Array"
	TitleCheckArray          = "Error checking RAID Array"
	TitleAddComponent        = "Error adding component to RAID Array"
	TitleRemoveComponent     = "Error removing component from RAID Array"
	TitleDeleteComponentPart = "Error deleting partition for component in RAID Array"
	TitleCreateComponentPart = "Error creating partition for RAID component"
	TitleCreatePartition     = "Error creating partition"
	TitleDeletePartition     = "Error deleting partition"
	TitleSaveSecret          = "Error storing passphrase in keyring"
)

// DefaultCheckOptions are the options of a RAID check started by the user.
//
//nolint:gochecknoglobals
var DefaultCheckOptions = []string{"repair"}

// Dispatcher sends operations to the daemon.
type Dispatcher interface {
	Dispatch(target operation.Target, params schema.Params, cb operation.Callback, userData any, opts ...operation.Option) (*operation.Handle, error)
}

// DeviceResolver loads the current state of a single device, used for
// devices that were created by an earlier step of a chain.
type DeviceResolver interface {
	Device(ctx context.Context, ref schema.EntityRef) (*model.Device, error)
}

// Handler is the principal implementation of the user actions.
type Handler struct {
	ctx        context.Context //nolint:containedctx
	dispatcher Dispatcher
	confirmer  gate.Confirmer
	presenter  gate.ErrorPresenter
	prompter   gate.SecretPrompter
	resolver   DeviceResolver
	store      secret.Store
	scope      *operation.Scope
}

// NewHandler returns a pointer to a new [Handler]. The store may be nil, in
// which case passphrases are never saved.
func NewHandler(ctx context.Context, dispatcher Dispatcher, modals gate.Modals, resolver DeviceResolver, store secret.Store) *Handler {
	return &Handler{
		ctx:        ctx,
		dispatcher: dispatcher,
		confirmer:  modals,
		presenter:  modals,
		prompter:   modals,
		resolver:   resolver,
		store:      store,
	}
}

// InScope returns a copy of the [Handler] whose operations deliver their
// results only while the scope is open.
func (h *Handler) InScope(scope *operation.Scope) *Handler {
	c := *h
	c.scope = scope

	return &c
}

func (h *Handler) dispatch(target operation.Target, params schema.Params, cb operation.Callback, userData any) error {
	if _, err := h.dispatcher.Dispatch(target, params, cb, userData, operation.InScope(h.scope)); err != nil {
		return fmt.Errorf("(actions) %w", err)
	}

	return nil
}

// reportFailure returns a callback presenting a failed result.
func (h *Handler) reportFailure(targetName string, title string) operation.Callback {
	return func(_ operation.Target, res schema.Result, _ any) {
		if res.Failed() {
			h.presenter.ShowError(h.ctx, targetName, title, res.Err)
		}
	}
}

func (h *Handler) confirm(c gate.Confirmation) bool {
	if h.confirmer.Confirm(h.ctx, c) {
		return true
	}

	slog.Debug("Operation was declined by the user.",
		"target", c.TargetName,
		"action", c.Action(),
	)

	return false
}

// deviceName returns a display name for a device that may be nil.
func deviceName(d *model.Device, fallback schema.EntityRef) string {
	switch {
	case d == nil:
		return fallback.String()
	case d.PresentationName != "":
		return d.PresentationName
	case d.DeviceFile != "":
		return d.DeviceFile
	default:
		return d.ObjectPath.String()
	}
}
