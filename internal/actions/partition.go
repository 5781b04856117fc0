package actions

import (
	"fmt"
	"log/slog"

	"github.com/desertwitch/diskman/internal/gate"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/operation"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/desertwitch/diskman/internal/secret"
)

// PartitionRequest describes a partition to create in unallocated space.
type PartitionRequest struct {
	// Size of the partition, zero uses the whole unallocated segment.
	Size uint64

	// Type overrides the default partition type of the file system.
	Type string

	// FSType is the file system to create, or [model.FSTypeExtended] for an
	// extended partition.
	FSType  string
	FSLabel string
	Erase   string

	// Encrypt asks the user for a new passphrase and encrypts the partition.
	Encrypt bool
}

// createContext is the user data of an encrypted partition creation.
type createContext struct {
	pass *secret.Passphrase
	save gate.SaveMode
}

// Release wipes the passphrase.
func (c *createContext) Release() {
	c.pass.Wipe()
}

// CreatePartition creates a partition in a segment of unallocated space. For
// encrypted partitions, the user is asked for a new passphrase first, which
// is saved in the keyring once the partition exists, if the user wished so.
// The passphrase is wiped on every path.
func (h *Handler) CreatePartition(pool *model.Pool, hole *model.VolumeHole, req PartitionRequest) error {
	if hole == nil {
		return fmt.Errorf("(actions-create) %w", schema.ErrNoTarget)
	}

	top := pool.Toplevel(hole)
	if top == nil || top.Device() == nil || !top.Device().IsPartitionTable {
		return fmt.Errorf("(actions-create) %w", ErrNotPartitioned)
	}
	d := top.Device()
	scheme := d.PartitionTableScheme

	size := req.Size
	if size == 0 {
		size = hole.Size()
	}
	if size > hole.Size() {
		return fmt.Errorf("(actions-create) %w: %d > %d", ErrSizeExceedsSpace, size, hole.Size())
	}

	params := schema.CreatePartitionParams{
		Offset:  hole.Offset(),
		Size:    size,
		Type:    req.Type,
		FSType:  req.FSType,
		FSLabel: req.FSLabel,
		Erase:   req.Erase,
	}

	encrypt := req.Encrypt

	if req.FSType == model.FSTypeExtended {
		if scheme != model.SchemeMBR || hole.Enclosing() != top.ID() || pool.HasExtendedPartition(top) {
			return fmt.Errorf("(actions-create) %w: %s", ErrExtendedNotAllowed, scheme)
		}
		params.Type = model.MBRTypeExtended
		params.FSType = ""
		params.FSLabel = ""
		params.Erase = ""
		encrypt = false
	} else if params.Type == "" {
		partType, err := model.DefaultPartitionType(scheme, req.FSType)
		if err != nil {
			return fmt.Errorf("(actions-create) %w", err)
		}
		params.Type = partType
	}

	if model.SchemeSupportsLabels(scheme) {
		params.Label = params.FSLabel
	}

	var data *createContext

	if encrypt {
		pass, save, ok := h.prompter.AskNewSecret(h.ctx)
		if !ok {
			slog.Debug("Passphrase prompt was cancelled by the user.",
				"drive", top.Name(),
			)

			return nil
		}

		data = &createContext{pass: pass, save: save}
		params.Secret = pass
	}

	var userData any
	if data != nil {
		userData = data
	}

	name := top.Name()

	err := h.dispatch(operation.ForDevice(d), params,
		func(_ operation.Target, res schema.Result, _ any) {
			if res.Failed() {
				h.presenter.ShowError(h.ctx, name, TitleCreatePartition, res.Err)

				return
			}

			if data != nil && data.save != gate.SaveNever {
				h.saveSecret(res.Created, data)
			}
		}, userData)
	if err != nil && data != nil {
		data.Release()
	}

	return err
}

// saveSecret stores the passphrase of a new encrypted partition for the
// encrypted device behind the created cleartext device.
func (h *Handler) saveSecret(created schema.EntityRef, data *createContext) {
	if h.store == nil {
		slog.Warn("Skipped saving passphrase, no keyring is available.",
			"device", created,
		)

		return
	}

	crypto, err := h.cryptoDevice(created)
	if err != nil {
		h.presenter.ShowError(h.ctx, created.String(), TitleSaveSecret, err)

		return
	}

	owner := secret.Owner{
		Ref:        crypto.ObjectPath.String(),
		UUID:       crypto.IDUUID,
		DeviceFile: crypto.DeviceFile,
	}

	if err := h.store.Save(h.ctx, owner, data.pass, data.save == gate.SaveSession); err != nil {
		h.presenter.ShowError(h.ctx, deviceName(crypto, crypto.Ref()), TitleSaveSecret, err)

		return
	}

	slog.Info("Saved passphrase in keyring.",
		"device", crypto.DeviceFile,
		"session", data.save == gate.SaveSession,
	)
}

// cryptoDevice resolves the encrypted device of a cleartext device.
func (h *Handler) cryptoDevice(cleartext schema.EntityRef) (*model.Device, error) {
	dev, err := h.resolver.Device(h.ctx, cleartext)
	if err != nil {
		return nil, fmt.Errorf("(actions-secret) %w", err)
	}

	if dev.LuksCleartextSlave.IsZero() {
		return nil, fmt.Errorf("(actions-secret) %w: %s", ErrNoCryptoDevice, cleartext)
	}

	crypto, err := h.resolver.Device(h.ctx, dev.LuksCleartextSlave)
	if err != nil {
		return nil, fmt.Errorf("(actions-secret) %w", err)
	}

	return crypto, nil
}

// DeletePartition deletes a partition, after the user has confirmed it.
func (h *Handler) DeletePartition(vol *model.Volume) error {
	ok := h.confirm(gate.Confirmation{
		TargetName:  vol.Name(),
		Message:     "Are you sure you want to delete the partition?",
		Detail:      "All data on the partition will be irrecoverably erased.",
		ActionLabel: "_Delete",
	})
	if !ok {
		return nil
	}

	return h.dispatch(operation.ForPresentable(vol), schema.DeletePartitionParams{},
		h.reportFailure(vol.Name(), TitleDeletePartition), nil)
}
