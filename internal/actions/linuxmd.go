package actions

import (
	"fmt"
	"log/slog"

	"github.com/desertwitch/diskman/internal/gate"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/operation"
	"github.com/desertwitch/diskman/internal/schema"
)

// StartArray assembles an array from its present components. Starting an
// array that would run degraded requires confirmation.
func (h *Handler) StartArray(arr *model.LinuxMdDrive) error {
	if arr.IsRunning() {
		return fmt.Errorf("(actions-md-start) %w", ErrArrayRunning)
	}

	canActivate, degraded := arr.CanActivate()
	if !canActivate {
		h.presenter.ShowError(h.ctx, arr.Name(), TitleNotEnoughComponents, ErrNotEnoughComponents)

		return nil
	}

	if degraded {
		ok := h.confirm(gate.Confirmation{
			TargetName:  arr.Name(),
			Message:     "Are you sure you want the RAID Array degraded?",
			Detail:      "The array will start without redundancy until missing components are added.",
			ActionLabel: "_Start",
		})
		if !ok {
			return nil
		}
	}

	slaves := arr.Slaves()
	components := make([]schema.EntityRef, 0, len(slaves))
	for _, s := range slaves {
		components = append(components, s.Ref())
	}

	return h.dispatch(operation.ForPresentable(arr), schema.LinuxMdStartParams{Components: components, Degraded: degraded},
		h.reportFailure(arr.Name(), TitleStartArray), nil)
}

// StopArray stops a running or partially assembled array.
func (h *Handler) StopArray(arr *model.LinuxMdDrive) error {
	return h.dispatch(operation.ForPresentable(arr), schema.LinuxMdStopParams{},
		h.reportFailure(arr.Name(), TitleStopArray), nil)
}

// CheckArray checks the redundancy of a running array. Nil options mean
// [DefaultCheckOptions].
func (h *Handler) CheckArray(arr *model.LinuxMdDrive, options []string) error {
	if options == nil {
		options = DefaultCheckOptions
	}

	name := arr.Name()

	return h.dispatch(operation.ForPresentable(arr), schema.LinuxMdCheckParams{Options: options},
		func(_ operation.Target, res schema.Result, _ any) {
			if res.Failed() {
				h.presenter.ShowError(h.ctx, name, TitleCheckArray, res.Err)

				return
			}

			slog.Info("Checked RAID array.",
				"array", name,
				"errors", res.NumErrors,
			)
		}, nil)
}

// AttachComponent adds a known component that is not attached back to its
// running array.
func (h *Handler) AttachComponent(arr *model.LinuxMdDrive, slave *model.Device) error {
	if !arr.IsRunning() {
		return fmt.Errorf("(actions-md-attach) %w", ErrArrayNotRunning)
	}

	if arr.Device() != nil && arr.SlaveFlags(slave)&model.SlaveFlagNotAttached == 0 {
		return fmt.Errorf("(actions-md-attach) %w", ErrAlreadyAttached)
	}

	return h.dispatch(operation.ForPresentable(arr), schema.LinuxMdAddComponentParams{Component: slave.Ref()},
		h.reportFailure(arr.Name(), TitleAddComponent), nil)
}

// RemoveComponent removes a component from its running array, after the
// user has confirmed it. If the component is a partition, the partition is
// deleted once it was removed from the array.
func (h *Handler) RemoveComponent(arr *model.LinuxMdDrive, slave *model.Device) error {
	if arr.Device() == nil {
		return fmt.Errorf("(actions-md-remove) %w", schema.ErrNoDevice)
	}

	if !arr.IsRunning() {
		return fmt.Errorf("(actions-md-remove) %w", ErrArrayNotRunning)
	}

	if arr.SlaveFlags(slave)&model.SlaveFlagNotAttached != 0 {
		return fmt.Errorf("(actions-md-remove) %w", ErrNotAttached)
	}

	ok := h.confirm(gate.Confirmation{
		TargetName:  deviceName(slave, slave.Ref()),
		Message:     "Are you sure you want the remove the component?",
		Detail:      "The RAID Array may degrade once the component is removed.",
		ActionLabel: "_Remove",
	})
	if !ok {
		return nil
	}

	return h.dispatch(operation.ForPresentable(arr), schema.LinuxMdRemoveComponentParams{Component: slave.Ref()},
		func(_ operation.Target, res schema.Result, _ any) {
			if res.Failed() {
				h.presenter.ShowError(h.ctx, arr.Name(), TitleRemoveComponent, res.Err)

				return
			}

			if !slave.IsPartition {
				return
			}

			h.deletePartition(slave, TitleDeleteComponentPart)
		}, nil)
}

// AddComponentOnNewPartition creates a new partition in the largest segment
// of unallocated space on a drive and adds it to a running array. A size of
// zero uses the whole segment. If the partition cannot be added to the
// array, it is deleted again.
func (h *Handler) AddComponentOnNewPartition(pool *model.Pool, arr *model.LinuxMdDrive, drive model.Presentable, size uint64) error {
	arrDev := arr.Device()
	if arrDev == nil {
		return fmt.Errorf("(actions-md-add) %w", schema.ErrNoDevice)
	}

	if !arr.IsRunning() {
		return fmt.Errorf("(actions-md-add) %w", ErrArrayNotRunning)
	}

	_, largest, hole, ok := pool.UnallocatedSpace(drive)
	if !ok {
		return fmt.Errorf("(actions-md-add) %w", ErrNoUnallocatedSpace)
	}

	d := drive.Device()
	if !d.IsPartitionTable {
		return fmt.Errorf("(actions-md-add) %w", ErrNotPartitioned)
	}

	if size == 0 {
		size = largest
	}
	if size > largest {
		return fmt.Errorf("(actions-md-add) %w: %d > %d", ErrSizeExceedsSpace, size, largest)
	}

	partType, label, err := model.RaidComponentPartition(d.PartitionTableScheme, arr.ArrayName())
	if err != nil {
		return fmt.Errorf("(actions-md-add) %w", err)
	}

	params := schema.CreatePartitionParams{
		Offset: hole.Offset(),
		Size:   size,
		Type:   partType,
		Label:  label,
	}

	return h.dispatch(operation.ForDevice(d), params,
		func(_ operation.Target, res schema.Result, _ any) {
			if res.Failed() {
				h.presenter.ShowError(h.ctx, drive.Name(), TitleCreateComponentPart, res.Err)

				return
			}

			h.addCreatedComponent(arr, arrDev, res.Created)
		}, nil)
}

// addCreatedComponent is the second step of [Handler.AddComponentOnNewPartition].
func (h *Handler) addCreatedComponent(arr *model.LinuxMdDrive, arrDev *model.Device, created schema.EntityRef) {
	err := h.dispatch(operation.ForDevice(arrDev), schema.LinuxMdAddComponentParams{Component: created},
		func(_ operation.Target, res schema.Result, _ any) {
			if res.Failed() {
				h.presenter.ShowError(h.ctx, arr.Name(), TitleAddComponent, res.Err)
				h.compensate(created)
			}
		}, nil)
	if err != nil {
		h.presenter.ShowError(h.ctx, arr.Name(), TitleAddComponent, err)
		h.compensate(created)
	}
}

// compensate deletes a partition that was created for a component which
// could not be added. Its failure is reported on its own.
func (h *Handler) compensate(created schema.EntityRef) {
	slog.Info("Deleting partition of component that could not be added.",
		"partition", created,
	)

	dev, err := h.resolver.Device(h.ctx, created)
	if err != nil {
		h.presenter.ShowError(h.ctx, created.String(), TitleDeleteComponentPart, err)

		return
	}

	h.deletePartition(dev, TitleDeleteComponentPart)
}

func (h *Handler) deletePartition(dev *model.Device, title string) {
	name := deviceName(dev, dev.Ref())

	if err := h.dispatch(operation.ForDevice(dev), schema.DeletePartitionParams{},
		h.reportFailure(name, title), nil); err != nil {
		h.presenter.ShowError(h.ctx, name, title, err)
	}
}
