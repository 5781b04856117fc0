package actions

import (
	"github.com/desertwitch/diskman/internal/gate"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/operation"
	"github.com/desertwitch/diskman/internal/schema"
)

// Eject ejects the media of a drive.
func (h *Handler) Eject(drive *model.Drive) error {
	return h.dispatch(operation.ForPresentable(drive), schema.DriveEjectParams{},
		h.reportFailure(drive.Name(), TitleEject), nil)
}

// Detach prepares a drive for safe removal.
func (h *Handler) Detach(drive *model.Drive) error {
	return h.dispatch(operation.ForPresentable(drive), schema.DriveDetachParams{},
		h.reportFailure(drive.Name(), TitleDetach), nil)
}

// FormatDrive creates a new partition table with the given scheme on a
// drive, after the user has confirmed it.
func (h *Handler) FormatDrive(drive model.Presentable, scheme string, erase string) error {
	ok := h.confirm(gate.Confirmation{
		TargetName:  drive.Name(),
		Message:     "Are you sure you want to format the drive?",
		Detail:      "All data on the drive will be irrecoverably erased.",
		ActionLabel: "_Format",
	})
	if !ok {
		return nil
	}

	return h.dispatch(operation.ForPresentable(drive), schema.PartitionTableCreateParams{Scheme: scheme, Erase: erase},
		h.reportFailure(drive.Name(), TitleFormat), nil)
}
