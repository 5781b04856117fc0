package operation

import (
	"fmt"

	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/schema"
)

func validate(target Target, params schema.Params) error {
	dev := target.Device()

	switch p := params.(type) {
	case schema.CreatePartitionParams:
		return validateCreatePartition(dev, p)

	case schema.DeletePartitionParams:
		if dev == nil {
			return schema.ErrNoDevice
		}
		if !dev.IsPartition {
			return fmt.Errorf("%w: %s is not a partition", schema.ErrIneligible, dev.Ref())
		}

	case schema.PartitionTableCreateParams:
		if dev == nil {
			return schema.ErrNoDevice
		}
		if !model.ValidScheme(p.Scheme) {
			return fmt.Errorf("%w: unsupported scheme %q", schema.ErrInvalidParams, p.Scheme)
		}
		if !dev.MediaAvailable {
			return fmt.Errorf("%w: %s has no media", schema.ErrIneligible, dev.Ref())
		}

	case schema.DriveEjectParams:
		if dev == nil {
			return schema.ErrNoDevice
		}
		if !dev.IsDrive || !dev.Drive.IsMediaEjectable {
			return fmt.Errorf("%w: %s has no ejectable media", schema.ErrIneligible, dev.Ref())
		}

	case schema.DriveDetachParams:
		if dev == nil {
			return schema.ErrNoDevice
		}
		if !dev.IsDrive || !dev.Drive.CanDetach {
			return fmt.Errorf("%w: %s cannot be detached", schema.ErrIneligible, dev.Ref())
		}

	case schema.LinuxMdStartParams:
		if len(p.Components) == 0 {
			return fmt.Errorf("%w: no components", schema.ErrInvalidParams)
		}
		for _, c := range p.Components {
			if c.IsZero() {
				return fmt.Errorf("%w: empty component reference", schema.ErrInvalidParams)
			}
		}
		if dev.IsLinuxMdRunning() {
			return fmt.Errorf("%w: %s is already running", schema.ErrIneligible, dev.Ref())
		}

	case schema.LinuxMdStopParams:
		// Partially assembled arrays are stopped to release their components.
		return validateArray(dev, false)

	case schema.LinuxMdCheckParams:
		return validateArray(dev, true)

	case schema.LinuxMdAddComponentParams:
		if err := validateArray(dev, true); err != nil {
			return err
		}
		if p.Component.IsZero() {
			return fmt.Errorf("%w: empty component reference", schema.ErrInvalidParams)
		}

	case schema.LinuxMdRemoveComponentParams:
		if err := validateArray(dev, true); err != nil {
			return err
		}
		if p.Component.IsZero() {
			return fmt.Errorf("%w: empty component reference", schema.ErrInvalidParams)
		}

	default:
		return fmt.Errorf("%w: unsupported parameters %T", schema.ErrInvalidParams, params)
	}

	return nil
}

func validateCreatePartition(dev *model.Device, p schema.CreatePartitionParams) error {
	if dev == nil {
		return schema.ErrNoDevice
	}

	if !dev.IsPartitionTable {
		return fmt.Errorf("%w: %s is not a partition table", schema.ErrIneligible, dev.Ref())
	}

	if p.Size == 0 {
		return fmt.Errorf("%w: zero size", schema.ErrInvalidParams)
	}

	if p.Size > dev.Size || p.Offset > dev.Size-p.Size {
		return fmt.Errorf("%w: range %d+%d exceeds device size %d", schema.ErrInvalidParams, p.Offset, p.Size, dev.Size)
	}

	if p.Type == "" {
		return fmt.Errorf("%w: no partition type", schema.ErrInvalidParams)
	}

	if p.Encrypted() && p.Secret.Empty() {
		return fmt.Errorf("%w: encryption requested without passphrase", schema.ErrInvalidParams)
	}

	return nil
}

func validateArray(dev *model.Device, mustRun bool) error {
	if dev == nil {
		return schema.ErrNoDevice
	}

	if !dev.IsLinuxMd {
		return fmt.Errorf("%w: %s is not a RAID array", schema.ErrIneligible, dev.Ref())
	}

	if mustRun && !dev.IsLinuxMdRunning() {
		return fmt.Errorf("%w: %s is not running", schema.ErrIneligible, dev.Ref())
	}

	return nil
}
