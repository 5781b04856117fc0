package sections

import (
	"fmt"
	"strconv"

	"github.com/desertwitch/diskman/internal/model"
)

// VolumeSection shows a partition or another volume.
type VolumeSection struct {
	base
}

func (s *VolumeSection) Title() string {
	return "Volume"
}

func (s *VolumeSection) volume() *model.Volume {
	v, _ := s.p.(*model.Volume)

	return v
}

func (s *VolumeSection) Details() []Detail {
	d := s.p.Device()

	details := []Detail{
		detail("Device", d.DeviceFile),
		detail("Usage", d.IDUsage),
		detail("Type", d.IDType),
		detail("Label", d.IDLabel),
		detail("UUID", d.IDUUID),
		detail("Capacity", sizeForDisplay(s.p.Size())),
	}

	if d.IsPartition {
		details = append(details,
			detail("Partition Number", strconv.Itoa(d.Partition.Number)),
			detail("Partition Type", d.Partition.Type),
			detail("Partition Label", d.Partition.Label),
		)
	}

	return details
}

func (s *VolumeSection) Buttons() []Button {
	if !s.p.Device().IsPartition {
		return nil
	}

	return []Button{{
		ID:          ButtonDeletePartition,
		Label:       "Delete Partition",
		Description: "Delete the partition",
	}}
}

func (s *VolumeSection) Activate(id ButtonID, _ Input) error {
	return activate(s, id, func() error {
		if id != ButtonDeletePartition {
			return fmt.Errorf("(sections-volume) %w: %q", ErrUnavailableButton, id)
		}

		return s.handler.DeletePartition(s.volume())
	})
}
