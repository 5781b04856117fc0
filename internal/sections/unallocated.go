package sections

import (
	"fmt"

	"github.com/desertwitch/diskman/internal/actions"
	"github.com/desertwitch/diskman/internal/model"
)

// UnallocatedSection shows a segment of unallocated space and creates new
// partitions in it.
type UnallocatedSection struct {
	base
}

func (s *UnallocatedSection) Title() string {
	return "Unallocated Space"
}

func (s *UnallocatedSection) hole() *model.VolumeHole {
	h, _ := s.p.(*model.VolumeHole)

	return h
}

func (s *UnallocatedSection) Details() []Detail {
	var scheme string
	if top := s.pool.Toplevel(s.p); top != nil && top.Device() != nil {
		scheme = schemeForDisplay(top.Device())
	}

	return []Detail{
		detail("Size", sizeForDisplay(s.p.Size())),
		detail("Offset", sizeForDisplay(s.p.Offset())),
		detail("Partitioning", scheme),
	}
}

// Warning returns a warning when the MBR partition table the space is on
// is close to its limit of primary partitions.
func (s *UnallocatedSection) Warning() string {
	switch s.pool.PrimaryLimit(s.p) {
	case model.PrimaryLimitLastPrimary:
		return "This is the last primary partition that can be created. " +
			"If you need more partitions, you can create an Extended Partition."
	case model.PrimaryLimitFull:
		return "No more partitions can be created. You may want to delete " +
			"an existing partition and then create an Extended Partition."
	case model.PrimaryLimitNone:
	}

	return ""
}

// Buttons offers partition creation unless the partition table is full.
func (s *UnallocatedSection) Buttons() []Button {
	if s.pool.PrimaryLimit(s.p) == model.PrimaryLimitFull {
		return nil
	}

	return []Button{{
		ID:          ButtonCreatePartition,
		Label:       "Create Partition",
		Description: "Create a new partition in the unallocated space",
	}}
}

func (s *UnallocatedSection) Activate(id ButtonID, in Input) error {
	return activate(s, id, func() error {
		if id != ButtonCreatePartition {
			return fmt.Errorf("(sections-unallocated) %w: %q", ErrUnavailableButton, id)
		}

		return s.handler.CreatePartition(s.pool, s.hole(), actions.PartitionRequest{
			Size:    in.Size,
			FSType:  in.FSType,
			FSLabel: in.FSLabel,
			Erase:   in.Erase,
			Encrypt: in.Encrypt,
		})
	})
}
