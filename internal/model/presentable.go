package model

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// PresentableKind is the kind of a [Presentable].
type PresentableKind int

const (
	KindDrive PresentableKind = iota
	KindLinuxMdDrive
	KindVolume
	KindVolumeHole
)

func (k PresentableKind) String() string {
	switch k {
	case KindDrive:
		return "drive"
	case KindLinuxMdDrive:
		return "linux-md-drive"
	case KindVolume:
		return "volume"
	case KindVolumeHole:
		return "volume-hole"
	default:
		return "unknown"
	}
}

// Presentable is a user-facing storage object. It may or may not be backed by
// a device at any given time, for example a RAID array that is not running or
// a segment of unallocated space.
type Presentable interface {
	ID() string
	Kind() PresentableKind
	Name() string
	Device() *Device
	Enclosing() string
	Offset() uint64
	Size() uint64
}

// Drive is a physical drive.
type Drive struct {
	dev *Device
}

func (d *Drive) ID() string            { return d.dev.ObjectPath.String() }
func (d *Drive) Kind() PresentableKind { return KindDrive }
func (d *Drive) Device() *Device       { return d.dev }
func (d *Drive) Enclosing() string     { return "" }
func (d *Drive) Offset() uint64        { return 0 }
func (d *Drive) Size() uint64          { return d.dev.Size }

// Name returns the vendor and model of the drive, or its device file.
func (d *Drive) Name() string {
	if d.dev.PresentationName != "" {
		return d.dev.PresentationName
	}

	switch {
	case d.dev.Drive.Vendor != "" && d.dev.Drive.Model != "":
		return d.dev.Drive.Vendor + " " + d.dev.Drive.Model
	case d.dev.Drive.Model != "":
		return d.dev.Drive.Model
	case d.dev.MediaAvailable:
		return fmt.Sprintf("%s Drive", humanize.Bytes(d.dev.Size))
	default:
		return d.dev.DeviceFile
	}
}

// Volume is a partition, a whole-disk filesystem or a cleartext device.
type Volume struct {
	id        string
	dev       *Device
	enclosing string
}

func (v *Volume) ID() string            { return v.id }
func (v *Volume) Kind() PresentableKind { return KindVolume }
func (v *Volume) Device() *Device       { return v.dev }
func (v *Volume) Enclosing() string     { return v.enclosing }

// Offset returns the offset of the partition, or 0 for other volumes.
func (v *Volume) Offset() uint64 {
	if v.dev.IsPartition {
		return v.dev.Partition.Offset
	}

	return 0
}

// Size returns the size of the volume.
func (v *Volume) Size() uint64 {
	if v.dev.IsPartition {
		return v.dev.Partition.Size
	}

	return v.dev.Size
}

// Name returns a display name for the volume.
func (v *Volume) Name() string {
	switch {
	case v.dev.IDLabel != "":
		return v.dev.IDLabel
	case v.dev.IsPartition && v.dev.Partition.Label != "":
		return v.dev.Partition.Label
	case v.dev.IsPartition && IsExtendedPartitionType(v.dev.Partition.Type) && v.dev.Partition.Scheme == SchemeMBR:
		return fmt.Sprintf("%s Extended", humanize.Bytes(v.Size()))
	default:
		return fmt.Sprintf("%s %s", humanize.Bytes(v.Size()), v.usage())
	}
}

func (v *Volume) usage() string {
	switch {
	case v.dev.IsLuks:
		return "Encrypted"
	case v.dev.IsLinuxMdComponent:
		return "RAID Component"
	case v.dev.IDUsage == "filesystem" && v.dev.IDType != "":
		return v.dev.IDType
	case v.dev.IDType == "swap":
		return "Swap Space"
	default:
		return "Unknown"
	}
}

// IsExtended reports if the volume is an extended partition.
func (v *Volume) IsExtended() bool {
	return v.dev.IsPartition && v.dev.Partition.Scheme == SchemeMBR && IsExtendedPartitionType(v.dev.Partition.Type)
}

// VolumeHole is a segment of unallocated space. It never has a device.
type VolumeHole struct {
	enclosing string
	offset    uint64
	size      uint64
}

func (h *VolumeHole) ID() string            { return fmt.Sprintf("%s/hole@%d", h.enclosing, h.offset) }
func (h *VolumeHole) Kind() PresentableKind { return KindVolumeHole }
func (h *VolumeHole) Device() *Device       { return nil }
func (h *VolumeHole) Enclosing() string     { return h.enclosing }
func (h *VolumeHole) Offset() uint64        { return h.offset }
func (h *VolumeHole) Size() uint64          { return h.size }

func (h *VolumeHole) Name() string {
	return fmt.Sprintf("%s Free", humanize.Bytes(h.size))
}
