// Package model implements the read-only entity model of the program.
//
// A [Pool] is an immutable snapshot of all devices known to the
// disk-management daemon, together with the presentables derived from them:
// drives, RAID arrays, volumes and holes of unallocated space. The daemon is
// authoritative, nothing in this package is ever mutated after construction.
// A changed device graph results in a new [Pool].
package model

import (
	"slices"

	"github.com/desertwitch/diskman/internal/schema"
)

// Device is a snapshot of a device as reported by the daemon.
type Device struct {
	ObjectPath     schema.EntityRef
	DeviceFile     string
	Size           uint64
	MediaAvailable bool

	IsDrive              bool
	IsPartition          bool
	IsPartitionTable     bool
	IsLinuxMd            bool
	IsLinuxMdComponent   bool
	IsLuks               bool
	IsLuksCleartext      bool
	IsSystemInternal     bool
	IsRemovable          bool
	PresentationHide     bool
	PresentationName     string
	IDUsage              string
	IDType               string
	IDUUID               string
	IDLabel              string
	LuksHolder           schema.EntityRef
	LuksCleartextSlave   schema.EntityRef
	PartitionTableScheme string
	PartitionTableCount  int

	Partition        PartitionInfo
	Drive            DriveInfo
	Smart            SmartInfo
	LinuxMd          LinuxMdInfo
	LinuxMdComponent LinuxMdComponentInfo
}

// PartitionInfo describes a partition.
type PartitionInfo struct {
	Slave  schema.EntityRef
	Scheme string
	Number int
	Type   string
	Label  string
	Flags  []string
	Offset uint64
	Size   uint64
}

// DriveInfo holds the vital product data of a drive.
type DriveInfo struct {
	Vendor              string
	Model               string
	Revision            string
	Serial              string
	WWN                 string
	ConnectionInterface string
	ConnectionSpeed     uint64
	MediaCompatibility  []string
	IsMediaEjectable    bool
	CanDetach           bool
	IsRotational        bool
}

// SmartInfo holds the ATA SMART summary of a drive.
type SmartInfo struct {
	Available     bool
	TimeCollected uint64
	Status        string
}

// LinuxMdInfo describes a (possibly running) Linux MD array device.
type LinuxMdInfo struct {
	State          string
	Level          string
	UUID           string
	Name           string
	HomeHost       string
	Version        string
	Slaves         []schema.EntityRef
	NumRaidDevices int
	IsDegraded     bool
	SyncAction     string
	SyncPercentage float64
	SyncSpeed      uint64
}

// LinuxMdComponentInfo describes a device that is a component of a Linux MD
// array, taken from the component's superblock.
type LinuxMdComponentInfo struct {
	Level          string
	Version        string
	Name           string
	HomeHost       string
	UUID           string
	NumRaidDevices int
	Position       int
	Holder         schema.EntityRef
	State          []string
}

// Ref returns the entity reference of the device.
func (d *Device) Ref() schema.EntityRef {
	if d == nil {
		return ""
	}

	return d.ObjectPath
}

// HasMediaCompatibility reports if the drive supports the given media.
func (d *Device) HasMediaCompatibility(media string) bool {
	return slices.Contains(d.Drive.MediaCompatibility, media)
}

// SmartCollected reports if SMART data is available and was collected.
func (d *Device) SmartCollected() bool {
	return d.Smart.Available && d.Smart.TimeCollected > 0
}

// IsLinuxMdRunning reports if the device is an array that is running.
func (d *Device) IsLinuxMdRunning() bool {
	return d != nil && d.IsLinuxMd && d.LinuxMd.State != "" && d.LinuxMd.State != LinuxMdStateInactive
}
