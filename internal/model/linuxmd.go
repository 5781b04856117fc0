package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/desertwitch/diskman/internal/schema"
)

// LinuxMdStateInactive is the state of an array device that exists but is
// not running.
const LinuxMdStateInactive = "inactive"

// SlaveFlags describe the relation of a component to its array.
type SlaveFlags uint

const (
	SlaveFlagNone        SlaveFlags = 0
	SlaveFlagNotAttached SlaveFlags = 1 << iota
	SlaveFlagFaulty
	SlaveFlagInSync
	SlaveFlagSpare
	SlaveFlagWriteMostly
	SlaveFlagBlocked
)

// LinuxMdDrive is a Linux MD array. The array is identified by the uuid in
// the superblock of its components, it only has a device while assembled.
type LinuxMdDrive struct {
	uuid   string
	dev    *Device
	slaves []*Device
}

// LinuxMdDriveID returns the presentable id of the array with the given uuid.
func LinuxMdDriveID(uuid string) string {
	return "linux_md_" + uuid
}

func (m *LinuxMdDrive) ID() string            { return LinuxMdDriveID(m.uuid) }
func (m *LinuxMdDrive) Kind() PresentableKind { return KindLinuxMdDrive }
func (m *LinuxMdDrive) Device() *Device       { return m.dev }
func (m *LinuxMdDrive) Enclosing() string     { return "" }
func (m *LinuxMdDrive) Offset() uint64        { return 0 }

// UUID returns the array uuid.
func (m *LinuxMdDrive) UUID() string {
	return m.uuid
}

// Size returns the size of the array device, or 0 if not running.
func (m *LinuxMdDrive) Size() uint64 {
	if m.dev == nil {
		return 0
	}

	return m.dev.Size
}

// Slaves returns the known components of the array, in stable order.
func (m *LinuxMdDrive) Slaves() []*Device {
	return slices.Clone(m.slaves)
}

// Level returns the RAID level, e.g. raid5.
func (m *LinuxMdDrive) Level() string {
	if m.dev != nil && m.dev.LinuxMd.Level != "" {
		return m.dev.LinuxMd.Level
	}
	if len(m.slaves) > 0 {
		return m.slaves[0].LinuxMdComponent.Level
	}

	return ""
}

// ArrayName returns the name of the array without its home host prefix.
func (m *LinuxMdDrive) ArrayName() string {
	var name string

	switch {
	case m.dev != nil && m.dev.LinuxMd.Name != "":
		name = m.dev.LinuxMd.Name
	case len(m.slaves) > 0:
		name = m.slaves[0].LinuxMdComponent.Name
	}

	if _, after, found := strings.Cut(name, ":"); found {
		return after
	}

	return name
}

// Name returns a display name for the array.
func (m *LinuxMdDrive) Name() string {
	if name := m.ArrayName(); name != "" {
		return name
	}

	return fmt.Sprintf("%s Array", LevelForDisplay(m.Level(), false))
}

// NumRaidDevices returns the amount of devices the array consists of.
func (m *LinuxMdDrive) NumRaidDevices() int {
	if m.dev != nil && m.dev.LinuxMd.NumRaidDevices > 0 {
		return m.dev.LinuxMd.NumRaidDevices
	}
	if len(m.slaves) > 0 {
		return m.slaves[0].LinuxMdComponent.NumRaidDevices
	}

	return 0
}

// IsRunning reports if the array is assembled and running.
func (m *LinuxMdDrive) IsRunning() bool {
	return m.dev.IsLinuxMdRunning()
}

// CanActivate reports if the array can be started with the components that
// are currently present, and if it would start degraded.
func (m *LinuxMdDrive) CanActivate() (ok bool, degraded bool) {
	if m.IsRunning() || len(m.slaves) == 0 {
		return false, false
	}

	present := 0
	for _, s := range m.slaves {
		if !slices.Contains(s.LinuxMdComponent.State, "spare") {
			present++
		}
	}

	return canActivate(m.Level(), m.NumRaidDevices(), present)
}

func canActivate(level string, numRaidDevices int, present int) (bool, bool) {
	if numRaidDevices <= 0 || present <= 0 {
		return false, false
	}

	if present >= numRaidDevices {
		return true, false
	}

	var required int

	switch level {
	case "raid1":
		required = 1
	case "raid4", "raid5":
		required = numRaidDevices - 1
	case "raid6":
		required = numRaidDevices - 2 //nolint:mnd
	case "raid10":
		required = numRaidDevices / 2 //nolint:mnd
	default:
		return false, false
	}

	if present >= required {
		return true, true
	}

	return false, false
}

// SlaveFlags returns the flags of a component of the array.
func (m *LinuxMdDrive) SlaveFlags(slave *Device) SlaveFlags {
	if slave == nil {
		return SlaveFlagNone
	}

	if m.dev == nil || !slices.Contains(m.dev.LinuxMd.Slaves, slave.ObjectPath) {
		return SlaveFlagNotAttached
	}

	flags := SlaveFlagNone
	for _, state := range slave.LinuxMdComponent.State {
		switch state {
		case "faulty":
			flags |= SlaveFlagFaulty
		case "in_sync":
			flags |= SlaveFlagInSync
		case "spare":
			flags |= SlaveFlagSpare
		case "write_mostly":
			flags |= SlaveFlagWriteMostly
		case "blocked":
			flags |= SlaveFlagBlocked
		}
	}

	return flags
}

// SlaveState returns a display string for the state of a component, or an
// empty string if the array is not running.
func (m *LinuxMdDrive) SlaveState(slave *Device) string {
	if !m.IsRunning() {
		return ""
	}

	flags := m.SlaveFlags(slave)

	switch {
	case flags&SlaveFlagNotAttached != 0:
		return "Not Attached"
	case flags&SlaveFlagFaulty != 0:
		return "Faulty"
	case flags&SlaveFlagSpare != 0 && m.dev.LinuxMd.SyncAction == "recover":
		return fmt.Sprintf("Recovering %.1f%%", m.dev.LinuxMd.SyncPercentage)
	case flags&SlaveFlagSpare != 0:
		return "Spare"
	case flags&SlaveFlagInSync != 0:
		return "Fully Synchronized"
	default:
		return "Partially Synchronized"
	}
}

// HasSlave reports if ref is a known component of the array.
func (m *LinuxMdDrive) HasSlave(ref schema.EntityRef) bool {
	return slices.ContainsFunc(m.slaves, func(d *Device) bool {
		return d.ObjectPath == ref
	})
}

// LevelForDisplay returns a display string for a RAID level.
func LevelForDisplay(level string, long bool) string {
	var short, desc string

	switch level {
	case "raid0":
		short, desc = "RAID-0", "Striped (RAID-0)"
	case "raid1":
		short, desc = "RAID-1", "Mirror (RAID-1)"
	case "raid4":
		short, desc = "RAID-4", "Dedicated Parity (RAID-4)"
	case "raid5":
		short, desc = "RAID-5", "Distributed Parity (RAID-5)"
	case "raid6":
		short, desc = "RAID-6", "Dual Distributed Parity (RAID-6)"
	case "raid10":
		short, desc = "RAID-10", "Striped Mirrors (RAID-10)"
	case "linear":
		short, desc = "Linear", "Concatenated (Linear)"
	case "":
		return "RAID"
	default:
		short, desc = level, level
	}

	if long {
		return desc
	}

	return short
}
