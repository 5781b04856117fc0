package model

import "github.com/desertwitch/diskman/internal/schema"

const (
	mib = uint64(1 << 20)
	gib = uint64(1 << 30)
)

func mbrDriveFixture() []*Device {
	return []*Device{
		{
			ObjectPath:           "/org/freedesktop/UDisks/devices/sda",
			DeviceFile:           "/dev/sda",
			Size:                 10 * gib,
			MediaAvailable:       true,
			IsDrive:              true,
			IsPartitionTable:     true,
			PartitionTableScheme: SchemeMBR,
			PartitionTableCount:  2,
			Drive:                DriveInfo{Vendor: "ATA", Model: "Disk", IsMediaEjectable: false, CanDetach: true},
		},
		{
			ObjectPath:     "/org/freedesktop/UDisks/devices/sda1",
			DeviceFile:     "/dev/sda1",
			Size:           gib,
			MediaAvailable: true,
			IsPartition:    true,
			IDUsage:        "filesystem",
			IDType:         "ext4",
			Partition: PartitionInfo{
				Slave:  "/org/freedesktop/UDisks/devices/sda", Scheme: SchemeMBR,
				Number: 1, Type: "0x83", Offset: mib, Size: gib,
			},
		},
		{
			ObjectPath:     "/org/freedesktop/UDisks/devices/sda2",
			DeviceFile:     "/dev/sda2",
			Size:           4 * gib,
			MediaAvailable: true,
			IsPartition:    true,
			Partition: PartitionInfo{
				Slave:  "/org/freedesktop/UDisks/devices/sda", Scheme: SchemeMBR,
				Number: 2, Type: "0x05", Offset: 2 * gib, Size: 4 * gib,
			},
		},
		{
			ObjectPath:     "/org/freedesktop/UDisks/devices/sda5",
			DeviceFile:     "/dev/sda5",
			Size:           gib,
			MediaAvailable: true,
			IsPartition:    true,
			IsLuks:         true,
			LuksHolder:     "/org/freedesktop/UDisks/devices/dm_2d0",
			Partition: PartitionInfo{
				Slave:  "/org/freedesktop/UDisks/devices/sda", Scheme: SchemeMBR,
				Number: 5, Type: "0x83", Offset: 2*gib + mib, Size: gib,
			},
		},
		{
			ObjectPath:         "/org/freedesktop/UDisks/devices/dm_2d0",
			DeviceFile:         "/dev/dm-0",
			Size:               gib - 2*mib,
			MediaAvailable:     true,
			IsLuksCleartext:    true,
			LuksCleartextSlave: "/org/freedesktop/UDisks/devices/sda5",
			IDUsage:            "filesystem",
			IDType:             "ext4",
		},
	}
}

func raidFixture(running bool) []*Device {
	component := func(name string, pos int) *Device {
		return &Device{
			ObjectPath:         schema.EntityRef("/org/freedesktop/UDisks/devices/" + name),
			DeviceFile:         "/dev/" + name,
			Size:               2 * gib,
			MediaAvailable:     true,
			IsDrive:            true,
			IsLinuxMdComponent: true,
			LinuxMdComponent: LinuxMdComponentInfo{
				Level:    "raid5", Name: "host:data", UUID: "abc", NumRaidDevices: 3,
				Position: pos, State: []string{"in_sync"},
			},
		}
	}

	devs := []*Device{component("sdc", 1), component("sdb", 0)}

	if running {
		devs = append(devs, &Device{
			ObjectPath:     "/org/freedesktop/UDisks/devices/md0",
			DeviceFile:     "/dev/md0",
			Size:           4 * gib,
			MediaAvailable: true,
			IsLinuxMd:      true,
			LinuxMd: LinuxMdInfo{
				State:      "clean", Level: "raid5", UUID: "abc", Name: "host:data", NumRaidDevices: 3,
				IsDegraded: true, SyncAction: "idle",
				Slaves:     []schema.EntityRef{"/org/freedesktop/UDisks/devices/sdb"},
			},
		})
	}

	return devs
}
