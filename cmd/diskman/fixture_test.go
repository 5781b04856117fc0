package main

import (
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/schema"
)

const (
	mib = uint64(1 << 20)
	gib = uint64(1 << 30)

	sdaPath  = schema.EntityRef("/org/freedesktop/UDisks/devices/sda")
	sda1Path = schema.EntityRef("/org/freedesktop/UDisks/devices/sda1")
	sdbPath  = schema.EntityRef("/org/freedesktop/UDisks/devices/sdb")
	sdcPath  = schema.EntityRef("/org/freedesktop/UDisks/devices/sdc")
	md0Path  = schema.EntityRef("/org/freedesktop/UDisks/devices/md0")
)

// testPool returns a 10 GiB GPT drive sda with one partition of 1 GiB at
// 1 MiB, a running degraded raid1 array md0 with the component sdb, and
// an empty GPT drive sdc.
func testPool() *model.Pool {
	return model.NewPool([]*model.Device{
		{
			ObjectPath:           sdaPath,
			DeviceFile:           "/dev/sda",
			Size:                 10 * gib,
			MediaAvailable:       true,
			IsDrive:              true,
			IsPartitionTable:     true,
			PartitionTableScheme: model.SchemeGPT,
			PartitionTableCount:  1,
			Drive: model.DriveInfo{
				Vendor:           "ATA",
				Model:            "Disk",
				Serial:           "S123",
				IsMediaEjectable: true,
			},
		},
		{
			ObjectPath:     sda1Path,
			DeviceFile:     "/dev/sda1",
			Size:           gib,
			MediaAvailable: true,
			IsPartition:    true,
			IDUsage:        "filesystem",
			IDType:         "ext4",
			Partition: model.PartitionInfo{
				Slave:  sdaPath,
				Scheme: model.SchemeGPT,
				Number: 1,
				Offset: mib,
				Size:   gib,
			},
		},
		{
			ObjectPath:         sdbPath,
			DeviceFile:         "/dev/sdb",
			Size:               2 * gib,
			MediaAvailable:     true,
			IsDrive:            true,
			IsLinuxMdComponent: true,
			LinuxMdComponent: model.LinuxMdComponentInfo{
				Level:          "raid1",
				Version:        "1.2",
				Name:           "host:data",
				UUID:           "abc",
				NumRaidDevices: 2,
				State:          []string{"in_sync"},
			},
		},
		{
			ObjectPath:           sdcPath,
			DeviceFile:           "/dev/sdc",
			Size:                 4 * gib,
			MediaAvailable:       true,
			IsDrive:              true,
			IsPartitionTable:     true,
			PartitionTableScheme: model.SchemeGPT,
		},
		{
			ObjectPath:     md0Path,
			DeviceFile:     "/dev/md0",
			Size:           2 * gib,
			MediaAvailable: true,
			IsLinuxMd:      true,
			LinuxMd: model.LinuxMdInfo{
				State:          "clean",
				Level:          "raid1",
				UUID:           "abc",
				Name:           "host:data",
				NumRaidDevices: 2,
				Slaves:         []schema.EntityRef{sdbPath},
				IsDegraded:     true,
				SyncAction:     "idle",
			},
		},
	})
}
