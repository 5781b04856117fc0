package ui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/desertwitch/diskman/internal/sections"
	"github.com/desertwitch/diskman/internal/ui/mocks"
	"github.com/stretchr/testify/require"
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

// drive returns a 10 GiB drive with one partition of 1 GiB at 1 MiB.
func drive(scheme string) []*model.Device {
	return []*model.Device{
		{
			ObjectPath:           sdaPath,
			DeviceFile:           "/dev/sda",
			Size:                 10 * gib,
			MediaAvailable:       true,
			IsDrive:              true,
			IsPartitionTable:     true,
			PartitionTableScheme: scheme,
			PartitionTableCount:  1,
			Drive: model.DriveInfo{
				Vendor:           "ATA",
				Model:            "Disk",
				Serial:           "S123",
				IsMediaEjectable: true,
				CanDetach:        true,
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
				Scheme: scheme,
				Number: 1,
				Type:   model.MBRTypeLinux,
				Offset: mib,
				Size:   gib,
			},
		},
	}
}

// array returns a running raid1 array with the single component sdb, and an
// empty drive sdc.
func array() []*model.Device {
	return []*model.Device{
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
	}
}

func holeID(ref schema.EntityRef, offset uint64) string {
	return fmt.Sprintf("%s/hole@%d", ref, offset)
}

func sectionFor(t *testing.T, pool *model.Pool, id string) sections.Section {
	t.Helper()

	p := pool.Presentable(id)
	require.NotNil(t, p, "pool should hold the presentable")

	s := sections.For(pool, p, nil)
	require.NotNil(t, s, "presentable should have a section")

	return s
}

func buttonFor(t *testing.T, s sections.Section, id sections.ButtonID) sections.Button {
	t.Helper()

	for _, btn := range s.Buttons() {
		if btn.ID == id {
			return btn
		}
	}
	require.Failf(t, "button not offered", "section should offer %q", id)

	return sections.Button{}
}

func update(t *testing.T, m TeaModel, msg tea.Msg) (TeaModel, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)

	tm, ok := next.(TeaModel)
	require.True(t, ok, "model should stay a TeaModel")

	return tm, cmd
}

// readyModel returns a sized model showing the given pool.
func readyModel(t *testing.T, controller *mocks.Controller, pool *model.Pool) TeaModel {
	t.Helper()

	m := NewTeaModel(&Handler{}, controller, func() {})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 60})

	if pool != nil {
		m, _ = update(t, m, refreshMsg{pool: pool})
	}

	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
