package actions_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/desertwitch/diskman/internal/actions"
	gatemocks "github.com/desertwitch/diskman/internal/gate/mocks"
	"github.com/desertwitch/diskman/internal/loop"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/operation"
	opmocks "github.com/desertwitch/diskman/internal/operation/mocks"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/desertwitch/diskman/internal/secret"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	mib = uint64(1 << 20)
	gib = uint64(1 << 30)

	sdaPath  = schema.EntityRef("/org/freedesktop/UDisks/devices/sda")
	sda1Path = schema.EntityRef("/org/freedesktop/UDisks/devices/sda1")
	sda2Path = schema.EntityRef("/org/freedesktop/UDisks/devices/sda2")
	sdbPath  = schema.EntityRef("/org/freedesktop/UDisks/devices/sdb")
	sdcPath  = schema.EntityRef("/org/freedesktop/UDisks/devices/sdc")
	sdc1Path = schema.EntityRef("/org/freedesktop/UDisks/devices/sdc1")
	md0Path  = schema.EntityRef("/org/freedesktop/UDisks/devices/md0")
	dm0Path  = schema.EntityRef("/org/freedesktop/UDisks/devices/dm_2d0")
)

type modals struct {
	*gatemocks.Confirmer
	*gatemocks.ErrorPresenter
	*gatemocks.SecretPrompter
}

type fakeResolver struct {
	devices map[schema.EntityRef]*model.Device
}

func (r *fakeResolver) Device(_ context.Context, ref schema.EntityRef) (*model.Device, error) {
	if d, ok := r.devices[ref]; ok {
		return d, nil
	}

	return nil, &schema.OperationError{Kind: "org.freedesktop.DBus.Error.UnknownObject", Message: "no such device"}
}

type fakeStore struct {
	calls   int
	owner   secret.Owner
	session bool
	seen    []byte
	err     error
}

func (s *fakeStore) Save(_ context.Context, owner secret.Owner, pass *secret.Passphrase, sessionScoped bool) error {
	s.calls++
	s.owner = owner
	s.session = sessionScoped
	pass.Use(func(b []byte) {
		s.seen = bytes.Clone(b)
	})

	return s.err
}

type env struct {
	loop      *loop.Loop
	backend   *opmocks.Backend
	confirmer *gatemocks.Confirmer
	presenter *gatemocks.ErrorPresenter
	prompter  *gatemocks.SecretPrompter
	resolver  *fakeResolver
	store     *fakeStore
	handler   *actions.Handler

	kinds []schema.Kind
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		loop:      loop.New(),
		backend:   opmocks.NewBackend(t),
		confirmer: gatemocks.NewConfirmer(t),
		presenter: gatemocks.NewErrorPresenter(t),
		prompter:  gatemocks.NewSecretPrompter(t),
		resolver:  &fakeResolver{devices: make(map[schema.EntityRef]*model.Device)},
		store:     &fakeStore{},
	}

	dispatcher := operation.NewDispatcher(e.backend, e.loop)
	e.handler = actions.NewHandler(t.Context(), dispatcher,
		modals{e.confirmer, e.presenter, e.prompter}, e.resolver, e.store)

	return e
}

// expect registers one backend call of the given kind, replying with res.
func (e *env) expect(kind schema.Kind, res schema.Result, check func(req *operation.Request)) {
	e.backend.On("Call", mock.Anything, mock.MatchedBy(func(req *operation.Request) bool {
		return req.Kind() == kind
	}), mock.Anything).Run(func(args mock.Arguments) {
		req := args.Get(1).(*operation.Request) //nolint:forcetypeassert
		e.kinds = append(e.kinds, req.Kind())
		if check != nil {
			check(req)
		}
		opmocks.Reply(res)(args)
	}).Once()
}

// run executes fn on the loop, like a button press, and drains the loop.
func (e *env) run(t *testing.T, fn func()) {
	t.Helper()

	e.loop.Post(fn)
	require.NoError(t, e.loop.Drain(t.Context()))
}

func gptDrive() []*model.Device {
	return []*model.Device{
		{
			ObjectPath:           sdaPath,
			DeviceFile:           "/dev/sda",
			Size:                 10 * gib,
			MediaAvailable:       true,
			IsDrive:              true,
			IsPartitionTable:     true,
			PartitionTableScheme: model.SchemeGPT,
			PartitionTableCount:  1,
			Drive:                model.DriveInfo{Vendor: "ATA", Model: "Disk", IsMediaEjectable: true, CanDetach: true},
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
				Slave: sdaPath, Scheme: model.SchemeGPT, Number: 1,
				Type:  model.GPTTypeLinuxData, Offset: mib, Size: gib,
			},
		},
	}
}

func mbrDrive() []*model.Device {
	devs := gptDrive()
	devs[0].PartitionTableScheme = model.SchemeMBR
	devs[1].Partition.Scheme = model.SchemeMBR
	devs[1].Partition.Type = model.MBRTypeLinux

	return devs
}

// raidDevices returns a raid1 array of the whole disk sdb and the partition
// sdc1. present selects the components that are present.
func raidDevices(running bool, present ...schema.EntityRef) []*model.Device {
	devs := []*model.Device{}
	info := func(pos int) model.LinuxMdComponentInfo {
		return model.LinuxMdComponentInfo{
			Level:    "raid1", Name: "host:data", UUID: "abc", NumRaidDevices: 2,
			Position: pos, State: []string{"in_sync"},
		}
	}

	for _, ref := range present {
		switch ref {
		case sdbPath:
			devs = append(devs, &model.Device{
				ObjectPath: sdbPath, DeviceFile: "/dev/sdb", Size: 2 * gib, MediaAvailable: true,
				IsDrive:    true, IsLinuxMdComponent: true, LinuxMdComponent: info(0),
			})
		case sdc1Path:
			devs = append(devs,
				&model.Device{
					ObjectPath: sdcPath, DeviceFile: "/dev/sdc", Size: 4 * gib, MediaAvailable: true,
					IsDrive:    true, IsPartitionTable: true, PartitionTableScheme: model.SchemeMBR, PartitionTableCount: 1,
				},
				&model.Device{
					ObjectPath:  sdc1Path, DeviceFile: "/dev/sdc1", Size: 2 * gib, MediaAvailable: true,
					IsPartition: true, IsLinuxMdComponent: true, LinuxMdComponent: info(1),
					Partition: model.PartitionInfo{
						Slave: sdcPath, Scheme: model.SchemeMBR, Number: 1,
						Type:  model.MBRTypeLinuxRaid, Offset: mib, Size: 2 * gib,
					},
				},
			)
		}
	}

	if running {
		devs = append(devs, &model.Device{
			ObjectPath: md0Path, DeviceFile: "/dev/md0", Size: 2 * gib, MediaAvailable: true,
			IsLinuxMd:  true,
			LinuxMd: model.LinuxMdInfo{
				State:  "clean", Level: "raid1", UUID: "abc", Name: "host:data", NumRaidDevices: 2,
				Slaves: present,
			},
		})
	}

	return devs
}

func arrayOf(t *testing.T, pool *model.Pool) *model.LinuxMdDrive {
	t.Helper()

	arr, ok := pool.Presentable(model.LinuxMdDriveID("abc")).(*model.LinuxMdDrive)
	require.True(t, ok, "pool should hold the array")

	return arr
}

func driveOf(t *testing.T, pool *model.Pool, ref schema.EntityRef) *model.Drive {
	t.Helper()

	drive, ok := pool.Presentable(ref.String()).(*model.Drive)
	require.True(t, ok, "pool should hold the drive")

	return drive
}
