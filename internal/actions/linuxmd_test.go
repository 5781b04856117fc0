package actions_test

import (
	"testing"

	"github.com/desertwitch/diskman/internal/actions"
	"github.com/desertwitch/diskman/internal/gate"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/operation"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestStartArray_Success tests starting an array with all components.
func TestStartArray_Success(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := model.NewPool(raidDevices(false, sdbPath, sdc1Path))

	e.expect(schema.KindLinuxMdStart, schema.Result{Created: md0Path}, func(req *operation.Request) {
		params, ok := req.Params.(schema.LinuxMdStartParams)
		require.True(t, ok)
		assert.Equal(t, []schema.EntityRef{sdbPath, sdc1Path}, params.Components)
		assert.False(t, params.Degraded)
	})

	e.run(t, func() {
		require.NoError(t, e.handler.StartArray(arrayOf(t, pool)))
	})
}

// TestStartArray_Success_Degraded tests that a degraded start is confirmed.
func TestStartArray_Success_Degraded(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := model.NewPool(raidDevices(false, sdbPath))

	e.confirmer.On("Confirm", mock.Anything, mock.MatchedBy(func(c gate.Confirmation) bool {
		return c.Message == "Are you sure you want the RAID Array degraded?" && c.ActionLabel == "_Start"
	})).Return(true).Once()
	e.expect(schema.KindLinuxMdStart, schema.Result{Created: md0Path}, nil)

	e.run(t, func() {
		require.NoError(t, e.handler.StartArray(arrayOf(t, pool)))
	})
}

// TestStartArray_Fail_DegradedDeclined tests that declining a degraded start
// results in zero dispatches.
func TestStartArray_Fail_DegradedDeclined(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := model.NewPool(raidDevices(false, sdbPath))

	e.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(false).Once()

	e.run(t, func() {
		require.NoError(t, e.handler.StartArray(arrayOf(t, pool)))
	})

	assert.Empty(t, e.kinds)
}

// TestStartArray_Fail_NotEnoughComponents tests that an array that cannot be
// started is reported without contacting the daemon.
func TestStartArray_Fail_NotEnoughComponents(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	devs := raidDevices(false, sdbPath)
	devs[0].LinuxMdComponent.Level = "raid0"
	pool := model.NewPool(devs)

	e.presenter.On("ShowError", mock.Anything, "data", actions.TitleNotEnoughComponents, actions.ErrNotEnoughComponents).Once()

	e.run(t, func() {
		require.NoError(t, e.handler.StartArray(arrayOf(t, pool)))
	})

	assert.Empty(t, e.kinds)
}

// TestStopArray_Fail_Daemon tests that a failed stop is presented.
func TestStopArray_Fail_Daemon(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := model.NewPool(raidDevices(true, sdbPath, sdc1Path))
	failure := &schema.OperationError{Kind: "org.freedesktop.UDisks.Error.Busy", Message: "Array is mounted"}

	e.expect(schema.KindLinuxMdStop, schema.Failure(failure), func(req *operation.Request) {
		assert.Equal(t, md0Path, req.Target.Ref())
	})
	e.presenter.On("ShowError", mock.Anything, "data", actions.TitleStopArray, failure).Once()

	e.run(t, func() {
		require.NoError(t, e.handler.StopArray(arrayOf(t, pool)))
	})
}

// TestCheckArray_Success tests a check with the default options.
func TestCheckArray_Success(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := model.NewPool(raidDevices(true, sdbPath, sdc1Path))

	e.expect(schema.KindLinuxMdCheck, schema.Result{NumErrors: 0}, func(req *operation.Request) {
		params, ok := req.Params.(schema.LinuxMdCheckParams)
		require.True(t, ok)
		assert.Equal(t, []string{"repair"}, params.Options)
	})

	e.run(t, func() {
		require.NoError(t, e.handler.CheckArray(arrayOf(t, pool), nil))
	})
}

// TestCheckArray_Fail_Stopped tests that checking a stopped array is a
// validation error and nothing is sent.
func TestCheckArray_Fail_Stopped(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := model.NewPool(raidDevices(false, sdbPath, sdc1Path))

	e.run(t, func() {
		err := e.handler.CheckArray(arrayOf(t, pool), nil)
		require.ErrorIs(t, err, schema.ErrValidation)
		require.ErrorIs(t, err, schema.ErrNoDevice)
	})

	assert.Empty(t, e.kinds)
}

// TestAttachComponent_Success tests attaching a component that is not
// attached to the running array.
func TestAttachComponent_Success(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	devs := raidDevices(true, sdbPath, sdc1Path)
	devs[len(devs)-1].LinuxMd.Slaves = []schema.EntityRef{sdbPath}
	pool := model.NewPool(devs)

	e.expect(schema.KindLinuxMdAddComponent, schema.Result{}, func(req *operation.Request) {
		params, ok := req.Params.(schema.LinuxMdAddComponentParams)
		require.True(t, ok)
		assert.Equal(t, sdc1Path, params.Component)
	})

	e.run(t, func() {
		require.NoError(t, e.handler.AttachComponent(arrayOf(t, pool), pool.ByObjectPath(sdc1Path)))
	})
}

// TestAttachComponent_Fail_Attached tests attaching an attached component.
func TestAttachComponent_Fail_Attached(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := model.NewPool(raidDevices(true, sdbPath, sdc1Path))

	e.run(t, func() {
		err := e.handler.AttachComponent(arrayOf(t, pool), pool.ByObjectPath(sdbPath))
		require.ErrorIs(t, err, actions.ErrAlreadyAttached)
	})

	assert.Empty(t, e.kinds)
}

// TestComponents_Fail_NotRunning tests that the components of a partially
// assembled array are left alone, without asking the user first.
func TestComponents_Fail_NotRunning(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	devs := append(raidDevices(true, sdbPath, sdc1Path), gptDrive()...)
	devs[3].LinuxMd.State = model.LinuxMdStateInactive
	pool := model.NewPool(devs)

	e.run(t, func() {
		err := e.handler.AttachComponent(arrayOf(t, pool), pool.ByObjectPath(sdc1Path))
		require.ErrorIs(t, err, actions.ErrArrayNotRunning)

		err = e.handler.RemoveComponent(arrayOf(t, pool), pool.ByObjectPath(sdc1Path))
		require.ErrorIs(t, err, actions.ErrArrayNotRunning)

		err = e.handler.AddComponentOnNewPartition(pool, arrayOf(t, pool), driveOf(t, pool, sdaPath), gib)
		require.ErrorIs(t, err, actions.ErrArrayNotRunning)
	})

	assert.Empty(t, e.kinds, "nothing should be dispatched")
	e.confirmer.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
}

// TestRemoveComponent_Success_Partition tests that removing a component
// which is a partition removes it from the array and then deletes it.
func TestRemoveComponent_Success_Partition(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := model.NewPool(raidDevices(true, sdbPath, sdc1Path))

	e.confirmer.On("Confirm", mock.Anything, mock.MatchedBy(func(c gate.Confirmation) bool {
		return c.Message == "Are you sure you want the remove the component?" && c.ActionLabel == "_Remove" && c.TargetName == "/dev/sdc1"
	})).Return(true).Once()

	e.expect(schema.KindLinuxMdRemoveComponent, schema.Result{}, func(req *operation.Request) {
		params, ok := req.Params.(schema.LinuxMdRemoveComponentParams)
		require.True(t, ok)
		assert.Equal(t, md0Path, req.Target.Ref())
		assert.Equal(t, sdc1Path, params.Component)
	})
	e.expect(schema.KindDeletePartition, schema.Result{}, func(req *operation.Request) {
		assert.Equal(t, sdc1Path, req.Target.Ref())
	})

	e.run(t, func() {
		require.NoError(t, e.handler.RemoveComponent(arrayOf(t, pool), pool.ByObjectPath(sdc1Path)))
	})

	assert.Equal(t, []schema.Kind{schema.KindLinuxMdRemoveComponent, schema.KindDeletePartition}, e.kinds,
		"the partition should be deleted after the component was removed")
}

// TestRemoveComponent_Success_WholeDisk tests that a whole disk component is
// only removed from the array.
func TestRemoveComponent_Success_WholeDisk(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := model.NewPool(raidDevices(true, sdbPath, sdc1Path))

	e.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(true).Once()
	e.expect(schema.KindLinuxMdRemoveComponent, schema.Result{}, nil)

	e.run(t, func() {
		require.NoError(t, e.handler.RemoveComponent(arrayOf(t, pool), pool.ByObjectPath(sdbPath)))
	})

	assert.Equal(t, []schema.Kind{schema.KindLinuxMdRemoveComponent}, e.kinds)
}

// TestRemoveComponent_Fail_Removal tests that a failed removal is presented
// and the partition is kept.
func TestRemoveComponent_Fail_Removal(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := model.NewPool(raidDevices(true, sdbPath, sdc1Path))
	failure := &schema.OperationError{Kind: "org.freedesktop.UDisks.Error.Failed", Message: "Device busy"}

	e.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(true).Once()
	e.expect(schema.KindLinuxMdRemoveComponent, schema.Failure(failure), nil)
	e.presenter.On("ShowError", mock.Anything, "data", actions.TitleRemoveComponent, failure).Once()

	e.run(t, func() {
		require.NoError(t, e.handler.RemoveComponent(arrayOf(t, pool), pool.ByObjectPath(sdc1Path)))
	})

	assert.Equal(t, []schema.Kind{schema.KindLinuxMdRemoveComponent}, e.kinds)
}

// TestRemoveComponent_Fail_Declined tests that declining the removal
// results in zero dispatches.
func TestRemoveComponent_Fail_Declined(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := model.NewPool(raidDevices(true, sdbPath, sdc1Path))

	e.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(false).Once()

	e.run(t, func() {
		require.NoError(t, e.handler.RemoveComponent(arrayOf(t, pool), pool.ByObjectPath(sdc1Path)))
	})

	assert.Empty(t, e.kinds)
}

// TestRemoveComponent_Fail_NotAttached tests that a component which is not
// attached cannot be removed and nothing is asked.
func TestRemoveComponent_Fail_NotAttached(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	devs := raidDevices(true, sdbPath, sdc1Path)
	devs[len(devs)-1].LinuxMd.Slaves = []schema.EntityRef{sdbPath}
	pool := model.NewPool(devs)

	e.run(t, func() {
		err := e.handler.RemoveComponent(arrayOf(t, pool), pool.ByObjectPath(sdc1Path))
		require.ErrorIs(t, err, actions.ErrNotAttached)
	})

	assert.Empty(t, e.kinds)
}

func addComponentPool() *model.Pool {
	return model.NewPool(append(raidDevices(true, sdbPath, sdc1Path), gptDrive()...))
}

// TestAddComponentOnNewPartition_Success tests creating a partition for a
// new component and adding it to the array.
func TestAddComponentOnNewPartition_Success(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := addComponentPool()
	drive := driveOf(t, pool, sdaPath)

	_, largest, hole, ok := pool.UnallocatedSpace(drive)
	require.True(t, ok)

	e.expect(schema.KindCreatePartition, schema.Result{Created: sda2Path}, func(req *operation.Request) {
		params, ok := req.Params.(schema.CreatePartitionParams)
		require.True(t, ok)
		assert.Equal(t, sdaPath, req.Target.Ref())
		assert.Equal(t, hole.Offset(), params.Offset)
		assert.Equal(t, largest, params.Size)
		assert.Equal(t, model.GPTTypeLinuxRaid, params.Type)
		assert.Equal(t, "RAID: data", params.Label)
		assert.Empty(t, params.FSType)
	})
	e.expect(schema.KindLinuxMdAddComponent, schema.Result{}, func(req *operation.Request) {
		params, ok := req.Params.(schema.LinuxMdAddComponentParams)
		require.True(t, ok)
		assert.Equal(t, md0Path, req.Target.Ref())
		assert.Equal(t, sda2Path, params.Component, "the created partition should be added")
	})

	e.run(t, func() {
		require.NoError(t, e.handler.AddComponentOnNewPartition(pool, arrayOf(t, pool), drive, 0))
	})

	assert.Equal(t, []schema.Kind{schema.KindCreatePartition, schema.KindLinuxMdAddComponent}, e.kinds)
}

// TestAddComponentOnNewPartition_Fail_Create tests that a failed partition
// creation stops the chain.
func TestAddComponentOnNewPartition_Fail_Create(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := addComponentPool()
	failure := &schema.OperationError{Kind: "org.freedesktop.UDisks.Error.Failed", Message: "No space"}

	e.expect(schema.KindCreatePartition, schema.Failure(failure), nil)
	e.presenter.On("ShowError", mock.Anything, "ATA Disk", actions.TitleCreateComponentPart, failure).Once()

	e.run(t, func() {
		require.NoError(t, e.handler.AddComponentOnNewPartition(pool, arrayOf(t, pool), driveOf(t, pool, sdaPath), gib))
	})

	assert.Equal(t, []schema.Kind{schema.KindCreatePartition}, e.kinds, "nothing should be added")
}

// TestAddComponentOnNewPartition_Fail_AddCompensates tests that a partition
// is deleted again when it cannot be added, and that the failure of the
// deletion is reported on its own.
func TestAddComponentOnNewPartition_Fail_AddCompensates(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := addComponentPool()
	addFailure := &schema.OperationError{Kind: "org.freedesktop.UDisks.Error.Failed", Message: "Cannot add"}
	deleteFailure := &schema.OperationError{Kind: "org.freedesktop.UDisks.Error.Busy", Message: "Cannot delete"}

	e.resolver.devices[sda2Path] = &model.Device{
		ObjectPath: sda2Path, DeviceFile: "/dev/sda2", Size: gib, MediaAvailable: true, IsPartition: true,
		Partition:  model.PartitionInfo{Slave: sdaPath, Scheme: model.SchemeGPT, Number: 2, Type: model.GPTTypeLinuxRaid},
	}

	e.expect(schema.KindCreatePartition, schema.Result{Created: sda2Path}, nil)
	e.expect(schema.KindLinuxMdAddComponent, schema.Failure(addFailure), nil)
	e.expect(schema.KindDeletePartition, schema.Failure(deleteFailure), func(req *operation.Request) {
		assert.Equal(t, sda2Path, req.Target.Ref(), "the created partition should be deleted")
	})
	e.presenter.On("ShowError", mock.Anything, "data", actions.TitleAddComponent, addFailure).Once()
	e.presenter.On("ShowError", mock.Anything, "/dev/sda2", actions.TitleDeleteComponentPart, deleteFailure).Once()

	e.run(t, func() {
		require.NoError(t, e.handler.AddComponentOnNewPartition(pool, arrayOf(t, pool), driveOf(t, pool, sdaPath), gib))
	})

	assert.Equal(t, []schema.Kind{
		schema.KindCreatePartition,
		schema.KindLinuxMdAddComponent,
		schema.KindDeletePartition,
	}, e.kinds, "exactly one compensating deletion should follow")
}

// TestAddComponentOnNewPartition_Fail_Preconditions tests the refusals
// before anything is created.
func TestAddComponentOnNewPartition_Fail_Preconditions(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	pool := addComponentPool()

	stopped := model.NewPool(append(raidDevices(false, sdbPath, sdc1Path), gptDrive()...))

	e.run(t, func() {
		err := e.handler.AddComponentOnNewPartition(pool, arrayOf(t, pool), driveOf(t, pool, sdaPath), 100*gib)
		require.ErrorIs(t, err, actions.ErrSizeExceedsSpace)

		err = e.handler.AddComponentOnNewPartition(stopped, arrayOf(t, stopped), driveOf(t, stopped, sdaPath), gib)
		require.ErrorIs(t, err, schema.ErrNoDevice)
	})

	assert.Empty(t, e.kinds)
}
