package sections_test

import (
	"testing"

	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/operation"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/desertwitch/diskman/internal/sections"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestVolumeSection_Details_Success tests the details of a partition.
func TestVolumeSection_Details_Success(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := sectionFor(t, e, model.NewPool(drive(model.SchemeMBR, 1)), sda1Path.String())
	d := details(s)

	assert.Equal(t, "/dev/sda1", d["Device"].Value)
	assert.Equal(t, "ext4", d["Type"].Value)
	assert.Equal(t, "data", d["Label"].Value)
	assert.Equal(t, "–", d["UUID"].Value)
	assert.Equal(t, "1", d["Partition Number"].Value)
	assert.Equal(t, model.MBRTypeLinux, d["Partition Type"].Value)

	assert.Equal(t, []sections.ButtonID{sections.ButtonDeletePartition}, buttonIDs(s))
}

// TestVolumeSection_Buttons_WholeDisk tests that volumes which are not
// partitions cannot be deleted.
func TestVolumeSection_Buttons_WholeDisk(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := sectionFor(t, e, model.NewPool(array(false, "", 0)), sdbPath.String()+"/volume")

	assert.Empty(t, s.Buttons())
	assert.NotContains(t, details(s), "Partition Number")
}

// TestVolumeSection_Activate_Success tests deleting a partition after the
// user confirmed it.
func TestVolumeSection_Activate_Success(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := sectionFor(t, e, model.NewPool(drive(model.SchemeGPT, 1)), sda1Path.String())

	e.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(true).Once()
	e.expect(schema.KindDeletePartition, func(req *operation.Request) {
		assert.Equal(t, sda1Path, req.Target.Ref())
	})

	require.NoError(t, e.activate(t, s, sections.ButtonDeletePartition, sections.Input{}))
}

// TestVolumeSection_Activate_Declined tests that a declined deletion does
// not reach the daemon.
func TestVolumeSection_Activate_Declined(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := sectionFor(t, e, model.NewPool(drive(model.SchemeGPT, 1)), sda1Path.String())

	e.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(false).Once()

	require.NoError(t, e.activate(t, s, sections.ButtonDeletePartition, sections.Input{}))
}
