package sections_test

import (
	"testing"

	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/operation"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/desertwitch/diskman/internal/sections"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mdSection(t *testing.T, e *env, pool *model.Pool) *sections.LinuxMdSection {
	t.Helper()

	s, ok := sectionFor(t, e, pool, model.LinuxMdDriveID("abc")).(*sections.LinuxMdSection)
	require.True(t, ok, "array should have a RAID section")

	return s
}

// TestLinuxMdSection_Details_Running tests the details of a running array
// that is checking itself.
func TestLinuxMdSection_Details_Running(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := mdSection(t, e, model.NewPool(array(true, "check", 42.5)))
	d := details(s)

	assert.Equal(t, "Mirror (RAID-1)", d["Level"].Value)
	assert.Equal(t, "data", d["Name"].Value)
	assert.Equal(t, "host", d["Home Host"].Value)
	assert.Equal(t, "1.2", d["Metadata Version"].Value)
	assert.Equal(t, "2", d["Components"].Value)
	assert.Equal(t, "Not Partitioned", d["Partitioning"].Value)

	assert.Equal(t, "DEGRADED", d["State"].Value)
	assert.True(t, d["State"].Highlight, "a degraded array should be highlighted")
	assert.Equal(t, "Checking", d["Action"].Value)
	assert.InDelta(t, 0.425, d["Action"].Progress, 0.0001)

	assert.Equal(t, []sections.ButtonID{
		sections.ButtonFormatArray, sections.ButtonCheckArray, sections.ButtonAttachComponent,
		sections.ButtonRemoveComponent, sections.ButtonAddComponent, sections.ButtonStopArray,
	}, buttonIDs(s))
}

// TestLinuxMdSection_Details_Idle tests an idle running array.
func TestLinuxMdSection_Details_Idle(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	d := details(mdSection(t, e, model.NewPool(array(true, "idle", 0))))

	assert.Equal(t, "Idle", d["Action"].Value)
	assert.Negative(t, d["Action"].Progress, "an idle array should have no progress")
}

// TestLinuxMdSection_Details_Stopped tests the details of an array that is
// not running.
func TestLinuxMdSection_Details_Stopped(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := mdSection(t, e, model.NewPool(array(false, "", 0)))
	d := details(s)

	assert.Equal(t, "Not running, can only start degraded", d["State"].Value)
	assert.Equal(t, "–", d["Action"].Value)
	assert.Equal(t, "–", d["Capacity"].Value)
	assert.Equal(t, []sections.ButtonID{sections.ButtonStartArray}, buttonIDs(s))
}

// TestLinuxMdSection_Components_Success tests the component listing and the
// drives a new component could be created on.
func TestLinuxMdSection_Components_Success(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := mdSection(t, e, model.NewPool(array(true, "idle", 0)))

	assert.Equal(t, []sections.Component{
		{Ref: sdbPath, Name: "/dev/sdb", State: "Fully Synchronized", Attached: true},
	}, s.Components())

	assert.Equal(t, 2*gib, s.ComponentSize())

	candidates := s.CandidateDrives()
	require.Len(t, candidates, 1, "only the partitioned drive with free space should qualify")
	assert.Equal(t, sdcPath.String(), candidates[0].ID())
}

// TestLinuxMdSection_Activate_Stop tests stopping a running array.
func TestLinuxMdSection_Activate_Stop(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := mdSection(t, e, model.NewPool(array(true, "idle", 0)))

	e.expect(schema.KindLinuxMdStop, func(req *operation.Request) {
		assert.Equal(t, md0Path, req.Target.Ref())
	})

	require.NoError(t, e.activate(t, s, sections.ButtonStopArray, sections.Input{}))
}

// TestLinuxMdSection_Activate_StopPartial tests that a partially assembled
// array can be stopped.
func TestLinuxMdSection_Activate_StopPartial(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	devs := array(true, "", 0)
	devs[2].LinuxMd.State = model.LinuxMdStateInactive
	s := mdSection(t, e, model.NewPool(devs))

	assert.Equal(t, "Not running, partially assembled", details(s)["State"].Value)
	assert.Equal(t, []sections.ButtonID{sections.ButtonStartArray, sections.ButtonStopArray}, buttonIDs(s))

	e.expect(schema.KindLinuxMdStop, func(req *operation.Request) {
		assert.Equal(t, md0Path, req.Target.Ref())
	})

	require.NoError(t, e.activate(t, s, sections.ButtonStopArray, sections.Input{}))
}

// TestLinuxMdSection_Activate_Check tests that check options are passed on.
func TestLinuxMdSection_Activate_Check(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := mdSection(t, e, model.NewPool(array(true, "idle", 0)))

	e.expect(schema.KindLinuxMdCheck, func(req *operation.Request) {
		assert.Equal(t, schema.LinuxMdCheckParams{Options: []string{"check"}}, req.Params)
	})

	require.NoError(t, e.activate(t, s, sections.ButtonCheckArray, sections.Input{CheckOptions: []string{"check"}}))
}

// TestLinuxMdSection_Activate_Fail_UnknownComponent tests that only known
// components can be removed.
func TestLinuxMdSection_Activate_Fail_UnknownComponent(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := mdSection(t, e, model.NewPool(array(true, "idle", 0)))

	err := e.activate(t, s, sections.ButtonRemoveComponent, sections.Input{Component: sdcPath})
	require.ErrorIs(t, err, sections.ErrUnknownComponent)
	require.ErrorIs(t, err, schema.ErrValidation, "an unknown component should be a validation error")
}

// TestLinuxMdSection_Activate_Fail_UnknownDrive tests that a new component
// can only be created on a drive.
func TestLinuxMdSection_Activate_Fail_UnknownDrive(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := mdSection(t, e, model.NewPool(array(true, "idle", 0)))

	err := e.activate(t, s, sections.ButtonAddComponent, sections.Input{Drive: model.LinuxMdDriveID("abc")})
	require.ErrorIs(t, err, sections.ErrUnknownDrive)
}
