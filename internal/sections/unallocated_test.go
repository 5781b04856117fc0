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

// TestUnallocatedSection_Warning tests the warnings about the limit of
// primary partitions of a MBR partition table.
func TestUnallocatedSection_Warning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		scheme  string
		count   int
		warning string
		buttons []sections.ButtonID
	}{
		{"GPT", model.SchemeGPT, 4, "", []sections.ButtonID{sections.ButtonCreatePartition}},
		{"MBR two primaries", model.SchemeMBR, 2, "", []sections.ButtonID{sections.ButtonCreatePartition}},
		{"MBR last primary", model.SchemeMBR, 3, "This is the last primary partition", []sections.ButtonID{sections.ButtonCreatePartition}},
		{"MBR full", model.SchemeMBR, 4, "No more partitions can be created", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newEnv(t)
			s := sectionFor(t, e, model.NewPool(drive(tt.scheme, tt.count)), holeID(sdaPath, mib+gib))

			if tt.warning == "" {
				assert.Empty(t, s.Warning())
			} else {
				assert.Contains(t, s.Warning(), tt.warning)
			}
			assert.Equal(t, tt.buttons, buttonIDs(s))
		})
	}
}

// TestUnallocatedSection_Activate_Success tests creating a partition in the
// unallocated space.
func TestUnallocatedSection_Activate_Success(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := sectionFor(t, e, model.NewPool(drive(model.SchemeGPT, 1)), holeID(sdaPath, mib+gib))

	e.expect(schema.KindCreatePartition, func(req *operation.Request) {
		params, ok := req.Params.(schema.CreatePartitionParams)
		require.True(t, ok)
		assert.Equal(t, mib+gib, params.Offset)
		assert.Equal(t, 100*mib, params.Size)
		assert.Equal(t, "ext4", params.FSType)
		assert.Equal(t, "backup", params.FSLabel)
		assert.False(t, params.Encrypted())
	})

	require.NoError(t, e.activate(t, s, sections.ButtonCreatePartition, sections.Input{
		Size: 100 * mib, FSType: "ext4", FSLabel: "backup",
	}))
}

// TestUnallocatedSection_Activate_Fail_Full tests that no partition can be
// created on a full MBR partition table.
func TestUnallocatedSection_Activate_Fail_Full(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	s := sectionFor(t, e, model.NewPool(drive(model.SchemeMBR, 4)), holeID(sdaPath, mib+gib))

	err := e.activate(t, s, sections.ButtonCreatePartition, sections.Input{Size: mib, FSType: "ext4"})
	require.ErrorIs(t, err, sections.ErrUnavailableButton)
	e.backend.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything)
}
