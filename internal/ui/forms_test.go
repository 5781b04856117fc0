package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/sections"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseSize_Table tests parsing human-readable sizes.
func TestParseSize_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr bool
	}{
		{"Success_Empty", "", 0, false},
		{"Success_Binary", "100MiB", 100 * mib, false},
		{"Success_Decimal", "1 GB", 1000 * 1000 * 1000, false},
		{"Success_Bytes", "4096", 4096, false},
		{"Fail_Garbage", "lots", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseSize(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, errInvalidSize)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestFormFor_Success_NoInput tests that buttons without input get no form.
func TestFormFor_Success_NoInput(t *testing.T) {
	t.Parallel()

	pool := model.NewPool(drive(model.SchemeGPT))
	s := sectionFor(t, pool, sdaPath.String())

	form, err := formFor(pool, s, buttonFor(t, s, sections.ButtonEject))
	require.NoError(t, err)
	assert.Nil(t, form)
}

// TestFormFor_CreatePartition_Success tests filling in the partition form.
func TestFormFor_CreatePartition_Success(t *testing.T) {
	t.Parallel()

	pool := model.NewPool(drive(model.SchemeGPT))
	s := sectionFor(t, pool, holeID(sdaPath, mib+gib))

	form, err := formFor(pool, s, buttonFor(t, s, sections.ButtonCreatePartition))
	require.NoError(t, err)
	require.NotNil(t, form)

	keys := []tea.KeyMsg{
		keyRunes("100MiB"),
		{Type: tea.KeyTab},
		{Type: tea.KeyRight},
		{Type: tea.KeyTab},
		keyRunes("backup"),
		{Type: tea.KeyTab},
		{Type: tea.KeyRight},
	}
	for _, k := range keys {
		done, cmd := form.update(k)
		require.False(t, done)
		require.Nil(t, cmd)
	}

	done, cmd := form.update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, done, "valid form should be finished")
	require.NotNil(t, cmd)

	msg, ok := cmd().(activateMsg)
	require.True(t, ok, "command should request an activation")
	assert.Equal(t, holeID(sdaPath, mib+gib), msg.id)
	assert.Equal(t, sections.ButtonCreatePartition, msg.button)
	assert.Equal(t, sections.Input{
		Size:    100 * mib,
		FSType:  "ext3",
		FSLabel: "backup",
		Encrypt: true,
	}, msg.in)
}

// TestFormFor_CreatePartition_Fail_InvalidSize tests that an invalid size
// keeps the form open with a problem.
func TestFormFor_CreatePartition_Fail_InvalidSize(t *testing.T) {
	t.Parallel()

	pool := model.NewPool(drive(model.SchemeGPT))
	s := sectionFor(t, pool, holeID(sdaPath, mib+gib))

	form, err := formFor(pool, s, buttonFor(t, s, sections.ButtonCreatePartition))
	require.NoError(t, err)

	form.update(keyRunes("lots"))

	done, cmd := form.update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, done, "invalid form should stay open")
	assert.Nil(t, cmd)
	assert.Contains(t, form.problem, "invalid size")
	assert.Contains(t, form.view(), "invalid size")

	form.update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "lot", form.fields[0].input.Value())
}

// TestFormModal_TextEditing tests that text fields can be edited in the
// middle, and that pasted text is inserted as typed.
func TestFormModal_TextEditing(t *testing.T) {
	t.Parallel()

	pool := model.NewPool(drive(model.SchemeGPT))
	s := sectionFor(t, pool, holeID(sdaPath, mib+gib))

	form, err := formFor(pool, s, buttonFor(t, s, sections.ButtonCreatePartition))
	require.NoError(t, err)

	keys := []tea.KeyMsg{
		keyRunes("100MB"),
		{Type: tea.KeyLeft},
		keyRunes("i"),
		{Type: tea.KeyTab},
		{Type: tea.KeyTab},
		{Type: tea.KeyRunes, Runes: []rune("my backup"), Paste: true},
	}
	for _, k := range keys {
		form.update(k)
	}

	assert.Equal(t, "100MiB", form.fields[0].value())
	assert.Equal(t, "my backup", form.fields[2].value())
	assert.False(t, form.fields[0].input.Focused(), "only the focused field should take input")
	assert.True(t, form.fields[2].input.Focused())
}

// TestFsChoices_Extended tests that extended partitions are only offered on
// MBR partition tables.
func TestFsChoices_Extended(t *testing.T) {
	t.Parallel()

	hasExtended := func(choices []choice) bool {
		for _, c := range choices {
			if c.value == model.FSTypeExtended {
				return true
			}
		}

		return false
	}

	mbr := model.NewPool(drive(model.SchemeMBR))
	assert.True(t, hasExtended(fsChoices(mbr, mbr.Presentable(holeID(sdaPath, mib+gib)))))

	gpt := model.NewPool(drive(model.SchemeGPT))
	assert.False(t, hasExtended(fsChoices(gpt, gpt.Presentable(holeID(sdaPath, mib+gib)))))
}

// TestFormFor_Components tests the component choices of an array.
func TestFormFor_Components(t *testing.T) {
	t.Parallel()

	pool := model.NewPool(array())
	s := sectionFor(t, pool, model.LinuxMdDriveID("abc"))

	_, err := formFor(pool, s, buttonFor(t, s, sections.ButtonAttachComponent))
	require.ErrorIs(t, err, errNoChoices, "every component is attached already")

	form, err := formFor(pool, s, buttonFor(t, s, sections.ButtonRemoveComponent))
	require.NoError(t, err)
	require.Len(t, form.fields, 1)
	assert.Equal(t, []choice{{"/dev/sdb", sdbPath.String()}}, form.fields[0].choices)

	form, err = formFor(pool, s, buttonFor(t, s, sections.ButtonAddComponent))
	require.NoError(t, err)
	require.Len(t, form.fields[0].choices, 1, "only sdc has room for a component")
	assert.Equal(t, sdcPath.String(), form.fields[0].choices[0].value)
}

// TestFormModal_Cancel tests that escape closes a form without activating.
func TestFormModal_Cancel(t *testing.T) {
	t.Parallel()

	pool := model.NewPool(array())
	s := sectionFor(t, pool, model.LinuxMdDriveID("abc"))

	form, err := formFor(pool, s, buttonFor(t, s, sections.ButtonCheckArray))
	require.NoError(t, err)

	done, cmd := form.update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, done)
	assert.Nil(t, cmd)
}
