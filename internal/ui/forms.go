package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/desertwitch/diskman/internal/sections"
	"github.com/dustin/go-humanize"
)

var (
	errNoChoices   = errors.New("nothing to choose from")
	errInvalidSize = errors.New("invalid size")
)

// activateMsg is a [tea.Msg] requesting the action of a button.
type activateMsg struct {
	id     string
	button sections.ButtonID
	in     sections.Input
}

type choice struct {
	label string
	value string
}

// fieldCharLimit is the maximum length of a text field.
const fieldCharLimit = 64

// field is a text field, or a choice if it has choices.
type field struct {
	label   string
	choices []choice
	index   int
	input   textinput.Model
}

func textField(label string) *field {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = fieldCharLimit
	in.Cursor.SetMode(cursor.CursorStatic)
	// Modals only receive keys, pastes arrive as runes.
	in.KeyMap.Paste.SetEnabled(false)
	in.KeyMap.AcceptSuggestion.SetEnabled(false)

	return &field{label: label, input: in}
}

func (f *field) value() string {
	if len(f.choices) > 0 {
		return f.choices[f.index].value
	}

	return strings.TrimSpace(f.input.Value())
}

// formModal collects the input of a button.
type formModal struct {
	title   string
	id      string
	button  sections.ButtonID
	fields  []*field
	focus   int
	problem string
	build   func(values map[string]string) (sections.Input, error)
}

// focusOn moves the focus to the field at index i.
func (md *formModal) focusOn(i int) {
	if f := md.fields[md.focus]; f.choices == nil {
		f.input.Blur()
	}

	md.focus = i

	if f := md.fields[md.focus]; f.choices == nil {
		f.input.Focus()
	}
}

func (md *formModal) update(msg tea.KeyMsg) (bool, tea.Cmd) {
	f := md.fields[md.focus]

	switch msg.Type {
	case tea.KeyEsc:
		return true, nil

	case tea.KeyTab, tea.KeyDown:
		md.focusOn((md.focus + 1) % len(md.fields))

	case tea.KeyShiftTab, tea.KeyUp:
		md.focusOn((md.focus + len(md.fields) - 1) % len(md.fields))

	case tea.KeyEnter:
		values := make(map[string]string, len(md.fields))
		for _, f := range md.fields {
			values[f.label] = f.value()
		}

		in, err := md.build(values)
		if err != nil {
			md.problem = err.Error()

			return false, nil
		}

		id, button := md.id, md.button

		return true, func() tea.Msg {
			return activateMsg{id: id, button: button, in: in}
		}

	default:
		if f.choices == nil {
			var cmd tea.Cmd
			f.input, cmd = f.input.Update(msg)

			return false, cmd
		}

		if msg.Type == tea.KeyRight {
			f.index = (f.index + 1) % len(f.choices)
		} else if msg.Type == tea.KeyLeft {
			f.index = (f.index + len(f.choices) - 1) % len(f.choices)
		}
	}

	return false, nil
}

func (md *formModal) view() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(md.title) + "\n\n")

	for i, f := range md.fields {
		var value string
		if f.choices != nil {
			value = "< " + f.choices[f.index].label + " >"
		} else {
			value = f.input.View()
		}

		row := fmt.Sprintf("%-12s %s", f.label+":", value)
		if i == md.focus {
			row = selectedStyle.Render(row)
		}
		s.WriteString(row + "\n")
	}

	if md.problem != "" {
		s.WriteString("\n" + warningStyle.Render(md.problem) + "\n")
	}
	s.WriteString("\n[tab] Next  [←/→] Choose  [enter] Start  [esc] Cancel")

	return s.String()
}

// Field labels, also the keys of the values passed to a form's build.
const (
	fieldScheme    = "Scheme"
	fieldErase     = "Erase"
	fieldSize      = "Size"
	fieldFSType    = "Type"
	fieldLabel     = "Label"
	fieldEncrypt   = "Encrypt"
	fieldComponent = "Component"
	fieldDrive     = "Drive"
	fieldCheck     = "Mode"
)

func eraseField() *field {
	return &field{label: fieldErase, choices: []choice{
		{"Don't overwrite data", ""},
		{"Overwrite data with zeroes", "zero"},
	}}
}

// formFor returns the form collecting the input of a button, or nil if the
// button needs no input.
func formFor(pool *model.Pool, sec sections.Section, btn sections.Button) (*formModal, error) {
	md := &formModal{title: btn.Label, id: sec.Presentable().ID(), button: btn.ID}

	switch btn.ID {
	case sections.ButtonFormatDrive, sections.ButtonFormatArray:
		md.fields = []*field{
			{label: fieldScheme, choices: []choice{
				{"GUID Partition Table", model.SchemeGPT},
				{"Master Boot Record", model.SchemeMBR},
				{"Apple Partition Map", model.SchemeAPM},
				{"Don't partition", model.SchemeNone},
			}},
			eraseField(),
		}
		md.build = func(v map[string]string) (sections.Input, error) {
			return sections.Input{Scheme: v[fieldScheme], Erase: v[fieldErase]}, nil
		}

	case sections.ButtonCreatePartition:
		md.fields = []*field{
			textField(fieldSize),
			{label: fieldFSType, choices: fsChoices(pool, sec.Presentable())},
			textField(fieldLabel),
			{label: fieldEncrypt, choices: []choice{{"No", ""}, {"Yes", "yes"}}},
			eraseField(),
		}
		md.build = func(v map[string]string) (sections.Input, error) {
			size, err := parseSize(v[fieldSize])
			if err != nil {
				return sections.Input{}, err
			}

			return sections.Input{
				Size:    size,
				FSType:  v[fieldFSType],
				FSLabel: v[fieldLabel],
				Encrypt: v[fieldEncrypt] != "",
				Erase:   v[fieldErase],
			}, nil
		}

	case sections.ButtonCheckArray:
		md.fields = []*field{{label: fieldCheck, choices: []choice{
			{"Check and repair", "repair"},
			{"Check only", "check"},
		}}}
		md.build = func(v map[string]string) (sections.Input, error) {
			return sections.Input{CheckOptions: []string{v[fieldCheck]}}, nil
		}

	case sections.ButtonAttachComponent, sections.ButtonRemoveComponent:
		md.fields = []*field{{label: fieldComponent, choices: componentChoices(sec, btn.ID == sections.ButtonRemoveComponent)}}
		md.build = func(v map[string]string) (sections.Input, error) {
			return sections.Input{Component: schema.EntityRef(v[fieldComponent])}, nil
		}

	case sections.ButtonAddComponent:
		md.fields = []*field{
			{label: fieldDrive, choices: driveChoices(sec)},
			textField(fieldSize),
		}
		md.build = func(v map[string]string) (sections.Input, error) {
			size, err := parseSize(v[fieldSize])
			if err != nil {
				return sections.Input{}, err
			}

			return sections.Input{Drive: v[fieldDrive], Size: size}, nil
		}

	default:
		return nil, nil //nolint:nilnil
	}

	for _, f := range md.fields {
		if f.choices != nil && len(f.choices) == 0 {
			return nil, fmt.Errorf("(ui-form) %w: %s", errNoChoices, strings.ToLower(f.label))
		}
	}
	md.focusOn(0)

	return md, nil
}

// parseSize parses a human-readable size, an empty size is zero.
func parseSize(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidSize, s)
	}

	return size, nil
}

func fsChoices(pool *model.Pool, hole model.Presentable) []choice {
	choices := []choice{
		{"Linux (ext4)", "ext4"},
		{"Linux (ext3)", "ext3"},
		{"XFS", "xfs"},
		{"FAT", "vfat"},
		{"NTFS", "ntfs"},
		{"Swap Space", "swap"},
	}

	top := pool.Toplevel(hole)
	if top == nil || top.Device() == nil {
		return choices
	}

	// Extended partitions only exist on MBR, and only once.
	if top.Device().PartitionTableScheme == model.SchemeMBR && !pool.HasExtendedPartition(top) &&
		hole.Enclosing() == top.ID() {
		choices = append(choices, choice{"Extended Partition", model.FSTypeExtended})
	}

	return choices
}

func componentChoices(sec sections.Section, attached bool) []choice {
	md, ok := sec.(*sections.LinuxMdSection)
	if !ok {
		return []choice{}
	}

	choices := []choice{}
	for _, c := range md.Components() {
		if c.Attached == attached {
			choices = append(choices, choice{c.Name, c.Ref.String()})
		}
	}

	return choices
}

func driveChoices(sec sections.Section) []choice {
	md, ok := sec.(*sections.LinuxMdSection)
	if !ok {
		return []choice{}
	}

	choices := []choice{}
	for _, d := range md.CandidateDrives() {
		choices = append(choices, choice{d.Name(), d.ID()})
	}

	return choices
}
