// Package sections implements the presentation capabilities of the disk
// utility. A [Section] renders the details of one presentable from the
// current [model.Pool] and turns activated buttons into user actions.
//
// Sections never keep state of their own beyond the presentable they show,
// every call to [Section.Update] replaces the snapshot they render from.
package sections

import (
	"fmt"

	"github.com/desertwitch/diskman/internal/actions"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/dustin/go-humanize"
)

// placeholder is shown for details that have no value.
const placeholder = "–"

// ButtonID identifies a button of a section.
type ButtonID string

const (
	ButtonFormatDrive     ButtonID = "format-drive"
	ButtonEject           ButtonID = "eject"
	ButtonDetach          ButtonID = "detach"
	ButtonStartArray      ButtonID = "md-start"
	ButtonStopArray       ButtonID = "md-stop"
	ButtonCheckArray      ButtonID = "md-check"
	ButtonFormatArray     ButtonID = "md-format"
	ButtonAttachComponent ButtonID = "md-attach"
	ButtonRemoveComponent ButtonID = "md-remove"
	ButtonAddComponent    ButtonID = "md-add-new"
	ButtonCreatePartition ButtonID = "create-partition"
	ButtonDeletePartition ButtonID = "delete-partition"
)

// Detail is a labeled value shown by a section.
type Detail struct {
	Label string
	Value string

	// Progress is a fraction between 0 and 1, or negative if the detail
	// has no progress to show.
	Progress float64

	// Highlight marks values that need the attention of the user.
	Highlight bool
}

// Button is an action offered by a section.
type Button struct {
	ID          ButtonID
	Label       string
	Description string
}

// Input holds the values a front-end collected for an activated button.
// Each button only reads the fields it needs.
type Input struct {
	// Scheme and Erase are used when formatting.
	Scheme string
	Erase  string

	// Size, FSType, FSLabel and Encrypt describe a new partition. A zero
	// size uses all of the unallocated space, or the component size when
	// adding a new component to an array.
	Size    uint64
	FSType  string
	FSLabel string
	Encrypt bool

	// Component is the device to attach to or remove from an array.
	Component schema.EntityRef

	// Drive is the presentable id of the drive a new array component is
	// created on.
	Drive string

	// CheckOptions are passed to an array check, nil uses the defaults.
	CheckOptions []string
}

// Section is the presentation capability of a presentable.
type Section interface {
	// Title returns the heading of the section.
	Title() string

	// Presentable returns the presentable shown by the section.
	Presentable() model.Presentable

	// Update moves the section to a new snapshot. It returns false if the
	// presentable no longer exists, in which case the section must be
	// discarded.
	Update(pool *model.Pool) bool

	// Details returns the details to render.
	Details() []Detail

	// Warning returns a warning to show above the details, if any.
	Warning() string

	// Buttons returns the buttons that are currently available.
	Buttons() []Button

	// Activate performs the action of a button. An error is only returned
	// for actions that were refused before anything was dispatched.
	Activate(id ButtonID, in Input) error
}

// For returns the [Section] for a presentable, or nil if there is none.
func For(pool *model.Pool, p model.Presentable, handler *actions.Handler) Section { //nolint:ireturn
	b := base{pool: pool, p: p, handler: handler}

	switch p.(type) {
	case *model.Drive:
		return &DriveSection{base: b}
	case *model.LinuxMdDrive:
		return &LinuxMdSection{base: b}
	case *model.VolumeHole:
		return &UnallocatedSection{base: b}
	case *model.Volume:
		return &VolumeSection{base: b}
	default:
		return nil
	}
}

type base struct {
	pool    *model.Pool
	p       model.Presentable
	handler *actions.Handler
}

func (b *base) Presentable() model.Presentable { //nolint:ireturn
	return b.p
}

func (b *base) Warning() string {
	return ""
}

func (b *base) Update(pool *model.Pool) bool {
	p := pool.Presentable(b.p.ID())
	if p == nil || p.Kind() != b.p.Kind() {
		return false
	}

	b.pool = pool
	b.p = p

	return true
}

// activate checks that a button is available before running its action.
func activate(s Section, id ButtonID, fn func() error) error {
	for _, btn := range s.Buttons() {
		if btn.ID == id {
			return fn()
		}
	}

	return fmt.Errorf("(sections) %w: %q", ErrUnavailableButton, id)
}

func detail(label string, value string) Detail {
	if value == "" {
		value = placeholder
	}

	return Detail{Label: label, Value: value, Progress: -1}
}

// sizeForDisplay returns a size both in rounded units and in bytes.
func sizeForDisplay(size uint64) string {
	return fmt.Sprintf("%s (%s bytes)", humanize.Bytes(size), humanize.Comma(int64(size))) //nolint:gosec
}

// schemeForDisplay returns a display string for a partition table scheme.
func schemeForDisplay(d *model.Device) string {
	if !d.IsPartitionTable {
		return "Not Partitioned"
	}

	switch d.PartitionTableScheme {
	case model.SchemeAPM:
		return "Apple Partition Map"
	case model.SchemeMBR:
		return "Master Boot Record"
	case model.SchemeGPT:
		return "GUID Partition Table"
	default:
		return "Unknown Scheme: " + d.PartitionTableScheme
	}
}
