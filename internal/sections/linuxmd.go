package sections

import (
	"fmt"
	"strconv"

	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/schema"
)

// LinuxMdSection shows a Linux MD array, running or not.
type LinuxMdSection struct {
	base
}

// Component is a component of an array as shown by a [LinuxMdSection].
type Component struct {
	Ref      schema.EntityRef
	Name     string
	State    string
	Attached bool
}

func (s *LinuxMdSection) Title() string {
	return "RAID Array"
}

func (s *LinuxMdSection) array() *model.LinuxMdDrive {
	arr, _ := s.p.(*model.LinuxMdDrive)

	return arr
}

func (s *LinuxMdSection) Details() []Detail {
	arr := s.array()
	d := arr.Device()

	var metadata, homeHost string
	if slaves := arr.Slaves(); len(slaves) > 0 {
		metadata = slaves[0].LinuxMdComponent.Version
		homeHost = slaves[0].LinuxMdComponent.HomeHost
	}

	capacity := placeholder
	partitioning := placeholder
	if d != nil {
		capacity = sizeForDisplay(d.Size)
		partitioning = schemeForDisplay(d)
	}

	state, action := stateAndAction(arr)

	return []Detail{
		detail("Level", model.LevelForDisplay(arr.Level(), true)),
		detail("Name", arr.ArrayName()),
		detail("Home Host", homeHost),
		detail("Metadata Version", metadata),
		detail("Components", strconv.Itoa(arr.NumRaidDevices())),
		detail("Capacity", capacity),
		detail("Partitioning", partitioning),
		state,
		action,
	}
}

// stateAndAction describes the state of an array and the sync action it
// is currently performing.
func stateAndAction(arr *model.LinuxMdDrive) (Detail, Detail) {
	d := arr.Device()

	if !arr.IsRunning() {
		var state string

		switch canActivate, degraded := arr.CanActivate(); {
		case d != nil:
			state = "Not running, partially assembled"
		case canActivate && !degraded:
			state = "Not running"
		case canActivate && degraded:
			state = "Not running, can only start degraded"
		default:
			state = "Not running, not enough components to start"
		}

		return detail("State", state), detail("Action", placeholder)
	}

	state := detail("State", "Running")
	if d.LinuxMd.IsDegraded {
		state = detail("State", "DEGRADED")
		state.Highlight = true
	}

	var action string

	switch d.LinuxMd.SyncAction {
	case "idle", "":
		return state, detail("Action", "Idle")
	case "reshape":
		action = "Reshaping"
	case "resync":
		action = "Resyncing"
	case "repair":
		action = "Repairing"
	case "recover":
		action = "Recovering"
	case "check":
		action = "Checking"
	default:
		action = d.LinuxMd.SyncAction
	}

	act := detail("Action", action)
	act.Progress = d.LinuxMd.SyncPercentage / 100 //nolint:mnd

	return state, act
}

// Components returns the known components of the array with their state.
func (s *LinuxMdSection) Components() []Component {
	arr := s.array()

	slaves := arr.Slaves()
	components := make([]Component, 0, len(slaves))

	for _, slave := range slaves {
		components = append(components, Component{
			Ref:      slave.ObjectPath,
			Name:     deviceName(slave),
			State:    arr.SlaveState(slave),
			Attached: arr.SlaveFlags(slave)&model.SlaveFlagNotAttached == 0,
		})
	}

	return components
}

// ComponentSize returns the size of the smallest known component, which is
// the size a new component needs to have.
func (s *LinuxMdSection) ComponentSize() uint64 {
	var size uint64

	for _, slave := range s.array().Slaves() {
		n := slave.Size
		if slave.IsPartition {
			n = slave.Partition.Size
		}
		if size == 0 || n < size {
			size = n
		}
	}

	return size
}

// CandidateDrives returns the drives with a partition table and enough
// unallocated space for a new component.
func (s *LinuxMdSection) CandidateDrives() []model.Presentable {
	need := s.ComponentSize()

	var drives []model.Presentable

	for _, p := range s.pool.Toplevels() {
		if p.Kind() != model.KindDrive || p.Device() == nil || !p.Device().IsPartitionTable {
			continue
		}

		if _, largest, _, ok := s.pool.UnallocatedSpace(p); ok && largest >= need {
			drives = append(drives, p)
		}
	}

	return drives
}

func (s *LinuxMdSection) Buttons() []Button {
	arr := s.array()

	if !arr.IsRunning() {
		buttons := []Button{{
			ID:          ButtonStartArray,
			Label:       "Start RAID Array",
			Description: "Assemble and start the array",
		}}

		// Partially assembled.
		if arr.Device() != nil {
			buttons = append(buttons, Button{ID: ButtonStopArray, Label: "Stop RAID Array", Description: "Tear down the array"})
		}

		return buttons
	}

	return []Button{
		{ID: ButtonFormatArray, Label: "Format RAID Array", Description: "Erase or partition the array"},
		{ID: ButtonCheckArray, Label: "Check Array", Description: "Check and repair the array"},
		{ID: ButtonAttachComponent, Label: "Attach Component", Description: "Attach a component that is not attached"},
		{ID: ButtonRemoveComponent, Label: "Remove Component", Description: "Remove a component from the array"},
		{ID: ButtonAddComponent, Label: "Add Component", Description: "Create a new component on a drive"},
		{ID: ButtonStopArray, Label: "Stop RAID Array", Description: "Tear down the array"},
	}
}

func (s *LinuxMdSection) Activate(id ButtonID, in Input) error {
	arr := s.array()

	return activate(s, id, func() error {
		switch id {
		case ButtonStartArray:
			return s.handler.StartArray(arr)
		case ButtonStopArray:
			return s.handler.StopArray(arr)
		case ButtonCheckArray:
			return s.handler.CheckArray(arr, in.CheckOptions)
		case ButtonFormatArray:
			return s.handler.FormatDrive(arr, in.Scheme, in.Erase)
		case ButtonAttachComponent:
			slave, err := s.component(in.Component)
			if err != nil {
				return err
			}

			return s.handler.AttachComponent(arr, slave)
		case ButtonRemoveComponent:
			slave, err := s.component(in.Component)
			if err != nil {
				return err
			}

			return s.handler.RemoveComponent(arr, slave)
		case ButtonAddComponent:
			drive := s.pool.Presentable(in.Drive)
			if drive == nil || drive.Kind() != model.KindDrive {
				return fmt.Errorf("(sections-md) %w: %q", ErrUnknownDrive, in.Drive)
			}

			size := in.Size
			if size == 0 {
				size = s.ComponentSize()
			}

			return s.handler.AddComponentOnNewPartition(s.pool, arr, drive, size)
		default:
			return fmt.Errorf("(sections-md) %w: %q", ErrUnavailableButton, id)
		}
	})
}

func (s *LinuxMdSection) component(ref schema.EntityRef) (*model.Device, error) {
	if !s.array().HasSlave(ref) {
		return nil, fmt.Errorf("(sections-md) %w: %q", ErrUnknownComponent, ref)
	}

	return s.pool.ByObjectPath(ref), nil
}

func deviceName(d *model.Device) string {
	if d.PresentationName != "" {
		return d.PresentationName
	}

	return d.DeviceFile
}
