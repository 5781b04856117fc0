package sections

import (
	"fmt"
	"strings"

	"github.com/desertwitch/diskman/internal/model"
	"github.com/dustin/go-humanize"
)

// mediaOpticalCD is the media compatibility of optical drives.
const mediaOpticalCD = "optical_cd"

// DriveSection shows a physical drive.
type DriveSection struct {
	base
}

func (s *DriveSection) Title() string {
	return "Drive"
}

func (s *DriveSection) drive() *model.Drive {
	d, _ := s.p.(*model.Drive)

	return d
}

// Details returns the vital product data, partitioning, health and
// connection of the drive.
func (s *DriveSection) Details() []Detail {
	d := s.p.Device()

	vendorModel := strings.TrimSpace(d.Drive.Vendor + " " + d.Drive.Model)

	capacity := "No Media Detected"
	if d.MediaAvailable {
		capacity = sizeForDisplay(d.Size)
	}

	return []Detail{
		detail("Model", vendorModel),
		detail("Serial Number", d.Drive.Serial),
		detail("Firmware Version", d.Drive.Revision),
		detail("World Wide Name", d.Drive.WWN),
		detail("Capacity", capacity),
		detail("Connection", connectionForDisplay(d.Drive.ConnectionInterface, d.Drive.ConnectionSpeed)),
		detail("Partitioning", schemeForDisplay(d)),
		smartDetail(d),
	}
}

func (s *DriveSection) Buttons() []Button {
	d := s.p.Device()

	var buttons []Button

	if !d.HasMediaCompatibility(mediaOpticalCD) {
		buttons = append(buttons, Button{
			ID:          ButtonFormatDrive,
			Label:       "Format Drive",
			Description: "Erase or partition the drive",
		})
	}

	if d.Drive.IsMediaEjectable {
		buttons = append(buttons, Button{
			ID:          ButtonEject,
			Label:       "Eject",
			Description: "Eject media from the drive",
		})
	}

	if d.Drive.CanDetach {
		buttons = append(buttons, Button{
			ID:          ButtonDetach,
			Label:       "Safe Removal",
			Description: "Power down the drive so it can be removed",
		})
	}

	return buttons
}

func (s *DriveSection) Activate(id ButtonID, in Input) error {
	return activate(s, id, func() error {
		switch id {
		case ButtonFormatDrive:
			return s.handler.FormatDrive(s.drive(), in.Scheme, in.Erase)
		case ButtonEject:
			return s.handler.Eject(s.drive())
		case ButtonDetach:
			return s.handler.Detach(s.drive())
		default:
			return fmt.Errorf("(sections-drive) %w: %q", ErrUnavailableButton, id)
		}
	})
}

// connectionForDisplay returns a display string for the interface a drive is
// connected with, including the speed when known.
func connectionForDisplay(iface string, speed uint64) string {
	var name string

	switch {
	case iface == "ata_serial_esata":
		name = "eSATA"
	case strings.HasPrefix(iface, "ata_serial"):
		name = "SATA"
	case strings.HasPrefix(iface, "ata_parallel"):
		name = "PATA"
	case strings.HasPrefix(iface, "ata"):
		name = "ATA"
	case strings.HasPrefix(iface, "scsi"):
		name = "SCSI"
	case iface == "usb":
		name = "USB"
	case iface == "firewire":
		name = "Firewire"
	case iface == "sdio":
		name = "SDIO"
	case iface == "virtual":
		name = "Virtual"
	case iface == "":
		return "Unknown"
	default:
		name = iface
	}

	if speed > 0 {
		return fmt.Sprintf("%s at %s", name, humanize.SI(float64(speed), "b/s"))
	}

	return name
}

// smartDetail describes the health of a drive as reported by ATA SMART.
func smartDetail(d *model.Device) Detail {
	if !d.SmartCollected() {
		return detail("SMART Status", "Not Supported")
	}

	var desc string
	var highlight bool

	switch strings.ToUpper(d.Smart.Status) {
	case "GOOD":
		desc = "Disk is healthy"
	case "BAD_ATTRIBUTE_IN_THE_PAST":
		desc = "Disk was used outside design parameters in the past"
	case "BAD_SECTOR":
		desc = "Disk has a few bad sectors"
	case "BAD_ATTRIBUTE_NOW":
		desc, highlight = "DISK IS BEING USED OUTSIDE DESIGN PARAMETERS", true
	case "BAD_SECTOR_MANY":
		desc, highlight = "DISK HAS MANY BAD SECTORS", true
	case "BAD_STATUS":
		desc, highlight = "DISK FAILURE IS IMMINENT", true
	default:
		desc = "Unknown"
	}

	dt := detail("SMART Status", desc)
	dt.Highlight = highlight

	return dt
}
