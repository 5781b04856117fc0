package model

import (
	"cmp"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/desertwitch/diskman/internal/schema"
	"github.com/zeebo/blake3"
)

// MinHoleSize is the size up to which gaps between partitions are not
// considered unallocated space (alignment and partition table metadata).
const MinHoleSize = 1024 * 1024

// PrimaryLimit describes how close a MBR partition table is to its limit of
// four primary partitions.
type PrimaryLimit int

const (
	PrimaryLimitNone PrimaryLimit = iota
	PrimaryLimitLastPrimary
	PrimaryLimitFull
)

// Pool is an immutable snapshot of the device graph.
type Pool struct {
	devices      map[schema.EntityRef]*Device
	ordered      []*Device
	presentables map[string]Presentable
	list         []Presentable
	enclosed     map[string][]Presentable
	volumes      map[schema.EntityRef]*Volume
	arrays       []*LinuxMdDrive
	fingerprint  string
}

// NewPool returns a pointer to a new [Pool] built from the given devices.
// The devices must not be modified afterwards.
func NewPool(devices []*Device) *Pool {
	p := &Pool{
		devices:      make(map[schema.EntityRef]*Device, len(devices)),
		presentables: make(map[string]Presentable),
		enclosed:     make(map[string][]Presentable),
		volumes:      make(map[schema.EntityRef]*Volume),
	}

	for _, d := range devices {
		if d == nil || d.ObjectPath.IsZero() {
			continue
		}
		p.devices[d.ObjectPath] = d
	}

	p.ordered = make([]*Device, 0, len(p.devices))
	for _, d := range p.devices {
		p.ordered = append(p.ordered, d)
	}
	slices.SortFunc(p.ordered, func(a, b *Device) int {
		return cmp.Compare(a.ObjectPath, b.ObjectPath)
	})

	p.build()
	p.fingerprint = fingerprint(p.ordered)

	return p
}

func (p *Pool) build() {
	arrayDevs := make(map[string]*Device)
	components := make(map[string][]*Device)

	for _, d := range p.ordered {
		if d.IsLinuxMd && d.LinuxMd.UUID != "" {
			arrayDevs[d.LinuxMd.UUID] = d
		}
		if d.IsLinuxMdComponent && d.LinuxMdComponent.UUID != "" {
			components[d.LinuxMdComponent.UUID] = append(components[d.LinuxMdComponent.UUID], d)
		}
		if d.IsDrive && !d.IsLinuxMd && !d.PresentationHide {
			drive := &Drive{dev: d}
			p.add(drive)
			p.addContents(drive.ID(), d)
		}
	}

	uuids := make([]string, 0, len(arrayDevs)+len(components))
	for uuid := range arrayDevs {
		uuids = append(uuids, uuid)
	}
	for uuid := range components {
		if _, ok := arrayDevs[uuid]; !ok {
			uuids = append(uuids, uuid)
		}
	}
	slices.Sort(uuids)

	for _, uuid := range uuids {
		slaves := components[uuid]
		slices.SortStableFunc(slaves, func(a, b *Device) int {
			return cmp.Compare(a.LinuxMdComponent.Position, b.LinuxMdComponent.Position)
		})

		array := &LinuxMdDrive{uuid: uuid, dev: arrayDevs[uuid], slaves: slaves}
		p.arrays = append(p.arrays, array)
		p.add(array)

		if array.dev != nil {
			p.addContents(array.ID(), array.dev)
		}
	}
}

func (p *Pool) add(pr Presentable) {
	p.presentables[pr.ID()] = pr
	p.list = append(p.list, pr)

	if enc := pr.Enclosing(); enc != "" {
		p.enclosed[enc] = append(p.enclosed[enc], pr)
	}
}

func (p *Pool) addVolume(id string, d *Device, enclosing string) *Volume {
	v := &Volume{id: id, dev: d, enclosing: enclosing}
	p.volumes[d.ObjectPath] = v
	p.add(v)

	if d.IsLuks && !d.LuksHolder.IsZero() {
		if cleartext, ok := p.devices[d.LuksHolder]; ok {
			p.addVolume(cleartext.ObjectPath.String(), cleartext, v.ID())
		}
	}

	return v
}

func (p *Pool) addContents(parentID string, d *Device) {
	if !d.MediaAvailable {
		return
	}

	if !d.IsPartitionTable {
		if d.IDUsage != "" || d.IsLuks || d.IsLinuxMdComponent {
			p.addVolume(d.ObjectPath.String()+"/volume", d, parentID)
		} else {
			p.add(&VolumeHole{enclosing: parentID, offset: 0, size: d.Size})
		}

		return
	}

	var primaries, logicals []*Device
	for _, pd := range p.ordered {
		if !pd.IsPartition || pd.Partition.Slave != d.ObjectPath {
			continue
		}
		if d.PartitionTableScheme == SchemeMBR && pd.Partition.Number > 4 { //nolint:mnd
			logicals = append(logicals, pd)
		} else {
			primaries = append(primaries, pd)
		}
	}

	byOffset := func(a, b *Device) int { return cmp.Compare(a.Partition.Offset, b.Partition.Offset) }
	slices.SortFunc(primaries, byOffset)
	slices.SortFunc(logicals, byOffset)

	p.addSegments(parentID, 0, d.Size, primaries, func(v *Volume) {
		if v.IsExtended() {
			p.addSegments(v.ID(), v.Offset(), v.Offset()+v.Size(), logicals, nil)
		}
	})
}

func (p *Pool) addSegments(parentID string, start, end uint64, parts []*Device, onVolume func(*Volume)) {
	cursor := start

	for _, pd := range parts {
		if pd.Partition.Offset > cursor && pd.Partition.Offset-cursor > MinHoleSize {
			p.add(&VolumeHole{enclosing: parentID, offset: cursor, size: pd.Partition.Offset - cursor})
		}

		v := p.addVolume(pd.ObjectPath.String(), pd, parentID)
		if onVolume != nil {
			onVolume(v)
		}

		cursor = max(cursor, pd.Partition.Offset+pd.Partition.Size)
	}

	if end > cursor && end-cursor > MinHoleSize {
		p.add(&VolumeHole{enclosing: parentID, offset: cursor, size: end - cursor})
	}
}

func fingerprint(devices []*Device) string {
	h := blake3.New()
	for _, d := range devices {
		fmt.Fprintf(h, "%+v\n", *d)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a digest of all devices of the snapshot. Two pools with
// the same fingerprint describe the same device graph.
func (p *Pool) Fingerprint() string {
	return p.fingerprint
}

// ByObjectPath returns the device for an object path, or nil.
func (p *Pool) ByObjectPath(ref schema.EntityRef) *Device {
	return p.devices[ref]
}

// Devices returns all devices, ordered by object path.
func (p *Pool) Devices() []*Device {
	return slices.Clone(p.ordered)
}

// Presentables returns all presentables, toplevels first.
func (p *Pool) Presentables() []Presentable {
	return slices.Clone(p.list)
}

// Presentable returns the presentable with the given id, or nil.
func (p *Pool) Presentable(id string) Presentable { //nolint:ireturn
	return p.presentables[id]
}

// Toplevels returns all presentables that are not enclosed by another.
func (p *Pool) Toplevels() []Presentable {
	var out []Presentable
	for _, pr := range p.list {
		if pr.Enclosing() == "" {
			out = append(out, pr)
		}
	}

	return out
}

// Enclosed returns the presentables directly enclosed by pr.
func (p *Pool) Enclosed(pr Presentable) []Presentable {
	if pr == nil {
		return nil
	}

	return slices.Clone(p.enclosed[pr.ID()])
}

// Toplevel returns the outermost presentable enclosing pr.
func (p *Pool) Toplevel(pr Presentable) Presentable { //nolint:ireturn
	for pr != nil && pr.Enclosing() != "" {
		parent, ok := p.presentables[pr.Enclosing()]
		if !ok {
			break
		}
		pr = parent
	}

	return pr
}

// VolumeByDevice returns the volume presenting a device, or nil.
func (p *Pool) VolumeByDevice(d *Device) *Volume {
	if d == nil {
		return nil
	}

	return p.volumes[d.ObjectPath]
}

// LinuxMdDrives returns all known arrays, running or not.
func (p *Pool) LinuxMdDrives() []*LinuxMdDrive {
	return slices.Clone(p.arrays)
}

// HasExtendedPartition reports if pr directly encloses an extended partition.
func (p *Pool) HasExtendedPartition(pr Presentable) bool {
	return slices.ContainsFunc(p.enclosed[pr.ID()], func(c Presentable) bool {
		v, ok := c.(*Volume)

		return ok && v.IsExtended()
	})
}

// UnallocatedSpace returns the largest segment of unallocated space on a
// drive. wholeDisk is set if the drive holds no partition table and no data.
func (p *Pool) UnallocatedSpace(pr Presentable) (wholeDisk bool, largest uint64, hole *VolumeHole, ok bool) {
	if pr == nil || pr.Device() == nil {
		return false, 0, nil, false
	}

	var walk func(id string)
	walk = func(id string) {
		for _, c := range p.enclosed[id] {
			switch v := c.(type) {
			case *VolumeHole:
				if hole == nil || v.size > hole.size {
					hole = v
				}
			case *Volume:
				if v.IsExtended() {
					walk(v.ID())
				}
			}
		}
	}
	walk(pr.ID())

	if hole == nil {
		return false, 0, nil, false
	}

	wholeDisk = !pr.Device().IsPartitionTable && hole.offset == 0 && hole.size == pr.Device().Size

	return wholeDisk, hole.size, hole, true
}

// PrimaryLimit returns how close the MBR partition table enclosing pr is to
// its limit of primary partitions.
func (p *Pool) PrimaryLimit(pr Presentable) PrimaryLimit {
	top := p.Toplevel(pr)
	if top == nil || top.Device() == nil {
		return PrimaryLimitNone
	}

	d := top.Device()
	if !d.IsPartitionTable || d.PartitionTableScheme != SchemeMBR || p.HasExtendedPartition(top) {
		return PrimaryLimitNone
	}

	switch d.PartitionTableCount {
	case 3: //nolint:mnd
		return PrimaryLimitLastPrimary
	case 4: //nolint:mnd
		return PrimaryLimitFull
	default:
		return PrimaryLimitNone
	}
}
