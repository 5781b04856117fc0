package main

import (
	"fmt"
	"strings"

	"github.com/desertwitch/diskman/internal/model"
)

// findDevice returns the device with the given device file, short device
// name or object path.
func findDevice(pool *model.Pool, arg string) *model.Device {
	for _, d := range pool.Devices() {
		switch arg {
		case d.DeviceFile, d.ObjectPath.String():
			return d
		}

		if !strings.HasPrefix(arg, "/") && d.DeviceFile == "/dev/"+arg {
			return d
		}
	}

	return nil
}

// resolve returns the presentable named by a command line argument: a
// presentable id, the name or uuid of an array, or a device.
func resolve(pool *model.Pool, arg string) (model.Presentable, error) { //nolint:ireturn
	if p := pool.Presentable(arg); p != nil {
		return p, nil
	}

	for _, arr := range pool.LinuxMdDrives() {
		if arr.ArrayName() == arg || arr.UUID() == arg {
			return arr, nil
		}
	}

	d := findDevice(pool, arg)
	if d == nil {
		return nil, fmt.Errorf("(main) %w: %q", ErrUnknownTarget, arg)
	}

	if d.IsLinuxMd {
		for _, arr := range pool.LinuxMdDrives() {
			if arr.Device() == d {
				return arr, nil
			}
		}
	}

	if p := pool.Presentable(d.ObjectPath.String()); p != nil && p.Kind() == model.KindDrive {
		return p, nil
	}

	if v := pool.VolumeByDevice(d); v != nil {
		return v, nil
	}

	return nil, fmt.Errorf("(main) %w: %q is not shown", ErrUnknownTarget, arg)
}

// resolveKind is [resolve] for commands that only work on some kinds.
func resolveKind(pool *model.Pool, arg string, kinds ...model.PresentableKind) (model.Presentable, error) { //nolint:ireturn
	p, err := resolve(pool, arg)
	if err != nil {
		return nil, err
	}

	for _, k := range kinds {
		if p.Kind() == k {
			return p, nil
		}
	}

	return nil, fmt.Errorf("(main) %w: %q is a %s", ErrWrongTarget, arg, p.Kind())
}

// holeFor returns the unallocated space of a drive or array to create a
// partition in: the one at the given offset, or the largest one.
func holeFor(pool *model.Pool, p model.Presentable, offset uint64, byOffset bool) (*model.VolumeHole, error) {
	if !byOffset {
		if _, _, hole, ok := pool.UnallocatedSpace(p); ok && hole != nil {
			return hole, nil
		}

		return nil, fmt.Errorf("(main) %w on %q", ErrNoUnallocatedSpace, p.Name())
	}

	for _, candidate := range pool.Presentables() {
		hole, ok := candidate.(*model.VolumeHole)
		if ok && hole.Offset() == offset && pool.Toplevel(hole).ID() == p.ID() {
			return hole, nil
		}
	}

	return nil, fmt.Errorf("(main) %w on %q at offset %d", ErrNoUnallocatedSpace, p.Name(), offset)
}
