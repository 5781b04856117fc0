package udisks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/godbus/dbus/v5"
)

type properties map[string]dbus.Variant

func (p properties) str(key string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}

	return ""
}

func (p properties) boolean(key string) bool {
	if v, ok := p[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}

	return false
}

func (p properties) u64(key string) uint64 {
	v, ok := p[key]
	if !ok {
		return 0
	}

	switch n := v.Value().(type) {
	case uint64:
		return n
	case uint32:
		return uint64(n)
	case int64:
		return uint64(max(n, 0))
	case int32:
		return uint64(max(n, 0))
	default:
		return 0
	}
}

func (p properties) integer(key string) int {
	v, ok := p[key]
	if !ok {
		return 0
	}

	switch n := v.Value().(type) {
	case int32:
		return int(n)
	case uint32:
		return int(n)
	case int64:
		return int(n)
	case uint64:
		return int(n) //nolint:gosec
	default:
		return 0
	}
}

func (p properties) f64(key string) float64 {
	if v, ok := p[key]; ok {
		if f, ok := v.Value().(float64); ok {
			return f
		}
	}

	return 0
}

func (p properties) strs(key string) []string {
	if v, ok := p[key]; ok {
		if s, ok := v.Value().([]string); ok {
			return s
		}
	}

	return nil
}

func (p properties) ref(key string) schema.EntityRef {
	if v, ok := p[key]; ok {
		if o, ok := v.Value().(dbus.ObjectPath); ok && o != "/" {
			return schema.EntityRef(o)
		}
	}

	return ""
}

func (p properties) refs(key string) []schema.EntityRef {
	v, ok := p[key]
	if !ok {
		return nil
	}

	paths, ok := v.Value().([]dbus.ObjectPath)
	if !ok {
		return nil
	}

	out := make([]schema.EntityRef, 0, len(paths))
	for _, o := range paths {
		out = append(out, schema.EntityRef(o))
	}

	return out
}

func decodeDevice(path dbus.ObjectPath, p properties) *model.Device {
	return &model.Device{
		ObjectPath:           schema.EntityRef(path),
		DeviceFile:           p.str("DeviceFile"),
		Size:                 p.u64("DeviceSize"),
		MediaAvailable:       p.boolean("DeviceIsMediaAvailable"),
		IsDrive:              p.boolean("DeviceIsDrive"),
		IsPartition:          p.boolean("DeviceIsPartition"),
		IsPartitionTable:     p.boolean("DeviceIsPartitionTable"),
		IsLinuxMd:            p.boolean("DeviceIsLinuxMd"),
		IsLinuxMdComponent:   p.boolean("DeviceIsLinuxMdComponent"),
		IsLuks:               p.boolean("DeviceIsLuks"),
		IsLuksCleartext:      p.boolean("DeviceIsLuksCleartext"),
		IsSystemInternal:     p.boolean("DeviceIsSystemInternal"),
		IsRemovable:          p.boolean("DeviceIsRemovable"),
		PresentationHide:     p.boolean("DevicePresentationHide"),
		PresentationName:     p.str("DevicePresentationName"),
		IDUsage:              p.str("IdUsage"),
		IDType:               p.str("IdType"),
		IDUUID:               p.str("IdUuid"),
		IDLabel:              p.str("IdLabel"),
		LuksHolder:           p.ref("LuksHolder"),
		LuksCleartextSlave:   p.ref("LuksCleartextSlave"),
		PartitionTableScheme: p.str("PartitionTableScheme"),
		PartitionTableCount:  p.integer("PartitionTableCount"),
		Partition: model.PartitionInfo{
			Slave:  p.ref("PartitionSlave"),
			Scheme: p.str("PartitionScheme"),
			Number: p.integer("PartitionNumber"),
			Type:   p.str("PartitionType"),
			Label:  p.str("PartitionLabel"),
			Flags:  p.strs("PartitionFlags"),
			Offset: p.u64("PartitionOffset"),
			Size:   p.u64("PartitionSize"),
		},
		Drive: model.DriveInfo{
			Vendor:              p.str("DriveVendor"),
			Model:               p.str("DriveModel"),
			Revision:            p.str("DriveRevision"),
			Serial:              p.str("DriveSerial"),
			WWN:                 p.str("DriveWwn"),
			ConnectionInterface: p.str("DriveConnectionInterface"),
			ConnectionSpeed:     p.u64("DriveConnectionSpeed"),
			MediaCompatibility:  p.strs("DriveMediaCompatibility"),
			IsMediaEjectable:    p.boolean("DriveIsMediaEjectable"),
			CanDetach:           p.boolean("DriveCanDetach"),
			IsRotational:        p.boolean("DriveIsRotational"),
		},
		Smart: model.SmartInfo{
			Available:     p.boolean("DriveAtaSmartIsAvailable"),
			TimeCollected: p.u64("DriveAtaSmartTimeCollected"),
			Status:        p.str("DriveAtaSmartStatus"),
		},
		LinuxMd: model.LinuxMdInfo{
			State:          p.str("LinuxMdState"),
			Level:          p.str("LinuxMdLevel"),
			UUID:           p.str("LinuxMdUuid"),
			Name:           p.str("LinuxMdName"),
			HomeHost:       p.str("LinuxMdHomeHost"),
			Version:        p.str("LinuxMdVersion"),
			Slaves:         p.refs("LinuxMdSlaves"),
			NumRaidDevices: p.integer("LinuxMdNumRaidDevices"),
			IsDegraded:     p.boolean("LinuxMdIsDegraded"),
			SyncAction:     p.str("LinuxMdSyncAction"),
			SyncPercentage: p.f64("LinuxMdSyncPercentage"),
			SyncSpeed:      p.u64("LinuxMdSyncSpeed"),
		},
		LinuxMdComponent: model.LinuxMdComponentInfo{
			Level:          p.str("LinuxMdComponentLevel"),
			Version:        p.str("LinuxMdComponentVersion"),
			Name:           p.str("LinuxMdComponentName"),
			HomeHost:       p.str("LinuxMdComponentHomeHost"),
			UUID:           p.str("LinuxMdComponentUuid"),
			NumRaidDevices: p.integer("LinuxMdComponentNumRaidDevices"),
			Position:       p.integer("LinuxMdComponentPosition"),
			Holder:         p.ref("LinuxMdComponentHolder"),
			State:          p.strs("LinuxMdComponentState"),
		},
	}
}

// Device loads the current properties of a device from the daemon.
func (c *Client) Device(ctx context.Context, ref schema.EntityRef) (*model.Device, error) {
	path := dbus.ObjectPath(ref)
	if !path.IsValid() {
		return nil, fmt.Errorf("(udisks-device) %w: %q", ErrInvalidPath, ref)
	}

	var props map[string]dbus.Variant
	if err := c.device(path).CallWithContext(ctx, propertiesGetAll, 0, DeviceInterface).Store(&props); err != nil {
		return nil, fmt.Errorf("(udisks-device) failed to get properties of %s: %w", ref, err)
	}

	return decodeDevice(path, props), nil
}

// Pool loads all devices from the daemon into a new [model.Pool].
func (c *Client) Pool(ctx context.Context) (*model.Pool, error) {
	var paths []dbus.ObjectPath
	if err := c.daemon().CallWithContext(ctx, DaemonInterface+".EnumerateDevices", 0).Store(&paths); err != nil {
		return nil, fmt.Errorf("(udisks-pool) failed to enumerate devices: %w", err)
	}

	devices := make([]*model.Device, 0, len(paths))
	for _, path := range paths {
		dev, err := c.Device(ctx, schema.EntityRef(path))
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("(udisks-pool) %w", ctx.Err())
			}
			slog.Warn("Skipped device that vanished during enumeration.",
				"path", path,
				"err", err,
			)

			continue
		}
		devices = append(devices, dev)
	}

	return model.NewPool(devices), nil
}
