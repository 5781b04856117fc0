// Package udisks implements the client of the disk-management daemon.
//
// The [Client] loads the device graph into [model.Pool] snapshots, watches
// the daemon for device changes and implements [operation.Backend] by
// translating requests into asynchronous D-Bus method calls.
package udisks

import (
	"github.com/godbus/dbus/v5"
)

const (
	BusName         = "org.freedesktop.UDisks"
	DaemonPath      = dbus.ObjectPath("/org/freedesktop/UDisks")
	DaemonInterface = "org.freedesktop.UDisks"
	DeviceInterface = "org.freedesktop.UDisks.Device"

	propertiesGetAll = "org.freedesktop.DBus.Properties.GetAll"
)

type busProvider interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

type signalProvider interface {
	AddMatchSignal(options ...dbus.MatchOption) error
	RemoveMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
}

// Client is a client of the disk-management daemon.
type Client struct {
	bus     busProvider
	signals signalProvider
}

// NewClient returns a pointer to a new [Client] using the given connection.
func NewClient(conn *dbus.Conn) *Client {
	return newClient(conn, conn)
}

func newClient(bus busProvider, signals signalProvider) *Client {
	return &Client{
		bus:     bus,
		signals: signals,
	}
}

func (c *Client) daemon() dbus.BusObject { //nolint:ireturn
	return c.bus.Object(BusName, DaemonPath)
}

func (c *Client) device(path dbus.ObjectPath) dbus.BusObject { //nolint:ireturn
	return c.bus.Object(BusName, path)
}
