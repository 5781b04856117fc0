package udisks

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/desertwitch/diskman/internal/operation"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/godbus/dbus/v5"
)

type method struct {
	obj     dbus.BusObject
	name    string
	args    []any
	decode  func(call *dbus.Call) schema.Result
	cleanup func()
}

func ack(call *dbus.Call) schema.Result {
	if call.Err != nil {
		return schema.Failure(toOperationError(call.Err))
	}

	return schema.Result{}
}

func created(call *dbus.Call) schema.Result {
	if call.Err != nil {
		return schema.Failure(toOperationError(call.Err))
	}

	var path dbus.ObjectPath
	if err := call.Store(&path); err != nil {
		return schema.Failure(toOperationError(err))
	}

	return schema.Result{Created: schema.EntityRef(path)}
}

func numErrors(call *dbus.Call) schema.Result {
	if call.Err != nil {
		return schema.Failure(toOperationError(call.Err))
	}

	var n uint64
	if err := call.Store(&n); err != nil {
		return schema.Failure(toOperationError(err))
	}

	return schema.Result{NumErrors: n}
}

func eraseOptions(erase string) []string {
	if erase == "" {
		return []string{}
	}

	return []string{"erase=" + erase}
}

func objectPaths(refs []schema.EntityRef) []dbus.ObjectPath {
	out := make([]dbus.ObjectPath, 0, len(refs))
	for _, r := range refs {
		out = append(out, dbus.ObjectPath(r))
	}

	return out
}

// secretOption returns the "luks_encrypt=" filesystem option for a
// passphrase. The option string shares memory with a buffer that is cleared
// by the returned cleanup function once the message has been sent.
func secretOption(p schema.CreatePartitionParams) (string, func()) {
	var buf []byte

	p.Secret.Use(func(b []byte) {
		buf = make([]byte, 0, len("luks_encrypt=")+len(b))
		buf = append(buf, "luks_encrypt="...)
		buf = append(buf, b...)
	})

	if len(buf) == 0 {
		return "", func() {}
	}

	return unsafe.String(unsafe.SliceData(buf), len(buf)), func() { clear(buf) } //nolint:gosec
}

func (c *Client) method(req *operation.Request) (*method, error) {
	target := dbus.ObjectPath(req.Target.Ref())

	switch p := req.Params.(type) {
	case schema.CreatePartitionParams:
		fsOptions := []string{}
		if p.FSLabel != "" {
			fsOptions = append(fsOptions, "label="+p.FSLabel)
		}
		if p.Erase != "" {
			fsOptions = append(fsOptions, "erase="+p.Erase)
		}

		cleanup := func() {}
		if p.Encrypted() {
			var opt string
			opt, cleanup = secretOption(p)
			fsOptions = append(fsOptions, opt)
		}

		flags := p.Flags
		if flags == nil {
			flags = []string{}
		}

		return &method{
			obj:  c.device(target),
			name: DeviceInterface + ".PartitionCreate",
			args: []any{
				p.Offset, p.Size, p.Type, p.Label, flags,
				[]string{}, p.FSType, fsOptions,
			},
			decode:  created,
			cleanup: cleanup,
		}, nil

	case schema.DeletePartitionParams:
		return &method{obj: c.device(target), name: DeviceInterface + ".PartitionDelete", args: []any{eraseOptions(p.Erase)}, decode: ack}, nil

	case schema.PartitionTableCreateParams:
		return &method{obj: c.device(target), name: DeviceInterface + ".PartitionTableCreate", args: []any{p.Scheme, eraseOptions(p.Erase)}, decode: ack}, nil

	case schema.DriveEjectParams:
		return &method{obj: c.device(target), name: DeviceInterface + ".DriveEject", args: []any{[]string{}}, decode: ack}, nil

	case schema.DriveDetachParams:
		return &method{obj: c.device(target), name: DeviceInterface + ".DriveDetach", args: []any{[]string{}}, decode: ack}, nil

	case schema.LinuxMdStopParams:
		return &method{obj: c.device(target), name: DeviceInterface + ".LinuxMdStop", args: []any{[]string{}}, decode: ack}, nil

	case schema.LinuxMdStartParams:
		return &method{obj: c.daemon(), name: DaemonInterface + ".LinuxMdStart", args: []any{objectPaths(p.Components), []string{}}, decode: created}, nil

	case schema.LinuxMdAddComponentParams:
		return &method{obj: c.device(target), name: DeviceInterface + ".LinuxMdAddSpare", args: []any{dbus.ObjectPath(p.Component), []string{}}, decode: ack}, nil

	case schema.LinuxMdRemoveComponentParams:
		return &method{obj: c.device(target), name: DeviceInterface + ".LinuxMdRemoveComponent", args: []any{dbus.ObjectPath(p.Component), []string{}}, decode: ack}, nil

	case schema.LinuxMdCheckParams:
		opts := p.Options
		if opts == nil {
			opts = []string{}
		}

		return &method{obj: c.device(target), name: DeviceInterface + ".LinuxMdCheck", args: []any{opts}, decode: numErrors}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, req.Kind())
}

// Call implements [operation.Backend]. The method call is sent before Call
// returns, the reply is awaited on a separate goroutine.
func (c *Client) Call(ctx context.Context, req *operation.Request, reply func(schema.Result)) {
	m, err := c.method(req)
	if err != nil {
		reply(schema.Failure(&schema.OperationError{Kind: ErrorKindTransport, Message: err.Error()}))

		return
	}

	call := m.obj.GoWithContext(ctx, m.name, 0, make(chan *dbus.Call, 1), m.args...)
	if m.cleanup != nil {
		m.cleanup()
	}

	go func() {
		<-call.Done
		reply(m.decode(call))
	}()
}
