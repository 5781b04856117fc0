package udisks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"
)

// DefaultDebounce is the quiet period after a device change signal before
// observers are notified. The daemon usually emits signals in bursts.
const DefaultDebounce = 250 * time.Millisecond

// Watch subscribes to device changes of the daemon and calls onChange after
// every burst of changes, until the context is canceled. onChange is called
// from the watching goroutine.
func (c *Client) Watch(ctx context.Context, debounce time.Duration, onChange func()) error {
	if c.signals == nil {
		return fmt.Errorf("(udisks-watch) %w", ErrNoSignals)
	}

	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(DaemonPath),
		dbus.WithMatchInterface(DaemonInterface),
	}

	if err := c.signals.AddMatchSignal(match...); err != nil {
		return fmt.Errorf("(udisks-watch) failed to match signals: %w", err)
	}
	defer func() { _ = c.signals.RemoveMatchSignal(match...) }()

	ch := make(chan *dbus.Signal, 64) //nolint:mnd
	c.signals.Signal(ch)
	defer c.signals.RemoveSignal(ch)

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()

			return fmt.Errorf("(udisks-watch) %w", ctx.Err())

		case sig, ok := <-ch:
			if !ok {
				return nil
			}
			if !isDeviceSignal(sig) {
				continue
			}

			slog.Debug("Received device change from daemon.",
				"signal", sig.Name,
				"body", sig.Body,
			)
			timer.Reset(debounce)

		case <-timer.C:
			onChange()
		}
	}
}

func isDeviceSignal(sig *dbus.Signal) bool {
	if sig == nil || sig.Path != DaemonPath {
		return false
	}

	switch sig.Name {
	case DaemonInterface + ".DeviceAdded",
		DaemonInterface + ".DeviceRemoved",
		DaemonInterface + ".DeviceChanged",
		DaemonInterface + ".DeviceJobChanged":
		return true
	default:
		return false
	}
}
