package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/desertwitch/diskman/internal/actions"
	"github.com/desertwitch/diskman/internal/configuration"
	"github.com/desertwitch/diskman/internal/gate"
	"github.com/desertwitch/diskman/internal/journal"
	"github.com/desertwitch/diskman/internal/loop"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/operation"
	"github.com/desertwitch/diskman/internal/queue"
	"github.com/desertwitch/diskman/internal/schedule"
	"github.com/desertwitch/diskman/internal/secret"
	"github.com/desertwitch/diskman/internal/sections"
	"github.com/desertwitch/diskman/internal/udisks"
	"github.com/godbus/dbus/v5"
)

// App wires the daemon client, the loop and the dispatcher together.
type App struct {
	settings *configuration.Settings

	conn        *dbus.Conn
	sessionConn *dbus.Conn

	client     *udisks.Client
	loop       *loop.Loop
	dispatcher *operation.Dispatcher
	journal    *journal.Journal
	store      secret.Store
	handler    *actions.Handler
}

// NewApp connects to the daemon. The journal and the secret store are
// optional, failing to open them is only logged.
func NewApp(settings *configuration.Settings) (*App, error) {
	app := &App{
		settings: settings,
		loop:     loop.New(),
	}

	var err error
	if settings.Bus == configuration.BusSession {
		app.conn, err = dbus.ConnectSessionBus()
	} else {
		app.conn, err = dbus.ConnectSystemBus()
	}
	if err != nil {
		return nil, fmt.Errorf("(app) failed to connect to the %s bus: %w", settings.Bus, err)
	}
	app.client = udisks.NewClient(app.conn)

	var observers []operation.Observer

	if settings.JournalPath != "" {
		j, err := journal.Open(settings.JournalPath)
		if err != nil {
			slog.Warn("Failed to open the operation journal, continuing without.", "path", settings.JournalPath, "err", err)
		} else {
			app.journal = j
			observers = append(observers, j)
		}
	}

	app.dispatcher = operation.NewDispatcher(app.client, app.loop, observers...)

	if app.sessionConn, err = dbus.ConnectSessionBus(); err != nil {
		slog.Warn("Failed to connect to the session bus, passphrases cannot be saved.", "err", err)
	} else {
		app.store = secret.NewServiceStore(app.sessionConn, settings.SecretCollection)
	}

	return app, nil
}

// SetModals sets the front-end used for confirmations, errors and
// passphrases. It must be called before any action is performed.
func (app *App) SetModals(ctx context.Context, modals gate.Modals) {
	app.handler = actions.NewHandler(ctx, app.dispatcher, modals, app.client, app.store)
}

// Close closes the connections and the journal.
func (app *App) Close() {
	if app.journal != nil {
		if err := app.journal.Close(); err != nil {
			slog.Warn("Failed to close the operation journal.", "err", err)
		}
	}

	if app.sessionConn != nil {
		_ = app.sessionConn.Close()
	}

	if app.conn != nil {
		_ = app.conn.Close()
	}
}

// Progress implements [ui.Controller].
func (app *App) Progress() queue.Progress {
	return app.dispatcher.Progress()
}

// Activate implements [ui.Controller]. The action runs on the loop, refused
// actions are only logged.
func (app *App) Activate(pool *model.Pool, id string, button sections.ButtonID, in sections.Input) {
	app.loop.Post(func() {
		if err := activate(pool, id, button, in, app.handler); err != nil {
			slog.Warn("Action was refused.", "target", id, "action", button, "err", err)
		}
	})
}

// activate performs the action of a button of the presentable with the
// given id. It must be called on the loop.
func activate(pool *model.Pool, id string, button sections.ButtonID, in sections.Input, handler *actions.Handler) error {
	p := pool.Presentable(id)
	if p == nil {
		return fmt.Errorf("(app) %w: %q", ErrUnknownTarget, id)
	}

	sec := sections.For(pool, p, handler)
	if sec == nil {
		return fmt.Errorf("(app) %w: %q", ErrWrongTarget, id)
	}

	if err := sec.Activate(button, in); err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	return nil
}

// Watch publishes the device graph, and again after every change, until the
// context is canceled.
func (app *App) Watch(ctx context.Context, publish func(pool *model.Pool)) {
	var fingerprint string

	refresh := func() {
		pool, err := app.client.Pool(ctx)
		if err != nil {
			slog.Warn("Failed to load the devices.", "err", err)

			return
		}

		if pool.Fingerprint() == fingerprint {
			return
		}
		fingerprint = pool.Fingerprint()

		publish(pool)
	}

	refresh()

	if err := app.client.Watch(ctx, udisks.DefaultDebounce, refresh); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Stopped watching for device changes.", "err", err)
	}
}

// Perform runs fn on the loop with the current device graph, then waits for
// all operations it dispatched, including chained ones, to complete.
func (app *App) Perform(ctx context.Context, fn func(pool *model.Pool, handler *actions.Handler) error) error {
	pool, err := app.client.Pool(ctx)
	if err != nil {
		return fmt.Errorf("(app) failed to load the devices: %w", err)
	}

	loopCtx, stop := context.WithCancel(ctx)
	defer stop()

	go func() {
		if err := app.loop.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Loop has stopped.", "err", err)
		}
	}()

	var fnErr error
	if err := app.loop.Invoke(ctx, func() {
		fnErr = fn(pool, app.handler)
	}); err != nil {
		return fmt.Errorf("(app) %w", err)
	}
	if fnErr != nil {
		return fnErr
	}

	return app.waitIdle(ctx)
}

// waitIdle waits until no operation is in flight.
func (app *App) waitIdle(ctx context.Context) error {
	if n := app.dispatcher.InFlight(); n > 0 {
		slog.Info("Waiting for operations to complete.", "operations", n)
	}

	select {
	case <-app.dispatcher.Idle():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("(app) %w", ctx.Err())
	}
}

// Scheduler returns the periodic array checks for a cron expression, using
// the arrays and options of the settings.
func (app *App) Scheduler(expr string) (*schedule.Scheduler, error) {
	s, err := schedule.New(expr, app.client, app.dispatcher, app.loop,
		schedule.WithArrays(app.settings.CheckArrays...),
		schedule.WithOptions(app.settings.CheckOptions),
	)
	if err != nil {
		return nil, fmt.Errorf("(app) %w", err)
	}

	return s, nil
}
