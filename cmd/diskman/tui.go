package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/desertwitch/diskman/internal/schedule"
	"github.com/desertwitch/diskman/internal/ui"
	"github.com/spf13/cobra"
)

const readyPollInterval = 10 * time.Millisecond

//nolint:gochecknoglobals
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive terminal interface",
	Long: `Start the interactive terminal interface, which shows all drives, arrays,
partitions and unallocated space and follows changes as they happen.

When DISKMAN_CHECK_SCHEDULE is set, the periodic RAID array checks also run
while the interface is open.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app, err := NewApp(settings)
	if err != nil {
		return err
	}
	defer app.Close()

	var sched *schedule.Scheduler
	if settings.CheckSchedule != "" {
		if sched, err = app.Scheduler(settings.CheckSchedule); err != nil {
			return err
		}
	}

	uiHandler := ui.NewHandler(ctx, cancel, app, app.loop)
	app.SetModals(ctx, uiHandler.Modals)

	logs.AddHandler(handlerUI, newLogHandler(uiHandler.LogWriter, true))
	logs.RemoveHandler(handlerTerminal)

	var wg sync.WaitGroup
	wg.Add(1)
	go startBackground(ctx, &wg, app, uiHandler, sched)

	uiErr := uiHandler.Launch()
	restoreLogging()

	if uiErr != nil && !errors.Is(uiErr, context.Canceled) {
		slog.Error("UI failure.", "err", uiErr)
	}

	// Operations that are still in flight report to the terminal now.
	if err := app.waitIdle(ctx); err != nil && app.dispatcher.InFlight() > 0 {
		slog.Warn("Operations are still running in the background.", "operations", app.dispatcher.InFlight())
	}

	cancel()
	wg.Wait()

	if sched != nil {
		stopCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
		defer stop()

		if err := sched.Stop(stopCtx); err != nil {
			slog.Warn("Scheduled RAID checks did not stop in time.", "err", err)
		}
	}

	if errors.Is(uiErr, context.Canceled) {
		return nil
	}

	return uiErr
}

// startBackground runs the loop and follows the device changes, once the
// user interface has started.
func startBackground(ctx context.Context, wg *sync.WaitGroup, app *App, uiHandler *ui.Handler, sched *schedule.Scheduler) {
	defer wg.Done()

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	for !uiHandler.Ready.Load() && !uiHandler.Failed.Load() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Watch(ctx, uiHandler.SetPool)
	}()

	if sched != nil {
		sched.Start()
	}

	if err := app.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Loop has stopped.", "err", err)
	}
}

func restoreLogging() {
	logs.AddHandler(handlerTerminal, newLogHandler(os.Stderr, false))
	logs.RemoveHandler(handlerUI)
}
