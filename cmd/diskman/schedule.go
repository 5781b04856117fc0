package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

const stopTimeout = 10 * time.Second

//nolint:gochecknoglobals
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the periodic RAID array checks in the foreground",
	Long: `Run the periodic RAID array checks in the foreground until interrupted.

The schedule, the arrays and the check options are taken from the settings
(DISKMAN_CHECK_SCHEDULE, DISKMAN_CHECK_ARRAYS and DISKMAN_CHECK_OPTIONS). Busy
arrays and arrays that are not running are skipped.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() { //nolint:gochecknoinits
	scheduleCmd.Flags().String("expr", "", "cron expression overriding the configured schedule, such as @weekly")
	scheduleCmd.Flags().Bool("once", false, "check the arrays once now and exit")

	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	expr := settings.CheckSchedule
	if cmd.Flags().Changed("expr") {
		expr, _ = cmd.Flags().GetString("expr")
	}
	once, _ := cmd.Flags().GetBool("once")

	if expr == "" && !once {
		return fmt.Errorf("(main) %w", ErrNoSchedule)
	}
	if expr == "" {
		expr = "@daily"
	}

	app, err := NewApp(settings)
	if err != nil {
		return err
	}
	defer app.Close()

	sched, err := app.Scheduler(expr)
	if err != nil {
		return err
	}

	go func() {
		if err := app.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Loop has stopped.", "err", err)
		}
	}()

	if once {
		if err := sched.Tick(ctx); err != nil {
			return fmt.Errorf("(main) %w", err)
		}

		// Returns once the checks posted by the tick were dispatched.
		if err := app.loop.Invoke(ctx, func() {}); err != nil {
			return fmt.Errorf("(main) %w", err)
		}

		return app.waitIdle(ctx)
	}

	sched.Start()
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()

	if err := sched.Stop(stopCtx); err != nil {
		slog.Warn("Scheduled RAID checks did not stop in time.", "err", err)
	}

	return nil
}
