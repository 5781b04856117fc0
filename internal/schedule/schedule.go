// Package schedule implements periodic checks of the running RAID arrays.
//
// The schedule only decides when to check, the checks themselves are
// ordinary linux-md-check operations that are dispatched on the loop and
// journaled like any other operation.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/operation"
	"github.com/desertwitch/diskman/internal/queue"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/robfig/cron/v3"
)

const loadTimeout = 30 * time.Second

// Loader loads the current snapshot of the device graph.
type Loader interface {
	Pool(ctx context.Context) (*model.Pool, error)
}

// Dispatcher sends operations to the daemon.
type Dispatcher interface {
	Dispatch(target operation.Target, params schema.Params, cb operation.Callback, userData any, opts ...operation.Option) (*operation.Handle, error)
}

// Poster executes functions on the loop.
type Poster interface {
	Post(fn func())
}

// Option is a functional option of a [Scheduler].
type Option func(*Scheduler)

// WithArrays restricts the checks to the arrays with the given names or
// uuids. By default all running arrays are checked.
func WithArrays(names ...string) Option {
	return func(s *Scheduler) {
		s.arrays = names
	}
}

// WithOptions sets the options of the checks.
func WithOptions(options []string) Option {
	return func(s *Scheduler) {
		if len(options) > 0 {
			s.options = options
		}
	}
}

// Scheduler is the principal implementation of the periodic array checks.
type Scheduler struct {
	expr       string
	schedule   cron.Schedule
	cron       *cron.Cron
	loader     Loader
	dispatcher Dispatcher
	poster     Poster
	tasks      *queue.TaskManager
	options    []string
	arrays     []string
}

// New returns a pointer to a new [Scheduler] for the given cron expression,
// which uses the standard five fields or a descriptor such as "@weekly".
func New(expr string, loader Loader, dispatcher Dispatcher, poster Poster, opts ...Option) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	schedule, err := parser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("(schedule) %w: %q: %w", ErrInvalidSchedule, expr, err)
	}

	s := &Scheduler{
		expr:       expr,
		schedule:   schedule,
		loader:     loader,
		dispatcher: dispatcher,
		poster:     poster,
		tasks:      queue.NewTaskManager(),
		options:    []string{"check"},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.cron = cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	s.cron.Schedule(schedule, cron.FuncJob(func() {
		if err := s.Tick(context.Background()); err != nil {
			slog.Error("Failed to run scheduled RAID check.", "err", err)
		}
	}))

	return s, nil
}

// Next returns the time of the next check after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Start starts the schedule in its own goroutine.
func (s *Scheduler) Start() {
	slog.Info("Scheduled RAID checks.",
		"schedule", s.expr,
		"next", s.Next(time.Now()),
		"options", s.options,
	)
	s.cron.Start()
}

// Stop stops the schedule and waits for a running tick to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("(schedule) %w", ctx.Err())
	}
}

// Tick loads the device graph and queues a check of every eligible array,
// the checks are dispatched on the loop.
func (s *Scheduler) Tick(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	pool, err := s.loader.Pool(ctx)
	if err != nil {
		return fmt.Errorf("(schedule-tick) %w", err)
	}

	for _, arr := range pool.LinuxMdDrives() {
		if !s.selected(arr) {
			continue
		}

		if !arr.IsRunning() {
			slog.Debug("Skipped RAID check of array that is not running.", "array", arr.Name())

			continue
		}

		if action := arr.Device().LinuxMd.SyncAction; action != "" && action != "idle" {
			slog.Info("Skipped RAID check of busy array.", "array", arr.Name(), "action", action)

			continue
		}

		s.tasks.Add(s.check(arr))
	}

	s.poster.Post(func() {
		if err := s.tasks.Launch(context.Background()); err != nil {
			slog.Error("Failed to launch scheduled RAID checks.", "err", err)
		}
	})

	return nil
}

func (s *Scheduler) selected(arr *model.LinuxMdDrive) bool {
	if len(s.arrays) == 0 {
		return true
	}

	return slices.Contains(s.arrays, arr.ArrayName()) || slices.Contains(s.arrays, arr.UUID())
}

func (s *Scheduler) check(arr *model.LinuxMdDrive) func() {
	return func() {
		_, err := s.dispatcher.Dispatch(operation.ForPresentable(arr), schema.LinuxMdCheckParams{Options: s.options},
			func(_ operation.Target, res schema.Result, _ any) {
				if res.Failed() {
					slog.Error("Scheduled RAID check failed.",
						"array", arr.Name(),
						"err", res.Err,
					)

					return
				}

				slog.Info("Scheduled RAID check completed.",
					"array", arr.Name(),
					"errors", res.NumErrors,
				)
			}, nil)
		if err != nil {
			slog.Warn("Failed to dispatch scheduled RAID check.",
				"array", arr.Name(),
				"err", err,
			)
		}
	}
}
