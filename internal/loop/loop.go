// Package loop implements the single control-flow thread of the program.
//
// All completion callbacks, user action flows and view updates run as tasks
// on one [Loop]. Other goroutines (D-Bus replies, signal watchers, the cron
// scheduler) never touch shared state directly, they post tasks instead. A
// task that needs to wait for the user (a modal confirmation) uses
// [Loop.Wait], which keeps executing other posted tasks while it waits.
package loop

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/desertwitch/diskman/internal/queue"
)

type task struct {
	fn func()
}

// Loop is a serial task loop.
type Loop struct {
	tasks   *queue.GenericQueue[*task]
	wake    chan struct{}
	running atomic.Bool
	depth   atomic.Int32
}

// New returns a pointer to a new [Loop].
func New() *Loop {
	return &Loop{
		tasks: queue.NewGenericQueue[*task](),
		wake:  make(chan struct{}, 1),
	}
}

// Post schedules fn for execution on the loop. It never blocks and is safe
// for concurrent use.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}

	l.tasks.Enqueue(&task{fn: fn})

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the amount of tasks waiting for execution.
func (l *Loop) Pending() int {
	return l.tasks.Len()
}

// Nested reports if a nested [Loop.Wait] is currently in progress.
func (l *Loop) Nested() bool {
	return l.depth.Load() > 0
}

// Run executes posted tasks until the context is canceled. Only one Run may
// be active at any time.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	for {
		if err := l.Drain(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("(loop-run) %w", ctx.Err())
		case <-l.wake:
		}
	}
}

// Drain executes all pending tasks, including those posted while draining,
// and returns once no more tasks are pending. It must only be called from the
// goroutine that owns the loop.
func (l *Loop) Drain(ctx context.Context) error {
	if err := l.tasks.DequeueAndProcess(ctx, func(t *task) int {
		t.fn()

		return queue.DecisionSuccess
	}); err != nil {
		return fmt.Errorf("(loop-drain) %w", err)
	}

	return nil
}

// Wait blocks the calling task until done is closed or the context is
// canceled, while executing other posted tasks in the meantime. It must only
// be called from a task running on the loop.
func (l *Loop) Wait(ctx context.Context, done <-chan struct{}) error {
	l.depth.Add(1)
	defer l.depth.Add(-1)

	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("(loop-wait) %w", ctx.Err())
		default:
		}

		if t, ok := l.tasks.Dequeue(); ok {
			t.fn()

			continue
		}

		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("(loop-wait) %w", ctx.Err())
		case <-l.wake:
		}
	}
}

// Invoke posts fn to the loop and blocks until it was executed. It must not
// be called from a task running on the loop.
func (l *Loop) Invoke(ctx context.Context, fn func()) error {
	done := make(chan struct{})

	l.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("(loop-invoke) %w", ctx.Err())
	}
}
