package queue

import (
	"context"
	"fmt"
	"sync"
)

// TaskManager is a simple task manager for delayed function execution.
type TaskManager struct {
	sync.Mutex
	Tasks []func()
}

// NewTaskManager returns a pointer to a new [TaskManager].
func NewTaskManager() *TaskManager {
	return &TaskManager{
		Tasks: []func(){},
	}
}

// Add adds a new taskedFunc to the [TaskManager].
// Functions with parameters can be added by invoking a parameterized function
// that immediately returns a func(), capturing any parameters in the closure.
func (t *TaskManager) Add(taskedFunc func()) {
	t.Lock()
	defer t.Unlock()

	t.Tasks = append(t.Tasks, taskedFunc)
}

// Len returns the amount of tasks stored in the [TaskManager].
func (t *TaskManager) Len() int {
	t.Lock()
	defer t.Unlock()

	return len(t.Tasks)
}

// Launch sequentially launches the functions stored in a [TaskManager] and
// removes them afterwards. An error is only returned in case of a mid-flight
// context cancellation, the tasks that did not run are kept.
func (t *TaskManager) Launch(ctx context.Context) error {
	t.Lock()
	defer t.Unlock()

	done := 0
	for _, task := range t.Tasks {
		if ctx.Err() != nil {
			break
		}

		task()
		done++
	}

	t.Tasks = t.Tasks[done:]

	if ctx.Err() != nil {
		return fmt.Errorf("(queue-tasker) %w", ctx.Err())
	}

	return nil
}
