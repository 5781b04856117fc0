package queue

import (
	"context"
	"fmt"
	"sync"
)

const (
	DecisionRequeue = -1
	DecisionSkipped = 0
	DecisionSuccess = 1
)

// compactThreshold is the number of consumed slots after which the backing
// slice of a [GenericQueue] is compacted.
const compactThreshold = 1024

// GenericQueue is an unbounded, thread-safe FIFO queue. Consumed slots are
// released, so it is suitable for long-lived queues.
type GenericQueue[T comparable] struct {
	sync.Mutex
	head       int
	items      []T
	success    int
	skipped    int
	inProgress map[T]struct{}
}

// NewGenericQueue returns a pointer to a new [GenericQueue].
func NewGenericQueue[T comparable]() *GenericQueue[T] {
	return &GenericQueue[T]{
		inProgress: make(map[T]struct{}),
	}
}

// Len returns the amount of items remaining in the queue.
func (q *GenericQueue[T]) Len() int {
	q.Lock()
	defer q.Unlock()

	return len(q.items) - q.head
}

// HasRemainingItems reports if any items remain in the queue.
func (q *GenericQueue[T]) HasRemainingItems() bool {
	return q.Len() > 0
}

// Enqueue appends items to the end of the queue.
func (q *GenericQueue[T]) Enqueue(items ...T) {
	q.Lock()
	defer q.Unlock()

	for _, item := range items {
		delete(q.inProgress, item)
		q.items = append(q.items, item)
	}
}

// Dequeue removes and returns the first item of the queue.
func (q *GenericQueue[T]) Dequeue() (T, bool) { //nolint:ireturn
	q.Lock()
	defer q.Unlock()

	var zeroVal T

	if q.head >= len(q.items) {
		return zeroVal, false
	}

	item := q.items[q.head]
	q.items[q.head] = zeroVal
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0

	case q.head >= compactThreshold:
		remaining := make([]T, len(q.items)-q.head)
		copy(remaining, q.items[q.head:])
		q.items = remaining
		q.head = 0
	}

	return item, true
}

// Counts returns the amount of items that were processed successfully,
// skipped or are in progress.
func (q *GenericQueue[T]) Counts() (success int, skipped int, inProgress int) {
	q.Lock()
	defer q.Unlock()

	return q.success, q.skipped, len(q.inProgress)
}

func (q *GenericQueue[T]) setProcessing(item T) {
	q.Lock()
	defer q.Unlock()

	q.inProgress[item] = struct{}{}
}

func (q *GenericQueue[T]) setDecision(item T, decision int) {
	switch decision {
	case DecisionRequeue:
		q.Enqueue(item)

	case DecisionSkipped:
		q.Lock()
		delete(q.inProgress, item)
		q.skipped++
		q.Unlock()

	case DecisionSuccess:
		q.Lock()
		delete(q.inProgress, item)
		q.success++
		q.Unlock()
	}
}

// DequeueAndProcess sequentially processes all items of the queue with
// processFunc, until the queue is empty or the context is canceled. The
// decision returned by processFunc determines what happens with an item.
func (q *GenericQueue[T]) DequeueAndProcess(ctx context.Context, processFunc func(T) int) error {
	for {
		if ctx.Err() != nil {
			break
		}

		item, ok := q.Dequeue()
		if !ok {
			break
		}

		q.setProcessing(item)
		q.setDecision(item, processFunc(item))
	}

	if ctx.Err() != nil {
		return fmt.Errorf("(queue-proc) %w", ctx.Err())
	}

	return nil
}
