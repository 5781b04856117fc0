package queue

import (
	"sync"
	"time"
)

// Progress is a snapshot of the operation statistics of a [Tracker].
type Progress struct {
	IsStarted       bool
	StartTime       time.Time
	FinishTime      time.Time
	TotalItems      int
	ProcessedItems  int
	InProgressItems int
	SuccessItems    int
	FailedItems     int
	ProgressPct     float64
}

// Tracker tracks in-flight and finished items, such as dispatched operations.
// It allows waiting for the moment that no more items are in flight.
type Tracker[K comparable] struct {
	sync.Mutex
	startTime  time.Time
	finishTime time.Time
	total      int
	success    int
	failed     int
	inFlight   map[K]struct{}
	idle       chan struct{}
}

// NewTracker returns a pointer to a new [Tracker].
func NewTracker[K comparable]() *Tracker[K] {
	idle := make(chan struct{})
	close(idle)

	return &Tracker[K]{
		inFlight: make(map[K]struct{}),
		idle:     idle,
	}
}

// Start marks an item as in flight.
func (t *Tracker[K]) Start(item K) {
	t.Lock()
	defer t.Unlock()

	if len(t.inFlight) == 0 {
		t.idle = make(chan struct{})
		t.startTime = time.Now()
		t.finishTime = time.Time{}
	}

	t.inFlight[item] = struct{}{}
	t.total++
}

// Finish marks an item as finished. Unknown items are ignored.
func (t *Tracker[K]) Finish(item K, failed bool) {
	t.Lock()
	defer t.Unlock()

	if _, ok := t.inFlight[item]; !ok {
		return
	}

	delete(t.inFlight, item)

	if failed {
		t.failed++
	} else {
		t.success++
	}

	if len(t.inFlight) == 0 {
		t.finishTime = time.Now()
		close(t.idle)
	}
}

// InFlight returns the amount of items currently in flight.
func (t *Tracker[K]) InFlight() int {
	t.Lock()
	defer t.Unlock()

	return len(t.inFlight)
}

// Idle returns a channel that is closed once no items are in flight. The
// returned channel is already closed if the [Tracker] is idle.
func (t *Tracker[K]) Idle() <-chan struct{} {
	t.Lock()
	defer t.Unlock()

	return t.idle
}

// Progress returns a snapshot of the statistics.
func (t *Tracker[K]) Progress() Progress {
	t.Lock()
	defer t.Unlock()

	processed := t.success + t.failed

	var progressPct float64
	if t.total > 0 {
		progressPct = float64(processed) / float64(t.total) * 100 //nolint:mnd
		progressPct = max(float64(0), min(progressPct, float64(100))) //nolint:mnd
	}

	return Progress{
		IsStarted:       len(t.inFlight) > 0,
		StartTime:       t.startTime,
		FinishTime:      t.finishTime,
		TotalItems:      t.total,
		ProcessedItems:  processed,
		InProgressItems: len(t.inFlight),
		SuccessItems:    t.success,
		FailedItems:     t.failed,
		ProgressPct:     progressPct,
	}
}
