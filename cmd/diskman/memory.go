package main

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

const memoryMonitorInterval = 500 * time.Millisecond

// memoryObserver tracks the peak heap allocation while debugging.
type memoryObserver struct {
	maxAlloc atomic.Uint64
	stopChan chan struct{}
}

// newMemoryObserver starts tracking, [memoryObserver.Stop] needs to be
// called before the program exits.
func newMemoryObserver(ctx context.Context) *memoryObserver {
	obs := &memoryObserver{
		stopChan: make(chan struct{}),
	}
	go obs.monitor(ctx)

	return obs
}

// Stop stops tracking and logs the peak allocation. It is nil-safe.
func (o *memoryObserver) Stop() {
	if o == nil {
		return
	}

	close(o.stopChan)
	slog.Debug("Memory consumption peaked.", "maxAlloc", humanize.IBytes(o.maxAlloc.Load()))
}

func (o *memoryObserver) monitor(ctx context.Context) {
	ticker := time.NewTicker(memoryMonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			if m.Alloc > o.maxAlloc.Load() {
				o.maxAlloc.Store(m.Alloc)
			}
		}
	}
}
