package main

import (
	"context"
	"sync/atomic"

	"github.com/desertwitch/diskman/internal/gate"
)

// countingModals counts the errors shown through the wrapped [gate.Modals],
// which decides the exit code of single operations.
type countingModals struct {
	gate.Modals
	failures atomic.Int64
}

func (m *countingModals) ShowError(ctx context.Context, targetName string, title string, err error) {
	m.failures.Add(1)
	m.Modals.ShowError(ctx, targetName, title, err)
}

// Failures returns the amount of errors shown so far.
func (m *countingModals) Failures() int64 {
	return m.failures.Load()
}
