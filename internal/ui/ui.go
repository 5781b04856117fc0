// Package ui implements a terminal user interface using [tea].
package ui

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertwitch/diskman/internal/gate"
	"github.com/desertwitch/diskman/internal/model"
)

// Handler is the principal implementation of a user interface [Handler].
type Handler struct {
	controller Controller
	program    *tea.Program
	pool       atomic.Pointer[model.Pool]

	LogWriter *TeaLogWriter
	Modals    *Modals

	Ready  atomic.Bool
	Failed atomic.Bool
}

// NewHandler returns a pointer to a new user interface [Handler]. The pump
// is the loop that the [Modals] keep running while waiting for the user.
func NewHandler(ctx context.Context, cancel context.CancelFunc, controller Controller, pump gate.Pump, opts ...tea.ProgramOption) *Handler {
	handler := &Handler{
		controller: controller,
	}

	teaModel := NewTeaModel(handler, controller, cancel)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)

	handler.program = tea.NewProgram(teaModel, opts...)
	handler.LogWriter = NewTeaLogWriter(handler.program)
	handler.Modals = NewModals(handler.program, pump)

	return handler
}

// SetPool publishes a new snapshot to the user interface. It never blocks,
// the user interface picks up the latest snapshot on its next refresh.
func (uiHandler *Handler) SetPool(pool *model.Pool) {
	uiHandler.pool.Store(pool)
}

// Launch starts the terminal user interface (the [tea.Program]).
func (uiHandler *Handler) Launch() error {
	defer uiHandler.LogWriter.Stop()
	defer uiHandler.Modals.Close()

	if _, err := uiHandler.program.Run(); err != nil {
		uiHandler.Failed.Store(true)

		return fmt.Errorf("(ui) %w", err)
	}

	return nil
}
