package main

import (
	"context"
	"errors"
	"testing"

	"github.com/desertwitch/diskman/internal/gate"
	"github.com/desertwitch/diskman/internal/gate/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type testModals struct {
	*mocks.Confirmer
	*mocks.ErrorPresenter
	*mocks.SecretPrompter
}

// TestCountingModals_ShowError tests that shown errors are counted and
// passed on.
func TestCountingModals_ShowError(t *testing.T) {
	t.Parallel()

	presenter := mocks.NewErrorPresenter(t)
	presenter.On("ShowError", mock.Anything, "/dev/sda", "Error ejecting media", mock.Anything).Twice()

	modals := &countingModals{Modals: testModals{ErrorPresenter: presenter}}
	assert.Zero(t, modals.Failures(), "should start without failures")

	modals.ShowError(context.Background(), "/dev/sda", "Error ejecting media", errors.New("busy"))
	modals.ShowError(context.Background(), "/dev/sda", "Error ejecting media", errors.New("busy"))

	assert.Equal(t, int64(2), modals.Failures(), "should count every error")
}

// TestCountingModals_Confirm tests that confirmations are not counted.
func TestCountingModals_Confirm(t *testing.T) {
	t.Parallel()

	confirmer := mocks.NewConfirmer(t)
	confirmer.On("Confirm", mock.Anything, mock.Anything).Return(true).Once()

	modals := &countingModals{Modals: testModals{Confirmer: confirmer}}

	assert.True(t, modals.Confirm(context.Background(), gate.Confirmation{}), "should pass on the answer")
	assert.Zero(t, modals.Failures(), "confirmations should not count")
}
