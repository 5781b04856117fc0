package mocks

import (
	context "context"

	gate "github.com/desertwitch/diskman/internal/gate"
	mock "github.com/stretchr/testify/mock"
)

// Confirmer is a mock type for the Confirmer type
type Confirmer struct {
	mock.Mock
}

// Confirm provides a mock function with given fields: ctx, c
func (_m *Confirmer) Confirm(ctx context.Context, c gate.Confirmation) bool {
	ret := _m.Called(ctx, c)

	if len(ret) == 0 {
		panic("no return value specified for Confirm")
	}

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context, gate.Confirmation) bool); ok {
		r0 = rf(ctx, c)
	} else {
		r0 = ret.Get(0).(bool)
	}

	return r0
}

// NewConfirmer creates a new instance of Confirmer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewConfirmer(t interface {
	mock.TestingT
	Cleanup(func())
},
) *Confirmer {
	mock := &Confirmer{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
