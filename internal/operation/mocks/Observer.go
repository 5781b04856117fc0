package mocks

import (
	operation "github.com/desertwitch/diskman/internal/operation"
	schema "github.com/desertwitch/diskman/internal/schema"
	mock "github.com/stretchr/testify/mock"
)

// Observer is a mock type for the Observer type
type Observer struct {
	mock.Mock
}

// Completed provides a mock function with given fields: req, res
func (_m *Observer) Completed(req *operation.Request, res schema.Result) {
	_m.Called(req, res)
}

// Dispatched provides a mock function with given fields: req
func (_m *Observer) Dispatched(req *operation.Request) {
	_m.Called(req)
}

// NewObserver creates a new instance of Observer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewObserver(t interface {
	mock.TestingT
	Cleanup(func())
},
) *Observer {
	mock := &Observer{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
