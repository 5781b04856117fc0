package mocks

import (
	model "github.com/desertwitch/diskman/internal/model"
	mock "github.com/stretchr/testify/mock"

	queue "github.com/desertwitch/diskman/internal/queue"

	sections "github.com/desertwitch/diskman/internal/sections"
)

// Controller is a mock type for the Controller type
type Controller struct {
	mock.Mock
}

// Activate provides a mock function with given fields: pool, id, button, in
func (_m *Controller) Activate(pool *model.Pool, id string, button sections.ButtonID, in sections.Input) {
	_m.Called(pool, id, button, in)
}

// Progress provides a mock function with no fields
func (_m *Controller) Progress() queue.Progress {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Progress")
	}

	var r0 queue.Progress
	if rf, ok := ret.Get(0).(func() queue.Progress); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(queue.Progress)
	}

	return r0
}

// NewController creates a new instance of Controller. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewController(t interface {
	mock.TestingT
	Cleanup(func())
},
) *Controller {
	mock := &Controller{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
