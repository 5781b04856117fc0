package mocks

import (
	context "context"

	operation "github.com/desertwitch/diskman/internal/operation"
	schema "github.com/desertwitch/diskman/internal/schema"
	mock "github.com/stretchr/testify/mock"
)

// Backend is a mock type for the Backend type
type Backend struct {
	mock.Mock
}

// Call provides a mock function with given fields: ctx, req, reply
func (_m *Backend) Call(ctx context.Context, req *operation.Request, reply func(schema.Result)) {
	_m.Called(ctx, req, reply)
}

// Reply returns a Run function that replies to every call with the given
// results, in order.
func Reply(results ...schema.Result) func(mock.Arguments) {
	return func(args mock.Arguments) {
		reply := args.Get(2).(func(schema.Result)) //nolint:forcetypeassert
		for _, res := range results {
			reply(res)
		}
	}
}

// NewBackend creates a new instance of Backend. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewBackend(t interface {
	mock.TestingT
	Cleanup(func())
},
) *Backend {
	mock := &Backend{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
