package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// ErrorPresenter is a mock type for the ErrorPresenter type
type ErrorPresenter struct {
	mock.Mock
}

// ShowError provides a mock function with given fields: ctx, targetName, title, err
func (_m *ErrorPresenter) ShowError(ctx context.Context, targetName string, title string, err error) {
	_m.Called(ctx, targetName, title, err)
}

// NewErrorPresenter creates a new instance of ErrorPresenter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewErrorPresenter(t interface {
	mock.TestingT
	Cleanup(func())
},
) *ErrorPresenter {
	mock := &ErrorPresenter{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
