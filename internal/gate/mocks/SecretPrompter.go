package mocks

import (
	context "context"

	gate "github.com/desertwitch/diskman/internal/gate"
	secret "github.com/desertwitch/diskman/internal/secret"
	mock "github.com/stretchr/testify/mock"
)

// SecretPrompter is a mock type for the SecretPrompter type
type SecretPrompter struct {
	mock.Mock
}

// AskNewSecret provides a mock function with given fields: ctx
func (_m *SecretPrompter) AskNewSecret(ctx context.Context) (*secret.Passphrase, gate.SaveMode, bool) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for AskNewSecret")
	}

	var r0 *secret.Passphrase
	var r1 gate.SaveMode
	var r2 bool
	if rf, ok := ret.Get(0).(func(context.Context) (*secret.Passphrase, gate.SaveMode, bool)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) *secret.Passphrase); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*secret.Passphrase)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) gate.SaveMode); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Get(1).(gate.SaveMode)
	}

	if rf, ok := ret.Get(2).(func(context.Context) bool); ok {
		r2 = rf(ctx)
	} else {
		r2 = ret.Get(2).(bool)
	}

	return r0, r1, r2
}

// NewSecretPrompter creates a new instance of SecretPrompter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewSecretPrompter(t interface {
	mock.TestingT
	Cleanup(func())
},
) *SecretPrompter {
	mock := &SecretPrompter{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
