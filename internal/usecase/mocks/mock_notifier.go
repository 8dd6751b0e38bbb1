package mocks

import (
	context "context"

	entity "tour-booking/internal/data/entity"

	mock "github.com/stretchr/testify/mock"
)

// MockNotifier is a mock type for the Notifier type
type MockNotifier struct {
	mock.Mock
}

type MockNotifier_Expecter struct {
	mock *mock.Mock
}

func (_m *MockNotifier) EXPECT() *MockNotifier_Expecter {
	return &MockNotifier_Expecter{mock: &_m.Mock}
}

// NotifyOperator provides a mock function with given fields: ctx, booking, tour
func (_m *MockNotifier) NotifyOperator(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error {
	ret := _m.Called(ctx, booking, tour)

	if len(ret) == 0 {
		panic("no return value specified for NotifyOperator")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *entity.Booking, *entity.Tour) error); ok {
		r0 = rf(ctx, booking, tour)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockNotifier_NotifyOperator_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'NotifyOperator'
type MockNotifier_NotifyOperator_Call struct {
	*mock.Call
}

// NotifyOperator is a helper method to define mock.On call
//   - ctx context.Context
//   - booking *entity.Booking
//   - tour *entity.Tour
func (_e *MockNotifier_Expecter) NotifyOperator(ctx interface{}, booking interface{}, tour interface{}) *MockNotifier_NotifyOperator_Call {
	return &MockNotifier_NotifyOperator_Call{Call: _e.mock.On("NotifyOperator", ctx, booking, tour)}
}

func (_c *MockNotifier_NotifyOperator_Call) Run(run func(ctx context.Context, booking *entity.Booking, tour *entity.Tour)) *MockNotifier_NotifyOperator_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*entity.Booking), args[2].(*entity.Tour))
	})
	return _c
}

func (_c *MockNotifier_NotifyOperator_Call) Return(_a0 error) *MockNotifier_NotifyOperator_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockNotifier_NotifyOperator_Call) RunAndReturn(run func(context.Context, *entity.Booking, *entity.Tour) error) *MockNotifier_NotifyOperator_Call {
	_c.Call.Return(run)
	return _c
}

// SendConfirmation provides a mock function with given fields: ctx, booking, tour
func (_m *MockNotifier) SendConfirmation(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error {
	ret := _m.Called(ctx, booking, tour)

	if len(ret) == 0 {
		panic("no return value specified for SendConfirmation")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *entity.Booking, *entity.Tour) error); ok {
		r0 = rf(ctx, booking, tour)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockNotifier_SendConfirmation_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'SendConfirmation'
type MockNotifier_SendConfirmation_Call struct {
	*mock.Call
}

// SendConfirmation is a helper method to define mock.On call
//   - ctx context.Context
//   - booking *entity.Booking
//   - tour *entity.Tour
func (_e *MockNotifier_Expecter) SendConfirmation(ctx interface{}, booking interface{}, tour interface{}) *MockNotifier_SendConfirmation_Call {
	return &MockNotifier_SendConfirmation_Call{Call: _e.mock.On("SendConfirmation", ctx, booking, tour)}
}

func (_c *MockNotifier_SendConfirmation_Call) Run(run func(ctx context.Context, booking *entity.Booking, tour *entity.Tour)) *MockNotifier_SendConfirmation_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*entity.Booking), args[2].(*entity.Tour))
	})
	return _c
}

func (_c *MockNotifier_SendConfirmation_Call) Return(_a0 error) *MockNotifier_SendConfirmation_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockNotifier_SendConfirmation_Call) RunAndReturn(run func(context.Context, *entity.Booking, *entity.Tour) error) *MockNotifier_SendConfirmation_Call {
	_c.Call.Return(run)
	return _c
}

// SendReminder provides a mock function with given fields: ctx, booking, tour
func (_m *MockNotifier) SendReminder(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error {
	ret := _m.Called(ctx, booking, tour)

	if len(ret) == 0 {
		panic("no return value specified for SendReminder")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *entity.Booking, *entity.Tour) error); ok {
		r0 = rf(ctx, booking, tour)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockNotifier_SendReminder_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'SendReminder'
type MockNotifier_SendReminder_Call struct {
	*mock.Call
}

// SendReminder is a helper method to define mock.On call
//   - ctx context.Context
//   - booking *entity.Booking
//   - tour *entity.Tour
func (_e *MockNotifier_Expecter) SendReminder(ctx interface{}, booking interface{}, tour interface{}) *MockNotifier_SendReminder_Call {
	return &MockNotifier_SendReminder_Call{Call: _e.mock.On("SendReminder", ctx, booking, tour)}
}

func (_c *MockNotifier_SendReminder_Call) Run(run func(ctx context.Context, booking *entity.Booking, tour *entity.Tour)) *MockNotifier_SendReminder_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*entity.Booking), args[2].(*entity.Tour))
	})
	return _c
}

func (_c *MockNotifier_SendReminder_Call) Return(_a0 error) *MockNotifier_SendReminder_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockNotifier_SendReminder_Call) RunAndReturn(run func(context.Context, *entity.Booking, *entity.Tour) error) *MockNotifier_SendReminder_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockNotifier creates a new instance of MockNotifier. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockNotifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotifier {
	mock := &MockNotifier{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
