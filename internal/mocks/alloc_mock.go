// Written by hand in MockGen's layout.
// Source: alloc.go (interfaces: Allocator)

// Package mocks holds hand-authored stand-ins for the codec's collaborator
// interfaces, in the shape go.uber.org/mock would generate from the
// //go:generate directive in wirehair/alloc.go.
package mocks

import (
	"reflect"

	"go.uber.org/mock/gomock"
)

// MockAllocator is a mock of the wirehair.Allocator interface.
type MockAllocator struct {
	ctrl     *gomock.Controller
	recorder *MockAllocatorMockRecorder
}

// MockAllocatorMockRecorder is the mock recorder for MockAllocator.
type MockAllocatorMockRecorder struct {
	mock *MockAllocator
}

// NewMockAllocator creates a new mock instance.
func NewMockAllocator(ctrl *gomock.Controller) *MockAllocator {
	mock := &MockAllocator{ctrl: ctrl}
	mock.recorder = &MockAllocatorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAllocator) EXPECT() *MockAllocatorMockRecorder {
	return m.recorder
}

// Alloc mocks base method.
func (m *MockAllocator) Alloc(n int) []byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Alloc", n)
	ret0, _ := ret[0].([]byte)
	return ret0
}

// Alloc indicates an expected call of Alloc.
func (mr *MockAllocatorMockRecorder) Alloc(n interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Alloc", reflect.TypeOf((*MockAllocator)(nil).Alloc), n)
}
