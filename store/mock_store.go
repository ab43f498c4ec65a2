package store

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStore implements the Store interface for testing
type MockStore struct {
	mock.Mock
}

// Tasks implements the Store interface
func (m *MockStore) Tasks() ([]Task, error) {
	args := m.Called()
	return args.Get(0).([]Task), args.Error(1)
}

// AddTask implements the Store interface
func (m *MockStore) AddTask(task Task) error {
	args := m.Called(task)
	return args.Error(0)
}

// RemoveTask implements the Store interface
func (m *MockStore) RemoveTask(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// RecurringTemplates implements the Store interface
func (m *MockStore) RecurringTemplates() ([]Template, error) {
	args := m.Called()
	return args.Get(0).([]Template), args.Error(1)
}

// Template implements the Store interface
func (m *MockStore) Template(id string) (Template, error) {
	args := m.Called(id)
	return args.Get(0).(Template), args.Error(1)
}

// SetTemplate implements the Store interface
func (m *MockStore) SetTemplate(tmpl Template) error {
	args := m.Called(tmpl)
	return args.Error(0)
}

// RemoveTemplate implements the Store interface
func (m *MockStore) RemoveTemplate(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MarkActivated implements the Store interface
func (m *MockStore) MarkActivated(id string, at time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}
