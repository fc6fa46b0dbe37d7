package task

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore implements the Store interface for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, id string) (*Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Task), args.Error(1)
}

func (m *MockStore) List(ctx context.Context, opts *ListOptions) ([]*Task, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Task), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, t *Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockStore) Update(ctx context.Context, t *Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ Store = (*MockStore)(nil)
