package feature_test

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockOverrideStore is a mock implementation of feature.OverrideStore.
type MockOverrideStore struct {
	mock.Mock
}

func (m *MockOverrideStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockOverrideStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockOverrideStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
