package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockPageCache - мок кеша страниц на testify/mock.
type MockPageCache struct {
	mock.Mock
}

func (m *MockPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	value, _ := args.Get(0).([]byte)
	return value, args.Bool(1), args.Error(2)
}

func (m *MockPageCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockPageCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
