package cache

import "time"

// MockStorage is a mock implementation of the Storage interface for testing
type MockStorage[T any] struct {
	GetFunc       func(key string) (*Entry[T], error)
	SetFunc       func(key string, value T) error
	IsExpiredFunc func(key string, ttl time.Duration) (bool, error)
}

// Get implements Storage.Get
func (m *MockStorage[T]) Get(key string) (*Entry[T], error) {
	if m.GetFunc != nil {
		return m.GetFunc(key)
	}
	return nil, ErrNotFound
}

// Set implements Storage.Set
func (m *MockStorage[T]) Set(key string, value T) error {
	if m.SetFunc != nil {
		return m.SetFunc(key, value)
	}
	return nil
}

// IsExpired implements Storage.IsExpired
func (m *MockStorage[T]) IsExpired(key string, ttl time.Duration) (bool, error) {
	if m.IsExpiredFunc != nil {
		return m.IsExpiredFunc(key, ttl)
	}
	return true, nil
}
