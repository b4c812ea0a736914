package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/example/moringa-store/internal/infrastructure/store"
)

// MockReadStore wraps the memory read store and records writes
type MockReadStore struct {
	inner *store.MemoryReadStore

	mu        sync.Mutex
	SetCalls  []SetCall
	SetErr    error
	DeleteErr error
}

// SetCall records parameters passed to Set
type SetCall struct {
	Collection string
	ID         string
}

func NewMockReadStore() *MockReadStore {
	return &MockReadStore{inner: store.NewMemoryReadStore()}
}

func (m *MockReadStore) Set(ctx context.Context, collection, id string, data any) error {
	m.mu.Lock()
	m.SetCalls = append(m.SetCalls, SetCall{Collection: collection, ID: id})
	err := m.SetErr
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.inner.Set(ctx, collection, id, data)
}

func (m *MockReadStore) Get(ctx context.Context, collection, id string, dest any) (bool, error) {
	return m.inner.Get(ctx, collection, id, dest)
}

func (m *MockReadStore) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	return m.inner.List(ctx, collection)
}

func (m *MockReadStore) Delete(ctx context.Context, collection, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.inner.Delete(ctx, collection, id)
}
