package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// MemoryReadStore keeps read models in memory
type MemoryReadStore struct {
	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage // collection -> id -> document
}

func NewMemoryReadStore() *MemoryReadStore {
	return &MemoryReadStore{data: make(map[string]map[string]json.RawMessage)}
}

func (rs *MemoryReadStore) Set(_ context.Context, collection, id string, data any) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.data[collection] == nil {
		rs.data[collection] = make(map[string]json.RawMessage)
	}
	rs.data[collection][id] = doc
	return nil
}

func (rs *MemoryReadStore) Get(_ context.Context, collection, id string, dest any) (bool, error) {
	rs.mu.RLock()
	doc, ok := rs.data[collection][id]
	rs.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(doc, dest)
}

// List returns documents ordered by id so results are stable
func (rs *MemoryReadStore) List(_ context.Context, collection string) ([]json.RawMessage, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	ids := make([]string, 0, len(rs.data[collection]))
	for id := range rs.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		out = append(out, rs.data[collection][id])
	}
	return out, nil
}

func (rs *MemoryReadStore) Delete(_ context.Context, collection, id string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.data[collection], id)
	return nil
}
