package mocks

import (
	"sync"
)

// MockReadStore implements store.ReadStoreInterface in memory while
// recording every mutating and reading call for assertions.
type MockReadStore struct {
	mu          sync.Mutex
	collections map[string]map[string]any

	SetCalls    []SetCall
	GetCalls    []GetCall
	DeleteCalls []DeleteCall
	UpdateCalls []UpdateCall
}

// SetCall records parameters passed to Set
type SetCall struct {
	Collection string
	ID         string
	Data       any
}

// GetCall records parameters passed to Get
type GetCall struct {
	Collection string
	ID         string
}

// DeleteCall records parameters passed to Delete
type DeleteCall struct {
	Collection string
	ID         string
}

// UpdateCall records parameters passed to Update
type UpdateCall struct {
	Collection string
	ID         string
}

func NewMockReadStore() *MockReadStore {
	return &MockReadStore{
		collections: make(map[string]map[string]any),
	}
}

func (m *MockReadStore) collection(name string) map[string]any {
	col, ok := m.collections[name]
	if !ok {
		col = make(map[string]any)
		m.collections[name] = col
	}
	return col
}

// Set stores a read model and records the call
func (m *MockReadStore) Set(collection, id string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetCall{Collection: collection, ID: id, Data: data})
	m.collection(collection)[id] = data
}

// Get retrieves a read model by id and records the call
func (m *MockReadStore) Get(collection, id string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, GetCall{Collection: collection, ID: id})
	data, ok := m.collections[collection][id]
	return data, ok
}

// GetAll retrieves all items in a collection
func (m *MockReadStore) GetAll(collection string) []any {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]any, 0, len(m.collections[collection]))
	for _, item := range m.collections[collection] {
		items = append(items, item)
	}
	return items
}

// Delete removes a read model and records the call
func (m *MockReadStore) Delete(collection, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, DeleteCall{Collection: collection, ID: id})
	delete(m.collections[collection], id)
}

// Update modifies an existing read model and records the call
func (m *MockReadStore) Update(collection, id string, updateFn func(current any) any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{Collection: collection, ID: id})
	current, ok := m.collections[collection][id]
	if !ok {
		return false
	}
	m.collections[collection][id] = updateFn(current)
	return true
}

// Reset clears all data and recorded calls
func (m *MockReadStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections = make(map[string]map[string]any)
	m.SetCalls = nil
	m.GetCalls = nil
	m.DeleteCalls = nil
	m.UpdateCalls = nil
}

// SetData seeds data without recording a call
func (m *MockReadStore) SetData(collection, id string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(collection)[id] = data
}

// GetData reads data without recording a call
func (m *MockReadStore) GetData(collection, id string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.collections[collection][id]
	return data, ok
}
