package mocks

import (
	"context"
	"sync"
)

// MockSlot is a mock implementation of store.Slot for testing
type MockSlot struct {
	mu   sync.RWMutex
	data map[string][]byte

	// For tracking calls in tests
	GetCalls    []string
	PutCalls    []PutCall
	DeleteCalls []string

	GetErr    error
	PutErr    error
	DeleteErr error
}

// PutCall records parameters passed to Put
type PutCall struct {
	Key   string
	Value []byte
}

// NewMockSlot creates a new MockSlot
func NewMockSlot() *MockSlot {
	return &MockSlot{
		data:        make(map[string][]byte),
		GetCalls:    make([]string, 0),
		PutCalls:    make([]PutCall, 0),
		DeleteCalls: make([]string, 0),
	}
}

func (m *MockSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key)
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MockSlot) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PutCalls = append(m.PutCalls, PutCall{Key: key, Value: append([]byte(nil), value...)})
	if m.PutErr != nil {
		return m.PutErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockSlot) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, key)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.data, key)
	return nil
}

// SetData seeds a raw payload, e.g. a corrupt one
func (m *MockSlot) SetData(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Data returns the raw payload stored under key
func (m *MockSlot) Data(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// LastPut returns the most recent Put call
func (m *MockSlot) LastPut() (PutCall, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.PutCalls) == 0 {
		return PutCall{}, false
	}
	return m.PutCalls[len(m.PutCalls)-1], true
}

// Reset clears all data and recorded calls
func (m *MockSlot) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.GetCalls = make([]string, 0)
	m.PutCalls = make([]PutCall, 0)
	m.DeleteCalls = make([]string, 0)
	m.GetErr, m.PutErr, m.DeleteErr = nil, nil, nil
}
