package entity

import "sync"

// InMemory is a thread-safe, map-backed Mapping.
// The zero value is not usable; use NewInMemory.
type InMemory struct {
	mu     sync.RWMutex
	ids    map[string]ID
	values []string
}

var _ Mapping = (*InMemory)(nil)

// NewInMemory creates an empty in-memory mapping.
func NewInMemory() *InMemory {
	return &InMemory{
		ids: make(map[string]ID),
	}
}

// Resolve implements Mapping.
func (m *InMemory) Resolve(value string) (ID, error) {
	m.mu.RLock()
	id, ok := m.ids[value]
	m.mu.RUnlock()
	if ok {
		return id, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under the write lock.
	if id, ok := m.ids[value]; ok {
		return id, nil
	}

	id = ID(len(m.values))
	m.ids[value] = id
	m.values = append(m.values, value)

	return id, nil
}

// Lookup implements Mapping.
func (m *InMemory) Lookup(id ID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if int(id) >= len(m.values) {
		return "", ErrNotFound
	}

	return m.values[id], nil
}

// ForEach implements Mapping.
func (m *InMemory) ForEach(fn func(id ID, value string) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i, v := range m.values {
		if err := fn(ID(i), v); err != nil {
			return err
		}
	}

	return nil
}

// Len returns the number of assigned ids.
func (m *InMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.values)
}
