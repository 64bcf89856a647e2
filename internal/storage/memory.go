package storage

import (
	"slices"
	"sync"
)

// Memory is an in-process sim.Persistence for runs without a database.
type Memory struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	numbers map[string]float64
}

// NewMemory creates an empty in-memory persistence.
func NewMemory() *Memory {
	return &Memory{
		blobs:   make(map[string][]byte),
		numbers: make(map[string]float64),
	}
}

func (m *Memory) LoadState(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	return slices.Clone(b), ok, nil
}

func (m *Memory) SaveState(key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = slices.Clone(blob)
	return nil
}

func (m *Memory) RemoveState(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	delete(m.numbers, key)
	return nil
}

func (m *Memory) GetNumber(key string, def float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.numbers[key]; ok {
		return v
	}
	return def
}

func (m *Memory) SetNumber(key string, v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.numbers[key] = v
	return nil
}
