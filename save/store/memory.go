// Package store provides the in-memory save.Store implementation.
package store

import (
	"context"
	"sync"

	"github.com/aikazu/chpun/save"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	data []byte
}

var _ save.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

// Load decodes the stored bytes. Round-tripping through the codec keeps
// the memory store honest about what a durable store would return.
func (m *Memory) Load(_ context.Context) (*save.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.data == nil {
		return nil, nil
	}
	r, err := save.Decode(m.data)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (m *Memory) Save(_ context.Context, r save.Record) error {
	data, err := save.Encode(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// Corrupt overwrites the stored bytes directly. Test hook for exercising
// the corrupt-load fallback path.
func (m *Memory) Corrupt(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}
