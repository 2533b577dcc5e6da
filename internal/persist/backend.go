package persist

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Backend.Load when no record has the name.
var ErrNotFound = errors.New("record not found")

// Backend stores opaque named records.
type Backend interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Close() error
}

// Memory is an in-process Backend.
//
// Thread-safety: Memory is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	records map[string][]byte

	// FailSave, when set, is returned from every Save. Tests use it to
	// simulate an unavailable or full storage device.
	FailSave error

	// FailLoad, when set, is returned from every Load.
	FailLoad error
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

// Load returns a copy of the named record.
func (m *Memory) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailLoad != nil {
		return nil, m.FailLoad
	}
	data, ok := m.records[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of data under name.
func (m *Memory) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.records[name] = append([]byte(nil), data...)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
