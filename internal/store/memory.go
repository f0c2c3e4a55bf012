package store

import (
	"context"
	"slices"
	"strconv"
	"sync"
)

// MemoryBackend keeps the object in process, versions are a counter.
type MemoryBackend struct {
	mu       sync.Mutex
	blob     []byte
	revision int
	puts     int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) version() Version {
	if m.revision == 0 {
		return ""
	}
	return Version(strconv.Itoa(m.revision))
}

func (m *MemoryBackend) Get(context.Context) ([]byte, Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revision == 0 {
		return nil, "", errNotFound
	}
	return slices.Clone(m.blob), m.version(), nil
}

func (m *MemoryBackend) Put(_ context.Context, blob []byte, expected Version) (Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expected != m.version() {
		return "", &ConflictError{Expected: expected, Current: m.version()}
	}
	m.blob = slices.Clone(blob)
	m.revision++
	m.puts++
	return m.version(), nil
}

// Puts returns the number of successful writes.
func (m *MemoryBackend) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}
