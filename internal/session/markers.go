package session

import (
	"context"
	"errors"
	"sync"
)

// Keys of the persisted session marker.
const (
	KeyLoggedIn    = "isLoggedIn"
	KeyLoginMethod = "loginMethod"
	KeyUserName    = "userName"

	MethodGoogle = "google"
)

var ErrMarkerNotFound = errors.New("marker not found")

// MarkerStore persists the small key/value marker that lets a restart
// restore a logged-in session.
type MarkerStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryMarkers keeps markers for the lifetime of the process only.
type MemoryMarkers struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryMarkers() *MemoryMarkers {
	return &MemoryMarkers{values: make(map[string]string)}
}

func (m *MemoryMarkers) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrMarkerNotFound
	}
	return v, nil
}

func (m *MemoryMarkers) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryMarkers) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
