package backend

import (
	"context"

	"dompet/internal/session"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Pinger is implemented by backends that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendResult contains the marker store and optional cleanup function
type BackendResult struct {
	Markers session.MarkerStore
	Cleanup CleanupFunc
}

// Ready pings the backend when it supports it.
func (r *BackendResult) Ready(ctx context.Context) error {
	if p, ok := r.Markers.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close runs the cleanup function if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates session marker backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
