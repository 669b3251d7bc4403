// Package cache memoises derived views. Keys must encode everything the
// value depends on, so a hit is always equal to a fresh computation.
package cache

import (
	"context"
	"sync"
	"time"

	applog "dompet/internal/log"
)

// Cleaner is implemented by caches that expire entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager runs periodic cleanup for a set of caches.
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	stopOnce    sync.Once
	started     bool
}

func NewManager() *Manager {
	return &Manager{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the manager. Call before StartCleanup.
func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

func (m *Manager) StartCleanup(interval time.Duration) {
	m.started = true
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			total := 0
			for _, c := range m.caches {
				total += c.CleanExpired()
			}
			if total > 0 {
				applog.FromContext(context.Background()).WithComponent(applog.ComponentCache).
					Debug("Cache cleanup completed", "entries_removed", total)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop ends the cleanup goroutine and waits for it. Safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCleanup)
		if m.started {
			<-m.cleanupDone
		}
	})
}
