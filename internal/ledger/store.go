// Package ledger holds the in-memory, ordered collection of transactions
// for the lifetime of the process.
package ledger

import (
	"errors"
	"sync"

	"dompet/internal/core"
)

var ErrIndexOutOfRange = errors.New("transaction index out of range")

// Store is an ordered transaction collection. It emits no events: callers
// re-derive dependent views after mutating it.
type Store struct {
	mu       sync.RWMutex
	items    []core.Transaction
	revision uint64
}

func New() *Store {
	return &Store{}
}

// Add appends the transaction. Duplicates are allowed.
func (s *Store) Add(tx core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	s.revision++
}

// Update replaces the record at index in place.
func (s *Store) Update(index int, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return ErrIndexOutOfRange
	}
	s.items[index] = tx
	s.revision++
	return nil
}

// Delete removes the record at index, shifting later records down.
func (s *Store) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return ErrIndexOutOfRange
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.revision++
	return nil
}

func (s *Store) Get(index int) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.items) {
		return core.Transaction{}, ErrIndexOutOfRange
	}
	return s.items[index], nil
}

// All returns a copy of every record in insertion order.
func (s *Store) All() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Revision increments on every successful mutation.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}
