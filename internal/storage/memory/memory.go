// Package memory holds the intentionally in-memory ledger store. It exists
// for tests and demos; production deployments pick the sqlite backend
// through explicit configuration, never by fallback.
package memory

import (
	"context"
	"sync"

	"cashflow/internal/core"
)

// Store keeps transactions keyed by id and remembers insertion order so
// same-date ties project deterministically.
type Store struct {
	mu    sync.RWMutex
	items map[string]core.Transaction
	order []string
}

func New() *Store {
	return &Store{items: make(map[string]core.Transaction)}
}

// NewSeeded builds a store preloaded with the given transactions, in order.
func NewSeeded(txs []core.Transaction) *Store {
	s := New()
	for _, tx := range txs {
		_ = s.Put(context.Background(), tx)
	}
	return s
}

// Put upserts by id. A replaced record keeps its original insertion slot.
func (s *Store) Put(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[tx.ID]; !exists {
		s.order = append(s.order, tx.ID)
	}
	s.items[tx.ID] = tx
	return nil
}

func (s *Store) Get(_ context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.items[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return tx, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListAll returns a copy of every record in insertion order; ordering is
// the view projection's concern.
func (s *Store) ListAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

// Len reports the number of stored transactions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
