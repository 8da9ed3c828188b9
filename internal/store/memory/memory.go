// Package memory is the in-memory store backend, used for tests and as the
// default development backend.
package memory

import (
	"context"
	"sync"

	"finbot/internal/core"
)

type Store struct {
	mu      sync.Mutex
	ledgers map[string]core.Ledger
}

func New() *Store {
	return &Store{ledgers: make(map[string]core.Ledger)}
}

// Ledger returns a copy of the user's ledger, or an empty ledger for an
// unknown user.
func (s *Store) Ledger(_ context.Context, userID string) (core.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledgers[userID].Clone(), nil
}

func (s *Store) Append(_ context.Context, userID string, side core.Side, tx core.Transaction) error {
	if err := side.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[userID] = s.ledgers[userID].Append(side, tx)
	return nil
}
