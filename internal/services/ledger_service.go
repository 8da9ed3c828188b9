// Package services wires the sqlite repository to the AMQP sync pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"finbot/internal/core"
)

// Repository is the subset of the sqlite repository the service needs.
type Repository interface {
	Ledger(ctx context.Context, userID string) (core.Ledger, error)
	Append(ctx context.Context, userID string, side core.Side, tx core.Transaction) (int64, error)
	Close() error
}

// Publisher publishes sync events for committed transactions.
type Publisher interface {
	PublishTransactionSync(ctx context.Context, id int64) error
	Close() error
}

// LedgerService implements store.Store on top of the sqlite repository and
// publishes a sync event after each successful append. Publishing is best
// effort: the transaction is already durable locally, so a broker failure is
// logged and ignored rather than surfaced to the user.
type LedgerService struct {
	repo      Repository
	publisher Publisher
}

func NewLedgerService(repo Repository, publisher Publisher) *LedgerService {
	return &LedgerService{repo: repo, publisher: publisher}
}

func (s *LedgerService) Ledger(ctx context.Context, userID string) (core.Ledger, error) {
	return s.repo.Ledger(ctx, userID)
}

func (s *LedgerService) Append(ctx context.Context, userID string, side core.Side, tx core.Transaction) error {
	id, err := s.repo.Append(ctx, userID, side, tx)
	if err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishTransactionSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
	return nil
}

func (s *LedgerService) Close() error {
	var errs []error
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("repository: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
