// Package store defines the transaction store port implemented by the
// memory, jsonfile and sqlite backends.
package store

import (
	"context"

	"finbot/internal/core"
)

// Store is the persistent mapping from user id to that user's ledger.
//
// Ledger returns an empty ledger for unknown users; ledgers are created
// lazily by the first append. Append must be atomic with respect to a
// concurrent append for the same user. There are no update or delete
// operations: history is append-only.
type Store interface {
	Ledger(ctx context.Context, userID string) (core.Ledger, error)
	Append(ctx context.Context, userID string, side core.Side, tx core.Transaction) error
}
