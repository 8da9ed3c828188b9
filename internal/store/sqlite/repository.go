// Package sqlite is the embedded-database store backend. Unlike the jsonfile
// backend it does not preserve the legacy document layout; moving a
// deployment onto it is an explicit migration.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finbot/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append inserts a transaction and returns its row id for sync messages.
func (r *Repository) Append(ctx context.Context, userID string, side core.Side, tx core.Transaction) (int64, error) {
	if err := side.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, side, category, amount, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, string(side), tx.Category, tx.Amount, tx.Date.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"user_id", userID,
		"side", string(side),
		"category", tx.Category,
		"amount", tx.Amount)
	return id, nil
}

// Ledger loads the user's full history, both sides ordered by insertion.
func (r *Repository) Ledger(ctx context.Context, userID string) (core.Ledger, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT side, category, amount, recorded_at
		 FROM transactions WHERE user_id = ? ORDER BY id`,
		userID)
	if err != nil {
		return core.Ledger{}, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var ledger core.Ledger
	for rows.Next() {
		var (
			side       string
			tx         core.Transaction
			recordedAt string
		)
		if err := rows.Scan(&side, &tx.Category, &tx.Amount, &recordedAt); err != nil {
			return core.Ledger{}, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Date, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return core.Ledger{}, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
		}
		ledger = ledger.Append(core.Side(side), tx)
	}
	if err := rows.Err(); err != nil {
		return core.Ledger{}, fmt.Errorf("iterate transactions: %w", err)
	}
	return ledger, nil
}

// StoredTransaction is a transaction row together with its owner, as needed
// by the sheets sync worker.
type StoredTransaction struct {
	ID          int64
	UserID      string
	Side        core.Side
	Transaction core.Transaction
}

func (r *Repository) GetTransaction(ctx context.Context, id int64) (*StoredTransaction, error) {
	var (
		st         StoredTransaction
		side       string
		recordedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, side, category, amount, recorded_at
		 FROM transactions WHERE id = ?`, id).
		Scan(&st.ID, &st.UserID, &side, &st.Transaction.Category, &st.Transaction.Amount, &recordedAt)
	if err != nil {
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	st.Side = core.Side(side)
	st.Transaction.Date, err = time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
	}
	return &st, nil
}

func (r *Repository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced = 1, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

func (r *Repository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}
