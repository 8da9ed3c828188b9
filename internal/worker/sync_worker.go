// Package worker mirrors committed transactions from the database to a
// spreadsheet in response to AMQP sync messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finbot/internal/amqp"
	"finbot/internal/sheets"
	"finbot/internal/store/sqlite"
)

// TransactionSource provides the worker's view of the sqlite repository.
type TransactionSource interface {
	GetTransaction(ctx context.Context, id int64) (*sqlite.StoredTransaction, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

type SyncWorker struct {
	source TransactionSource
	writer sheets.TransactionWriter
}

func NewSyncWorker(source TransactionSource, writer sheets.TransactionWriter) *SyncWorker {
	return &SyncWorker{source: source, writer: writer}
}

// HandleSyncMessage mirrors one transaction. Returning an error makes the
// consumer requeue the message, so the row is marked sync-error first to keep
// a durable trace of repeated failures.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	st, err := w.source.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	ref, err := w.writer.Append(ctx, st.UserID, st.Side, st.Transaction)
	if err != nil {
		if markErr := w.source.MarkSyncError(ctx, msg.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", msg.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.source.MarkSynced(ctx, msg.ID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction mirrored to sheet",
		"id", msg.ID,
		"user_id", st.UserID,
		"row_ref", ref)
	return nil
}
