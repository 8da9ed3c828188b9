package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"finbot/internal/amqp"
	"finbot/internal/core"
	sheetsmem "finbot/internal/sheets/memory"
	"finbot/internal/store/sqlite"
)

type fakeSource struct {
	transactions map[int64]*sqlite.StoredTransaction
	synced       []int64
	syncErrors   []int64
}

func (f *fakeSource) GetTransaction(_ context.Context, id int64) (*sqlite.StoredTransaction, error) {
	st, ok := f.transactions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return st, nil
}

func (f *fakeSource) MarkSynced(_ context.Context, id int64) error {
	f.synced = append(f.synced, id)
	return nil
}

func (f *fakeSource) MarkSyncError(_ context.Context, id int64) error {
	f.syncErrors = append(f.syncErrors, id)
	return nil
}

type failingWriter struct{}

func (failingWriter) Append(context.Context, string, core.Side, core.Transaction) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestHandleSyncMessage(t *testing.T) {
	source := &fakeSource{transactions: map[int64]*sqlite.StoredTransaction{
		7: {
			ID:          7,
			UserID:      "42",
			Side:        core.Income,
			Transaction: core.Transaction{Category: "Зарплата", Amount: 1500, Date: time.Now()},
		},
	}}
	writer := sheetsmem.New()
	w := NewSyncWorker(source, writer)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewTransactionSyncMessage(7)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	rows := writer.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].UserID != "42" || rows[0].Side != core.Income || rows[0].Transaction.Amount != 1500 {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if len(source.synced) != 1 || source.synced[0] != 7 {
		t.Fatalf("synced = %v", source.synced)
	}
}

func TestHandleSyncMessageUnknownTransaction(t *testing.T) {
	w := NewSyncWorker(&fakeSource{transactions: map[int64]*sqlite.StoredTransaction{}}, sheetsmem.New())
	if err := w.HandleSyncMessage(context.Background(), amqp.NewTransactionSyncMessage(99)); err == nil {
		t.Fatal("expected error for unknown transaction")
	}
}

func TestHandleSyncMessageWriterFailure(t *testing.T) {
	source := &fakeSource{transactions: map[int64]*sqlite.StoredTransaction{
		1: {ID: 1, UserID: "1", Side: core.Expenses, Transaction: core.Transaction{Category: "Еда", Amount: 5, Date: time.Now()}},
	}}
	w := NewSyncWorker(source, failingWriter{})

	if err := w.HandleSyncMessage(context.Background(), amqp.NewTransactionSyncMessage(1)); err == nil {
		t.Fatal("expected error from failing writer")
	}
	if len(source.syncErrors) != 1 || source.syncErrors[0] != 1 {
		t.Fatalf("sync errors = %v", source.syncErrors)
	}
	if len(source.synced) != 0 {
		t.Fatal("failed append must not be marked synced")
	}
}
