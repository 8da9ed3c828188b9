// Package memory is an in-memory sheets fake for worker tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"finbot/internal/core"
)

type Row struct {
	UserID      string
	Side        core.Side
	Transaction core.Transaction
}

type Writer struct {
	mu   sync.Mutex
	rows []Row
}

func New() *Writer {
	return &Writer{}
}

func (w *Writer) Append(_ context.Context, userID string, side core.Side, tx core.Transaction) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, Row{UserID: userID, Side: side, Transaction: tx})
	return fmt.Sprintf("mem:%d", len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []Row {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Row(nil), w.rows...)
}
