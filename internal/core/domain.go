package core

import (
	"errors"
	"time"
)

const (
	Income   Side = "income"
	Expenses Side = "expenses"
)

type (
	// Side selects which sequence of a ledger a transaction belongs to.
	// The values double as field names in the persisted document.
	Side string

	// Transaction is a single recorded income or expense. Immutable once
	// created; ledgers are append-only and nothing updates or deletes entries.
	Transaction struct {
		Category string
		Amount   float64
		Date     time.Time
	}

	// Ledger is one user's full transaction history. Both sequences are
	// ordered by insertion.
	Ledger struct {
		Income   []Transaction
		Expenses []Transaction
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidSide   = errors.New("invalid ledger side")
	ErrNoData        = errors.New("no data")
)

func (s Side) Validate() error {
	switch s {
	case Income, Expenses:
		return nil
	default:
		return ErrInvalidSide
	}
}

// IsEmpty reports whether the ledger holds no transactions on either side.
// An empty ledger produces the "no data" outcome for statistics, which is
// distinct from an all-zero report over a window with no matches.
func (l Ledger) IsEmpty() bool {
	return len(l.Income) == 0 && len(l.Expenses) == 0
}

// Side returns the sequence for the given side.
func (l Ledger) Side(s Side) []Transaction {
	if s == Income {
		return l.Income
	}
	return l.Expenses
}

// Append returns the ledger with tx added to the given side.
func (l Ledger) Append(s Side, tx Transaction) Ledger {
	if s == Income {
		l.Income = append(l.Income, tx)
	} else {
		l.Expenses = append(l.Expenses, tx)
	}
	return l
}

// Clone returns a deep copy so callers cannot share backing arrays.
func (l Ledger) Clone() Ledger {
	return Ledger{
		Income:   append([]Transaction(nil), l.Income...),
		Expenses: append([]Transaction(nil), l.Expenses...),
	}
}
