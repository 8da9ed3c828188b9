// Package stats computes windowed category and total sums over a ledger.
package stats

import (
	"time"

	"finbot/internal/catalog"
	"finbot/internal/core"
)

// Aggregate computes the report for a ledger over [windowStart, now].
// Transactions dated exactly at windowStart are included. Every catalog
// category appears in the result, zero-valued when nothing matched.
//
// Returns core.ErrNoData when the ledger holds no transactions at all.
// A ledger whose transactions are all older than the window still yields a
// valid all-zero report; the two outcomes are distinct.
func Aggregate(ledger core.Ledger, windowStart time.Time, income, expense *catalog.Catalog) (core.Report, error) {
	if ledger.IsEmpty() {
		return core.Report{}, core.ErrNoData
	}

	r := core.Report{WindowStart: windowStart}
	r.Income, r.IncomeTotal = sumSide(ledger.Income, windowStart, income)
	r.Expenses, r.ExpenseTotal = sumSide(ledger.Expenses, windowStart, expense)
	r.Balance = r.IncomeTotal - r.ExpenseTotal
	return r, nil
}

// Balance computes the all-time totals used for the start-screen summary.
// An absent ledger simply yields zeros here; there is no no-data outcome.
func Balance(ledger core.Ledger) core.BalanceSummary {
	var s core.BalanceSummary
	for _, tx := range ledger.Income {
		s.IncomeTotal += tx.Amount
	}
	for _, tx := range ledger.Expenses {
		s.ExpenseTotal += tx.Amount
	}
	s.Balance = s.IncomeTotal - s.ExpenseTotal
	return s
}

func sumSide(txs []core.Transaction, windowStart time.Time, cat *catalog.Catalog) ([]core.CategoryAmount, float64) {
	byCategory := make(map[string]float64, cat.Len())
	var total float64
	for _, tx := range txs {
		if tx.Date.Before(windowStart) {
			continue
		}
		byCategory[tx.Category] += tx.Amount
		total += tx.Amount
	}

	out := make([]core.CategoryAmount, 0, cat.Len())
	for _, name := range cat.Labels() {
		out = append(out, core.CategoryAmount{Name: name, Amount: byCategory[name]})
	}
	return out, total
}
