package core

import "time"

// CategoryAmount is an amount aggregated under a single category name.
type CategoryAmount struct {
	Name   string
	Amount float64
}

// Report is the fixed-shape result of a windowed statistics query.
// Category slices follow catalog order and include zero-valued entries,
// so rendered reports are stable across runs.
type Report struct {
	WindowStart  time.Time
	Income       []CategoryAmount
	IncomeTotal  float64
	Expenses     []CategoryAmount
	ExpenseTotal float64
	Balance      float64
}

// BalanceSummary is the all-time totals shown on the start screen.
type BalanceSummary struct {
	IncomeTotal  float64
	ExpenseTotal float64
	Balance      float64
}
