// Package engine drives the per-user conversation: the add-income,
// add-expense and statistics flows, each a short sequence of prompts over a
// fixed category or period menu.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finbot/internal/catalog"
	"finbot/internal/core"
	"finbot/internal/stats"
	"finbot/internal/store"
)

type Flow int

const (
	FlowIdle Flow = iota
	FlowAddIncome
	FlowAddExpense
	FlowStats
)

type Step int

const (
	StepNone Step = iota
	StepAwaitCategory
	StepAwaitAmount
	StepAwaitPeriod
)

// State is one user's conversation position. PendingCategory is set exactly
// while the flow awaits an amount; validation failures never clear it.
type State struct {
	Flow            Flow
	Step            Step
	PendingCategory string
}

// Reply is what the transport should send back: the message text, an
// optional one-button-per-row menu, and whether to restore the main keyboard.
type Reply struct {
	Text     string
	Menu     []string
	MainMenu bool
}

// ErrNoActiveFlow is returned for free text arriving while the user is idle.
// The transport owns flow-start matching, so the engine just declines it.
var ErrNoActiveFlow = errors.New("no active flow")

type Engine struct {
	store   store.Store
	income  *catalog.Catalog
	expense *catalog.Catalog
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// session serializes one user's messages: the next input is not handled
// until the previous transition, including its store append, has finished.
type session struct {
	mu    sync.Mutex
	state State
}

func New(st store.Store, income, expense *catalog.Catalog) *Engine {
	return &Engine{
		store:    st,
		income:   income,
		expense:  expense,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (e *Engine) session(userID string) *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[userID]
	if !ok {
		s = &session{}
		e.sessions[userID] = s
	}
	return s
}

// State returns the user's current conversation state.
func (e *Engine) State(userID string) State {
	s := e.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StartFlow begins a flow for the user and returns the opening menu.
// Starting a flow replaces whatever flow was in progress.
func (e *Engine) StartFlow(ctx context.Context, userID string, flow Flow) (Reply, error) {
	s := e.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	switch flow {
	case FlowAddIncome:
		s.state = State{Flow: FlowAddIncome, Step: StepAwaitCategory}
		return Reply{Text: msgChooseIncomeCategory, Menu: e.income.Labels()}, nil
	case FlowAddExpense:
		s.state = State{Flow: FlowAddExpense, Step: StepAwaitCategory}
		return Reply{Text: msgChooseExpenseCategory, Menu: e.expense.Labels()}, nil
	case FlowStats:
		s.state = State{Flow: FlowStats, Step: StepAwaitPeriod}
		return Reply{Text: msgChoosePeriod, Menu: catalog.PeriodLabels()}, nil
	default:
		return Reply{}, fmt.Errorf("unknown flow %d", flow)
	}
}

// HandleInput advances the user's flow with one message of free text.
// Validation failures reprompt and leave the state untouched; a failed store
// append keeps the state too, so the user can retry without re-entering the
// category.
func (e *Engine) HandleInput(ctx context.Context, userID, text string) (Reply, error) {
	s := e.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.Step {
	case StepAwaitCategory:
		return e.handleCategory(s, text)
	case StepAwaitAmount:
		return e.handleAmount(ctx, s, userID, text)
	case StepAwaitPeriod:
		return e.handlePeriod(ctx, s, userID, text)
	default:
		return Reply{}, ErrNoActiveFlow
	}
}

// BalanceSummary computes the all-time totals for the start screen.
func (e *Engine) BalanceSummary(ctx context.Context, userID string) (core.BalanceSummary, error) {
	ledger, err := e.store.Ledger(ctx, userID)
	if err != nil {
		return core.BalanceSummary{}, fmt.Errorf("load ledger: %w", err)
	}
	return stats.Balance(ledger), nil
}

func (e *Engine) handleCategory(s *session, text string) (Reply, error) {
	cat := e.flowCatalog(s.state.Flow)
	if !cat.Contains(text) {
		return Reply{Text: msgCategoryNotInList, Menu: cat.Labels()}, nil
	}
	s.state.PendingCategory = text
	s.state.Step = StepAwaitAmount
	if s.state.Flow == FlowAddIncome {
		return Reply{Text: msgEnterIncomeAmount}, nil
	}
	return Reply{Text: msgEnterExpenseAmount}, nil
}

func (e *Engine) handleAmount(ctx context.Context, s *session, userID, text string) (Reply, error) {
	amount, err := core.ParseAmount(text)
	if err != nil {
		return Reply{Text: msgEnterANumber}, nil
	}

	side := core.Income
	if s.state.Flow == FlowAddExpense {
		side = core.Expenses
	}
	tx := core.Transaction{
		Category: s.state.PendingCategory,
		Amount:   amount,
		Date:     e.now(),
	}
	if err := e.store.Append(ctx, userID, side, tx); err != nil {
		// State stays put: the user's entry is not lost and a retry with the
		// same pending category is possible.
		return Reply{}, fmt.Errorf("append transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction committed",
		"user_id", userID,
		"side", string(side),
		"category", tx.Category,
		"amount", tx.Amount)

	confirmation := fmt.Sprintf(msgIncomeAdded, amount, tx.Category)
	if side == core.Expenses {
		confirmation = fmt.Sprintf(msgExpenseAdded, amount, tx.Category)
	}
	s.state = State{}
	return Reply{Text: confirmation, MainMenu: true}, nil
}

func (e *Engine) handlePeriod(ctx context.Context, s *session, userID, text string) (Reply, error) {
	period, ok := catalog.PeriodByLabel(text)
	if !ok {
		return Reply{Text: msgPeriodNotInList, Menu: catalog.PeriodLabels()}, nil
	}

	ledger, err := e.store.Ledger(ctx, userID)
	if err != nil {
		// Keep the state so the user can pick the period again once the
		// store is reachable.
		return Reply{}, fmt.Errorf("load ledger: %w", err)
	}

	windowStart := e.now().Add(-period.Span())
	report, err := stats.Aggregate(ledger, windowStart, e.income, e.expense)
	if errors.Is(err, core.ErrNoData) {
		s.state = State{}
		return Reply{Text: msgNoData, MainMenu: true}, nil
	}
	if err != nil {
		return Reply{}, fmt.Errorf("aggregate statistics: %w", err)
	}

	s.state = State{}
	return Reply{Text: formatReport(period.Label, report), MainMenu: true}, nil
}

func (e *Engine) flowCatalog(flow Flow) *catalog.Catalog {
	if flow == FlowAddIncome {
		return e.income
	}
	return e.expense
}
