package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finbot/internal/catalog"
	"finbot/internal/core"
	"finbot/internal/store/memory"
)

func newEngine(st interface {
	Ledger(ctx context.Context, userID string) (core.Ledger, error)
	Append(ctx context.Context, userID string, side core.Side, tx core.Transaction) error
}, now time.Time) *Engine {
	e := New(st, catalog.DefaultIncome(), catalog.DefaultExpense())
	e.now = func() time.Time { return now }
	return e
}

func TestIncomeFlowCommits(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	e := newEngine(st, now)

	reply, err := e.StartFlow(ctx, "42", FlowAddIncome)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(reply.Menu) != catalog.DefaultIncome().Len() {
		t.Fatalf("menu = %v", reply.Menu)
	}
	if got := e.State("42"); got.Flow != FlowAddIncome || got.Step != StepAwaitCategory {
		t.Fatalf("state = %+v", got)
	}

	reply, err = e.HandleInput(ctx, "42", "Зарплата")
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	if reply.Text != msgEnterIncomeAmount {
		t.Fatalf("reply = %q", reply.Text)
	}
	if got := e.State("42"); got.Step != StepAwaitAmount || got.PendingCategory != "Зарплата" {
		t.Fatalf("state = %+v", got)
	}

	reply, err = e.HandleInput(ctx, "42", "1500")
	if err != nil {
		t.Fatalf("amount: %v", err)
	}
	if !reply.MainMenu {
		t.Fatal("completion should restore the main menu")
	}
	if got := e.State("42"); got != (State{}) {
		t.Fatalf("state not reset: %+v", got)
	}

	ledger, _ := st.Ledger(ctx, "42")
	if len(ledger.Income) != 1 {
		t.Fatalf("income entries = %d", len(ledger.Income))
	}
	tx := ledger.Income[0]
	if tx.Category != "Зарплата" || tx.Amount != 1500 || !tx.Date.Equal(now) {
		t.Fatalf("unexpected transaction %+v", tx)
	}
}

func TestInvalidCategoryReprompts(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	e := newEngine(st, time.Now())

	_, _ = e.StartFlow(ctx, "42", FlowAddIncome)
	reply, err := e.HandleInput(ctx, "42", "НеКатегория")
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if reply.Text != msgCategoryNotInList {
		t.Fatalf("reply = %q", reply.Text)
	}
	if got := e.State("42"); got.Step != StepAwaitCategory {
		t.Fatalf("state = %+v", got)
	}
	if ledger, _ := st.Ledger(ctx, "42"); !ledger.IsEmpty() {
		t.Fatal("nothing should have been appended")
	}
}

func TestInvalidAmountKeepsPendingCategory(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	e := newEngine(st, time.Now())

	_, _ = e.StartFlow(ctx, "42", FlowAddExpense)
	_, _ = e.HandleInput(ctx, "42", "Еда")

	reply, err := e.HandleInput(ctx, "42", "abc")
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if reply.Text != msgEnterANumber {
		t.Fatalf("reply = %q", reply.Text)
	}
	if got := e.State("42"); got.Step != StepAwaitAmount || got.PendingCategory != "Еда" {
		t.Fatalf("state = %+v", got)
	}

	// A subsequent valid amount still commits with the original category.
	if _, err := e.HandleInput(ctx, "42", "12,5"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	ledger, _ := st.Ledger(ctx, "42")
	if len(ledger.Expenses) != 1 || ledger.Expenses[0].Category != "Еда" || ledger.Expenses[0].Amount != 12.5 {
		t.Fatalf("unexpected ledger %+v", ledger)
	}
}

func TestStatsWeekWindow(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	e := newEngine(st, now)

	_ = st.Append(ctx, "42", core.Income, core.Transaction{Category: "Зарплата", Amount: 1000, Date: now.Add(-7 * 24 * time.Hour)})
	_ = st.Append(ctx, "42", core.Expenses, core.Transaction{Category: "Еда", Amount: 400, Date: now.Add(-2 * 24 * time.Hour)})

	reply, err := e.StartFlow(ctx, "42", FlowStats)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(reply.Menu) != 3 {
		t.Fatalf("period menu = %v", reply.Menu)
	}

	reply, err = e.HandleInput(ctx, "42", "За неделю")
	if err != nil {
		t.Fatalf("period: %v", err)
	}
	for _, want := range []string{"Итого: 1000.00 ₸", "Итого: 400.00 ₸", "Баланс: 600.00 ₸", "Зарплата: 1000.00 ₸"} {
		if !strings.Contains(reply.Text, want) {
			t.Fatalf("report missing %q:\n%s", want, reply.Text)
		}
	}
	if got := e.State("42"); got != (State{}) {
		t.Fatalf("state not reset: %+v", got)
	}
}

func TestStatsInvalidPeriodReprompts(t *testing.T) {
	ctx := context.Background()
	e := newEngine(memory.New(), time.Now())

	_, _ = e.StartFlow(ctx, "42", FlowStats)
	reply, err := e.HandleInput(ctx, "42", "За декаду")
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if reply.Text != msgPeriodNotInList {
		t.Fatalf("reply = %q", reply.Text)
	}
	if got := e.State("42"); got.Step != StepAwaitPeriod {
		t.Fatalf("state = %+v", got)
	}
}

func TestStatsNoData(t *testing.T) {
	ctx := context.Background()
	e := newEngine(memory.New(), time.Now())

	_, _ = e.StartFlow(ctx, "42", FlowStats)
	reply, err := e.HandleInput(ctx, "42", "За месяц")
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if reply.Text != msgNoData {
		t.Fatalf("reply = %q", reply.Text)
	}
	if got := e.State("42"); got != (State{}) {
		t.Fatalf("state not reset after no-data: %+v", got)
	}
}

func TestIdleInputDeclined(t *testing.T) {
	e := newEngine(memory.New(), time.Now())
	if _, err := e.HandleInput(context.Background(), "42", "привет"); !errors.Is(err, ErrNoActiveFlow) {
		t.Fatalf("err = %v, want ErrNoActiveFlow", err)
	}
}

// failingStore fails appends until healed; reads pass through.
type failingStore struct {
	*memory.Store
	fail bool
}

func (f *failingStore) Append(ctx context.Context, userID string, side core.Side, tx core.Transaction) error {
	if f.fail {
		return errors.New("store unavailable")
	}
	return f.Store.Append(ctx, userID, side, tx)
}

func TestFailedAppendKeepsState(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{Store: memory.New(), fail: true}
	e := newEngine(st, time.Now())

	_, _ = e.StartFlow(ctx, "42", FlowAddIncome)
	_, _ = e.HandleInput(ctx, "42", "Зарплата")

	if _, err := e.HandleInput(ctx, "42", "1500"); err == nil {
		t.Fatal("expected append failure to surface")
	}
	if got := e.State("42"); got.Step != StepAwaitAmount || got.PendingCategory != "Зарплата" {
		t.Fatalf("state lost after failed append: %+v", got)
	}

	// Store recovers; the same entry can be retried.
	st.fail = false
	if _, err := e.HandleInput(ctx, "42", "1500"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	ledger, _ := st.Ledger(ctx, "42")
	if len(ledger.Income) != 1 || ledger.Income[0].Category != "Зарплата" {
		t.Fatalf("retry did not commit: %+v", ledger)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	e := newEngine(st, time.Now())

	_, _ = e.StartFlow(ctx, "1", FlowAddIncome)
	_, _ = e.StartFlow(ctx, "2", FlowAddExpense)
	_, _ = e.HandleInput(ctx, "1", "Зарплата")
	_, _ = e.HandleInput(ctx, "2", "Еда")

	if got := e.State("1"); got.Flow != FlowAddIncome || got.PendingCategory != "Зарплата" {
		t.Fatalf("user 1 state = %+v", got)
	}
	if got := e.State("2"); got.Flow != FlowAddExpense || got.PendingCategory != "Еда" {
		t.Fatalf("user 2 state = %+v", got)
	}

	_, _ = e.HandleInput(ctx, "1", "100")
	_, _ = e.HandleInput(ctx, "2", "40")

	l1, _ := st.Ledger(ctx, "1")
	l2, _ := st.Ledger(ctx, "2")
	if len(l1.Income) != 1 || len(l1.Expenses) != 0 {
		t.Fatalf("user 1 ledger %+v", l1)
	}
	if len(l2.Expenses) != 1 || len(l2.Income) != 0 {
		t.Fatalf("user 2 ledger %+v", l2)
	}
}

func TestRestartReplacesFlow(t *testing.T) {
	ctx := context.Background()
	e := newEngine(memory.New(), time.Now())

	_, _ = e.StartFlow(ctx, "42", FlowAddIncome)
	_, _ = e.HandleInput(ctx, "42", "Зарплата")

	// Starting another flow mid-entry discards the pending category.
	_, _ = e.StartFlow(ctx, "42", FlowStats)
	if got := e.State("42"); got.Flow != FlowStats || got.PendingCategory != "" {
		t.Fatalf("state = %+v", got)
	}
}

func TestBalanceSummary(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	e := newEngine(st, time.Now())

	s, err := e.BalanceSummary(ctx, "42")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.Balance != 0 {
		t.Fatalf("fresh user balance = %v", s.Balance)
	}

	_ = st.Append(ctx, "42", core.Income, core.Transaction{Category: "Зарплата", Amount: 100, Date: time.Now()})
	_ = st.Append(ctx, "42", core.Expenses, core.Transaction{Category: "Еда", Amount: 250, Date: time.Now()})
	s, _ = e.BalanceSummary(ctx, "42")
	if s.IncomeTotal != 100 || s.ExpenseTotal != 250 || s.Balance != -150 {
		t.Fatalf("summary = %+v", s)
	}
}
