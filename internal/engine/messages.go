package engine

import (
	"fmt"
	"strings"

	"finbot/internal/core"
)

// User-facing texts.
const (
	msgChooseIncomeCategory  = "Выбери категорию дохода:"
	msgChooseExpenseCategory = "Выбери категорию расхода:"
	msgChoosePeriod          = "Выбери период для статистики:"
	msgCategoryNotInList     = "Выберите категорию из списка!"
	msgPeriodNotInList       = "Выберите один из предложенных периодов!"
	msgEnterIncomeAmount     = "Введите сумму дохода:"
	msgEnterExpenseAmount    = "Введите сумму расхода:"
	msgEnterANumber          = "Пожалуйста, введите число!"
	msgNoData                = "Нет данных для отображения."

	msgIncomeAdded  = "Доход в %.2f ₸ добавлен в категорию %s."
	msgExpenseAdded = "Расход в %.2f ₸ добавлен в категорию %s."
)

func formatReport(periodLabel string, r core.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Статистика за %s:\n\n", periodLabel)

	b.WriteString("💰 Доходы:\n")
	for _, ca := range r.Income {
		fmt.Fprintf(&b, "%s: %.2f ₸\n", ca.Name, ca.Amount)
	}
	fmt.Fprintf(&b, "Итого: %.2f ₸\n\n", r.IncomeTotal)

	b.WriteString("🛒 Расходы:\n")
	for _, ca := range r.Expenses {
		fmt.Fprintf(&b, "%s: %.2f ₸\n", ca.Name, ca.Amount)
	}
	fmt.Fprintf(&b, "Итого: %.2f ₸\n\n", r.ExpenseTotal)

	fmt.Fprintf(&b, "Баланс: %.2f ₸", r.Balance)
	return b.String()
}
