package report

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
	"moneta/internal/currency"
)

// CategorySpending joins expense totals for one category to its budget
// limit. Derived on demand, never persisted.
type CategorySpending struct {
	Category     string
	Amount       decimal.Decimal // spent, in the display currency
	BudgetAmount decimal.Decimal // zero when no budget exists
	// Percentage is Amount/BudgetAmount*100 and may exceed 100; it is 0
	// when no budget exists.
	Percentage   decimal.Decimal
	IsOverBudget bool
	// BarWidth is Percentage clamped to [0,100] for progress-bar display.
	BarWidth int
}

// SpendByCategory sums expense transactions per category, converted into
// the display currency. Income transactions are ignored.
func SpendByCategory(txs []core.Transaction, display string, table currency.Table) (map[string]decimal.Decimal, error) {
	spend := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		amount, err := table.Convert(t.Amount, t.Currency, display)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		spend[t.Category] = spend[t.Category].Add(amount)
	}
	return spend, nil
}

// Utilization joins per-category spend to budget limits. Every spend
// category appears; budgets with no matching spend appear with a zero
// amount. Rows are sorted by category for stable output.
func Utilization(spend map[string]decimal.Decimal, budgets []core.Budget) []CategorySpending {
	limits := make(map[string]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		limits[b.Category] = b.Amount
	}

	categories := make(map[string]struct{}, len(spend)+len(limits))
	for c := range spend {
		categories[c] = struct{}{}
	}
	for c := range limits {
		categories[c] = struct{}{}
	}

	rows := make([]CategorySpending, 0, len(categories))
	for c := range categories {
		row := CategorySpending{
			Category:     c,
			Amount:       spend[c],
			BudgetAmount: limits[c],
			Percentage:   percentage(spend[c], limits[c]),
		}
		row.IsOverBudget = !row.BudgetAmount.IsZero() && row.Amount.GreaterThan(row.BudgetAmount)
		row.BarWidth = clampPercent(row.Percentage)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows
}

func clampPercent(p decimal.Decimal) int {
	hundred := decimal.NewFromInt(100)
	if p.GreaterThan(hundred) {
		return 100
	}
	if p.IsNegative() {
		return 0
	}
	return int(p.IntPart())
}
