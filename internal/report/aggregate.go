package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
	"moneta/internal/currency"
)

// Summary holds totals normalized into a single display currency.
// Amounts keep full decimal precision; rounding to two places happens
// only at the display boundary.
type Summary struct {
	Display  string // currency code all amounts are expressed in
	Balance  decimal.Decimal
	Income   decimal.Decimal
	Expenses decimal.Decimal
	// CategoryTotals maps "{type}-{category}" to the converted total for
	// that bucket.
	CategoryTotals map[string]decimal.Decimal
}

// Aggregate reduces txs into a Summary in the display currency. Balance is
// a single signed reduction (income adds, expense subtracts) over the full
// list; with decimal arithmetic it equals Income - Expenses exactly.
// Unknown currency codes on any transaction fail the whole reduction.
func Aggregate(txs []core.Transaction, display string, table currency.Table) (Summary, error) {
	s := Summary{
		Display:        display,
		CategoryTotals: make(map[string]decimal.Decimal),
	}
	if !table.Has(display) {
		return s, fmt.Errorf("display currency %q: %w", display, currency.ErrUnknownCurrency)
	}

	for _, t := range txs {
		amount, err := table.Convert(t.Amount, t.Currency, display)
		if err != nil {
			return Summary{}, fmt.Errorf("transaction %d: %w", t.ID, err)
		}

		key := string(t.Type) + "-" + t.Category
		s.CategoryTotals[key] = s.CategoryTotals[key].Add(amount)

		switch t.Type {
		case core.Income:
			s.Income = s.Income.Add(amount)
			s.Balance = s.Balance.Add(amount)
		case core.Expense:
			s.Expenses = s.Expenses.Add(amount)
			s.Balance = s.Balance.Sub(amount)
		}
	}
	return s, nil
}

// Share returns the percentage a category-totals entry contributes to its
// side of the ledger: expense buckets against total expenses, income
// buckets against total income. A zero denominator yields 0, never an
// infinity.
func (s Summary) Share(key string) decimal.Decimal {
	amount, ok := s.CategoryTotals[key]
	if !ok {
		return decimal.Zero
	}
	denom := s.Expenses
	if strings.HasPrefix(key, string(core.Income)+"-") {
		denom = s.Income
	}
	return percentage(amount, denom)
}

// percentage computes amount/denom*100, with 0 for a zero denominator.
func percentage(amount, denom decimal.Decimal) decimal.Decimal {
	if denom.IsZero() {
		return decimal.Zero
	}
	return amount.Div(denom).Mul(decimal.NewFromInt(100))
}
