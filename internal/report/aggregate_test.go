package report

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
	"moneta/internal/currency"
)

func money(id int64, typ core.TransactionType, category, amount, code string) core.Transaction {
	return core.Transaction{
		ID:       id,
		Title:    "t",
		Amount:   decimal.RequireFromString(amount),
		Type:     typ,
		Category: category,
		Currency: code,
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestAggregateSingleCurrency(t *testing.T) {
	txs := []core.Transaction{
		money(1, core.Income, "Salary", "100", "USD"),
		money(2, core.Income, "Freelance", "50", "USD"),
		money(3, core.Expense, "Food", "30", "USD"),
	}

	sum, err := Aggregate(txs, "USD", currency.DefaultTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := sum.Income.StringFixed(2); got != "150.00" {
		t.Fatalf("income = %s, want 150.00", got)
	}
	if got := sum.Expenses.StringFixed(2); got != "30.00" {
		t.Fatalf("expenses = %s, want 30.00", got)
	}
	if got := sum.Balance.StringFixed(2); got != "120.00" {
		t.Fatalf("balance = %s, want 120.00", got)
	}
	if sum.Display != "USD" {
		t.Fatalf("display = %s, want USD", sum.Display)
	}
}

func TestAggregateMixedCurrencies(t *testing.T) {
	txs := []core.Transaction{
		money(1, core.Income, "Salary", "100", "USD"),
		money(2, core.Expense, "Food", "50", "EUR"),
	}

	sum, err := Aggregate(txs, "USD", currency.DefaultTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 50 EUR at rate 0.92 is 54.35 USD once rounded for display.
	if got := sum.Expenses.StringFixed(2); got != "54.35" {
		t.Fatalf("expenses = %s, want 54.35", got)
	}
	if got := sum.Balance.StringFixed(2); got != "45.65" {
		t.Fatalf("balance = %s, want 45.65", got)
	}
}

func TestAggregateDisplayEUR(t *testing.T) {
	txs := []core.Transaction{
		money(1, core.Income, "Salary", "100", "USD"),
		money(2, core.Expense, "Food", "40", "USD"),
	}

	sum, err := Aggregate(txs, "EUR", currency.DefaultTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := sum.Income.StringFixed(2); got != "92.00" {
		t.Fatalf("income = %s, want 92.00", got)
	}
	if got := sum.Expenses.StringFixed(2); got != "36.80" {
		t.Fatalf("expenses = %s, want 36.80", got)
	}
	if got := sum.Balance.StringFixed(2); got != "55.20" {
		t.Fatalf("balance = %s, want 55.20", got)
	}
}

func TestAggregateBalanceIdentity(t *testing.T) {
	txs := []core.Transaction{
		money(1, core.Income, "Salary", "1234.56", "EUR"),
		money(2, core.Expense, "Food", "33.33", "JPY"),
		money(3, core.Expense, "Housing", "987.65", "GBP"),
		money(4, core.Income, "Gift", "0.01", "INR"),
		money(5, core.Expense, "Shopping", "76.54", "CNY"),
	}

	for _, display := range currency.DefaultTable().Codes() {
		sum, err := Aggregate(txs, display, currency.DefaultTable())
		if err != nil {
			t.Fatalf("display %s: %v", display, err)
		}
		if !sum.Balance.Equal(sum.Income.Sub(sum.Expenses)) {
			t.Fatalf("display %s: balance %s != income %s - expenses %s",
				display, sum.Balance, sum.Income, sum.Expenses)
		}
	}
}

func TestAggregateCategoryTotals(t *testing.T) {
	txs := []core.Transaction{
		money(1, core.Expense, "Food", "30", "USD"),
		money(2, core.Expense, "Food", "20", "USD"),
		money(3, core.Expense, "Housing", "50", "USD"),
		money(4, core.Income, "Other", "10", "USD"),
		money(5, core.Expense, "Other", "5", "USD"),
	}

	sum, err := Aggregate(txs, "USD", currency.DefaultTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"expense-Food":    "50.00",
		"expense-Housing": "50.00",
		"expense-Other":   "5.00",
		"income-Other":    "10.00",
	}
	if len(sum.CategoryTotals) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(sum.CategoryTotals))
	}
	for key, total := range want {
		if got := sum.CategoryTotals[key].StringFixed(2); got != total {
			t.Fatalf("%s = %s, want %s", key, got, total)
		}
	}

	// Bucket totals add back up to their side of the ledger.
	expenseSum := sum.CategoryTotals["expense-Food"].
		Add(sum.CategoryTotals["expense-Housing"]).
		Add(sum.CategoryTotals["expense-Other"])
	if !expenseSum.Equal(sum.Expenses) {
		t.Fatalf("expense buckets sum to %s, want %s", expenseSum, sum.Expenses)
	}

	// Same category name on both sides stays in separate buckets.
	if sum.CategoryTotals["expense-Other"].Equal(sum.CategoryTotals["income-Other"]) {
		t.Fatal("expense-Other and income-Other should differ")
	}
}

func TestAggregateUnknownCurrency(t *testing.T) {
	table := currency.DefaultTable()

	if _, err := Aggregate(nil, "XXX", table); !errors.Is(err, currency.ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency for display, got %v", err)
	}

	txs := []core.Transaction{money(1, core.Expense, "Food", "10", "XXX")}
	if _, err := Aggregate(txs, "USD", table); !errors.Is(err, currency.ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency for transaction, got %v", err)
	}
}

func TestAggregateEmpty(t *testing.T) {
	sum, err := Aggregate(nil, "USD", currency.DefaultTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Balance.IsZero() || !sum.Income.IsZero() || !sum.Expenses.IsZero() {
		t.Fatalf("empty ledger should aggregate to zero, got %+v", sum)
	}
	if len(sum.CategoryTotals) != 0 {
		t.Fatal("empty ledger should have no buckets")
	}
}

func TestSummaryShare(t *testing.T) {
	txs := []core.Transaction{
		money(1, core.Expense, "Food", "75", "USD"),
		money(2, core.Expense, "Housing", "25", "USD"),
		money(3, core.Income, "Salary", "200", "USD"),
	}
	sum, err := Aggregate(txs, "USD", currency.DefaultTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := sum.Share("expense-Food").StringFixed(2); got != "75.00" {
		t.Fatalf("expense-Food share = %s, want 75.00", got)
	}
	if got := sum.Share("income-Salary").StringFixed(2); got != "100.00" {
		t.Fatalf("income-Salary share = %s, want 100.00", got)
	}
	if got := sum.Share("expense-Missing"); !got.IsZero() {
		t.Fatalf("missing bucket share = %s, want 0", got)
	}

	// No expenses at all: shares divide by zero denominator and stay 0.
	onlyIncome, err := Aggregate([]core.Transaction{money(1, core.Income, "Salary", "10", "USD")}, "USD", currency.DefaultTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := onlyIncome.Share("expense-Food"); !got.IsZero() {
		t.Fatalf("share with zero expenses = %s, want 0", got)
	}
}
