package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleTransaction(title string, date time.Time) core.Transaction {
	return core.Transaction{
		Title:    title,
		Amount:   decimal.RequireFromString("42.50"),
		Type:     core.Expense,
		Category: "Food",
		Currency: "USD",
		Date:     date,
		Notes:    "weekly shop",
	}
}

func TestTransactionCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	created, err := repo.CreateTransaction(ctx, sampleTransaction("Groceries", date))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Groceries" || got.Notes != "weekly shop" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.Amount.Equal(decimal.RequireFromString("42.50")) {
		t.Fatalf("amount = %s, want 42.50", got.Amount)
	}
	if !got.Date.Equal(date) {
		t.Fatalf("date = %v, want %v", got.Date, date)
	}

	if err := repo.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteTransaction(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestListTransactionsOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Inserted out of date order on purpose.
	for _, d := range []int{2, 0, 1} {
		if _, err := repo.CreateTransaction(ctx, sampleTransaction("t", base.AddDate(0, 0, d))); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].Date.After(txs[i-1].Date) {
			t.Fatalf("transactions not in date-descending order: %v before %v", txs[i-1].Date, txs[i].Date)
		}
	}
}

func TestListTransactionsByRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inside := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	before := time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC)
	after := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{inside, before, after} {
		if _, err := repo.CreateTransaction(ctx, sampleTransaction("t", d)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	txs, err := repo.ListTransactionsByRange(ctx, start, end)
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction in June, got %d", len(txs))
	}
	if !txs[0].Date.Equal(inside) {
		t.Fatalf("got %v, want %v", txs[0].Date, inside)
	}

	// Range bounds are inclusive.
	txs, err = repo.ListTransactionsByRange(ctx, inside, inside)
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected bounds to be inclusive, got %d results", len(txs))
	}
}

func TestUpdateTransactionPatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	created, err := repo.CreateTransaction(ctx, sampleTransaction("Groceries", date))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newTitle := "Restaurant"
	newAmount := decimal.RequireFromString("99.99")
	updated, err := repo.UpdateTransaction(ctx, created.ID, TransactionPatch{
		Title:  &newTitle,
		Amount: &newAmount,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != "Restaurant" {
		t.Fatalf("title = %s, want Restaurant", updated.Title)
	}
	if !updated.Amount.Equal(newAmount) {
		t.Fatalf("amount = %s, want 99.99", updated.Amount)
	}
	// Unpatched fields survive.
	if updated.Category != "Food" || updated.Currency != "USD" || !updated.Date.Equal(date) {
		t.Fatalf("unpatched fields changed: %+v", updated)
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Restaurant" {
		t.Fatalf("persisted title = %s, want Restaurant", got.Title)
	}

	if _, err := repo.UpdateTransaction(ctx, 9999, TransactionPatch{Title: &newTitle}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func sampleBudget(category string) core.Budget {
	return core.Budget{
		Category:  category,
		Amount:    decimal.NewFromInt(500),
		Period:    core.PeriodMonthly,
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBudgetCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateBudget(ctx, sampleBudget("Food"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := repo.GetBudget(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Category != "Food" || !got.Amount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.EndDate.IsZero() {
		t.Fatalf("open-ended budget should have zero end date, got %v", got.EndDate)
	}

	got.Amount = decimal.NewFromInt(600)
	got.Period = core.PeriodWeekly
	updated, err := repo.UpdateBudget(ctx, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(600)) || updated.Period != core.PeriodWeekly {
		t.Fatalf("unexpected updated record: %+v", updated)
	}

	if err := repo.DeleteBudget(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetBudget(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDuplicateBudgetRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateBudget(ctx, sampleBudget("Food")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.CreateBudget(ctx, sampleBudget("Food")); !errors.Is(err, ErrDuplicateBudget) {
		t.Fatalf("expected ErrDuplicateBudget, got %v", err)
	}

	// A different category is fine.
	other, err := repo.CreateBudget(ctx, sampleBudget("Housing"))
	if err != nil {
		t.Fatalf("create second category: %v", err)
	}

	// Updating one budget onto another's category is a conflict too.
	other.Category = "Food"
	if _, err := repo.UpdateBudget(ctx, other); !errors.Is(err, ErrDuplicateBudget) {
		t.Fatalf("expected ErrDuplicateBudget on update, got %v", err)
	}
}

func TestListBudgetsSorted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, c := range []string{"Housing", "Food", "Utilities"} {
		if _, err := repo.CreateBudget(ctx, sampleBudget(c)); err != nil {
			t.Fatalf("create %s: %v", c, err)
		}
	}

	budgets, err := repo.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Food", "Housing", "Utilities"}
	if len(budgets) != len(want) {
		t.Fatalf("expected %d budgets, got %d", len(want), len(budgets))
	}
	for i, c := range want {
		if budgets[i].Category != c {
			t.Fatalf("budget %d: category %s, want %s", i, budgets[i].Category, c)
		}
	}
}

func TestBudgetEndDateRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := sampleBudget("Food")
	b.EndDate = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	created, err := repo.CreateBudget(ctx, b)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetBudget(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.EndDate.Equal(b.EndDate) {
		t.Fatalf("end date = %v, want %v", got.EndDate, b.EndDate)
	}
}

func TestRecurringTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx := sampleTransaction("Rent", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	tx.Category = "Housing"
	tx.Recurring = true
	tx.Frequency = core.Monthly

	created, err := repo.CreateTransaction(ctx, tx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Recurring || got.Frequency != core.Monthly {
		t.Fatalf("recurring fields lost: %+v", got)
	}
}
