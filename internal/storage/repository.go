// Package storage implements the ledger store on SQLite. It is the sole
// owner of persisted Transaction and Budget records; everything above it
// works on read-only snapshots.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"moneta/internal/core"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateBudget = errors.New("budget already exists for category")
)

// timeLayout is second-granularity RFC3339 in UTC: fixed width, so lexical
// order of the stored text matches chronological order.
const timeLayout = time.RFC3339

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ---- transactions ----

const transactionColumns = "id, title, amount, type, category, currency, date, notes, recurring, frequency, created_at, updated_at"

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (title, amount, type, category, currency, date, notes, recurring, frequency, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Amount.String(), string(t.Type), t.Category, t.Currency,
		encodeTime(t.Date), t.Notes, boolToInt(t.Recurring), string(t.Frequency),
		encodeTime(t.CreatedAt), encodeTime(t.UpdatedAt))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction id: %w", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"title", t.Title,
		"amount", t.Amount.String(),
		"type", t.Type,
		"category", t.Category,
		"currency", t.Currency)

	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns all transactions ordered by date descending.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return r.listTransactions(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC, id DESC")
}

// ListTransactionsByRange returns transactions dated within [start, end],
// ordered by date descending.
func (r *SQLiteRepository) ListTransactionsByRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	return r.listTransactions(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE date >= ? AND date <= ? ORDER BY date DESC, id DESC",
		encodeTime(start), encodeTime(end))
}

func (r *SQLiteRepository) listTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// TransactionPatch carries a partial update; nil fields are left unchanged.
type TransactionPatch struct {
	Title     *string
	Amount    *decimal.Decimal
	Type      *core.TransactionType
	Category  *string
	Currency  *string
	Date      *time.Time
	Notes     *string
	Recurring *bool
	Frequency *core.Frequency
}

// Apply returns t with the patch's non-nil fields replaced.
func (p TransactionPatch) Apply(t core.Transaction) core.Transaction {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Currency != nil {
		t.Currency = *p.Currency
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Recurring != nil {
		t.Recurring = *p.Recurring
	}
	if p.Frequency != nil {
		t.Frequency = *p.Frequency
	}
	return t
}

// UpdateTransaction applies a partial update and returns the new record.
// Read and write happen in one database transaction so concurrent patches
// cannot interleave.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id int64, patch TransactionPatch) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	current, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load transaction for update: %w", err)
	}

	updated := patch.Apply(current)
	updated.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`UPDATE transactions
		 SET title = ?, amount = ?, type = ?, category = ?, currency = ?, date = ?, notes = ?, recurring = ?, frequency = ?, updated_at = ?
		 WHERE id = ?`,
		updated.Title, updated.Amount.String(), string(updated.Type), updated.Category,
		updated.Currency, encodeTime(updated.Date), updated.Notes,
		boolToInt(updated.Recurring), string(updated.Frequency),
		encodeTime(updated.UpdatedAt), id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit update: %w", err)
	}
	return updated, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return nil
}

// ---- budgets ----

const budgetColumns = "id, category, amount, period, start_date, end_date, created_at, updated_at"

// CreateBudget inserts a budget, rejecting a second budget for the same
// category. The UNIQUE constraint on category backstops the pre-check.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	var existing int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM budgets WHERE category = ?", b.Category).Scan(&existing)
	if err != nil {
		return core.Budget{}, fmt.Errorf("check budget category: %w", err)
	}
	if existing > 0 {
		return core.Budget{}, fmt.Errorf("category %q: %w", b.Category, ErrDuplicateBudget)
	}

	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (category, amount, period, start_date, end_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.Category, b.Amount.String(), string(b.Period),
		encodeTime(b.StartDate), encodeNullableTime(b.EndDate),
		encodeTime(b.CreatedAt), encodeTime(b.UpdatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.Budget{}, fmt.Errorf("category %q: %w", b.Category, ErrDuplicateBudget)
		}
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget id: %w", err)
	}
	b.ID = id

	slog.InfoContext(ctx, "Budget saved",
		"id", b.ID,
		"category", b.Category,
		"amount", b.Amount.String(),
		"period", b.Period)

	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE id = ?", id)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budget %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// ListBudgets returns all budgets ordered by category ascending.
func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets ORDER BY category ASC")
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return out, nil
}

// UpdateBudget replaces all mutable fields of a budget. Changing the
// category to one that already has another budget is rejected.
func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	var conflict int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM budgets WHERE category = ? AND id != ?", b.Category, b.ID).Scan(&conflict)
	if err != nil {
		return core.Budget{}, fmt.Errorf("check budget category: %w", err)
	}
	if conflict > 0 {
		return core.Budget{}, fmt.Errorf("category %q: %w", b.Category, ErrDuplicateBudget)
	}

	b.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets
		 SET category = ?, amount = ?, period = ?, start_date = ?, end_date = ?, updated_at = ?
		 WHERE id = ?`,
		b.Category, b.Amount.String(), string(b.Period),
		encodeTime(b.StartDate), encodeNullableTime(b.EndDate),
		encodeTime(b.UpdatedAt), b.ID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if n == 0 {
		return core.Budget{}, fmt.Errorf("budget %d: %w", b.ID, ErrNotFound)
	}
	return b, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("budget %d: %w", id, ErrNotFound)
	}
	return nil
}

// ---- scanning ----

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var (
		t                    core.Transaction
		amount, date         string
		txType, frequency    string
		recurring            int64
		createdAt, updatedAt string
	)
	err := s.Scan(&t.ID, &t.Title, &amount, &txType, &t.Category, &t.Currency,
		&date, &t.Notes, &recurring, &frequency, &createdAt, &updatedAt)
	if err != nil {
		return core.Transaction{}, err
	}

	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if t.Date, err = decodeTime(date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date: %w", err)
	}
	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at: %w", err)
	}
	if t.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse updated_at: %w", err)
	}
	t.Type = core.TransactionType(txType)
	t.Frequency = core.Frequency(frequency)
	t.Recurring = recurring != 0
	return t, nil
}

func scanBudget(s scanner) (core.Budget, error) {
	var (
		b                    core.Budget
		amount, period       string
		startDate            string
		endDate              sql.NullString
		createdAt, updatedAt string
	)
	err := s.Scan(&b.ID, &b.Category, &amount, &period, &startDate, &endDate, &createdAt, &updatedAt)
	if err != nil {
		return core.Budget{}, err
	}

	if b.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Budget{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if b.StartDate, err = decodeTime(startDate); err != nil {
		return core.Budget{}, fmt.Errorf("parse start_date: %w", err)
	}
	if endDate.Valid && endDate.String != "" {
		if b.EndDate, err = decodeTime(endDate.String); err != nil {
			return core.Budget{}, fmt.Errorf("parse end_date: %w", err)
		}
	}
	if b.CreatedAt, err = decodeTime(createdAt); err != nil {
		return core.Budget{}, fmt.Errorf("parse created_at: %w", err)
	}
	if b.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return core.Budget{}, fmt.Errorf("parse updated_at: %w", err)
	}
	b.Period = core.Period(period)
	return b, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(timeLayout)
}

func encodeNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return encodeTime(t)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
