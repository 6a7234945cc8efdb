package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

type (
	TransactionType string

	// Frequency describes how often a recurring transaction repeats.
	Frequency string

	// Period is the accounting window a budget limit applies to.
	Period string

	Transaction struct {
		ID        int64
		Title     string
		Amount    decimal.Decimal // positive magnitude in Currency
		Type      TransactionType
		Category  string
		Currency  string // ISO code, must be in the configured currency table
		Date      time.Time
		Notes     string
		Recurring bool
		Frequency Frequency // empty unless Recurring
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	Budget struct {
		ID        int64
		Category  string
		Amount    decimal.Decimal // positive limit
		Period    Period
		StartDate time.Time
		EndDate   time.Time // zero when open-ended
		CreatedAt time.Time
		UpdatedAt time.Time
	}
)

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrEmptyTitle          = errors.New("empty title")
	ErrTitleTooLong        = errors.New("title too long (max 200 characters)")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidCategory     = errors.New("category not allowed for transaction type")
	ErrInvalidFrequency    = errors.New("invalid recurrence frequency")
	ErrStrayFrequency      = errors.New("frequency set on non-recurring transaction")
	ErrInvalidPeriod       = errors.New("invalid budget period")
	ErrZeroDate            = errors.New("date cannot be zero")
	ErrEndBeforeStart      = errors.New("end date must not be before start date")
	ErrEmptyBudgetCategory = errors.New("empty budget category")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (p Period) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Validate checks a transaction against the allowed category vocabulary.
// Currency codes are checked separately at the boundary against the
// configured currency table.
func (t Transaction) Validate(vocab Vocabulary) error {
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return ErrTitleTooLong
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !vocab.Allows(t.Type, t.Category) {
		return ErrInvalidCategory
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if t.Recurring && !t.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if !t.Recurring && t.Frequency != "" {
		return ErrStrayFrequency
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyBudgetCategory
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	if b.StartDate.IsZero() {
		return ErrZeroDate
	}
	if !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}
