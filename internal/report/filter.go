// Package report implements the pure reporting core: transaction list
// filtering, currency-normalized aggregation and budget utilization.
// Functions here never mutate their inputs and carry no state; everything
// is recomputed from the snapshot passed in.
package report

import (
	"strings"
	"time"

	"moneta/internal/core"
)

const (
	DateAll   DateFilter = "all"
	DateToday DateFilter = "today"
	// DateWeek is a rolling window: everything dated within the last
	// 7 days of the evaluation time, not an aligned calendar week.
	// Calendar-aligned windows are PeriodRange's job.
	DateWeek  DateFilter = "week"
	DateMonth DateFilter = "month"
)

// DateFilter selects a date window relative to "now" at evaluation time.
type DateFilter string

func (f DateFilter) Valid() bool {
	switch f {
	case DateAll, DateToday, DateWeek, DateMonth, "":
		return true
	}
	return false
}

// Criteria narrows a transaction list. The zero value matches everything.
type Criteria struct {
	// Search is matched case-insensitively as a substring of either the
	// title or the category.
	Search string
	// Category must match exactly; empty or "all" passes everything.
	Category string
	Date     DateFilter
	// Now anchors the date filter; the zero value means time.Now().
	Now time.Time
}

// Filter returns the order-preserving subsequence of txs satisfying all
// criteria. The input slice is never modified.
func Filter(txs []core.Transaction, c Criteria) []core.Transaction {
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}

	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if matchesSearch(t, c.Search) && matchesCategory(t, c.Category) && matchesDate(t, c.Date, now) {
			out = append(out, t)
		}
	}
	return out
}

func matchesSearch(t core.Transaction, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Category), term)
}

func matchesCategory(t core.Transaction, category string) bool {
	return category == "" || category == "all" || t.Category == category
}

func matchesDate(t core.Transaction, f DateFilter, now time.Time) bool {
	switch f {
	case DateToday:
		y1, m1, d1 := t.Date.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case DateWeek:
		return !t.Date.Before(now.AddDate(0, 0, -7))
	case DateMonth:
		return t.Date.Month() == now.Month() && t.Date.Year() == now.Year()
	default: // DateAll or empty
		return true
	}
}
