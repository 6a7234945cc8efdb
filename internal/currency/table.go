// Package currency holds the fixed currency table and cross-currency
// conversion. Rates are static USD-relative multipliers; they are not
// refreshed at runtime.
package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is one entry of the table: a code, its display symbol and its
// USD-relative rate (units of this currency per one USD).
type Currency struct {
	Code   string
	Symbol string
	Rate   decimal.Decimal
}

// Table is an immutable currency lookup. Construct with NewTable; the zero
// value knows no currencies.
type Table struct {
	ordered []Currency
	byCode  map[string]Currency
}

var ErrUnknownCurrency = errors.New("unknown currency code")

// conversionScale is the number of decimal places kept when dividing by
// the source rate. High enough that round-tripping a two-decimal amount
// through any pair of table rates reproduces it exactly after display
// rounding.
const conversionScale = 12

func NewTable(currencies ...Currency) Table {
	t := Table{
		ordered: make([]Currency, len(currencies)),
		byCode:  make(map[string]Currency, len(currencies)),
	}
	copy(t.ordered, currencies)
	for _, c := range currencies {
		t.byCode[c.Code] = c
	}
	return t
}

// DefaultTable returns the built-in table. Rates are a fixed snapshot
// relative to USD.
func DefaultTable() Table {
	return NewTable(
		Currency{Code: "USD", Symbol: "$", Rate: decimal.NewFromInt(1)},
		Currency{Code: "EUR", Symbol: "€", Rate: decimal.RequireFromString("0.92")},
		Currency{Code: "GBP", Symbol: "£", Rate: decimal.RequireFromString("0.79")},
		Currency{Code: "JPY", Symbol: "¥", Rate: decimal.RequireFromString("150.45")},
		Currency{Code: "INR", Symbol: "₹", Rate: decimal.RequireFromString("82.83")},
		Currency{Code: "CNY", Symbol: "¥", Rate: decimal.RequireFromString("7.19")},
	)
}

// Has reports whether code is in the table.
func (t Table) Has(code string) bool {
	_, ok := t.byCode[code]
	return ok
}

// Codes returns the currency codes in table order.
func (t Table) Codes() []string {
	codes := make([]string, len(t.ordered))
	for i, c := range t.ordered {
		codes[i] = c.Code
	}
	return codes
}

// Symbol returns the display symbol for code, falling back to "$" for
// unknown codes so display never breaks on stale data.
func (t Table) Symbol(code string) string {
	if c, ok := t.byCode[code]; ok {
		return c.Symbol
	}
	return "$"
}

// Convert translates amount from one currency to another by normalizing
// through USD: amount / rate[from] * rate[to]. Unknown codes are a
// boundary violation and return ErrUnknownCurrency; callers prevent them
// by validating inputs against the table up front.
func (t Table) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	src, ok := t.byCode[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("convert from %q: %w", from, ErrUnknownCurrency)
	}
	dst, ok := t.byCode[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("convert to %q: %w", to, ErrUnknownCurrency)
	}
	return amount.DivRound(src.Rate, conversionScale).Mul(dst.Rate), nil
}
