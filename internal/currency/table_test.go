package currency

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestConvert(t *testing.T) {
	table := DefaultTable()

	cases := []struct {
		amount string
		from   string
		to     string
		want   string // after rounding to 2 places
	}{
		{"100", "USD", "EUR", "92.00"},
		{"100", "USD", "GBP", "79.00"},
		{"92", "EUR", "USD", "100.00"},
		{"100", "USD", "JPY", "15045.00"},
		{"15045", "JPY", "USD", "100.00"},
		{"50", "EUR", "USD", "54.35"},
		{"100", "EUR", "EUR", "100.00"},
	}
	for i, tc := range cases {
		got, err := table.Convert(decimal.RequireFromString(tc.amount), tc.from, tc.to)
		if err != nil {
			t.Fatalf("case %d: unexpected error %v", i, err)
		}
		if got.StringFixed(2) != tc.want {
			t.Fatalf("case %d: %s %s -> %s = %s, want %s", i, tc.amount, tc.from, tc.to, got.StringFixed(2), tc.want)
		}
	}
}

func TestConvertRoundTrip(t *testing.T) {
	table := DefaultTable()
	amount := decimal.RequireFromString("123.45")

	for _, from := range table.Codes() {
		for _, to := range table.Codes() {
			there, err := table.Convert(amount, from, to)
			if err != nil {
				t.Fatalf("%s -> %s: %v", from, to, err)
			}
			back, err := table.Convert(there, to, from)
			if err != nil {
				t.Fatalf("%s -> %s: %v", to, from, err)
			}
			if back.StringFixed(2) != amount.StringFixed(2) {
				t.Fatalf("%s -> %s -> %s: got %s, want %s", from, to, from, back.StringFixed(2), amount.StringFixed(2))
			}
		}
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	table := DefaultTable()

	if _, err := table.Convert(decimal.NewFromInt(1), "XXX", "USD"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
	if _, err := table.Convert(decimal.NewFromInt(1), "USD", "XXX"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
	// Same unknown code on both sides short-circuits before lookup.
	if _, err := table.Convert(decimal.NewFromInt(1), "XXX", "XXX"); err != nil {
		t.Fatalf("same-code conversion should not consult the table, got %v", err)
	}
}

func TestTableLookups(t *testing.T) {
	table := DefaultTable()

	if !table.Has("USD") || !table.Has("INR") {
		t.Fatal("expected default table to know USD and INR")
	}
	if table.Has("BTC") {
		t.Fatal("expected BTC to be unknown")
	}

	want := []string{"USD", "EUR", "GBP", "JPY", "INR", "CNY"}
	codes := table.Codes()
	if len(codes) != len(want) {
		t.Fatalf("expected %d codes, got %d", len(want), len(codes))
	}
	for i, code := range want {
		if codes[i] != code {
			t.Fatalf("code %d: got %s, want %s", i, codes[i], code)
		}
	}

	if got := table.Symbol("GBP"); got != "£" {
		t.Fatalf("expected £, got %s", got)
	}
	if got := table.Symbol("BTC"); got != "$" {
		t.Fatalf("expected fallback $, got %s", got)
	}
}

func TestZeroTable(t *testing.T) {
	var table Table
	if table.Has("USD") {
		t.Fatal("zero table should know nothing")
	}
	if _, err := table.Convert(decimal.NewFromInt(1), "USD", "EUR"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}
