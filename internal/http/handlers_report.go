package http

import (
	"net/http"
	"strings"
	"time"

	"moneta/internal/core"
	"moneta/internal/report"
)

type summaryResponse struct {
	Display        string            `json:"display"`
	Balance        string            `json:"balance"`
	Income         string            `json:"income"`
	Expenses       string            `json:"expenses"`
	CategoryTotals map[string]string `json:"category_totals"`
	CategoryShares map[string]string `json:"category_shares"`
}

// handleSummary narrows the ledger by the filter query parameters, then
// aggregates it into the display currency.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	display := displayCurrency(r)
	if !s.ledger.CurrencyTable().Has(display) {
		writeError(w, http.StatusBadRequest, "unknown display currency "+display)
		return
	}

	txs, err := s.ledger.Transactions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	sum, err := report.Aggregate(report.Filter(txs, criteria), display, s.ledger.CurrencyTable())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := summaryResponse{
		Display:        sum.Display,
		Balance:        sum.Balance.StringFixed(2),
		Income:         sum.Income.StringFixed(2),
		Expenses:       sum.Expenses.StringFixed(2),
		CategoryTotals: make(map[string]string, len(sum.CategoryTotals)),
		CategoryShares: make(map[string]string, len(sum.CategoryTotals)),
	}
	for key, total := range sum.CategoryTotals {
		resp.CategoryTotals[key] = total.StringFixed(2)
		resp.CategoryShares[key] = sum.Share(key).StringFixed(2)
	}
	writeJSON(w, http.StatusOK, resp)
}

type categorySpendingJSON struct {
	Category     string  `json:"category"`
	Amount       string  `json:"amount"`
	BudgetAmount string  `json:"budget_amount"`
	Percentage   float64 `json:"percentage"`
	IsOverBudget bool    `json:"is_over_budget"`
	BarWidth     int     `json:"bar_width"`
}

// handleCategorySpending joins expense totals for a calendar-aligned
// period to budget limits.
func (s *Server) handleCategorySpending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	period, err := parseAnalyticsPeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	display := displayCurrency(r)
	if !s.ledger.CurrencyTable().Has(display) {
		writeError(w, http.StatusBadRequest, "unknown display currency "+display)
		return
	}

	start, end := report.PeriodRange(period, time.Now())
	txs, err := s.ledger.TransactionsInRange(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	budgets, err := s.ledger.Budgets(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	spend, err := report.SpendByCategory(txs, display, s.ledger.CurrencyTable())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	rows := report.Utilization(spend, budgets)
	out := make([]categorySpendingJSON, len(rows))
	for i, row := range rows {
		out[i] = categorySpendingJSON{
			Category:     row.Category,
			Amount:       row.Amount.StringFixed(2),
			BudgetAmount: row.BudgetAmount.StringFixed(2),
			Percentage:   row.Percentage.Round(2).InexactFloat64(),
			IsOverBudget: row.IsOverBudget,
			BarWidth:     row.BarWidth,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// parseAnalyticsPeriod maps the query form (week/month/year) onto budget
// periods; month is the default like in the dashboard.
func parseAnalyticsPeriod(raw string) (core.Period, error) {
	switch strings.TrimSpace(raw) {
	case "week":
		return core.PeriodWeekly, nil
	case "month", "":
		return core.PeriodMonthly, nil
	case "year":
		return core.PeriodYearly, nil
	}
	return "", core.ErrInvalidPeriod
}

type currencyJSON struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	table := s.ledger.CurrencyTable()
	out := make([]currencyJSON, 0, len(table.Codes()))
	for _, code := range table.Codes() {
		out = append(out, currencyJSON{Code: code, Symbol: table.Symbol(code)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	vocab := s.ledger.Vocabulary()
	writeJSON(w, http.StatusOK, map[string][]string{
		string(core.Expense): vocab.Expense,
		string(core.Income):  vocab.Income,
	})
}
