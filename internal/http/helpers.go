package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
	"moneta/internal/currency"
	"moneta/internal/report"
	"moneta/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps the error taxonomy onto status codes. Store
// failures surface as a generic message; the details stay in the log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrDuplicateBudget):
		writeError(w, http.StatusConflict, err.Error())
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"method", r.Method,
			"url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrEmptyTitle,
		core.ErrTitleTooLong,
		core.ErrInvalidType,
		core.ErrInvalidCategory,
		core.ErrInvalidFrequency,
		core.ErrStrayFrequency,
		core.ErrInvalidPeriod,
		core.ErrZeroDate,
		core.ErrEndBeforeStart,
		core.ErrEmptyBudgetCategory,
		currency.ErrUnknownCurrency,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// pathID extracts the numeric id from paths like /transactions/42.
func pathID(path, prefix string) (int64, error) {
	raw := strings.TrimPrefix(path, prefix)
	raw = strings.TrimSuffix(raw, "/")
	return strconv.ParseInt(raw, 10, 64)
}

// parseCriteria reads the shared filter query parameters.
func parseCriteria(r *http.Request) (report.Criteria, error) {
	c := report.Criteria{
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Date:     report.DateFilter(strings.TrimSpace(r.URL.Query().Get("date"))),
	}
	if !c.Date.Valid() {
		return report.Criteria{}, errors.New("invalid date filter, expected today, week, month or all")
	}
	return c, nil
}

func displayCurrency(r *http.Request) string {
	if code := strings.TrimSpace(r.URL.Query().Get("display")); code != "" {
		return code
	}
	return "USD"
}

// ---- wire types ----

type transactionJSON struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Currency  string `json:"currency"`
	Date      string `json:"date"`
	Notes     string `json:"notes,omitempty"`
	Recurring bool   `json:"recurring"`
	Frequency string `json:"frequency,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:        t.ID,
		Title:     t.Title,
		Amount:    t.Amount.StringFixed(2),
		Type:      string(t.Type),
		Category:  t.Category,
		Currency:  t.Currency,
		Date:      t.Date.UTC().Format(time.RFC3339),
		Notes:     t.Notes,
		Recurring: t.Recurring,
		Frequency: string(t.Frequency),
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toTransactionListJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, len(txs))
	for i, t := range txs {
		out[i] = toTransactionJSON(t)
	}
	return out
}

type budgetJSON struct {
	ID        int64  `json:"id"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Period    string `json:"period"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toBudgetJSON(b core.Budget) budgetJSON {
	out := budgetJSON{
		ID:        b.ID,
		Category:  b.Category,
		Amount:    b.Amount.StringFixed(2),
		Period:    string(b.Period),
		StartDate: b.StartDate.UTC().Format(time.RFC3339),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if !b.EndDate.IsZero() {
		out.EndDate = b.EndDate.UTC().Format(time.RFC3339)
	}
	return out
}

// parseDate accepts RFC3339 timestamps or plain yyyy-MM-dd dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseAmount parses a positive decimal amount from its JSON string form.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, core.ErrInvalidAmount
	}
	return d, nil
}
