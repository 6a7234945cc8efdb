package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"moneta/internal/core"
	"moneta/internal/report"
	"moneta/internal/storage"
)

type transactionRequest struct {
	Title     string `json:"title"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Currency  string `json:"currency"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
	Recurring bool   `json:"recurring"`
	Frequency string `json:"frequency"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// listTransactions returns the ledger ordered by date descending,
// narrowed by the optional search/category/date query parameters.
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.ledger.Transactions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionListJSON(report.Filter(txs, criteria)))
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := transactionFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.ledger.CreateTransaction(r.Context(), t)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Transaction created",
		"id", created.ID,
		"title", created.Title,
		"type", created.Type,
		"category", created.Category)

	writeJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/transactions/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		t, err := s.ledger.GetTransaction(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransactionJSON(t))

	case http.MethodPatch, http.MethodPut:
		s.updateTransaction(w, r, id)

	case http.MethodDelete:
		if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		slog.InfoContext(r.Context(), "Transaction deleted", "id", id)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, PATCH, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// transactionPatchRequest distinguishes absent fields from zero values so
// updates can be partial.
type transactionPatchRequest struct {
	Title     *string `json:"title"`
	Amount    *string `json:"amount"`
	Type      *string `json:"type"`
	Category  *string `json:"category"`
	Currency  *string `json:"currency"`
	Date      *string `json:"date"`
	Notes     *string `json:"notes"`
	Recurring *bool   `json:"recurring"`
	Frequency *string `json:"frequency"`
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	var req transactionPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch, err := patchFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.ledger.UpdateTransaction(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Transaction updated", "id", id)
	writeJSON(w, http.StatusOK, toTransactionJSON(updated))
}

func transactionFromRequest(req transactionRequest) (core.Transaction, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		Title:     req.Title,
		Amount:    amount,
		Type:      core.TransactionType(req.Type),
		Category:  req.Category,
		Currency:  req.Currency,
		Notes:     req.Notes,
		Recurring: req.Recurring,
		Frequency: core.Frequency(req.Frequency),
	}
	if t.Currency == "" {
		t.Currency = "USD"
	}
	if req.Date != "" {
		if t.Date, err = parseDate(req.Date); err != nil {
			return core.Transaction{}, core.ErrZeroDate
		}
	}
	return t, nil
}

func patchFromRequest(req transactionPatchRequest) (storage.TransactionPatch, error) {
	patch := storage.TransactionPatch{
		Title:     req.Title,
		Category:  req.Category,
		Currency:  req.Currency,
		Notes:     req.Notes,
		Recurring: req.Recurring,
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return storage.TransactionPatch{}, err
		}
		patch.Amount = &amount
	}
	if req.Type != nil {
		t := core.TransactionType(*req.Type)
		patch.Type = &t
	}
	if req.Frequency != nil {
		f := core.Frequency(*req.Frequency)
		patch.Frequency = &f
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return storage.TransactionPatch{}, core.ErrZeroDate
		}
		patch.Date = &date
	}
	return patch, nil
}
