package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"moneta/internal/core"
)

type budgetRequest struct {
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Period    string `json:"period"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		budgets, err := s.ledger.Budgets(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		out := make([]budgetJSON, len(budgets))
		for i, b := range budgets {
			out[i] = toBudgetJSON(b)
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		s.createBudget(w, r)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := budgetFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.ledger.CreateBudget(r.Context(), b)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Budget created",
		"id", created.ID,
		"category", created.Category,
		"period", created.Period)

	writeJSON(w, http.StatusCreated, toBudgetJSON(created))
}

func (s *Server) handleBudgetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/budgets/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		b, err := s.ledger.GetBudget(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toBudgetJSON(b))

	case http.MethodPut:
		var req budgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		b, err := budgetFromRequest(req)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		b.ID = id

		updated, err := s.ledger.UpdateBudget(r.Context(), b)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		slog.InfoContext(r.Context(), "Budget updated", "id", id)
		writeJSON(w, http.StatusOK, toBudgetJSON(updated))

	case http.MethodDelete:
		if err := s.ledger.DeleteBudget(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		slog.InfoContext(r.Context(), "Budget deleted", "id", id)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func budgetFromRequest(req budgetRequest) (core.Budget, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Budget{}, err
	}

	b := core.Budget{
		Category: req.Category,
		Amount:   amount,
		Period:   core.Period(req.Period),
	}
	if req.StartDate != "" {
		if b.StartDate, err = parseDate(req.StartDate); err != nil {
			return core.Budget{}, core.ErrZeroDate
		}
	}
	if req.EndDate != "" {
		if b.EndDate, err = parseDate(req.EndDate); err != nil {
			return core.Budget{}, core.ErrZeroDate
		}
	}
	return b, nil
}
