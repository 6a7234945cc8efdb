package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"moneta/internal/core"
	"moneta/internal/export"
	"moneta/internal/report"
)

// handleExportCSV downloads transactions as CSV. With ?date=yyyy-MM-dd it
// exports that calendar day; otherwise it exports the ledger narrowed by
// the usual filter parameters.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var (
		txs     []core.Transaction
		err     error
		stamped = time.Now()
	)
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		day, perr := parseDate(raw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected yyyy-MM-dd")
			return
		}
		stamped = day
		start, end := report.DayRange(day)
		txs, err = s.ledger.TransactionsInRange(r.Context(), start, end)
	} else {
		criteria, cerr := parseCriteria(r)
		if cerr != nil {
			writeError(w, http.StatusBadRequest, cerr.Error())
			return
		}
		txs, err = s.ledger.Transactions(r.Context())
		if err == nil {
			txs = report.Filter(txs, criteria)
		}
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, txs); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "CSV export generated", "transactions", len(txs))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.CSVFilename(stamped)+`"`)
	_, _ = w.Write(buf.Bytes())
}

// handleExportPDF downloads the fixed-layout report: summary totals over
// the full ledger, transaction table over the filtered subset, both in
// the display currency.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
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
	table := s.ledger.CurrencyTable()
	if !table.Has(display) {
		writeError(w, http.StatusBadRequest, "unknown display currency "+display)
		return
	}

	txs, err := s.ledger.Transactions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	sum, err := report.Aggregate(txs, display, table)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, report.Filter(txs, criteria), sum, table); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "PDF report generated",
		"transactions", len(txs),
		"display", display)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.PDFFilename+`"`)
	_, _ = w.Write(buf.Bytes())
}
