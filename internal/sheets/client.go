// Package sheets mirrors the transaction ledger into a Google Sheets
// spreadsheet. The sheet is a read-only copy for spreadsheet users; the
// SQLite store stays authoritative and the whole range is rewritten on
// every change.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"moneta/internal/core"
)

// Config carries the mirror target and credentials. CredentialsJSON is
// optional; Application Default Credentials are used when it is empty.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates a Sheets client for the configured spreadsheet.
func New(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Transactions"
	}

	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}
	if creds := strings.TrimSpace(cfg.CredentialsJSON); creds != "" {
		opts = append(opts, goption.WithCredentialsJSON([]byte(creds)))
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

var mirrorHeader = []interface{}{"ID", "Title", "Amount", "Type", "Category", "Currency", "Date", "Description"}

// Mirror replaces the sheet contents with a header plus one row per
// transaction.
func (c *Client) Mirror(ctx context.Context, txs []core.Transaction) error {
	_, err := c.svc.Spreadsheets.Values.
		Clear(c.spreadsheetID, c.sheetName, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet %q: %w", c.sheetName, err)
	}

	values := make([][]interface{}, 0, len(txs)+1)
	values = append(values, mirrorHeader)
	for _, t := range txs {
		values = append(values, []interface{}{
			t.ID,
			t.Title,
			t.Amount.StringFixed(2),
			string(t.Type),
			t.Category,
			t.Currency,
			t.Date.Format("2006-01-02"),
			t.Notes,
		})
	}

	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, c.sheetName+"!A1", &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet %q: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Ledger mirrored to sheet",
		"spreadsheet_id", c.spreadsheetID,
		"sheet", c.sheetName,
		"rows", len(txs))

	return nil
}
