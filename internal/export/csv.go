// Package export renders the filtered transaction set into the two
// download formats, CSV and PDF. Both run synchronously over the snapshot
// they are handed.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"moneta/internal/core"
)

// CSVHeader is the header row of a transactions export.
const CSVHeader = "Title,Amount,Type,Category,Date,Description"

const dateFormat = "2006-01-02"

// WriteCSV writes the header and one row per transaction. Quoting follows
// RFC 4180 via encoding/csv: fields are quoted only when they contain a
// comma, quote or newline, not unconditionally, so plain text fields are
// emitted bare. Any RFC 4180 reader parses both forms identically.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(CSVHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txs {
		row := []string{
			t.Title,
			t.Amount.StringFixed(2),
			string(t.Type),
			t.Category,
			t.Date.Format(dateFormat),
			t.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// CSVFilename names the download after the exported date.
func CSVFilename(date time.Time) string {
	return "transactions-" + date.Format(dateFormat) + ".csv"
}
