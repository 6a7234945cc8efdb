package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"moneta/internal/core"
	"moneta/internal/currency"
	"moneta/internal/report"
)

// PDFFilename is the fixed name of the PDF report download.
const PDFFilename = "expense-tracker-report.pdf"

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Date", 25},
	{"Description", 55},
	{"Category", 35},
	{"Type", 20},
	{"Amount", 55},
}

// WritePDF renders the fixed report layout: title, three summary lines in
// the display currency, then a striped table over txs where each amount
// shows the original-currency value with the display-currency equivalent
// in parentheses.
func WritePDF(w io.Writer, txs []core.Transaction, sum report.Summary, table currency.Table) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Expense Tracker Report", "", 1, "L", false, 0, "")

	symbol := tr(table.Symbol(sum.Display))
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Balance: %s%s", symbol, sum.Balance.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Income: %s%s", symbol, sum.Income.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Expenses: %s%s", symbol, sum.Expenses.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Header row
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(66, 139, 202)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, col.title, "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, t := range txs {
		converted, err := table.Convert(t.Amount, t.Currency, sum.Display)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		amount := fmt.Sprintf("%s%s (%s%s)",
			tr(table.Symbol(t.Currency)), t.Amount.StringFixed(2),
			symbol, converted.StringFixed(2))

		// Striped rows
		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(240, 240, 240)
		}
		row := []string{
			t.Date.Format(dateFormat),
			tr(t.Title),
			t.Category,
			string(t.Type),
			amount,
		}
		for j, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, row[j], "", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
