package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

type Line struct {
	Type        string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// Document is the printable snapshot of an invoice.
type Document struct {
	InvoiceNumber   string
	WorkOrderNumber string
	IssuedAt        time.Time
	DueDate         *time.Time
	CustomerName    string
	CustomerEmail   string
	Vehicle         string
	Lines           []Line
	Subtotal        decimal.Decimal
	TaxRate         decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	Notes           string
	Terms           string
}

var columnWidths = []float64{20, 90, 20, 25, 25}

// RenderInvoice lays the document out on A4 pages and returns the PDF bytes.
func RenderInvoice(doc Document) ([]byte, error) {
	f := fpdf.New("P", "mm", "A4", "")
	tr := f.UnicodeTranslatorFromDescriptor("")
	f.SetTitle(doc.InvoiceNumber, true)
	f.AddPage()

	f.SetFont("Helvetica", "B", 16)
	f.CellFormat(0, 10, tr("Invoice "+doc.InvoiceNumber), "", 1, "L", false, 0, "")

	f.SetFont("Helvetica", "", 10)
	f.CellFormat(0, 6, tr("Work order: "+doc.WorkOrderNumber), "", 1, "L", false, 0, "")
	f.CellFormat(0, 6, "Issued: "+doc.IssuedAt.UTC().Format("2006-01-02"), "", 1, "L", false, 0, "")
	if doc.DueDate != nil {
		f.CellFormat(0, 6, "Due: "+doc.DueDate.UTC().Format("2006-01-02"), "", 1, "L", false, 0, "")
	}
	f.CellFormat(0, 6, tr("Customer: "+doc.CustomerName), "", 1, "L", false, 0, "")
	if doc.CustomerEmail != "" {
		f.CellFormat(0, 6, tr(doc.CustomerEmail), "", 1, "L", false, 0, "")
	}
	if doc.Vehicle != "" {
		f.CellFormat(0, 6, tr("Vehicle: "+doc.Vehicle), "", 1, "L", false, 0, "")
	}
	f.Ln(4)

	f.SetFont("Helvetica", "B", 10)
	f.SetFillColor(220, 220, 220)
	for i, h := range []string{"Type", "Description", "Qty", "Unit", "Amount"} {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		f.CellFormat(columnWidths[i], 7, h, "1", 0, align, true, 0, "")
	}
	f.Ln(-1)

	f.SetFont("Helvetica", "", 9)
	for _, l := range doc.Lines {
		f.CellFormat(columnWidths[0], 6, l.Type, "1", 0, "L", false, 0, "")
		f.CellFormat(columnWidths[1], 6, tr(truncate(l.Description, 60)), "1", 0, "L", false, 0, "")
		f.CellFormat(columnWidths[2], 6, l.Quantity.String(), "1", 0, "R", false, 0, "")
		f.CellFormat(columnWidths[3], 6, l.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		f.CellFormat(columnWidths[4], 6, l.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	f.Ln(4)

	totals := [][2]string{
		{"Subtotal", doc.Subtotal.StringFixed(2)},
		{fmt.Sprintf("Tax (%s%%)", doc.TaxRate.Mul(decimal.NewFromInt(100)).StringFixed(2)), doc.TaxAmount.StringFixed(2)},
	}
	if doc.DiscountAmount.IsPositive() {
		totals = append(totals, [2]string{"Discount", "-" + doc.DiscountAmount.StringFixed(2)})
	}
	totals = append(totals, [2]string{"Total", doc.TotalAmount.StringFixed(2)})
	for i, row := range totals {
		if i == len(totals)-1 {
			f.SetFont("Helvetica", "B", 10)
		}
		f.CellFormat(155, 6, row[0], "", 0, "R", false, 0, "")
		f.CellFormat(25, 6, row[1], "", 1, "R", false, 0, "")
	}

	f.SetFont("Helvetica", "", 9)
	if doc.Notes != "" {
		f.Ln(4)
		f.MultiCell(0, 5, tr("Notes: "+doc.Notes), "", "L", false)
	}
	if doc.Terms != "" {
		f.Ln(2)
		f.MultiCell(0, 5, tr("Terms: "+doc.Terms), "", "L", false)
	}

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render invoice %s: %w", doc.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
