package report

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const registerSheet = "Invoices"

var registerHeaders = []string{
	"Invoice", "Work Order", "Customer", "Status", "Issued", "Due",
	"Services", "Labor", "Parts", "Subtotal", "Tax", "Discount", "Total",
}

// RegisterRow is one invoice in the register export.
type RegisterRow struct {
	InvoiceNumber   string
	WorkOrderNumber string
	CustomerName    string
	Status          string
	IssuedAt        time.Time
	DueDate         *time.Time
	Services        decimal.Decimal
	Labor           decimal.Decimal
	Parts           decimal.Decimal
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
}

// WriteInvoiceRegister writes an xlsx workbook with one row per invoice and
// a totals row at the bottom.
func WriteInvoiceRegister(w io.Writer, rows []RegisterRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := setRow(f, 1, toCells(registerHeaders)); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(registerHeaders), 1)
	if err := f.SetCellStyle(registerSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	total := decimal.Zero
	for i, r := range rows {
		due := ""
		if r.DueDate != nil {
			due = r.DueDate.UTC().Format("2006-01-02")
		}
		cells := []interface{}{
			r.InvoiceNumber, r.WorkOrderNumber, r.CustomerName, r.Status,
			r.IssuedAt.UTC().Format("2006-01-02"), due,
			money(r.Services), money(r.Labor), money(r.Parts), money(r.Subtotal),
			money(r.Tax), money(r.Discount), money(r.Total),
		}
		if err := setRow(f, i+2, cells); err != nil {
			return err
		}
		total = total.Add(r.Total)
	}

	footer := make([]interface{}, len(registerHeaders))
	footer[0] = "TOTAL"
	footer[len(footer)-1] = money(total)
	if err := setRow(f, len(rows)+2, footer); err != nil {
		return err
	}

	if err := f.SetColWidth(registerSheet, "A", "F", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(registerSheet, "G", "M", 12); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write invoice register: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(registerSheet, cell, &cells)
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
