package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInvoice(t *testing.T) {
	due := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
	doc := Document{
		InvoiceNumber:   "INV-202401-0001",
		WorkOrderNumber: "WO-20240115-001",
		IssuedAt:        time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		DueDate:         &due,
		CustomerName:    "José Álvarez",
		Vehicle:         "2019 Toyota Corolla (ABC-1234)",
		Lines: []Line{
			{Type: "SERVICE", Description: "Oil change", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50), Amount: decimal.NewFromInt(50)},
			{Type: "TAX", Description: "Sales tax", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("9.00"), Amount: decimal.RequireFromString("9.00")},
		},
		Subtotal:       decimal.NewFromInt(50),
		TaxRate:        decimal.RequireFromString("0.18"),
		TaxAmount:      decimal.RequireFromString("9.00"),
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.RequireFromString("59.00"),
		Notes:          "Thanks for your business",
		Terms:          "Net 30",
	}

	b, err := RenderInvoice(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
	assert.Greater(t, len(b), 500)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("a", 20)
	assert.Equal(t, "aaaaaaa...", truncate(long, 10))
}
