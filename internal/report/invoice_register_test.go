package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteInvoiceRegister(t *testing.T) {
	issued := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	rows := []RegisterRow{
		{
			InvoiceNumber: "INV-202401-0001", WorkOrderNumber: "WO-20240115-001", CustomerName: "Ana",
			Status: "PENDING", IssuedAt: issued,
			Services: decimal.NewFromInt(50), Subtotal: decimal.NewFromInt(50),
			Tax: decimal.RequireFromString("9"), Total: decimal.RequireFromString("59"),
		},
		{
			InvoiceNumber: "INV-202401-0002", WorkOrderNumber: "WO-20240116-001", CustomerName: "Bruno",
			Status: "PAID", IssuedAt: issued.Add(24 * time.Hour),
			Parts: decimal.NewFromInt(100), Subtotal: decimal.NewFromInt(100),
			Tax: decimal.NewFromInt(18), Total: decimal.NewFromInt(118),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInvoiceRegister(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(registerSheet)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "Invoice", got[0][0])
	assert.Equal(t, "INV-202401-0001", got[1][0])
	assert.Equal(t, "2024-01-15", got[1][4])
	assert.Equal(t, "59", got[1][12])
	assert.Equal(t, "TOTAL", got[3][0])
	assert.Equal(t, "177", got[3][12])
}

func TestWriteInvoiceRegister_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInvoiceRegister(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(registerSheet)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "TOTAL", got[1][0])
}
