package service

import (
	"testing"
	"time"

	"garage/internal/model"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodKey(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)
	tests := []struct {
		groupBy string
		want    string
	}{
		{"week", "2026-10-12"},
		{"month", "2026-10"},
		{"quarter", "2026-Q4"},
		{"year", "2026"},
		{"fortnight", "2026-10"},
	}
	for _, tt := range tests {
		t.Run(tt.groupBy, func(t *testing.T) {
			assert.Equal(t, tt.want, periodKey(sunday, tt.groupBy))
		})
	}
	assert.Equal(t, "2026-10-12", periodKey(time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), "week"))
}

func TestBucketRevenue(t *testing.T) {
	inv := func(issued string, status, services, labor, tax, total string) model.Invoice {
		at, err := time.Parse("2006-01-02", issued)
		require.NoError(t, err)
		return model.Invoice{
			Status:           status,
			IssuedAt:         at,
			SubtotalServices: dec(services),
			SubtotalLabor:    dec(labor),
			TaxAmount:        dec(tax),
			TotalAmount:      dec(total),
		}
	}
	invoices := []model.Invoice{
		inv("2026-09-30", model.InvoicePaid, "100", "0", "18", "118"),
		inv("2026-08-02", model.InvoicePending, "50", "25", "0", "75"),
		inv("2026-09-01", model.InvoiceSent, "10", "0", "1", "11"),
		inv("2026-09-15", model.InvoiceCancelled, "999", "0", "0", "999"),
	}

	got := bucketRevenue(invoices, "month")
	require.Len(t, got, 2)
	assert.Equal(t, "2026-08", got[0].Period)
	assert.Equal(t, "25.00", got[0].Labor)
	assert.Equal(t, "2026-09", got[1].Period)
	assert.Equal(t, 2, got[1].InvoiceCount)
	assert.Equal(t, "110.00", got[1].Services)
	assert.Equal(t, "19.00", got[1].TaxCollected)
	assert.Equal(t, "129.00", got[1].TotalRevenue)

	assert.Len(t, bucketRevenue(invoices, "year"), 1)
	assert.Empty(t, bucketRevenue(nil, "month"))
}

func TestGetRevenueStatistics(t *testing.T) {
	h := defaultHarness(t)
	stats := NewStatisticsService(h.db, h.invoiceRepo)

	wo := h.newWorkOrder(t)
	h.addService(t, wo.ID, "Alignment", "100", 1)
	_, err := h.invoices.CreateInvoice(h.ctx, uuid.MustParse(wo.ID), CreateInvoiceRequest{}, nil)
	require.NoError(t, err)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	points, err := stats.GetRevenueStatistics(h.ctx, RevenueFilter{GroupBy: "month", StartDate: start, EndDate: start.AddDate(0, 1, 0)})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "2026-10", points[0].Period)
	assert.Equal(t, "118.00", points[0].TotalRevenue)

	_, err = stats.GetRevenueStatistics(h.ctx, RevenueFilter{StartDate: start, EndDate: start})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
