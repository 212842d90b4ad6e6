package service

import (
	"testing"

	"garage/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateTotals(t *testing.T) {
	services := []model.WorkOrderService{
		{Subtotal: dec("50"), Status: model.LineStatusPending},
		{Subtotal: dec("30"), Status: model.LineStatusCancelled, Approval: model.Approval{CustomerRejected: true}},
		{Subtotal: dec("12.50"), Status: model.LineStatusCompleted, Approval: model.Approval{CustomerApproved: true}},
	}
	parts := []model.WorkOrderPart{
		{Subtotal: dec("20"), Status: model.LineStatusPending},
		{Subtotal: dec("99"), Status: model.LineStatusCancelled},
	}

	got := CalculateTotals(services, parts, dec("9"), dec("2.50"))

	assert.Equal(t, "62.50", money(got.SubtotalServices))
	assert.Equal(t, "20.00", money(got.SubtotalParts))
	assert.Equal(t, "82.50", money(got.Subtotal))
	assert.Equal(t, "89.00", money(got.TotalAmount))
}

func TestCalculateTotals_DiscountCappedAtSubtotal(t *testing.T) {
	services := []model.WorkOrderService{
		{Subtotal: dec("100"), Status: model.LineStatusCancelled, Approval: model.Approval{CustomerRejected: true}},
		{Subtotal: dec("30"), Status: model.LineStatusPending},
	}

	got := CalculateTotals(services, nil, decimal.Zero, dec("80"))

	assert.Equal(t, "30.00", money(got.Subtotal))
	assert.Equal(t, "30.00", money(got.DiscountAmount))
	assert.Equal(t, "0.00", money(got.TotalAmount))
}

func TestRecomputeTotals_RemovingLineClampsDiscount(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)
	big := h.addService(t, wo.ID, "Clutch", "100", 1)
	h.addService(t, wo.ID, "Oil change", "30", 1)

	_, err := h.workOrders.SetDiscount(h.ctx, woID, dec("80"), nil)
	require.NoError(t, err)
	require.NoError(t, h.lines.RemoveService(h.ctx, woID, uuid.MustParse(big.ID)))

	stored := h.reload(t, wo.ID)
	assert.Equal(t, "30.00", money(stored.Subtotal))
	assert.Equal(t, "30.00", money(stored.DiscountAmount))
	assert.Equal(t, "0.00", money(stored.TotalAmount))

	inv, err := h.invoices.CreateInvoice(h.ctx, woID, CreateInvoiceRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "30.00", inv.DiscountAmount)
	assert.False(t, dec(inv.TotalAmount).IsNegative())
}

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		name string
		due  string
		paid string
		want string
	}{
		{"nothing paid", "59", "0", model.PaymentStatusPending},
		{"partial", "59", "20", model.PaymentStatusPartiallyPaid},
		{"exact", "59", "59", model.PaymentStatusPaid},
		{"zero due with payment", "0", "10", model.PaymentStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePaymentStatus(dec(tt.due), dec(tt.paid)))
		})
	}
}

func TestRecomputeTotals_LaborNeverCounts(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	woID := uuid.MustParse(wo.ID)

	_, err := h.lines.AddService(h.ctx, woID, AddServiceLineRequest{
		Description:      "Brake service",
		Quantity:         1,
		UnitPrice:        "50",
		EstimatedMinutes: 30,
	})
	require.NoError(t, err)
	_, err = h.lines.AddLabor(h.ctx, woID, AddLaborRequest{Description: "Diagnostics", EstimatedMinutes: 45})
	require.NoError(t, err)

	totals, err := h.pricing.RecomputeTotals(h.ctx, woID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", money(totals.Subtotal))
	assert.Equal(t, "50.00", money(totals.TotalAmount))

	labor, err := h.lineRepo.ListLabor(h.ctx, woID)
	require.NoError(t, err)
	assert.Len(t, labor, 2)

	stored := h.reload(t, wo.ID)
	assert.Equal(t, "50.00", money(stored.Subtotal))
	assert.Equal(t, model.PaymentStatusPending, stored.PaymentStatus)
}

func TestLaborAmount(t *testing.T) {
	l := model.WorkOrderLabor{EstimatedMinutes: 90, ActualMinutes: 50}
	hours, amount := laborAmount(l, dec("40"))
	assert.Equal(t, "0.83", hours.StringFixed(2))
	assert.Equal(t, "33.33", amount.StringFixed(2))
}
