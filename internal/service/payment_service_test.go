package service

import (
	"context"
	"testing"

	"garage/internal/model"
	"garage/internal/payments"
	"garage/internal/repository"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type gatewayFunc func(ctx context.Context, req payments.ChargeRequest) (payments.ChargeResult, error)

func (f gatewayFunc) Charge(ctx context.Context, req payments.ChargeRequest) (payments.ChargeResult, error) {
	return f(ctx, req)
}

func invoicedWorkOrder(t *testing.T, h *harness, price string) (WorkOrderResponse, InvoiceResponse) {
	t.Helper()
	wo := h.newWorkOrder(t)
	h.addService(t, wo.ID, "Timing belt", price, 1)
	inv, err := h.invoices.CreateInvoice(h.ctx, uuid.MustParse(wo.ID), CreateInvoiceRequest{}, nil)
	require.NoError(t, err)
	return wo, inv
}

func TestRecordPayment_PartialThenFull(t *testing.T) {
	h := defaultHarness(t)
	wo, inv := invoicedWorkOrder(t, h, "100") // 118.00 with tax
	woID := uuid.MustParse(wo.ID)

	_, err := h.payments.RecordPayment(h.ctx, woID, RecordPaymentRequest{Amount: "18", Method: model.PaymentMethodCash}, nil)
	require.NoError(t, err)

	summary, err := h.payments.ListPayments(h.ctx, woID)
	require.NoError(t, err)
	assert.Equal(t, "118.00", summary.AmountDue)
	assert.Equal(t, "18.00", summary.AmountPaid)
	assert.Equal(t, "100.00", summary.Balance)
	assert.Equal(t, model.PaymentStatusPartiallyPaid, summary.PaymentStatus)

	got, err := h.invoices.GetInvoice(h.ctx, uuid.MustParse(inv.ID))
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePending, got.Status)

	_, err = h.payments.RecordPayment(h.ctx, woID, RecordPaymentRequest{Amount: "100", Method: model.PaymentMethodCard, Reference: "POS-991"}, nil)
	require.NoError(t, err)

	summary, err = h.payments.ListPayments(h.ctx, woID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", summary.Balance)
	assert.Equal(t, model.PaymentStatusPaid, summary.PaymentStatus)
	assert.Len(t, summary.Payments, 2)

	got, err = h.invoices.GetInvoice(h.ctx, uuid.MustParse(inv.ID))
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePaid, got.Status)
	assert.NotNil(t, got.PaidAt)
	assert.Equal(t, model.PaymentStatusPaid, h.reload(t, wo.ID).PaymentStatus)
}

func TestRecordPayment_Rejections(t *testing.T) {
	h := defaultHarness(t)
	wo, _ := invoicedWorkOrder(t, h, "50")
	woID := uuid.MustParse(wo.ID)

	tests := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"negative", "-5"},
		{"garbage", "ten"},
		{"over balance", "59.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.payments.RecordPayment(h.ctx, woID, RecordPaymentRequest{Amount: tt.amount, Method: model.PaymentMethodCash}, nil)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	_, err := h.payments.RecordPayment(h.ctx, uuid.New(), RecordPaymentRequest{Amount: "1", Method: model.PaymentMethodCash}, nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	summary, err := h.payments.ListPayments(h.ctx, woID)
	require.NoError(t, err)
	assert.Empty(t, summary.Payments)
	assert.Equal(t, model.PaymentStatusPending, summary.PaymentStatus)
}

func TestRecordPayment_BeforeInvoiceUsesRunningTotal(t *testing.T) {
	h := defaultHarness(t)
	wo := h.newWorkOrder(t)
	h.addService(t, wo.ID, "Deposit job", "200", 1)

	_, err := h.payments.RecordPayment(h.ctx, uuid.MustParse(wo.ID), RecordPaymentRequest{Amount: "50", Method: model.PaymentMethodTransfer}, nil)
	require.NoError(t, err)

	summary, err := h.payments.ListPayments(h.ctx, uuid.MustParse(wo.ID))
	require.NoError(t, err)
	assert.Equal(t, "200.00", summary.AmountDue)
	assert.Equal(t, "150.00", summary.Balance)
}

func TestCapturePayment(t *testing.T) {
	h := defaultHarness(t)
	wo, inv := invoicedWorkOrder(t, h, "50")
	woID := uuid.MustParse(wo.ID)

	var charged payments.ChargeRequest
	approve := gatewayFunc(func(_ context.Context, req payments.ChargeRequest) (payments.ChargeResult, error) {
		charged = req
		return payments.ChargeResult{ProviderPaymentID: "mp-1", Status: payments.StatusApproved}, nil
	})
	svc := NewPaymentService(h.paymentRepo, h.workOrderRepo, h.invoiceRepo, h.customerRepo, h.auditRepo,
		h.pricing, approve, h.notifier, repository.NewTransactionManager(h.db), fixedClock, zap.NewNop())

	_, err := svc.CapturePayment(h.ctx, woID, CapturePaymentRequest{Amount: "100", Token: "tok"}, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation, "balance is checked before charging")
	assert.Empty(t, charged.Token)

	p, err := svc.CapturePayment(h.ctx, woID, CapturePaymentRequest{Amount: "59", Token: "tok", PaymentMethodID: "visa"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentMethodMercadoPago, p.Method)
	assert.Equal(t, "mp-1", p.ProviderPaymentID)
	assert.Equal(t, wo.WorkOrderNumber, charged.ExternalReference)

	got, err := h.invoices.GetInvoice(h.ctx, uuid.MustParse(inv.ID))
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePaid, got.Status)
}

func TestCapturePayment_Declined(t *testing.T) {
	h := defaultHarness(t)
	wo, _ := invoicedWorkOrder(t, h, "50")

	decline := gatewayFunc(func(context.Context, payments.ChargeRequest) (payments.ChargeResult, error) {
		return payments.ChargeResult{Status: "rejected", StatusDetail: "cc_rejected_insufficient_amount"}, nil
	})
	svc := NewPaymentService(h.paymentRepo, h.workOrderRepo, h.invoiceRepo, h.customerRepo, h.auditRepo,
		h.pricing, decline, h.notifier, repository.NewTransactionManager(h.db), fixedClock, zap.NewNop())

	_, err := svc.CapturePayment(h.ctx, uuid.MustParse(wo.ID), CapturePaymentRequest{Amount: "59", Token: "tok"}, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	summary, err := h.payments.ListPayments(h.ctx, uuid.MustParse(wo.ID))
	require.NoError(t, err)
	assert.Empty(t, summary.Payments)

	_, err = h.payments.CapturePayment(h.ctx, uuid.MustParse(wo.ID), CapturePaymentRequest{Amount: "1"}, nil)
	assert.ErrorIs(t, err, payments.ErrGatewayNotConfigured)
}
