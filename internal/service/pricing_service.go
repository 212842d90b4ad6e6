package service

import (
	"context"
	"fmt"

	"garage/internal/model"
	"garage/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Totals is the persisted money snapshot of a work order.
type Totals struct {
	SubtotalServices decimal.Decimal
	SubtotalParts    decimal.Decimal
	Subtotal         decimal.Decimal
	TaxAmount        decimal.Decimal
	DiscountAmount   decimal.Decimal
	TotalAmount      decimal.Decimal
}

// CalculateTotals sums billable service and part lines. Labor is never an
// input. Tax is carried as stored. The discount is capped at the subtotal.
func CalculateTotals(services []model.WorkOrderService, parts []model.WorkOrderPart, tax, discount decimal.Decimal) Totals {
	t := Totals{TaxAmount: tax, DiscountAmount: discount}
	for i := range services {
		if services[i].Billable() {
			t.SubtotalServices = t.SubtotalServices.Add(services[i].Subtotal)
		}
	}
	for i := range parts {
		if parts[i].Billable() {
			t.SubtotalParts = t.SubtotalParts.Add(parts[i].Subtotal)
		}
	}
	t.Subtotal = t.SubtotalServices.Add(t.SubtotalParts)
	if t.DiscountAmount.GreaterThan(t.Subtotal) {
		t.DiscountAmount = t.Subtotal
	}
	t.TotalAmount = t.Subtotal.Add(tax).Sub(t.DiscountAmount)
	return t
}

// DerivePaymentStatus compares what was paid against what is owed.
func DerivePaymentStatus(amountDue, paid decimal.Decimal) string {
	switch {
	case !paid.IsPositive():
		return model.PaymentStatusPending
	case paid.GreaterThanOrEqual(amountDue):
		return model.PaymentStatusPaid
	default:
		return model.PaymentStatusPartiallyPaid
	}
}

func sumPayments(payments []model.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

type PricingService interface {
	RecomputeTotals(ctx context.Context, workOrderID uuid.UUID) (Totals, error)
}

type pricingService struct {
	workOrderRepo repository.WorkOrderRepository
	lineRepo      repository.LineRepository
	paymentRepo   repository.PaymentRepository
	invoiceRepo   repository.InvoiceRepository
	txManager     repository.TransactionManager
}

func NewPricingService(
	workOrderRepo repository.WorkOrderRepository,
	lineRepo repository.LineRepository,
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	txManager repository.TransactionManager,
) PricingService {
	return &pricingService{
		workOrderRepo: workOrderRepo,
		lineRepo:      lineRepo,
		paymentRepo:   paymentRepo,
		invoiceRepo:   invoiceRepo,
		txManager:     txManager,
	}
}

// RecomputeTotals rewrites subtotals, total and payment status from the
// current lines and payments. Callers run it as the last write of their
// transaction; called on its own it opens one.
func (s *pricingService) RecomputeTotals(ctx context.Context, workOrderID uuid.UUID) (Totals, error) {
	var totals Totals
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		wo, err := s.workOrderRepo.FindByIDForUpdate(txCtx, workOrderID)
		if err != nil {
			return notFound(err, "work order")
		}
		services, err := s.lineRepo.ListServices(txCtx, workOrderID)
		if err != nil {
			return fmt.Errorf("failed to load service lines: %w", err)
		}
		parts, err := s.lineRepo.ListParts(txCtx, workOrderID)
		if err != nil {
			return fmt.Errorf("failed to load part lines: %w", err)
		}
		payments, err := s.paymentRepo.ListByWorkOrder(txCtx, workOrderID)
		if err != nil {
			return fmt.Errorf("failed to load payments: %w", err)
		}

		totals = CalculateTotals(services, parts, wo.TaxAmount, wo.DiscountAmount)

		amountDue := totals.TotalAmount
		invoice, err := s.invoiceRepo.FindByWorkOrderID(txCtx, workOrderID)
		switch {
		case err == nil:
			amountDue = invoice.TotalAmount
		case !repository.IsNotFound(err):
			return fmt.Errorf("failed to load invoice: %w", err)
		}

		return s.workOrderRepo.Updates(txCtx, workOrderID, map[string]interface{}{
			"subtotal_services": totals.SubtotalServices,
			"subtotal_parts":    totals.SubtotalParts,
			"subtotal":          totals.Subtotal,
			"discount_amount":   totals.DiscountAmount,
			"total_amount":      totals.TotalAmount,
			"payment_status":    DerivePaymentStatus(amountDue, sumPayments(payments)),
		})
	})
	return totals, err
}
