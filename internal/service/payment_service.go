package service

import (
	"context"
	"fmt"
	"time"

	"garage/internal/model"
	"garage/internal/notification"
	"garage/internal/payments"
	"garage/internal/repository"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type RecordPaymentRequest struct {
	Amount    string     `json:"amount" binding:"required"`
	Method    string     `json:"method" binding:"required,oneof=CASH CARD TRANSFER"`
	Reference string     `json:"reference"`
	PaidAt    *time.Time `json:"paid_at"`
}

type CapturePaymentRequest struct {
	Amount          string `json:"amount" binding:"required"`
	Token           string `json:"token" binding:"required"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
	Installments    int    `json:"installments"`
	PayerEmail      string `json:"payer_email" binding:"required,email"`
}

type PaymentResponse struct {
	ID                string  `json:"id"`
	WorkOrderID       string  `json:"work_order_id"`
	Amount            string  `json:"amount"`
	Method            string  `json:"method"`
	Reference         string  `json:"reference"`
	ProviderPaymentID string  `json:"provider_payment_id,omitempty"`
	ProviderStatus    string  `json:"provider_status,omitempty"`
	RecordedBy        *string `json:"recorded_by"`
	PaidAt            string  `json:"paid_at"`
}

type PaymentSummaryResponse struct {
	WorkOrderID   string            `json:"work_order_id"`
	AmountDue     string            `json:"amount_due"`
	AmountPaid    string            `json:"amount_paid"`
	Balance       string            `json:"balance"`
	PaymentStatus string            `json:"payment_status"`
	Payments      []PaymentResponse `json:"payments"`
}

// --- Interface ---

type PaymentService interface {
	RecordPayment(ctx context.Context, workOrderID uuid.UUID, req RecordPaymentRequest, actorID *uuid.UUID) (PaymentResponse, error)
	CapturePayment(ctx context.Context, workOrderID uuid.UUID, req CapturePaymentRequest, actorID *uuid.UUID) (PaymentResponse, error)
	ListPayments(ctx context.Context, workOrderID uuid.UUID) (PaymentSummaryResponse, error)
}

type paymentService struct {
	paymentRepo   repository.PaymentRepository
	workOrderRepo repository.WorkOrderRepository
	invoiceRepo   repository.InvoiceRepository
	customerRepo  repository.CustomerRepository
	auditRepo     repository.AuditRepository
	pricing       PricingService
	gateway       payments.Gateway
	notifier      notification.Notifier
	txManager     repository.TransactionManager
	now           Clock
	log           *zap.Logger
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	workOrderRepo repository.WorkOrderRepository,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditRepository,
	pricing PricingService,
	gateway payments.Gateway,
	notifier notification.Notifier,
	txManager repository.TransactionManager,
	now Clock,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo:   paymentRepo,
		workOrderRepo: workOrderRepo,
		invoiceRepo:   invoiceRepo,
		customerRepo:  customerRepo,
		auditRepo:     auditRepo,
		pricing:       pricing,
		gateway:       gateway,
		notifier:      notifier,
		txManager:     txManager,
		now:           now,
		log:           log,
	}
}

// --- Implementation ---

// amountDue is the invoice total once invoiced, the running work-order total
// before that.
func (s *paymentService) amountDue(ctx context.Context, wo *model.WorkOrder) (decimal.Decimal, *model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByWorkOrderID(ctx, wo.ID)
	switch {
	case err == nil:
		return invoice.TotalAmount, invoice, nil
	case repository.IsNotFound(err):
		return wo.TotalAmount, nil, nil
	default:
		return decimal.Zero, nil, fmt.Errorf("failed to load invoice: %w", err)
	}
}

// outstanding returns what is still owed on the order.
func (s *paymentService) outstanding(ctx context.Context, wo *model.WorkOrder) (decimal.Decimal, error) {
	due, _, err := s.amountDue(ctx, wo)
	if err != nil {
		return decimal.Zero, err
	}
	existing, err := s.paymentRepo.ListByWorkOrder(ctx, wo.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load payments: %w", err)
	}
	return due.Sub(sumPayments(existing)), nil
}

func parsePaymentAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.Validation("invalid amount")
	}
	if !amount.IsPositive() {
		return decimal.Zero, apperror.Validation("amount must be greater than zero")
	}
	return amount.Round(2), nil
}

func (s *paymentService) RecordPayment(ctx context.Context, workOrderID uuid.UUID, req RecordPaymentRequest, actorID *uuid.UUID) (PaymentResponse, error) {
	amount, err := parsePaymentAmount(req.Amount)
	if err != nil {
		return PaymentResponse{}, err
	}
	payment := model.Payment{
		WorkOrderID: workOrderID,
		Amount:      amount,
		Method:      req.Method,
		Reference:   req.Reference,
		RecordedBy:  actorID,
		PaidAt:      s.now(),
	}
	if req.PaidAt != nil {
		payment.PaidAt = req.PaidAt.UTC()
	}
	return s.record(ctx, &payment, actorID)
}

// CapturePayment charges the card first and records the payment only when
// the provider approves it.
func (s *paymentService) CapturePayment(ctx context.Context, workOrderID uuid.UUID, req CapturePaymentRequest, actorID *uuid.UUID) (PaymentResponse, error) {
	if s.gateway == nil {
		return PaymentResponse{}, payments.ErrGatewayNotConfigured
	}
	amount, err := parsePaymentAmount(req.Amount)
	if err != nil {
		return PaymentResponse{}, err
	}

	wo, err := s.workOrderRepo.FindByID(ctx, workOrderID)
	if err != nil {
		return PaymentResponse{}, notFound(err, "work order")
	}
	if wo.Status == model.StatusCancelled {
		return PaymentResponse{}, apperror.Validation("a cancelled work order cannot take payments")
	}
	balance, err := s.outstanding(ctx, wo)
	if err != nil {
		return PaymentResponse{}, err
	}
	if amount.GreaterThan(balance) {
		return PaymentResponse{}, apperror.Validation("amount exceeds the outstanding balance of " + money(balance))
	}

	result, err := s.gateway.Charge(ctx, payments.ChargeRequest{
		Amount:            amount,
		Token:             req.Token,
		PaymentMethodID:   req.PaymentMethodID,
		Installments:      req.Installments,
		PayerEmail:        req.PayerEmail,
		Description:       "Work order " + wo.WorkOrderNumber,
		ExternalReference: wo.WorkOrderNumber,
	})
	if err != nil {
		return PaymentResponse{}, err
	}
	if !result.Approved() {
		return PaymentResponse{}, apperror.Validation(fmt.Sprintf("payment was not approved: %s (%s)", result.Status, result.StatusDetail))
	}

	payment := model.Payment{
		WorkOrderID:       workOrderID,
		Amount:            amount,
		Method:            model.PaymentMethodMercadoPago,
		Reference:         req.PaymentMethodID,
		ProviderPaymentID: result.ProviderPaymentID,
		ProviderStatus:    result.Status,
		RecordedBy:        actorID,
		PaidAt:            s.now(),
	}
	resp, err := s.record(ctx, &payment, actorID)
	if err != nil {
		// the charge went through; keep enough to reconcile by hand
		s.log.Error("approved charge not recorded",
			zap.String("work_order_id", workOrderID.String()),
			zap.String("provider_payment_id", result.ProviderPaymentID),
			zap.Error(err))
	}
	return resp, err
}

func (s *paymentService) record(ctx context.Context, payment *model.Payment, actorID *uuid.UUID) (PaymentResponse, error) {
	var wo *model.WorkOrder
	var paidInFull bool

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		wo, err = s.workOrderRepo.FindByIDForUpdate(txCtx, payment.WorkOrderID)
		if err != nil {
			return notFound(err, "work order")
		}
		if wo.Status == model.StatusCancelled {
			return apperror.Validation("a cancelled work order cannot take payments")
		}

		due, invoice, err := s.amountDue(txCtx, wo)
		if err != nil {
			return err
		}
		existing, err := s.paymentRepo.ListByWorkOrder(txCtx, wo.ID)
		if err != nil {
			return fmt.Errorf("failed to load payments: %w", err)
		}
		balance := due.Sub(sumPayments(existing))
		if payment.Amount.GreaterThan(balance) {
			return apperror.Validation("amount exceeds the outstanding balance of " + money(balance))
		}

		if err := s.paymentRepo.Create(txCtx, payment); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		if _, err := s.pricing.RecomputeTotals(txCtx, wo.ID); err != nil {
			return err
		}

		paidInFull = payment.Amount.Equal(balance)
		if paidInFull && invoice != nil && invoice.Status != model.InvoicePaid {
			if err := s.invoiceRepo.Updates(txCtx, invoice.ID, map[string]interface{}{
				"status":  model.InvoicePaid,
				"paid_at": payment.PaidAt,
			}); err != nil {
				return fmt.Errorf("failed to mark invoice paid: %w", err)
			}
		}

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionRecordPayment, "work_order", wo.ID.String(), wo.WorkOrderNumber, map[string]string{
			"payment_id": payment.ID.String(),
			"amount":     money(payment.Amount),
			"method":     payment.Method,
		})
	})
	if err != nil {
		return PaymentResponse{}, err
	}

	s.notifyPayment(ctx, wo, *payment, paidInFull)
	return toPaymentResponse(*payment), nil
}

func (s *paymentService) notifyPayment(ctx context.Context, wo *model.WorkOrder, payment model.Payment, paidInFull bool) {
	n := notification.Notification{
		EventType: notification.EventPaymentReceived,
		Channels:  []string{notification.ChannelInApp, notification.ChannelEmail},
		Priority:  notification.PriorityNormal,
		Data: map[string]interface{}{
			"work_order_id":     wo.ID.String(),
			"work_order_number": wo.WorkOrderNumber,
			"payment_id":        payment.ID.String(),
			"amount":            money(payment.Amount),
			"paid_in_full":      paidInFull,
		},
	}
	if customer, err := s.customerRepo.FindByID(ctx, wo.CustomerID); err == nil {
		n.Recipient = notification.Recipient{Email: customer.Email, Name: customer.Name, Phone: customer.Phone}
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		s.log.Warn("payment notification failed", zap.String("payment_id", payment.ID.String()), zap.Error(err))
	}
}

func (s *paymentService) ListPayments(ctx context.Context, workOrderID uuid.UUID) (PaymentSummaryResponse, error) {
	wo, err := s.workOrderRepo.FindByID(ctx, workOrderID)
	if err != nil {
		return PaymentSummaryResponse{}, notFound(err, "work order")
	}
	due, _, err := s.amountDue(ctx, wo)
	if err != nil {
		return PaymentSummaryResponse{}, err
	}
	list, err := s.paymentRepo.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return PaymentSummaryResponse{}, fmt.Errorf("failed to load payments: %w", err)
	}

	paid := sumPayments(list)
	resp := PaymentSummaryResponse{
		WorkOrderID:   workOrderID.String(),
		AmountDue:     money(due),
		AmountPaid:    money(paid),
		Balance:       money(due.Sub(paid)),
		PaymentStatus: wo.PaymentStatus,
		Payments:      make([]PaymentResponse, 0, len(list)),
	}
	for _, p := range list {
		resp.Payments = append(resp.Payments, toPaymentResponse(p))
	}
	return resp, nil
}

// --- Mapping ---

func toPaymentResponse(p model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID.String(),
		WorkOrderID:       p.WorkOrderID.String(),
		Amount:            money(p.Amount),
		Method:            p.Method,
		Reference:         p.Reference,
		ProviderPaymentID: p.ProviderPaymentID,
		ProviderStatus:    p.ProviderStatus,
		RecordedBy:        uuidString(p.RecordedBy),
		PaidAt:            formatTime(p.PaidAt),
	}
}
