package service

import (
	"context"
	"fmt"
	"strings"

	"garage/internal/model"
	"garage/internal/notification"
	"garage/internal/repository"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WorkOrderService interface {
	CreateWorkOrder(ctx context.Context, req CreateWorkOrderRequest, actorID *uuid.UUID) (WorkOrderResponse, error)
	GetWorkOrder(ctx context.Context, id uuid.UUID) (WorkOrderResponse, error)
	ListWorkOrders(ctx context.Context, filter WorkOrderListFilter) ([]WorkOrderResponse, int64, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, newStatus, reason string, actorID *uuid.UUID) (WorkOrderResponse, error)
	CancelWorkOrder(ctx context.Context, id uuid.UUID, reason string, actorID *uuid.UUID) (WorkOrderResponse, error)
	UpdateWorkflowStep(ctx context.Context, id uuid.UUID, step string, actorID *uuid.UUID) (WorkOrderResponse, error)
	SetDiscount(ctx context.Context, id uuid.UUID, amount decimal.Decimal, actorID *uuid.UUID) (WorkOrderResponse, error)
}

// WorkflowOptions toggles the optional transition guards.
type WorkflowOptions struct {
	RequireInspection bool
}

type workOrderService struct {
	workOrderRepo repository.WorkOrderRepository
	customerRepo  repository.CustomerRepository
	lineRepo      repository.LineRepository
	invoiceRepo   repository.InvoiceRepository
	auditRepo     repository.AuditRepository
	sequence      SequenceGenerator
	pricing       PricingService
	inspections   InspectionService
	notifier      notification.Notifier
	txManager     repository.TransactionManager
	opts          WorkflowOptions
	now           Clock
	log           *zap.Logger
}

func NewWorkOrderService(
	workOrderRepo repository.WorkOrderRepository,
	customerRepo repository.CustomerRepository,
	lineRepo repository.LineRepository,
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditRepository,
	sequence SequenceGenerator,
	pricing PricingService,
	inspections InspectionService,
	notifier notification.Notifier,
	txManager repository.TransactionManager,
	opts WorkflowOptions,
	now Clock,
	log *zap.Logger,
) WorkOrderService {
	return &workOrderService{
		workOrderRepo: workOrderRepo,
		customerRepo:  customerRepo,
		lineRepo:      lineRepo,
		invoiceRepo:   invoiceRepo,
		auditRepo:     auditRepo,
		sequence:      sequence,
		pricing:       pricing,
		inspections:   inspections,
		notifier:      notifier,
		txManager:     txManager,
		opts:          opts,
		now:           now,
		log:           log,
	}
}

// --- Implementation ---

func (s *workOrderService) CreateWorkOrder(ctx context.Context, req CreateWorkOrderRequest, actorID *uuid.UUID) (WorkOrderResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return WorkOrderResponse{}, apperror.Validation("invalid customer_id")
	}
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return WorkOrderResponse{}, apperror.Validation("invalid vehicle_id")
	}

	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return WorkOrderResponse{}, notFound(err, "customer")
	}
	vehicle, err := s.customerRepo.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return WorkOrderResponse{}, notFound(err, "vehicle")
	}
	if vehicle.CustomerID != customerID {
		return WorkOrderResponse{}, apperror.Validation("vehicle does not belong to customer")
	}

	now := s.now()
	var wo model.WorkOrder
	err = createWithNumber(ctx, s.sequence, ScopeWorkOrder, now, func(number string) error {
		return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			wo = model.WorkOrder{
				WorkOrderNumber: number,
				CustomerID:      customerID,
				VehicleID:       vehicleID,
				Status:          model.StatusPending,
				WorkflowStep:    model.DefaultStep(model.StatusPending),
				PaymentStatus:   model.PaymentStatusPending,
				Notes:           req.Notes,
				PromisedAt:      req.PromisedAt,
				CreatedBy:       actorID,
			}
			if err := s.workOrderRepo.Create(txCtx, &wo); err != nil {
				return fmt.Errorf("failed to create work order: %w", err)
			}
			return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateWorkOrder, "work_order", wo.ID.String(), number, req)
		})
	})
	if err != nil {
		return WorkOrderResponse{}, err
	}
	return s.GetWorkOrder(ctx, wo.ID)
}

func (s *workOrderService) GetWorkOrder(ctx context.Context, id uuid.UUID) (WorkOrderResponse, error) {
	wo, err := s.workOrderRepo.FindDetail(ctx, id)
	if err != nil {
		return WorkOrderResponse{}, notFound(err, "work order")
	}
	return toWorkOrderResponse(*wo), nil
}

func (s *workOrderService) ListWorkOrders(ctx context.Context, filter WorkOrderListFilter) ([]WorkOrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Status != "" && !model.IsKnownStatus(filter.Status) {
		return nil, 0, apperror.Validation("unknown status " + filter.Status)
	}
	customerID, err := parseOptionalUUID(filter.CustomerID, "customer_id")
	if err != nil {
		return nil, 0, err
	}

	orders, total, err := s.workOrderRepo.List(ctx, repository.WorkOrderFilter{
		Status:     filter.Status,
		CustomerID: customerID,
		Search:     filter.Search,
		Offset:     (filter.Page - 1) * filter.Limit,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch work orders: %w", err)
	}

	res := make([]WorkOrderResponse, 0, len(orders))
	for _, wo := range orders {
		res = append(res, toWorkOrderResponse(wo))
	}
	return res, total, nil
}

// TransitionStatus moves the order along the status graph. A transition to
// the current status changes nothing and notifies nobody.
func (s *workOrderService) TransitionStatus(ctx context.Context, id uuid.UUID, newStatus, reason string, actorID *uuid.UUID) (WorkOrderResponse, error) {
	if !model.IsKnownStatus(newStatus) {
		return WorkOrderResponse{}, apperror.Validation("unknown status " + newStatus)
	}

	var oldStatus string
	changed := false
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		wo, err := s.workOrderRepo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return notFound(err, "work order")
		}
		if wo.Status == newStatus {
			return nil
		}
		if !model.CanTransition(wo.Status, newStatus) {
			return apperror.Validation(fmt.Sprintf("cannot move work order from %s to %s", wo.Status, newStatus))
		}
		if err := s.checkGuards(txCtx, wo, newStatus); err != nil {
			return err
		}

		now := s.now()
		fields := map[string]interface{}{
			"status":        newStatus,
			"workflow_step": model.DefaultStep(newStatus),
		}
		switch newStatus {
		case model.StatusInProgress:
			if wo.OpenedAt == nil {
				fields["opened_at"] = now
			}
		case model.StatusCompleted:
			fields["closed_at"] = now
		case model.StatusCancelled:
			fields["closed_at"] = now
			fields["notes"] = appendCancelNote(wo.Notes, now.Format("2006-01-02 15:04:05"), reason)
		}
		if err := s.workOrderRepo.Updates(txCtx, id, fields); err != nil {
			return fmt.Errorf("failed to update work order status: %w", err)
		}

		action := model.ActionChangeStatus
		if newStatus == model.StatusCancelled {
			action = model.ActionCancelWorkOrder
		}
		if err := writeAudit(txCtx, s.auditRepo, actorID, action, "work_order", id.String(), wo.WorkOrderNumber, map[string]string{
			"from":   wo.Status,
			"to":     newStatus,
			"reason": reason,
		}); err != nil {
			return err
		}

		oldStatus = wo.Status
		changed = true
		return nil
	})
	if err != nil {
		return WorkOrderResponse{}, err
	}

	if changed {
		s.notifyStatusChange(ctx, id, oldStatus, newStatus)
	}
	return s.GetWorkOrder(ctx, id)
}

func (s *workOrderService) checkGuards(ctx context.Context, wo *model.WorkOrder, newStatus string) error {
	switch {
	case wo.Status == model.StatusPending && newStatus == model.StatusEstimate:
		if !s.opts.RequireInspection {
			return nil
		}
		readiness, err := s.inspections.CanProceedToEstimate(ctx, wo.ID)
		if err != nil {
			return err
		}
		if !readiness.CanProceed {
			return apperror.Validation("cannot proceed to estimate: " + readiness.Reason)
		}

	case wo.Status == model.StatusEstimate && newStatus == model.StatusAwaitingApproval:
		services, parts, err := s.loadLines(ctx, wo.ID)
		if err != nil {
			return err
		}
		if len(services)+len(parts) == 0 {
			return apperror.Validation("estimate has no service or part lines")
		}

	case wo.Status == model.StatusAwaitingApproval && newStatus == model.StatusInProgress:
		services, parts, err := s.loadLines(ctx, wo.ID)
		if err != nil {
			return err
		}
		if n := countPendingApprovals(services, parts); n > 0 {
			return apperror.Validation(fmt.Sprintf("%d lines are still awaiting customer approval", n))
		}
	}
	return nil
}

func (s *workOrderService) loadLines(ctx context.Context, id uuid.UUID) ([]model.WorkOrderService, []model.WorkOrderPart, error) {
	services, err := s.lineRepo.ListServices(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load service lines: %w", err)
	}
	parts, err := s.lineRepo.ListParts(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load part lines: %w", err)
	}
	return services, parts, nil
}

func appendCancelNote(notes, at, reason string) string {
	line := fmt.Sprintf("[Cancelled %s] %s", at, strings.TrimSpace(reason))
	if strings.TrimSpace(notes) == "" {
		return line
	}
	return notes + "\n" + line
}

// notifyStatusChange runs after commit. Delivery problems are logged only.
func (s *workOrderService) notifyStatusChange(ctx context.Context, id uuid.UUID, oldStatus, newStatus string) {
	wo, err := s.workOrderRepo.FindWithParties(ctx, id)
	if err != nil {
		s.log.Warn("status notification skipped", zap.String("work_order_id", id.String()), zap.Error(err))
		return
	}

	data := map[string]interface{}{
		"work_order_id":     wo.ID.String(),
		"work_order_number": wo.WorkOrderNumber,
		"old_status":        oldStatus,
		"new_status":        newStatus,
		"workflow_step":     wo.WorkflowStep,
	}
	n := notification.Notification{
		EventType: notification.EventWorkOrderStatusChanged,
		Data:      data,
		Channels:  []string{notification.ChannelInApp, notification.ChannelEmail},
		Priority:  notification.PriorityNormal,
	}
	if wo.Customer != nil {
		n.Recipient = notification.Recipient{Email: wo.Customer.Email, Name: wo.Customer.Name, Phone: wo.Customer.Phone}
		data["customer"] = wo.Customer.Name
	}
	if wo.Vehicle != nil {
		data["vehicle"] = wo.Vehicle.Label()
	}
	if newStatus == model.StatusCompleted {
		n.Priority = notification.PriorityHigh
		n.Channels = append(n.Channels, notification.ChannelSMS)
	}

	if err := s.notifier.Send(ctx, n); err != nil {
		s.log.Warn("status notification failed",
			zap.String("work_order_id", id.String()),
			zap.String("new_status", newStatus),
			zap.Error(err))
	}
}

// CancelWorkOrder is a soft delete. The row stays, status becomes CANCELLED.
func (s *workOrderService) CancelWorkOrder(ctx context.Context, id uuid.UUID, reason string, actorID *uuid.UUID) (WorkOrderResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return WorkOrderResponse{}, apperror.Validation("cancellation reason is required")
	}
	return s.TransitionStatus(ctx, id, model.StatusCancelled, reason, actorID)
}

func (s *workOrderService) UpdateWorkflowStep(ctx context.Context, id uuid.UUID, step string, actorID *uuid.UUID) (WorkOrderResponse, error) {
	if !model.IsWorkflowStep(step) {
		return WorkOrderResponse{}, apperror.Validation("unknown workflow step " + step)
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		wo, err := s.workOrderRepo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return notFound(err, "work order")
		}
		if wo.IsTerminal() {
			return apperror.Validation("work order is " + wo.Status)
		}
		if wo.WorkflowStep == step {
			return nil
		}
		if err := s.workOrderRepo.Updates(txCtx, id, map[string]interface{}{"workflow_step": step}); err != nil {
			return fmt.Errorf("failed to update workflow step: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionChangeWorkflowStep, "work_order", id.String(), wo.WorkOrderNumber, map[string]string{
			"from": wo.WorkflowStep,
			"to":   step,
		})
	})
	if err != nil {
		return WorkOrderResponse{}, err
	}
	return s.GetWorkOrder(ctx, id)
}

// SetDiscount stores a staff discount, bounded by the current subtotal.
func (s *workOrderService) SetDiscount(ctx context.Context, id uuid.UUID, amount decimal.Decimal, actorID *uuid.UUID) (WorkOrderResponse, error) {
	if amount.IsNegative() {
		return WorkOrderResponse{}, apperror.Validation("discount must not be negative")
	}
	amount = amount.Round(2)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		wo, err := s.workOrderRepo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return notFound(err, "work order")
		}
		if wo.IsTerminal() {
			return apperror.Validation("work order is " + wo.Status)
		}
		invoiced, err := s.invoiceRepo.ExistsForWorkOrder(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to check invoice: %w", err)
		}
		if invoiced {
			return apperror.Validation("discount cannot change after invoicing")
		}
		if amount.GreaterThan(wo.Subtotal) {
			return apperror.Validation("discount cannot exceed subtotal " + money(wo.Subtotal))
		}

		if err := s.workOrderRepo.Updates(txCtx, id, map[string]interface{}{"discount_amount": amount}); err != nil {
			return fmt.Errorf("failed to set discount: %w", err)
		}
		if err := writeAudit(txCtx, s.auditRepo, actorID, model.ActionSetDiscount, "work_order", id.String(), wo.WorkOrderNumber, map[string]string{
			"from": money(wo.DiscountAmount),
			"to":   money(amount),
		}); err != nil {
			return err
		}
		_, err = s.pricing.RecomputeTotals(txCtx, id)
		return err
	})
	if err != nil {
		return WorkOrderResponse{}, err
	}
	return s.GetWorkOrder(ctx, id)
}
