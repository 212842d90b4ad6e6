package service

import (
	"context"
	"fmt"

	"garage/internal/model"
	"garage/internal/repository"
	"garage/pkg/apperror"

	"github.com/google/uuid"
)

// --- DTOs ---

type ApproveLineRequest struct {
	Notes string `json:"notes"`
}

type RejectLineRequest struct {
	Reason string `json:"reason"`
}

type PendingApprovalsResponse struct {
	WorkOrderID string                `json:"work_order_id"`
	Services    []ServiceLineResponse `json:"services"`
	Parts       []PartLineResponse    `json:"parts"`
}

// --- Interface ---

// ApprovalService records the customer's decision on quoted lines. The
// actor is always a customer and must own the work order.
//
//go:generate mockgen -destination=mocks/mock_approval_service.go -package=mocks garage/internal/service ActorResolver,ApprovalService
type ApprovalService interface {
	ApproveService(ctx context.Context, lineID, customerID uuid.UUID, notes string) (ServiceLineResponse, error)
	RejectService(ctx context.Context, lineID, customerID uuid.UUID, reason string) (ServiceLineResponse, error)
	ApprovePart(ctx context.Context, lineID, customerID uuid.UUID, notes string) (PartLineResponse, error)
	RejectPart(ctx context.Context, lineID, customerID uuid.UUID, reason string) (PartLineResponse, error)
	GetPendingApprovals(ctx context.Context, workOrderID, customerID uuid.UUID) (PendingApprovalsResponse, error)
}

type approvalService struct {
	workOrderRepo repository.WorkOrderRepository
	lineRepo      repository.LineRepository
	auditRepo     repository.AuditRepository
	pricing       PricingService
	txManager     repository.TransactionManager
	now           Clock
}

func NewApprovalService(
	workOrderRepo repository.WorkOrderRepository,
	lineRepo repository.LineRepository,
	auditRepo repository.AuditRepository,
	pricing PricingService,
	txManager repository.TransactionManager,
	now Clock,
) ApprovalService {
	return &approvalService{
		workOrderRepo: workOrderRepo,
		lineRepo:      lineRepo,
		auditRepo:     auditRepo,
		pricing:       pricing,
		txManager:     txManager,
		now:           now,
	}
}

// --- Implementation ---

func (s *approvalService) ApproveService(ctx context.Context, lineID, customerID uuid.UUID, notes string) (ServiceLineResponse, error) {
	return s.decideService(ctx, lineID, customerID, true, notes)
}

func (s *approvalService) RejectService(ctx context.Context, lineID, customerID uuid.UUID, reason string) (ServiceLineResponse, error) {
	return s.decideService(ctx, lineID, customerID, false, reason)
}

func (s *approvalService) ApprovePart(ctx context.Context, lineID, customerID uuid.UUID, notes string) (PartLineResponse, error) {
	return s.decidePart(ctx, lineID, customerID, true, notes)
}

func (s *approvalService) RejectPart(ctx context.Context, lineID, customerID uuid.UUID, reason string) (PartLineResponse, error) {
	return s.decidePart(ctx, lineID, customerID, false, reason)
}

func (s *approvalService) decideService(ctx context.Context, lineID, customerID uuid.UUID, approve bool, text string) (ServiceLineResponse, error) {
	var result model.WorkOrderService
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		line, err := s.lineRepo.FindServiceByID(txCtx, lineID)
		if err != nil {
			return notFound(err, "service line")
		}
		if _, err := s.lockForDecision(txCtx, line.WorkOrderID, customerID); err != nil {
			return err
		}
		// Re-read under the work order lock.
		line, err = s.lineRepo.FindServiceByID(txCtx, lineID)
		if err != nil {
			return notFound(err, "service line")
		}

		if (approve && line.CustomerApproved) || (!approve && line.CustomerRejected) {
			result = *line
			return nil
		}

		action := model.ActionRejectLine
		if approve {
			line.Approve(s.now(), text)
			action = model.ActionApproveLine
		} else {
			line.Reject(s.now(), text)
		}
		if err := s.lineRepo.SaveService(txCtx, line); err != nil {
			return fmt.Errorf("failed to save service line: %w", err)
		}
		if err := writeAudit(txCtx, s.auditRepo, &customerID, action, "work_order_service", line.ID.String(), line.Description, map[string]string{
			"work_order_id": line.WorkOrderID.String(),
			"text":          text,
		}); err != nil {
			return err
		}
		if _, err := s.pricing.RecomputeTotals(txCtx, line.WorkOrderID); err != nil {
			return err
		}
		result = *line
		return nil
	})
	if err != nil {
		return ServiceLineResponse{}, err
	}
	return toServiceLineResponse(result), nil
}

func (s *approvalService) decidePart(ctx context.Context, lineID, customerID uuid.UUID, approve bool, text string) (PartLineResponse, error) {
	var result model.WorkOrderPart
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		line, err := s.lineRepo.FindPartByID(txCtx, lineID)
		if err != nil {
			return notFound(err, "part line")
		}
		if _, err := s.lockForDecision(txCtx, line.WorkOrderID, customerID); err != nil {
			return err
		}
		line, err = s.lineRepo.FindPartByID(txCtx, lineID)
		if err != nil {
			return notFound(err, "part line")
		}

		if (approve && line.CustomerApproved) || (!approve && line.CustomerRejected) {
			result = *line
			return nil
		}
		if !approve && line.Status == model.LineStatusInstalled {
			return apperror.Validation("an installed part cannot be rejected")
		}

		action := model.ActionRejectLine
		if approve {
			line.Approve(s.now(), text)
			action = model.ActionApproveLine
		} else {
			line.Reject(s.now(), text)
		}
		if err := s.lineRepo.SavePart(txCtx, line); err != nil {
			return fmt.Errorf("failed to save part line: %w", err)
		}
		if err := writeAudit(txCtx, s.auditRepo, &customerID, action, "work_order_part", line.ID.String(), line.Description, map[string]string{
			"work_order_id": line.WorkOrderID.String(),
			"text":          text,
		}); err != nil {
			return err
		}
		if _, err := s.pricing.RecomputeTotals(txCtx, line.WorkOrderID); err != nil {
			return err
		}
		result = *line
		return nil
	})
	if err != nil {
		return PartLineResponse{}, err
	}
	return toPartLineResponse(result), nil
}

// lockForDecision locks the parent work order and checks the customer owns it.
func (s *approvalService) lockForDecision(ctx context.Context, workOrderID, customerID uuid.UUID) (*model.WorkOrder, error) {
	wo, err := s.workOrderRepo.FindByIDForUpdate(ctx, workOrderID)
	if err != nil {
		return nil, notFound(err, "work order")
	}
	if wo.CustomerID != customerID {
		return nil, apperror.Unauthorized("work order does not belong to this customer")
	}
	if wo.IsTerminal() {
		return nil, apperror.Validation("work order is " + wo.Status)
	}
	return wo, nil
}

func (s *approvalService) GetPendingApprovals(ctx context.Context, workOrderID, customerID uuid.UUID) (PendingApprovalsResponse, error) {
	wo, err := s.workOrderRepo.FindByID(ctx, workOrderID)
	if err != nil {
		return PendingApprovalsResponse{}, notFound(err, "work order")
	}
	if wo.CustomerID != customerID {
		return PendingApprovalsResponse{}, apperror.Unauthorized("work order does not belong to this customer")
	}

	services, err := s.lineRepo.ListServices(ctx, workOrderID)
	if err != nil {
		return PendingApprovalsResponse{}, fmt.Errorf("failed to load service lines: %w", err)
	}
	parts, err := s.lineRepo.ListParts(ctx, workOrderID)
	if err != nil {
		return PendingApprovalsResponse{}, fmt.Errorf("failed to load part lines: %w", err)
	}

	resp := PendingApprovalsResponse{
		WorkOrderID: workOrderID.String(),
		Services:    []ServiceLineResponse{},
		Parts:       []PartLineResponse{},
	}
	for _, line := range services {
		if line.AwaitingDecision() && line.Status != model.LineStatusCancelled {
			resp.Services = append(resp.Services, toServiceLineResponse(line))
		}
	}
	for _, line := range parts {
		if line.AwaitingDecision() && line.Status != model.LineStatusCancelled {
			resp.Parts = append(resp.Parts, toPartLineResponse(line))
		}
	}
	return resp, nil
}

// countPendingApprovals is the guard used before work starts.
func countPendingApprovals(services []model.WorkOrderService, parts []model.WorkOrderPart) int {
	n := 0
	for _, line := range services {
		if line.AwaitingDecision() && line.Status != model.LineStatusCancelled {
			n++
		}
	}
	for _, line := range parts {
		if line.AwaitingDecision() && line.Status != model.LineStatusCancelled {
			n++
		}
	}
	return n
}
