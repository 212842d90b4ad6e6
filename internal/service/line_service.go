package service

import (
	"context"
	"fmt"
	"strings"

	"garage/internal/model"
	"garage/internal/repository"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type AddServiceLineRequest struct {
	CatalogServiceID string `json:"catalog_service_id"`
	Description      string `json:"description"`
	Quantity         int    `json:"quantity" binding:"required,min=1"`
	UnitPrice        string `json:"unit_price"`
	EstimatedMinutes int    `json:"estimated_minutes" binding:"min=0"`
	TechnicianID     string `json:"technician_id"`
}

type UpdateServiceLineRequest struct {
	Description *string `json:"description"`
	Quantity    *int    `json:"quantity"`
	UnitPrice   *string `json:"unit_price"`
	Status      *string `json:"status"`
}

type AddPartLineRequest struct {
	PartID    string `json:"part_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	UnitPrice string `json:"unit_price"`
}

type AddLaborRequest struct {
	ServiceLineID    string `json:"service_line_id"`
	TechnicianID     string `json:"technician_id"`
	Description      string `json:"description"`
	EstimatedMinutes int    `json:"estimated_minutes" binding:"min=0"`
}

type UpdateLaborRequest struct {
	TechnicianID     *string `json:"technician_id"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	ActualMinutes    *int    `json:"actual_minutes"`
	Status           *string `json:"status"`
}

// --- Interface ---

// LineService edits the service, part and labor lines of a work order.
// Every call locks the work order and ends with a totals recompute.
type LineService interface {
	AddService(ctx context.Context, workOrderID uuid.UUID, req AddServiceLineRequest) (ServiceLineResponse, error)
	UpdateService(ctx context.Context, workOrderID, lineID uuid.UUID, req UpdateServiceLineRequest) (ServiceLineResponse, error)
	RemoveService(ctx context.Context, workOrderID, lineID uuid.UUID) error

	AddPart(ctx context.Context, workOrderID uuid.UUID, req AddPartLineRequest) (PartLineResponse, error)
	RemovePart(ctx context.Context, workOrderID, lineID uuid.UUID) error
	InstallPart(ctx context.Context, workOrderID, lineID uuid.UUID, technicianID *uuid.UUID) (PartLineResponse, error)

	AddLabor(ctx context.Context, workOrderID uuid.UUID, req AddLaborRequest) (LaborResponse, error)
	UpdateLabor(ctx context.Context, workOrderID, laborID uuid.UUID, req UpdateLaborRequest) (LaborResponse, error)
	RemoveLabor(ctx context.Context, workOrderID, laborID uuid.UUID) error
}

type lineService struct {
	workOrderRepo repository.WorkOrderRepository
	lineRepo      repository.LineRepository
	catalogRepo   repository.CatalogRepository
	invoiceRepo   repository.InvoiceRepository
	auditRepo     repository.AuditRepository
	pricing       PricingService
	txManager     repository.TransactionManager
	now           Clock
}

func NewLineService(
	workOrderRepo repository.WorkOrderRepository,
	lineRepo repository.LineRepository,
	catalogRepo repository.CatalogRepository,
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditRepository,
	pricing PricingService,
	txManager repository.TransactionManager,
	now Clock,
) LineService {
	return &lineService{
		workOrderRepo: workOrderRepo,
		lineRepo:      lineRepo,
		catalogRepo:   catalogRepo,
		invoiceRepo:   invoiceRepo,
		auditRepo:     auditRepo,
		pricing:       pricing,
		txManager:     txManager,
		now:           now,
	}
}

// lockEditable locks the work order and refuses edits once it is closed or invoiced.
func (s *lineService) lockEditable(ctx context.Context, workOrderID uuid.UUID) (*model.WorkOrder, error) {
	wo, err := s.workOrderRepo.FindByIDForUpdate(ctx, workOrderID)
	if err != nil {
		return nil, notFound(err, "work order")
	}
	if wo.IsTerminal() {
		return nil, apperror.Validation("work order is " + wo.Status)
	}
	invoiced, err := s.invoiceRepo.ExistsForWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check invoice: %w", err)
	}
	if invoiced {
		return nil, apperror.Validation("work order is already invoiced")
	}
	return wo, nil
}

// edit runs fn under the work order lock and recomputes totals afterwards.
func (s *lineService) edit(ctx context.Context, workOrderID uuid.UUID, fn func(txCtx context.Context, wo *model.WorkOrder) error) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		wo, err := s.lockEditable(txCtx, workOrderID)
		if err != nil {
			return err
		}
		if err := fn(txCtx, wo); err != nil {
			return err
		}
		_, err = s.pricing.RecomputeTotals(txCtx, workOrderID)
		return err
	})
}

// --- Services ---

func (s *lineService) AddService(ctx context.Context, workOrderID uuid.UUID, req AddServiceLineRequest) (ServiceLineResponse, error) {
	catalogID, err := parseOptionalUUID(req.CatalogServiceID, "catalog_service_id")
	if err != nil {
		return ServiceLineResponse{}, err
	}
	technicianID, err := parseOptionalUUID(req.TechnicianID, "technician_id")
	if err != nil {
		return ServiceLineResponse{}, err
	}
	if req.Quantity < 1 {
		return ServiceLineResponse{}, apperror.Validation("quantity must be at least 1")
	}

	line := model.WorkOrderService{
		WorkOrderID: workOrderID,
		ServiceID:   catalogID,
		Description: req.Description,
		Quantity:    req.Quantity,
		Status:      model.LineStatusPending,
	}
	estimated := req.EstimatedMinutes

	err = s.edit(ctx, workOrderID, func(txCtx context.Context, _ *model.WorkOrder) error {
		if catalogID != nil {
			svc, err := s.catalogRepo.FindServiceByID(txCtx, *catalogID)
			if err != nil {
				return notFound(err, "catalog service")
			}
			if !svc.IsActive {
				return apperror.Validation("catalog service " + svc.Code + " is inactive")
			}
			if line.Description == "" {
				line.Description = svc.Name
			}
			line.UnitPrice = svc.BasePrice
			if estimated == 0 {
				estimated = svc.EstimatedMinutes
			}
		}
		if req.UnitPrice != "" {
			price, err := parseMoney(req.UnitPrice, "unit_price")
			if err != nil {
				return err
			}
			line.UnitPrice = price
		} else if catalogID == nil {
			return apperror.Validation("unit_price is required without a catalog service")
		}
		if strings.TrimSpace(line.Description) == "" {
			return apperror.Validation("description is required")
		}
		line.Reprice()

		if err := s.lineRepo.CreateService(txCtx, &line); err != nil {
			return fmt.Errorf("failed to create service line: %w", err)
		}
		if estimated > 0 || technicianID != nil {
			labor := model.WorkOrderLabor{
				WorkOrderID:      workOrderID,
				ServiceLineID:    &line.ID,
				TechnicianID:     technicianID,
				Description:      line.Description,
				EstimatedMinutes: estimated,
				Status:           model.LineStatusPending,
			}
			if err := s.lineRepo.CreateLabor(txCtx, &labor); err != nil {
				return fmt.Errorf("failed to create labor line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return ServiceLineResponse{}, err
	}
	return toServiceLineResponse(line), nil
}

func (s *lineService) findService(ctx context.Context, workOrderID, lineID uuid.UUID) (*model.WorkOrderService, error) {
	line, err := s.lineRepo.FindServiceByID(ctx, lineID)
	if err != nil {
		return nil, notFound(err, "service line")
	}
	if line.WorkOrderID != workOrderID {
		return nil, apperror.NotFound("service line not found")
	}
	return line, nil
}

func (s *lineService) UpdateService(ctx context.Context, workOrderID, lineID uuid.UUID, req UpdateServiceLineRequest) (ServiceLineResponse, error) {
	var line *model.WorkOrderService
	err := s.edit(ctx, workOrderID, func(txCtx context.Context, _ *model.WorkOrder) error {
		var err error
		line, err = s.findService(txCtx, workOrderID, lineID)
		if err != nil {
			return err
		}

		if req.Quantity != nil || req.UnitPrice != nil {
			if line.CustomerApproved {
				return apperror.Validation("price and quantity are locked once the customer approved the line")
			}
			if req.Quantity != nil {
				if *req.Quantity < 1 {
					return apperror.Validation("quantity must be at least 1")
				}
				line.Quantity = *req.Quantity
			}
			if req.UnitPrice != nil {
				price, err := parseMoney(*req.UnitPrice, "unit_price")
				if err != nil {
					return err
				}
				line.UnitPrice = price
			}
			line.Reprice()
		}
		if req.Description != nil {
			line.Description = *req.Description
		}
		if req.Status != nil {
			switch *req.Status {
			case model.LineStatusPending, model.LineStatusInProgress, model.LineStatusCompleted, model.LineStatusCancelled:
				line.Status = *req.Status
			default:
				return apperror.Validation("invalid service status " + *req.Status)
			}
		}

		if err := s.lineRepo.SaveService(txCtx, line); err != nil {
			return fmt.Errorf("failed to update service line: %w", err)
		}
		return nil
	})
	if err != nil {
		return ServiceLineResponse{}, err
	}
	return toServiceLineResponse(*line), nil
}

// RemoveService deletes the line and the labor attached to it.
func (s *lineService) RemoveService(ctx context.Context, workOrderID, lineID uuid.UUID) error {
	return s.edit(ctx, workOrderID, func(txCtx context.Context, _ *model.WorkOrder) error {
		if _, err := s.findService(txCtx, workOrderID, lineID); err != nil {
			return err
		}
		if err := s.lineRepo.DeleteLaborByServiceLine(txCtx, lineID); err != nil {
			return fmt.Errorf("failed to delete labor lines: %w", err)
		}
		if err := s.lineRepo.DeleteService(txCtx, lineID); err != nil {
			return fmt.Errorf("failed to delete service line: %w", err)
		}
		return nil
	})
}

// --- Parts ---

func (s *lineService) AddPart(ctx context.Context, workOrderID uuid.UUID, req AddPartLineRequest) (PartLineResponse, error) {
	partID, err := uuid.Parse(req.PartID)
	if err != nil {
		return PartLineResponse{}, apperror.Validation("invalid part_id")
	}
	if req.Quantity < 1 {
		return PartLineResponse{}, apperror.Validation("quantity must be at least 1")
	}

	var line model.WorkOrderPart
	err = s.edit(ctx, workOrderID, func(txCtx context.Context, _ *model.WorkOrder) error {
		part, err := s.catalogRepo.FindPartByID(txCtx, partID)
		if err != nil {
			return notFound(err, "part")
		}
		line = model.WorkOrderPart{
			WorkOrderID: workOrderID,
			PartID:      partID,
			Description: part.Name,
			Quantity:    req.Quantity,
			UnitPrice:   part.UnitPrice,
			Status:      model.LineStatusPending,
		}
		if req.UnitPrice != "" {
			price, err := parseMoney(req.UnitPrice, "unit_price")
			if err != nil {
				return err
			}
			line.UnitPrice = price
		}
		line.Reprice()
		if err := s.lineRepo.CreatePart(txCtx, &line); err != nil {
			return fmt.Errorf("failed to create part line: %w", err)
		}
		return nil
	})
	if err != nil {
		return PartLineResponse{}, err
	}
	return toPartLineResponse(line), nil
}

func (s *lineService) findPart(ctx context.Context, workOrderID, lineID uuid.UUID) (*model.WorkOrderPart, error) {
	line, err := s.lineRepo.FindPartByID(ctx, lineID)
	if err != nil {
		return nil, notFound(err, "part line")
	}
	if line.WorkOrderID != workOrderID {
		return nil, apperror.NotFound("part line not found")
	}
	return line, nil
}

func (s *lineService) RemovePart(ctx context.Context, workOrderID, lineID uuid.UUID) error {
	return s.edit(ctx, workOrderID, func(txCtx context.Context, _ *model.WorkOrder) error {
		line, err := s.findPart(txCtx, workOrderID, lineID)
		if err != nil {
			return err
		}
		if line.Status == model.LineStatusInstalled {
			return apperror.Validation("an installed part cannot be removed")
		}
		if err := s.lineRepo.DeletePart(txCtx, lineID); err != nil {
			return fmt.Errorf("failed to delete part line: %w", err)
		}
		return nil
	})
}

// InstallPart takes the stock out of inventory and marks the line installed.
func (s *lineService) InstallPart(ctx context.Context, workOrderID, lineID uuid.UUID, technicianID *uuid.UUID) (PartLineResponse, error) {
	var line *model.WorkOrderPart
	err := s.edit(ctx, workOrderID, func(txCtx context.Context, wo *model.WorkOrder) error {
		var err error
		line, err = s.findPart(txCtx, workOrderID, lineID)
		if err != nil {
			return err
		}
		if line.Status == model.LineStatusInstalled {
			return apperror.Conflict("part is already installed")
		}
		if !line.Billable() {
			return apperror.Validation("a rejected or cancelled part cannot be installed")
		}
		if !line.CustomerApproved {
			return apperror.Validation("part must be approved by the customer before install")
		}

		part, err := s.catalogRepo.FindPartByIDForUpdate(txCtx, line.PartID)
		if err != nil {
			return notFound(err, "part")
		}
		if part.CurrentStock < line.Quantity {
			return apperror.Validation(fmt.Sprintf("insufficient stock for %s: have %d, need %d", part.SKU, part.CurrentStock, line.Quantity))
		}
		stockAfter := part.CurrentStock - line.Quantity
		if err := s.catalogRepo.UpdateStock(txCtx, part.ID, stockAfter); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		if err := s.catalogRepo.CreateMovement(txCtx, &model.InventoryTransaction{
			PartID:          part.ID,
			WorkOrderID:     &workOrderID,
			TransactionType: model.StockMovementOut,
			QuantityChanged: line.Quantity,
			StockAfter:      stockAfter,
			Note:            "installed on " + wo.WorkOrderNumber,
		}); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}

		now := s.now()
		line.Status = model.LineStatusInstalled
		line.InstalledByID = technicianID
		line.InstalledAt = &now
		if err := s.lineRepo.SavePart(txCtx, line); err != nil {
			return fmt.Errorf("failed to update part line: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, technicianID, model.ActionInstallPart, "work_order_part", line.ID.String(), line.Description, map[string]interface{}{
			"work_order_id": workOrderID.String(),
			"quantity":      line.Quantity,
			"stock_after":   stockAfter,
		})
	})
	if err != nil {
		return PartLineResponse{}, err
	}
	return toPartLineResponse(*line), nil
}

// --- Labor ---

func isLaborStatus(s string) bool {
	switch s {
	case model.LineStatusPending, model.LineStatusInProgress, model.LineStatusCompleted, model.LineStatusCancelled:
		return true
	}
	return false
}

func (s *lineService) AddLabor(ctx context.Context, workOrderID uuid.UUID, req AddLaborRequest) (LaborResponse, error) {
	serviceLineID, err := parseOptionalUUID(req.ServiceLineID, "service_line_id")
	if err != nil {
		return LaborResponse{}, err
	}
	technicianID, err := parseOptionalUUID(req.TechnicianID, "technician_id")
	if err != nil {
		return LaborResponse{}, err
	}
	if req.EstimatedMinutes < 0 {
		return LaborResponse{}, apperror.Validation("estimated_minutes must not be negative")
	}

	labor := model.WorkOrderLabor{
		WorkOrderID:      workOrderID,
		ServiceLineID:    serviceLineID,
		TechnicianID:     technicianID,
		Description:      req.Description,
		EstimatedMinutes: req.EstimatedMinutes,
		Status:           model.LineStatusPending,
	}
	err = s.edit(ctx, workOrderID, func(txCtx context.Context, _ *model.WorkOrder) error {
		if serviceLineID != nil {
			if _, err := s.findService(txCtx, workOrderID, *serviceLineID); err != nil {
				return err
			}
		} else if strings.TrimSpace(labor.Description) == "" {
			return apperror.Validation("description is required for standalone labor")
		}
		if err := s.lineRepo.CreateLabor(txCtx, &labor); err != nil {
			return fmt.Errorf("failed to create labor line: %w", err)
		}
		return nil
	})
	if err != nil {
		return LaborResponse{}, err
	}
	return toLaborResponse(labor), nil
}

func (s *lineService) findLabor(ctx context.Context, workOrderID, laborID uuid.UUID) (*model.WorkOrderLabor, error) {
	labor, err := s.lineRepo.FindLaborByID(ctx, laborID)
	if err != nil {
		return nil, notFound(err, "labor line")
	}
	if labor.WorkOrderID != workOrderID {
		return nil, apperror.NotFound("labor line not found")
	}
	return labor, nil
}

func (s *lineService) UpdateLabor(ctx context.Context, workOrderID, laborID uuid.UUID, req UpdateLaborRequest) (LaborResponse, error) {
	var labor *model.WorkOrderLabor
	err := s.edit(ctx, workOrderID, func(txCtx context.Context, _ *model.WorkOrder) error {
		var err error
		labor, err = s.findLabor(txCtx, workOrderID, laborID)
		if err != nil {
			return err
		}
		if req.TechnicianID != nil {
			id, err := parseOptionalUUID(*req.TechnicianID, "technician_id")
			if err != nil {
				return err
			}
			labor.TechnicianID = id
		}
		if req.EstimatedMinutes != nil {
			if *req.EstimatedMinutes < 0 {
				return apperror.Validation("estimated_minutes must not be negative")
			}
			labor.EstimatedMinutes = *req.EstimatedMinutes
		}
		if req.ActualMinutes != nil {
			if *req.ActualMinutes < 0 {
				return apperror.Validation("actual_minutes must not be negative")
			}
			labor.ActualMinutes = *req.ActualMinutes
		}
		if req.Status != nil {
			if !isLaborStatus(*req.Status) {
				return apperror.Validation("invalid labor status " + *req.Status)
			}
			now := s.now()
			labor.Status = *req.Status
			if labor.Status == model.LineStatusInProgress && labor.StartedAt == nil {
				labor.StartedAt = &now
			}
			if labor.Status == model.LineStatusCompleted {
				labor.CompletedAt = &now
			}
		}
		if err := s.lineRepo.SaveLabor(txCtx, labor); err != nil {
			return fmt.Errorf("failed to update labor line: %w", err)
		}
		return nil
	})
	if err != nil {
		return LaborResponse{}, err
	}
	return toLaborResponse(*labor), nil
}

func (s *lineService) RemoveLabor(ctx context.Context, workOrderID, laborID uuid.UUID) error {
	return s.edit(ctx, workOrderID, func(txCtx context.Context, _ *model.WorkOrder) error {
		if _, err := s.findLabor(txCtx, workOrderID, laborID); err != nil {
			return err
		}
		if err := s.lineRepo.DeleteLabor(txCtx, laborID); err != nil {
			return fmt.Errorf("failed to delete labor line: %w", err)
		}
		return nil
	})
}

// laborAmount prices standalone labor at an hourly rate.
func laborAmount(l model.WorkOrderLabor, hourlyRate decimal.Decimal) (hours, amount decimal.Decimal) {
	minutes := decimal.NewFromInt(int64(l.BillableMinutes()))
	sixty := decimal.NewFromInt(60)
	hours = minutes.Div(sixty).Round(2)
	amount = minutes.Mul(hourlyRate).Div(sixty).Round(2)
	return hours, amount
}
