package service

import (
	"context"
	"fmt"
	"strings"

	"garage/internal/model"
	"garage/internal/repository"
	"garage/pkg/apperror"

	"github.com/google/uuid"
)

// --- DTOs ---

type TemplateItemRequest struct {
	Label        string `json:"label" binding:"required"`
	Category     string `json:"category"`
	Required     bool   `json:"required"`
	NotesAllowed bool   `json:"notes_allowed"`
}

type TemplateRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	IsActive    *bool                 `json:"is_active"`
	Items       []TemplateItemRequest `json:"items" binding:"dive"`
}

type CreateInspectionRequest struct {
	TemplateID string `json:"template_id"`
	Name       string `json:"name"`
	Notes      string `json:"notes"`
}

type ChecklistItemRequest struct {
	Label            string `json:"label" binding:"required"`
	Status           string `json:"status"`
	RequiresFollowUp *bool  `json:"requires_follow_up"`
	Notes            string `json:"notes"`
}

type UpdateChecklistItemRequest struct {
	Label            *string `json:"label"`
	Status           *string `json:"status"`
	RequiresFollowUp *bool   `json:"requires_follow_up"`
	Notes            *string `json:"notes"`
}

type TemplateItemResponse struct {
	ID           string `json:"id"`
	Position     int    `json:"position"`
	Label        string `json:"label"`
	Category     string `json:"category"`
	Required     bool   `json:"required"`
	NotesAllowed bool   `json:"notes_allowed"`
}

type TemplateResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	IsActive    bool                   `json:"is_active"`
	Items       []TemplateItemResponse `json:"items"`
}

type ChecklistItemResponse struct {
	ID               string `json:"id"`
	InspectionID     string `json:"inspection_id"`
	Position         int    `json:"position"`
	Label            string `json:"label"`
	Status           string `json:"status"`
	RequiresFollowUp bool   `json:"requires_follow_up"`
	Notes            string `json:"notes"`
}

type InspectionResponse struct {
	ID          string                  `json:"id"`
	WorkOrderID string                  `json:"work_order_id"`
	TemplateID  *string                 `json:"template_id"`
	Name        string                  `json:"name"`
	InspectorID *string                 `json:"inspector_id"`
	IsCompleted bool                    `json:"is_completed"`
	CompletedAt *string                 `json:"completed_at"`
	Notes       string                  `json:"notes"`
	Items       []ChecklistItemResponse `json:"items"`
}

type InspectionStatus struct {
	TotalInspections     int  `json:"total_inspections"`
	CompletedInspections int  `json:"completed_inspections"`
	PendingInspections   int  `json:"pending_inspections"`
	AllCompleted         bool `json:"all_completed"`
}

type FollowUpItem struct {
	InspectionID string `json:"inspection_id"`
	ItemID       string `json:"item_id"`
	Label        string `json:"label"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

type EstimateReadiness struct {
	CanProceed    bool           `json:"can_proceed"`
	Reason        string         `json:"reason"`
	FollowUpItems []FollowUpItem `json:"follow_up_items"`
}

// --- Interface ---

type InspectionService interface {
	GetInspectionStatus(ctx context.Context, workOrderID uuid.UUID) (InspectionStatus, error)
	CanProceedToEstimate(ctx context.Context, workOrderID uuid.UUID) (EstimateReadiness, error)

	CreateTemplate(ctx context.Context, req TemplateRequest) (TemplateResponse, error)
	ListTemplates(ctx context.Context, activeOnly bool) ([]TemplateResponse, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (TemplateResponse, error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, req TemplateRequest) (TemplateResponse, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error

	CreateInspection(ctx context.Context, workOrderID uuid.UUID, req CreateInspectionRequest, inspectorID *uuid.UUID) (InspectionResponse, error)
	ListInspections(ctx context.Context, workOrderID uuid.UUID) ([]InspectionResponse, error)
	GetInspection(ctx context.Context, id uuid.UUID) (InspectionResponse, error)
	CompleteInspection(ctx context.Context, id uuid.UUID, inspectorID *uuid.UUID) (InspectionResponse, error)

	AddItem(ctx context.Context, inspectionID uuid.UUID, req ChecklistItemRequest) (ChecklistItemResponse, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, req UpdateChecklistItemRequest) (ChecklistItemResponse, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

type inspectionService struct {
	inspectionRepo repository.InspectionRepository
	workOrderRepo  repository.WorkOrderRepository
	txManager      repository.TransactionManager
	now            Clock
}

func NewInspectionService(
	inspectionRepo repository.InspectionRepository,
	workOrderRepo repository.WorkOrderRepository,
	txManager repository.TransactionManager,
	now Clock,
) InspectionService {
	return &inspectionService{
		inspectionRepo: inspectionRepo,
		workOrderRepo:  workOrderRepo,
		txManager:      txManager,
		now:            now,
	}
}

// --- Gate ---

func summarizeInspections(inspections []model.WorkOrderInspection) InspectionStatus {
	st := InspectionStatus{TotalInspections: len(inspections)}
	for _, in := range inspections {
		if in.IsCompleted {
			st.CompletedInspections++
		}
	}
	st.PendingInspections = st.TotalInspections - st.CompletedInspections
	st.AllCompleted = st.TotalInspections > 0 && st.PendingInspections == 0
	return st
}

// evaluateEstimateReadiness applies the gate: every inspection complete and
// no checklist item flagged for follow-up.
func evaluateEstimateReadiness(inspections []model.WorkOrderInspection) EstimateReadiness {
	st := summarizeInspections(inspections)
	out := EstimateReadiness{FollowUpItems: []FollowUpItem{}}

	if !st.AllCompleted {
		if st.TotalInspections == 0 {
			out.Reason = "no inspections recorded for this work order"
		} else {
			out.Reason = fmt.Sprintf("%d of %d inspections pending", st.PendingInspections, st.TotalInspections)
		}
		return out
	}

	for _, in := range inspections {
		for _, item := range in.Items {
			if item.RequiresFollowUp {
				out.FollowUpItems = append(out.FollowUpItems, FollowUpItem{
					InspectionID: in.ID.String(),
					ItemID:       item.ID.String(),
					Label:        item.Label,
					Status:       item.Status,
					Notes:        item.Notes,
				})
			}
		}
	}
	if len(out.FollowUpItems) > 0 {
		labels := make([]string, 0, len(out.FollowUpItems))
		for _, f := range out.FollowUpItems {
			labels = append(labels, f.Label)
		}
		out.Reason = fmt.Sprintf("%d checklist items require follow-up: %s", len(labels), strings.Join(labels, ", "))
		return out
	}

	out.CanProceed = true
	out.Reason = "all inspections completed"
	return out
}

func (s *inspectionService) GetInspectionStatus(ctx context.Context, workOrderID uuid.UUID) (InspectionStatus, error) {
	inspections, err := s.inspectionRepo.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return InspectionStatus{}, fmt.Errorf("failed to load inspections: %w", err)
	}
	return summarizeInspections(inspections), nil
}

func (s *inspectionService) CanProceedToEstimate(ctx context.Context, workOrderID uuid.UUID) (EstimateReadiness, error) {
	inspections, err := s.inspectionRepo.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return EstimateReadiness{}, fmt.Errorf("failed to load inspections: %w", err)
	}
	return evaluateEstimateReadiness(inspections), nil
}

// --- Templates ---

func buildTemplateItems(reqs []TemplateItemRequest) []model.InspectionTemplateItem {
	items := make([]model.InspectionTemplateItem, 0, len(reqs))
	for i, r := range reqs {
		items = append(items, model.InspectionTemplateItem{
			Position:     i + 1,
			Label:        r.Label,
			Category:     r.Category,
			Required:     r.Required,
			NotesAllowed: r.NotesAllowed,
		})
	}
	return items
}

func (s *inspectionService) CreateTemplate(ctx context.Context, req TemplateRequest) (TemplateResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return TemplateResponse{}, apperror.Validation("template name is required")
	}
	tpl := model.InspectionTemplate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
		Items:       buildTemplateItems(req.Items),
	}
	if err := s.inspectionRepo.CreateTemplate(ctx, &tpl); err != nil {
		if repository.IsUniqueViolation(err) {
			return TemplateResponse{}, apperror.Conflict("a template named " + req.Name + " already exists")
		}
		return TemplateResponse{}, fmt.Errorf("failed to create template: %w", err)
	}
	return toTemplateResponse(tpl), nil
}

func (s *inspectionService) ListTemplates(ctx context.Context, activeOnly bool) ([]TemplateResponse, error) {
	templates, err := s.inspectionRepo.ListTemplates(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch templates: %w", err)
	}
	res := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		res = append(res, toTemplateResponse(t))
	}
	return res, nil
}

func (s *inspectionService) GetTemplate(ctx context.Context, id uuid.UUID) (TemplateResponse, error) {
	tpl, err := s.inspectionRepo.FindTemplateByID(ctx, id)
	if err != nil {
		return TemplateResponse{}, notFound(err, "inspection template")
	}
	return toTemplateResponse(*tpl), nil
}

// UpdateTemplate replaces the template's fields and its whole item list.
// Inspections already created from it keep their own copies.
func (s *inspectionService) UpdateTemplate(ctx context.Context, id uuid.UUID, req TemplateRequest) (TemplateResponse, error) {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		tpl, err := s.inspectionRepo.FindTemplateByID(txCtx, id)
		if err != nil {
			return notFound(err, "inspection template")
		}
		tpl.Name = req.Name
		tpl.Description = req.Description
		if req.IsActive != nil {
			tpl.IsActive = *req.IsActive
		}
		if err := s.inspectionRepo.UpdateTemplate(txCtx, tpl); err != nil {
			if repository.IsUniqueViolation(err) {
				return apperror.Conflict("a template named " + req.Name + " already exists")
			}
			return fmt.Errorf("failed to update template: %w", err)
		}
		if err := s.inspectionRepo.ReplaceTemplateItems(txCtx, id, buildTemplateItems(req.Items)); err != nil {
			return fmt.Errorf("failed to replace template items: %w", err)
		}
		return nil
	})
	if err != nil {
		return TemplateResponse{}, err
	}
	return s.GetTemplate(ctx, id)
}

func (s *inspectionService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.inspectionRepo.FindTemplateByID(txCtx, id); err != nil {
			return notFound(err, "inspection template")
		}
		if err := s.inspectionRepo.DeleteTemplate(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}
		return nil
	})
}

// --- Inspections ---

func (s *inspectionService) CreateInspection(ctx context.Context, workOrderID uuid.UUID, req CreateInspectionRequest, inspectorID *uuid.UUID) (InspectionResponse, error) {
	templateID, err := parseOptionalUUID(req.TemplateID, "template_id")
	if err != nil {
		return InspectionResponse{}, err
	}

	var inspection model.WorkOrderInspection
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		wo, err := s.workOrderRepo.FindByIDForUpdate(txCtx, workOrderID)
		if err != nil {
			return notFound(err, "work order")
		}
		if wo.IsTerminal() {
			return apperror.Validation("work order is " + wo.Status)
		}

		inspection = model.WorkOrderInspection{
			WorkOrderID: workOrderID,
			TemplateID:  templateID,
			Name:        req.Name,
			InspectorID: inspectorID,
			Notes:       req.Notes,
		}
		if templateID != nil {
			tpl, err := s.inspectionRepo.FindTemplateByID(txCtx, *templateID)
			if err != nil {
				return notFound(err, "inspection template")
			}
			if !tpl.IsActive {
				return apperror.Validation("inspection template is inactive")
			}
			if inspection.Name == "" {
				inspection.Name = tpl.Name
			}
			for _, ti := range tpl.Items {
				inspection.Items = append(inspection.Items, model.InspectionChecklistItem{
					Position: ti.Position,
					Label:    ti.Label,
					Status:   model.CheckGreen,
				})
			}
		}
		if inspection.Name == "" {
			return apperror.Validation("name is required for an inspection without template")
		}

		if err := s.inspectionRepo.CreateInspection(txCtx, &inspection); err != nil {
			return fmt.Errorf("failed to create inspection: %w", err)
		}
		if wo.Status == model.StatusPending && wo.WorkflowStep != model.StepInspection {
			if err := s.workOrderRepo.Updates(txCtx, workOrderID, map[string]interface{}{
				"workflow_step": model.StepInspection,
			}); err != nil {
				return fmt.Errorf("failed to update workflow step: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return InspectionResponse{}, err
	}
	return s.GetInspection(ctx, inspection.ID)
}

func (s *inspectionService) ListInspections(ctx context.Context, workOrderID uuid.UUID) ([]InspectionResponse, error) {
	inspections, err := s.inspectionRepo.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inspections: %w", err)
	}
	res := make([]InspectionResponse, 0, len(inspections))
	for _, in := range inspections {
		res = append(res, toInspectionResponse(in))
	}
	return res, nil
}

func (s *inspectionService) GetInspection(ctx context.Context, id uuid.UUID) (InspectionResponse, error) {
	inspection, err := s.inspectionRepo.FindInspectionByID(ctx, id)
	if err != nil {
		return InspectionResponse{}, notFound(err, "inspection")
	}
	return toInspectionResponse(*inspection), nil
}

func (s *inspectionService) CompleteInspection(ctx context.Context, id uuid.UUID, inspectorID *uuid.UUID) (InspectionResponse, error) {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		inspection, err := s.lockInspection(txCtx, id)
		if err != nil {
			return err
		}
		if inspection.IsCompleted {
			return nil
		}
		fields := map[string]interface{}{
			"is_completed": true,
			"completed_at": s.now(),
		}
		if inspectorID != nil {
			fields["inspector_id"] = *inspectorID
		}
		if err := s.inspectionRepo.UpdateInspection(txCtx, id, fields); err != nil {
			return fmt.Errorf("failed to complete inspection: %w", err)
		}
		return nil
	})
	if err != nil {
		return InspectionResponse{}, err
	}
	return s.GetInspection(ctx, id)
}

// --- Checklist items ---

// followUpDefault flags RED items for follow-up unless the caller decided.
func followUpDefault(status string, explicit *bool) bool {
	if explicit != nil {
		return *explicit
	}
	return status == model.CheckRed
}

func (s *inspectionService) AddItem(ctx context.Context, inspectionID uuid.UUID, req ChecklistItemRequest) (ChecklistItemResponse, error) {
	status := req.Status
	if status == "" {
		status = model.CheckGreen
	}
	if !model.IsCheckStatus(status) {
		return ChecklistItemResponse{}, apperror.Validation("status must be GREEN, YELLOW or RED")
	}

	var item model.InspectionChecklistItem
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.lockInspection(txCtx, inspectionID); err != nil {
			return err
		}
		pos, err := s.inspectionRepo.NextItemPosition(txCtx, inspectionID)
		if err != nil {
			return fmt.Errorf("failed to compute item position: %w", err)
		}
		item = model.InspectionChecklistItem{
			InspectionID:     inspectionID,
			Position:         pos,
			Label:            req.Label,
			Status:           status,
			RequiresFollowUp: followUpDefault(status, req.RequiresFollowUp),
			Notes:            req.Notes,
		}
		if err := s.inspectionRepo.CreateItem(txCtx, &item); err != nil {
			return fmt.Errorf("failed to create checklist item: %w", err)
		}
		return nil
	})
	if err != nil {
		return ChecklistItemResponse{}, err
	}
	return toChecklistItemResponse(item), nil
}

func (s *inspectionService) UpdateItem(ctx context.Context, itemID uuid.UUID, req UpdateChecklistItemRequest) (ChecklistItemResponse, error) {
	if req.Status != nil && !model.IsCheckStatus(*req.Status) {
		return ChecklistItemResponse{}, apperror.Validation("status must be GREEN, YELLOW or RED")
	}

	var item *model.InspectionChecklistItem
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if item, err = s.lockItem(txCtx, itemID); err != nil {
			return err
		}

		if req.Label != nil {
			item.Label = *req.Label
		}
		if req.Notes != nil {
			item.Notes = *req.Notes
		}
		if req.Status != nil {
			item.Status = *req.Status
			item.RequiresFollowUp = followUpDefault(item.Status, req.RequiresFollowUp)
		} else if req.RequiresFollowUp != nil {
			item.RequiresFollowUp = *req.RequiresFollowUp
		}

		if err := s.inspectionRepo.SaveItem(txCtx, item); err != nil {
			return fmt.Errorf("failed to update checklist item: %w", err)
		}
		return nil
	})
	if err != nil {
		return ChecklistItemResponse{}, err
	}
	return toChecklistItemResponse(*item), nil
}

func (s *inspectionService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.lockItem(txCtx, itemID); err != nil {
			return err
		}
		if err := s.inspectionRepo.DeleteItem(txCtx, itemID); err != nil {
			return fmt.Errorf("failed to delete checklist item: %w", err)
		}
		return nil
	})
}

// lockInspection loads the inspection and row-locks its work order. Closed
// work orders keep their inspections as recorded.
func (s *inspectionService) lockInspection(txCtx context.Context, inspectionID uuid.UUID) (*model.WorkOrderInspection, error) {
	inspection, err := s.inspectionRepo.FindInspectionByID(txCtx, inspectionID)
	if err != nil {
		return nil, notFound(err, "inspection")
	}
	wo, err := s.workOrderRepo.FindByIDForUpdate(txCtx, inspection.WorkOrderID)
	if err != nil {
		return nil, notFound(err, "work order")
	}
	if wo.IsTerminal() {
		return nil, apperror.Validation("work order is " + wo.Status)
	}
	return inspection, nil
}

func (s *inspectionService) lockItem(txCtx context.Context, itemID uuid.UUID) (*model.InspectionChecklistItem, error) {
	item, err := s.inspectionRepo.FindItemByID(txCtx, itemID)
	if err != nil {
		return nil, notFound(err, "checklist item")
	}
	if _, err := s.lockInspection(txCtx, item.InspectionID); err != nil {
		return nil, err
	}
	return item, nil
}

// --- Mapping ---

func toTemplateResponse(t model.InspectionTemplate) TemplateResponse {
	resp := TemplateResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		IsActive:    t.IsActive,
		Items:       make([]TemplateItemResponse, 0, len(t.Items)),
	}
	for _, i := range t.Items {
		resp.Items = append(resp.Items, TemplateItemResponse{
			ID:           i.ID.String(),
			Position:     i.Position,
			Label:        i.Label,
			Category:     i.Category,
			Required:     i.Required,
			NotesAllowed: i.NotesAllowed,
		})
	}
	return resp
}

func toChecklistItemResponse(i model.InspectionChecklistItem) ChecklistItemResponse {
	return ChecklistItemResponse{
		ID:               i.ID.String(),
		InspectionID:     i.InspectionID.String(),
		Position:         i.Position,
		Label:            i.Label,
		Status:           i.Status,
		RequiresFollowUp: i.RequiresFollowUp,
		Notes:            i.Notes,
	}
}

func toInspectionResponse(in model.WorkOrderInspection) InspectionResponse {
	resp := InspectionResponse{
		ID:          in.ID.String(),
		WorkOrderID: in.WorkOrderID.String(),
		TemplateID:  uuidString(in.TemplateID),
		Name:        in.Name,
		InspectorID: uuidString(in.InspectorID),
		IsCompleted: in.IsCompleted,
		CompletedAt: formatTimePtr(in.CompletedAt),
		Notes:       in.Notes,
		Items:       make([]ChecklistItemResponse, 0, len(in.Items)),
	}
	for _, i := range in.Items {
		resp.Items = append(resp.Items, toChecklistItemResponse(i))
	}
	return resp
}
