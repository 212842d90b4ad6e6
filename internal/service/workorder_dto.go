package service

import (
	"time"

	"garage/internal/model"
)

// --- Requests ---

type CreateWorkOrderRequest struct {
	CustomerID string     `json:"customer_id" binding:"required,uuid"`
	VehicleID  string     `json:"vehicle_id" binding:"required,uuid"`
	Notes      string     `json:"notes"`
	PromisedAt *time.Time `json:"promised_at"`
}

type TransitionStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type CancelWorkOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type UpdateWorkflowStepRequest struct {
	Step string `json:"step" binding:"required"`
}

type SetDiscountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type WorkOrderListFilter struct {
	Status     string
	CustomerID string
	Search     string
	Page       int
	Limit      int
}

// --- Responses ---

type WorkOrderResponse struct {
	ID               string                `json:"id"`
	WorkOrderNumber  string                `json:"work_order_number"`
	Status           string                `json:"status"`
	WorkflowStep     string                `json:"workflow_step"`
	CustomerID       string                `json:"customer_id"`
	CustomerName     string                `json:"customer_name,omitempty"`
	VehicleID        string                `json:"vehicle_id"`
	Vehicle          string                `json:"vehicle,omitempty"`
	SubtotalServices string                `json:"subtotal_services"`
	SubtotalParts    string                `json:"subtotal_parts"`
	Subtotal         string                `json:"subtotal"`
	TaxAmount        string                `json:"tax_amount"`
	DiscountAmount   string                `json:"discount_amount"`
	TotalAmount      string                `json:"total_amount"`
	PaymentStatus    string                `json:"payment_status"`
	Notes            string                `json:"notes"`
	OpenedAt         *string               `json:"opened_at"`
	PromisedAt       *string               `json:"promised_at"`
	ClosedAt         *string               `json:"closed_at"`
	CreatedAt        string                `json:"created_at"`
	Services         []ServiceLineResponse `json:"services,omitempty"`
	Parts            []PartLineResponse    `json:"parts,omitempty"`
	Labor            []LaborResponse       `json:"labor,omitempty"`
}

type ServiceLineResponse struct {
	ID               string  `json:"id"`
	WorkOrderID      string  `json:"work_order_id"`
	ServiceID        *string `json:"service_id"`
	Description      string  `json:"description"`
	Quantity         int     `json:"quantity"`
	UnitPrice        string  `json:"unit_price"`
	Subtotal         string  `json:"subtotal"`
	Status           string  `json:"status"`
	CustomerApproved bool    `json:"customer_approved"`
	CustomerRejected bool    `json:"customer_rejected"`
	ApprovedAt       *string `json:"approved_at"`
	RejectedAt       *string `json:"rejected_at"`
	ApprovalNotes    string  `json:"approval_notes,omitempty"`
	RejectionReason  string  `json:"rejection_reason,omitempty"`
}

type PartLineResponse struct {
	ID               string  `json:"id"`
	WorkOrderID      string  `json:"work_order_id"`
	PartID           string  `json:"part_id"`
	Description      string  `json:"description"`
	Quantity         int     `json:"quantity"`
	UnitPrice        string  `json:"unit_price"`
	Subtotal         string  `json:"subtotal"`
	Status           string  `json:"status"`
	CustomerApproved bool    `json:"customer_approved"`
	CustomerRejected bool    `json:"customer_rejected"`
	ApprovedAt       *string `json:"approved_at"`
	RejectedAt       *string `json:"rejected_at"`
	ApprovalNotes    string  `json:"approval_notes,omitempty"`
	RejectionReason  string  `json:"rejection_reason,omitempty"`
	InstalledByID    *string `json:"installed_by_id"`
	InstalledAt      *string `json:"installed_at"`
}

type LaborResponse struct {
	ID               string  `json:"id"`
	WorkOrderID      string  `json:"work_order_id"`
	ServiceLineID    *string `json:"service_line_id"`
	TechnicianID     *string `json:"technician_id"`
	Description      string  `json:"description"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	ActualMinutes    int     `json:"actual_minutes"`
	Status           string  `json:"status"`
	StartedAt        *string `json:"started_at"`
	CompletedAt      *string `json:"completed_at"`
}

// --- Mapping ---

func toWorkOrderResponse(wo model.WorkOrder) WorkOrderResponse {
	resp := WorkOrderResponse{
		ID:               wo.ID.String(),
		WorkOrderNumber:  wo.WorkOrderNumber,
		Status:           wo.Status,
		WorkflowStep:     wo.WorkflowStep,
		CustomerID:       wo.CustomerID.String(),
		VehicleID:        wo.VehicleID.String(),
		SubtotalServices: money(wo.SubtotalServices),
		SubtotalParts:    money(wo.SubtotalParts),
		Subtotal:         money(wo.Subtotal),
		TaxAmount:        money(wo.TaxAmount),
		DiscountAmount:   money(wo.DiscountAmount),
		TotalAmount:      money(wo.TotalAmount),
		PaymentStatus:    wo.PaymentStatus,
		Notes:            wo.Notes,
		OpenedAt:         formatTimePtr(wo.OpenedAt),
		PromisedAt:       formatTimePtr(wo.PromisedAt),
		ClosedAt:         formatTimePtr(wo.ClosedAt),
		CreatedAt:        formatTime(wo.CreatedAt),
	}
	if wo.Customer != nil {
		resp.CustomerName = wo.Customer.Name
	}
	if wo.Vehicle != nil {
		resp.Vehicle = wo.Vehicle.Label()
	}
	for _, s := range wo.Services {
		resp.Services = append(resp.Services, toServiceLineResponse(s))
	}
	for _, p := range wo.Parts {
		resp.Parts = append(resp.Parts, toPartLineResponse(p))
	}
	for _, l := range wo.Labor {
		resp.Labor = append(resp.Labor, toLaborResponse(l))
	}
	return resp
}

func toServiceLineResponse(s model.WorkOrderService) ServiceLineResponse {
	return ServiceLineResponse{
		ID:               s.ID.String(),
		WorkOrderID:      s.WorkOrderID.String(),
		ServiceID:        uuidString(s.ServiceID),
		Description:      s.Description,
		Quantity:         s.Quantity,
		UnitPrice:        money(s.UnitPrice),
		Subtotal:         money(s.Subtotal),
		Status:           s.Status,
		CustomerApproved: s.CustomerApproved,
		CustomerRejected: s.CustomerRejected,
		ApprovedAt:       formatTimePtr(s.ApprovedAt),
		RejectedAt:       formatTimePtr(s.RejectedAt),
		ApprovalNotes:    s.ApprovalNotes,
		RejectionReason:  s.RejectionReason,
	}
}

func toPartLineResponse(p model.WorkOrderPart) PartLineResponse {
	return PartLineResponse{
		ID:               p.ID.String(),
		WorkOrderID:      p.WorkOrderID.String(),
		PartID:           p.PartID.String(),
		Description:      p.Description,
		Quantity:         p.Quantity,
		UnitPrice:        money(p.UnitPrice),
		Subtotal:         money(p.Subtotal),
		Status:           p.Status,
		CustomerApproved: p.CustomerApproved,
		CustomerRejected: p.CustomerRejected,
		ApprovedAt:       formatTimePtr(p.ApprovedAt),
		RejectedAt:       formatTimePtr(p.RejectedAt),
		ApprovalNotes:    p.ApprovalNotes,
		RejectionReason:  p.RejectionReason,
		InstalledByID:    uuidString(p.InstalledByID),
		InstalledAt:      formatTimePtr(p.InstalledAt),
	}
}

func toLaborResponse(l model.WorkOrderLabor) LaborResponse {
	return LaborResponse{
		ID:               l.ID.String(),
		WorkOrderID:      l.WorkOrderID.String(),
		ServiceLineID:    uuidString(l.ServiceLineID),
		TechnicianID:     uuidString(l.TechnicianID),
		Description:      l.Description,
		EstimatedMinutes: l.EstimatedMinutes,
		ActualMinutes:    l.ActualMinutes,
		Status:           l.Status,
		StartedAt:        formatTimePtr(l.StartedAt),
		CompletedAt:      formatTimePtr(l.CompletedAt),
	}
}
