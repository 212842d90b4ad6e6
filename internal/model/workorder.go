package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Work order status
const (
	StatusPending          = "PENDING"
	StatusEstimate         = "ESTIMATE"
	StatusAwaitingApproval = "AWAITING_APPROVAL"
	StatusInProgress       = "IN_PROGRESS"
	StatusWaitingForParts  = "WAITING_FOR_PARTS"
	StatusQCPending        = "QC_PENDING"
	StatusCompleted        = "COMPLETED"
	StatusCancelled        = "CANCELLED"
)

// Workflow steps, finer grained than status
const (
	StepCheckIn          = "CHECK_IN"
	StepInspection       = "INSPECTION"
	StepEstimate         = "ESTIMATE"
	StepCustomerApproval = "CUSTOMER_APPROVAL"
	StepRepair           = "REPAIR"
	StepPartsOrdered     = "PARTS_ORDERED"
	StepQualityCheck     = "QUALITY_CHECK"
	StepInvoiced         = "INVOICED"
	StepReadyForPickup   = "READY_FOR_PICKUP"
	StepClosed           = "CLOSED"
)

const (
	PaymentStatusPending       = "PENDING"
	PaymentStatusPartiallyPaid = "PARTIALLY_PAID"
	PaymentStatusPaid          = "PAID"
)

var transitions = map[string][]string{
	StatusPending:          {StatusEstimate, StatusCancelled},
	StatusEstimate:         {StatusAwaitingApproval, StatusCancelled},
	StatusAwaitingApproval: {StatusInProgress, StatusEstimate, StatusCancelled},
	StatusInProgress:       {StatusWaitingForParts, StatusQCPending, StatusCancelled},
	StatusWaitingForParts:  {StatusInProgress, StatusCancelled},
	StatusQCPending:        {StatusCompleted, StatusInProgress, StatusCancelled},
}

var defaultSteps = map[string]string{
	StatusPending:          StepCheckIn,
	StatusEstimate:         StepEstimate,
	StatusAwaitingApproval: StepCustomerApproval,
	StatusInProgress:       StepRepair,
	StatusWaitingForParts:  StepPartsOrdered,
	StatusQCPending:        StepQualityCheck,
	StatusCompleted:        StepReadyForPickup,
	StatusCancelled:        StepClosed,
}

var workflowSteps = map[string]bool{
	StepCheckIn: true, StepInspection: true, StepEstimate: true, StepCustomerApproval: true,
	StepRepair: true, StepPartsOrdered: true, StepQualityCheck: true, StepInvoiced: true,
	StepReadyForPickup: true, StepClosed: true,
}

// CanTransition reports whether from -> to is an edge of the status graph.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsKnownStatus reports whether s is a work order status.
func IsKnownStatus(s string) bool {
	_, ok := defaultSteps[s]
	return ok
}

// DefaultStep is the workflow step a status lands on.
func DefaultStep(status string) string {
	return defaultSteps[status]
}

func IsWorkflowStep(step string) bool {
	return workflowSteps[step]
}

// WorkOrder is the aggregate root for one vehicle visit.
type WorkOrder struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	WorkOrderNumber  string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"work_order_number"`
	CustomerID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer         *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	VehicleID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	Vehicle          *Vehicle        `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Status           string          `gorm:"type:varchar(30);not null;index" json:"status"`
	WorkflowStep     string          `gorm:"type:varchar(30);not null" json:"workflow_step"`
	SubtotalServices decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal_services"`
	SubtotalParts    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal_parts"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"tax_amount"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"discount_amount"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	PaymentStatus    string          `gorm:"type:varchar(20);not null" json:"payment_status"`
	Notes            string          `gorm:"type:text" json:"notes"`
	OpenedAt         *time.Time      `json:"opened_at"`
	PromisedAt       *time.Time      `json:"promised_at"`
	ClosedAt         *time.Time      `json:"closed_at"`
	CreatedBy        *uuid.UUID      `gorm:"type:uuid" json:"created_by"`

	Services []WorkOrderService `gorm:"foreignKey:WorkOrderID" json:"services,omitempty"`
	Parts    []WorkOrderPart    `gorm:"foreignKey:WorkOrderID" json:"parts,omitempty"`
	Labor    []WorkOrderLabor   `gorm:"foreignKey:WorkOrderID" json:"labor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *WorkOrder) BeforeCreate(tx *gorm.DB) error {
	ensureID(&w.ID)
	return nil
}

// IsTerminal reports whether the order is COMPLETED or CANCELLED.
func (w *WorkOrder) IsTerminal() bool {
	return w.Status == StatusCompleted || w.Status == StatusCancelled
}
