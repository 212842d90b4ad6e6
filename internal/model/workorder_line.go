package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Line status
const (
	LineStatusPending    = "PENDING"
	LineStatusInProgress = "IN_PROGRESS"
	LineStatusCompleted  = "COMPLETED"
	LineStatusOrdered    = "ORDERED"
	LineStatusInstalled  = "INSTALLED"
	LineStatusCancelled  = "CANCELLED"
)

// Approval carries the customer's decision on a billable line.
// CustomerApproved and CustomerRejected are never both true.
type Approval struct {
	CustomerApproved bool       `gorm:"not null" json:"customer_approved"`
	CustomerRejected bool       `gorm:"not null" json:"customer_rejected"`
	ApprovedAt       *time.Time `json:"approved_at"`
	RejectedAt       *time.Time `json:"rejected_at"`
	ApprovalNotes    string     `gorm:"type:text" json:"approval_notes"`
	RejectionReason  string     `gorm:"type:text" json:"rejection_reason"`
}

// AwaitingDecision reports whether the customer has not decided yet.
func (a Approval) AwaitingDecision() bool {
	return !a.CustomerApproved && !a.CustomerRejected
}

func (a *Approval) approve(at time.Time, notes string) {
	a.CustomerApproved = true
	a.CustomerRejected = false
	a.ApprovedAt = &at
	a.RejectedAt = nil
	a.ApprovalNotes = notes
	a.RejectionReason = ""
}

func (a *Approval) reject(at time.Time, reason string) {
	a.CustomerApproved = false
	a.CustomerRejected = true
	a.RejectedAt = &at
	a.ApprovedAt = nil
	a.RejectionReason = reason
	a.ApprovalNotes = ""
}

// WorkOrderService is a billable service line. Subtotal is fixed at
// Quantity x UnitPrice and never derived from labor.
type WorkOrderService struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	WorkOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"work_order_id"`
	ServiceID   *uuid.UUID      `gorm:"type:uuid;index" json:"service_id"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	Status      string          `gorm:"type:varchar(20);not null" json:"status"`
	Approval    `gorm:"embedded"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *WorkOrderService) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Billable reports whether the line counts toward totals.
func (s *WorkOrderService) Billable() bool {
	return !s.CustomerRejected && s.Status != LineStatusCancelled
}

func (s *WorkOrderService) Approve(at time.Time, notes string) {
	s.approve(at, notes)
	if s.Status == LineStatusCancelled {
		s.Status = LineStatusPending
	}
}

func (s *WorkOrderService) Reject(at time.Time, reason string) {
	s.reject(at, reason)
	s.Status = LineStatusCancelled
}

// Reprice recomputes the fixed subtotal.
func (s *WorkOrderService) Reprice() {
	s.Subtotal = s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// WorkOrderPart is a billable inventory part line.
type WorkOrderPart struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	WorkOrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"work_order_id"`
	PartID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"part_id"`
	Description   string          `gorm:"type:varchar(255);not null" json:"description"`
	Quantity      int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	Status        string          `gorm:"type:varchar(20);not null" json:"status"`
	InstalledByID *uuid.UUID      `gorm:"type:uuid" json:"installed_by_id"`
	InstalledAt   *time.Time      `json:"installed_at"`
	Approval      `gorm:"embedded"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *WorkOrderPart) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (p *WorkOrderPart) Billable() bool {
	return !p.CustomerRejected && p.Status != LineStatusCancelled
}

func (p *WorkOrderPart) Approve(at time.Time, notes string) {
	p.approve(at, notes)
}

func (p *WorkOrderPart) Reject(at time.Time, reason string) {
	p.reject(at, reason)
}

func (p *WorkOrderPart) Reprice() {
	p.Subtotal = p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// WorkOrderLabor tracks technician effort. It has no price and never
// contributes to work order totals. ServiceLineID nil means standalone.
type WorkOrderLabor struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WorkOrderID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"work_order_id"`
	ServiceLineID    *uuid.UUID `gorm:"type:uuid;index" json:"service_line_id"`
	TechnicianID     *uuid.UUID `gorm:"type:uuid;index" json:"technician_id"`
	Description      string     `gorm:"type:varchar(255)" json:"description"`
	EstimatedMinutes int        `gorm:"type:int;not null" json:"estimated_minutes"`
	ActualMinutes    int        `gorm:"type:int;not null" json:"actual_minutes"`
	Status           string     `gorm:"type:varchar(20);not null" json:"status"`
	StartedAt        *time.Time `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (l *WorkOrderLabor) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

func (l *WorkOrderLabor) Standalone() bool {
	return l.ServiceLineID == nil
}

// BillableMinutes prefers recorded time over the estimate.
func (l *WorkOrderLabor) BillableMinutes() int {
	if l.ActualMinutes > 0 {
		return l.ActualMinutes
	}
	return l.EstimatedMinutes
}
