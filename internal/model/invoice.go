package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice status
const (
	InvoicePending   = "PENDING"
	InvoiceSent      = "SENT"
	InvoicePaid      = "PAID"
	InvoiceOverdue   = "OVERDUE"
	InvoiceCancelled = "CANCELLED"
)

// Line item types
const (
	LineTypeService  = "SERVICE"
	LineTypeLabor    = "LABOR"
	LineTypePart     = "PART"
	LineTypeTax      = "TAX"
	LineTypeDiscount = "DISCOUNT"
)

// Invoice is an immutable billing snapshot of a work order. At most one
// exists per work order (unique work_order_id).
type Invoice struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNumber    string            `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_number"`
	WorkOrderID      uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null" json:"work_order_id"`
	CustomerID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"customer_id"`
	Status           string            `gorm:"type:varchar(20);not null;index" json:"status"`
	SubtotalServices decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"subtotal_services"`
	SubtotalLabor    decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"subtotal_labor"`
	SubtotalParts    decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"subtotal_parts"`
	Subtotal         decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	TaxRuleID        *uuid.UUID        `gorm:"type:uuid" json:"tax_rule_id"`
	TaxRate          decimal.Decimal   `gorm:"type:decimal(10,4);not null" json:"tax_rate"`
	TaxAmount        decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"tax_amount"`
	DiscountAmount   decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"discount_amount"`
	TotalAmount      decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	IssuedAt         time.Time         `gorm:"not null;index" json:"issued_at"`
	DueDate          *time.Time        `json:"due_date"`
	PaidAt           *time.Time        `json:"paid_at"`
	Notes            string            `gorm:"type:text" json:"notes"`
	Terms            string            `gorm:"type:text" json:"terms"`
	PDFURL           string            `gorm:"column:pdf_url;type:varchar(500)" json:"pdf_url"`
	LineItems        []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// InvoiceLineItem copies a source line at generation time. Later edits to
// the source never touch it.
type InvoiceLineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position    int             `gorm:"type:int;not null" json:"position"`
	Type        string          `gorm:"type:varchar(20);not null" json:"type"`
	SourceID    *uuid.UUID      `gorm:"type:uuid" json:"source_id"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
}

func (l *InvoiceLineItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
