package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateWorkOrder    = "CREATE_WORK_ORDER"
	ActionChangeStatus       = "CHANGE_WORK_ORDER_STATUS"
	ActionCancelWorkOrder    = "CANCEL_WORK_ORDER"
	ActionChangeWorkflowStep = "CHANGE_WORKFLOW_STEP"
	ActionSetDiscount        = "SET_DISCOUNT"
	ActionApproveLine        = "APPROVE_LINE"
	ActionRejectLine         = "REJECT_LINE"
	ActionInstallPart        = "INSTALL_PART"
	ActionCreateInvoice      = "CREATE_INVOICE"
	ActionUpdateInvoice      = "UPDATE_INVOICE_STATUS"
	ActionDeleteInvoice      = "DELETE_INVOICE"
	ActionRecordPayment      = "RECORD_PAYMENT"
	ActionAdjustStock        = "ADJUST_STOCK"
	ActionCreateTaxRule      = "CREATE_TAX_RULE"
	ActionUpdateTaxRule      = "UPDATE_TAX_RULE"
	ActionDeleteTaxRule      = "DELETE_TAX_RULE"
)

// AuditLog tracks who did what, and when, to which entity.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"` // nil for system actions
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string     `gorm:"type:varchar(50);index" json:"entity_type"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:text" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
