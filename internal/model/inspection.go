package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Checklist item status
const (
	CheckGreen  = "GREEN"
	CheckYellow = "YELLOW"
	CheckRed    = "RED"
)

func IsCheckStatus(s string) bool {
	return s == CheckGreen || s == CheckYellow || s == CheckRed
}

// InspectionTemplate is a reusable checklist definition.
type InspectionTemplate struct {
	ID          uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                   `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Description string                   `gorm:"type:text" json:"description"`
	IsActive    bool                     `gorm:"not null" json:"is_active"`
	Items       []InspectionTemplateItem `gorm:"foreignKey:TemplateID" json:"items"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

func (t *InspectionTemplate) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

type InspectionTemplateItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateID   uuid.UUID `gorm:"type:uuid;not null;index" json:"template_id"`
	Position     int       `gorm:"type:int;not null" json:"position"`
	Label        string    `gorm:"type:varchar(255);not null" json:"label"`
	Category     string    `gorm:"type:varchar(100)" json:"category"`
	Required     bool      `gorm:"not null" json:"required"`
	NotesAllowed bool      `gorm:"not null" json:"notes_allowed"`
}

func (i *InspectionTemplateItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// WorkOrderInspection is a template instance (or ad hoc checklist) on one work order.
type WorkOrderInspection struct {
	ID          uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
	WorkOrderID uuid.UUID                 `gorm:"type:uuid;not null;index" json:"work_order_id"`
	TemplateID  *uuid.UUID                `gorm:"type:uuid;index" json:"template_id"`
	Name        string                    `gorm:"type:varchar(150);not null" json:"name"`
	InspectorID *uuid.UUID                `gorm:"type:uuid" json:"inspector_id"`
	IsCompleted bool                      `gorm:"not null;index" json:"is_completed"`
	CompletedAt *time.Time                `json:"completed_at"`
	Notes       string                    `gorm:"type:text" json:"notes"`
	Items       []InspectionChecklistItem `gorm:"foreignKey:InspectionID" json:"items"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

func (i *WorkOrderInspection) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

type InspectionChecklistItem struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InspectionID     uuid.UUID `gorm:"type:uuid;not null;index" json:"inspection_id"`
	Position         int       `gorm:"type:int;not null" json:"position"`
	Label            string    `gorm:"type:varchar(255);not null" json:"label"`
	Status           string    `gorm:"type:varchar(10);not null" json:"status"`
	RequiresFollowUp bool      `gorm:"not null;index" json:"requires_follow_up"`
	Notes            string    `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (i *InspectionChecklistItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
