package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService is a priced shop service that can be attached to work orders.
type CatalogService struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Code             string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name             string          `gorm:"type:varchar(255);not null" json:"name"`
	Description      string          `gorm:"type:text" json:"description"`
	BasePrice        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"base_price"`
	EstimatedMinutes int             `gorm:"type:int;default:0" json:"estimated_minutes"`
	IsActive         bool            `gorm:"not null" json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (s *CatalogService) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// InventoryPart represents a stocked part
type InventoryPart struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SKU          string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	CurrentStock int             `gorm:"type:int;default:0;not null" json:"current_stock"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *InventoryPart) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

const (
	StockMovementIn  = "IN"
	StockMovementOut = "OUT"
)

// InventoryTransaction records every stock change.
type InventoryTransaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PartID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"part_id"`
	WorkOrderID     *uuid.UUID `gorm:"type:uuid;index" json:"work_order_id"` // nil for manual adjustments
	TransactionType string     `gorm:"type:varchar(10);not null" json:"transaction_type"`
	QuantityChanged int        `gorm:"type:int;not null" json:"quantity_changed"`
	StockAfter      int        `gorm:"type:int;not null" json:"stock_after"`
	Note            string     `gorm:"type:text" json:"note"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (t *InventoryTransaction) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
