package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentMethodCash        = "CASH"
	PaymentMethodCard        = "CARD"
	PaymentMethodTransfer    = "TRANSFER"
	PaymentMethodMercadoPago = "MERCADOPAGO"
)

// Payment is an immutable record of funds received. It is never updated.
type Payment struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	WorkOrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"work_order_id"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Method            string          `gorm:"type:varchar(20);not null" json:"method"`
	Reference         string          `gorm:"type:varchar(100)" json:"reference"`
	ProviderPaymentID string          `gorm:"type:varchar(100);index" json:"provider_payment_id,omitempty"`
	ProviderStatus    string          `gorm:"type:varchar(50)" json:"provider_status,omitempty"`
	RecordedBy        *uuid.UUID      `gorm:"type:uuid" json:"recorded_by"`
	PaidAt            time.Time       `gorm:"not null" json:"paid_at"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
