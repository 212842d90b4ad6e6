package repository

import (
	"context"

	"garage/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentRepository is append only; payments are never updated or deleted.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]model.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := GetDB(ctx, r.db).Where("work_order_id = ?", workOrderID).Order("paid_at asc").Find(&payments).Error
	return payments, err
}
