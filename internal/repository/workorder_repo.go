package repository

import (
	"context"

	"garage/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkOrderFilter struct {
	Status     string
	CustomerID *uuid.UUID
	Search     string // partial match on work_order_number
	Offset     int
	Limit      int
}

type WorkOrderRepository interface {
	Create(ctx context.Context, wo *model.WorkOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	FindWithParties(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	List(ctx context.Context, filter WorkOrderFilter) ([]model.WorkOrder, int64, error)
	Updates(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type workOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) WorkOrderRepository {
	return &workOrderRepository{db: db}
}

func (r *workOrderRepository) Create(ctx context.Context, wo *model.WorkOrder) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(wo).Error
}

func (r *workOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	var wo model.WorkOrder
	if err := GetDB(ctx, r.db).First(&wo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wo, nil
}

// FindByIDForUpdate locks the work order row for the rest of the transaction.
// Every write to totals, status or step goes through this lock.
func (r *workOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	var wo model.WorkOrder
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&wo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *workOrderRepository) FindWithParties(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	var wo model.WorkOrder
	if err := GetDB(ctx, r.db).Preload("Customer").Preload("Vehicle").First(&wo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *workOrderRepository) FindDetail(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	var wo model.WorkOrder
	byCreated := func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }
	err := GetDB(ctx, r.db).
		Preload("Customer").
		Preload("Vehicle").
		Preload("Services", byCreated).
		Preload("Parts", byCreated).
		Preload("Labor", byCreated).
		First(&wo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *workOrderRepository) List(ctx context.Context, filter WorkOrderFilter) ([]model.WorkOrder, int64, error) {
	var orders []model.WorkOrder
	var total int64

	query := GetDB(ctx, r.db).Model(&model.WorkOrder{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Search != "" {
		query = query.Where("work_order_number LIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at desc").Offset(filter.Offset).Limit(filter.Limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Updates writes the given columns. Map keys are column names so zero
// values are persisted.
func (r *workOrderRepository) Updates(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return GetDB(ctx, r.db).Model(&model.WorkOrder{}).Where("id = ?", id).Updates(fields).Error
}
