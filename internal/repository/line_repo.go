package repository

import (
	"context"

	"garage/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LineRepository stores the service, part and labor lines of work orders.
type LineRepository interface {
	CreateService(ctx context.Context, line *model.WorkOrderService) error
	FindServiceByID(ctx context.Context, id uuid.UUID) (*model.WorkOrderService, error)
	SaveService(ctx context.Context, line *model.WorkOrderService) error
	DeleteService(ctx context.Context, id uuid.UUID) error
	ListServices(ctx context.Context, workOrderID uuid.UUID) ([]model.WorkOrderService, error)

	CreatePart(ctx context.Context, line *model.WorkOrderPart) error
	FindPartByID(ctx context.Context, id uuid.UUID) (*model.WorkOrderPart, error)
	SavePart(ctx context.Context, line *model.WorkOrderPart) error
	DeletePart(ctx context.Context, id uuid.UUID) error
	ListParts(ctx context.Context, workOrderID uuid.UUID) ([]model.WorkOrderPart, error)

	CreateLabor(ctx context.Context, labor *model.WorkOrderLabor) error
	FindLaborByID(ctx context.Context, id uuid.UUID) (*model.WorkOrderLabor, error)
	SaveLabor(ctx context.Context, labor *model.WorkOrderLabor) error
	DeleteLabor(ctx context.Context, id uuid.UUID) error
	DeleteLaborByServiceLine(ctx context.Context, serviceLineID uuid.UUID) error
	ListLabor(ctx context.Context, workOrderID uuid.UUID) ([]model.WorkOrderLabor, error)
}

type lineRepository struct {
	db *gorm.DB
}

func NewLineRepository(db *gorm.DB) LineRepository {
	return &lineRepository{db: db}
}

func (r *lineRepository) CreateService(ctx context.Context, line *model.WorkOrderService) error {
	return GetDB(ctx, r.db).Create(line).Error
}

func (r *lineRepository) FindServiceByID(ctx context.Context, id uuid.UUID) (*model.WorkOrderService, error) {
	var line model.WorkOrderService
	if err := GetDB(ctx, r.db).First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *lineRepository) SaveService(ctx context.Context, line *model.WorkOrderService) error {
	return GetDB(ctx, r.db).Save(line).Error
}

func (r *lineRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.WorkOrderService{}).Error
}

func (r *lineRepository) ListServices(ctx context.Context, workOrderID uuid.UUID) ([]model.WorkOrderService, error) {
	var lines []model.WorkOrderService
	err := GetDB(ctx, r.db).Where("work_order_id = ?", workOrderID).Order("created_at asc").Find(&lines).Error
	return lines, err
}

func (r *lineRepository) CreatePart(ctx context.Context, line *model.WorkOrderPart) error {
	return GetDB(ctx, r.db).Create(line).Error
}

func (r *lineRepository) FindPartByID(ctx context.Context, id uuid.UUID) (*model.WorkOrderPart, error) {
	var line model.WorkOrderPart
	if err := GetDB(ctx, r.db).First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *lineRepository) SavePart(ctx context.Context, line *model.WorkOrderPart) error {
	return GetDB(ctx, r.db).Save(line).Error
}

func (r *lineRepository) DeletePart(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.WorkOrderPart{}).Error
}

func (r *lineRepository) ListParts(ctx context.Context, workOrderID uuid.UUID) ([]model.WorkOrderPart, error) {
	var lines []model.WorkOrderPart
	err := GetDB(ctx, r.db).Where("work_order_id = ?", workOrderID).Order("created_at asc").Find(&lines).Error
	return lines, err
}

func (r *lineRepository) CreateLabor(ctx context.Context, labor *model.WorkOrderLabor) error {
	return GetDB(ctx, r.db).Create(labor).Error
}

func (r *lineRepository) FindLaborByID(ctx context.Context, id uuid.UUID) (*model.WorkOrderLabor, error) {
	var labor model.WorkOrderLabor
	if err := GetDB(ctx, r.db).First(&labor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &labor, nil
}

func (r *lineRepository) SaveLabor(ctx context.Context, labor *model.WorkOrderLabor) error {
	return GetDB(ctx, r.db).Save(labor).Error
}

func (r *lineRepository) DeleteLabor(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.WorkOrderLabor{}).Error
}

func (r *lineRepository) DeleteLaborByServiceLine(ctx context.Context, serviceLineID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("service_line_id = ?", serviceLineID).Delete(&model.WorkOrderLabor{}).Error
}

func (r *lineRepository) ListLabor(ctx context.Context, workOrderID uuid.UUID) ([]model.WorkOrderLabor, error) {
	var labor []model.WorkOrderLabor
	err := GetDB(ctx, r.db).Where("work_order_id = ?", workOrderID).Order("created_at asc").Find(&labor).Error
	return labor, err
}
