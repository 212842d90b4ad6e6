package repository

import (
	"context"

	"garage/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InspectionRepository interface {
	CreateTemplate(ctx context.Context, tpl *model.InspectionTemplate) error
	FindTemplateByID(ctx context.Context, id uuid.UUID) (*model.InspectionTemplate, error)
	ListTemplates(ctx context.Context, activeOnly bool) ([]model.InspectionTemplate, error)
	UpdateTemplate(ctx context.Context, tpl *model.InspectionTemplate) error
	ReplaceTemplateItems(ctx context.Context, templateID uuid.UUID, items []model.InspectionTemplateItem) error
	DeleteTemplate(ctx context.Context, id uuid.UUID) error

	CreateInspection(ctx context.Context, inspection *model.WorkOrderInspection) error
	FindInspectionByID(ctx context.Context, id uuid.UUID) (*model.WorkOrderInspection, error)
	ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]model.WorkOrderInspection, error)
	UpdateInspection(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	CreateItem(ctx context.Context, item *model.InspectionChecklistItem) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.InspectionChecklistItem, error)
	SaveItem(ctx context.Context, item *model.InspectionChecklistItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	NextItemPosition(ctx context.Context, inspectionID uuid.UUID) (int, error)
}

type inspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) InspectionRepository {
	return &inspectionRepository{db: db}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func (r *inspectionRepository) CreateTemplate(ctx context.Context, tpl *model.InspectionTemplate) error {
	return GetDB(ctx, r.db).Create(tpl).Error
}

func (r *inspectionRepository) FindTemplateByID(ctx context.Context, id uuid.UUID) (*model.InspectionTemplate, error) {
	var tpl model.InspectionTemplate
	if err := GetDB(ctx, r.db).Preload("Items", byPosition).First(&tpl, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *inspectionRepository) ListTemplates(ctx context.Context, activeOnly bool) ([]model.InspectionTemplate, error) {
	var templates []model.InspectionTemplate
	query := GetDB(ctx, r.db).Preload("Items", byPosition)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name asc").Find(&templates).Error
	return templates, err
}

func (r *inspectionRepository) UpdateTemplate(ctx context.Context, tpl *model.InspectionTemplate) error {
	return GetDB(ctx, r.db).Model(&model.InspectionTemplate{}).Where("id = ?", tpl.ID).Updates(map[string]interface{}{
		"name":        tpl.Name,
		"description": tpl.Description,
		"is_active":   tpl.IsActive,
	}).Error
}

func (r *inspectionRepository) ReplaceTemplateItems(ctx context.Context, templateID uuid.UUID, items []model.InspectionTemplateItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("template_id = ?", templateID).Delete(&model.InspectionTemplateItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].TemplateID = templateID
	}
	return db.Create(&items).Error
}

func (r *inspectionRepository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("template_id = ?", id).Delete(&model.InspectionTemplateItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.InspectionTemplate{}).Error
}

func (r *inspectionRepository) CreateInspection(ctx context.Context, inspection *model.WorkOrderInspection) error {
	return GetDB(ctx, r.db).Create(inspection).Error
}

func (r *inspectionRepository) FindInspectionByID(ctx context.Context, id uuid.UUID) (*model.WorkOrderInspection, error) {
	var inspection model.WorkOrderInspection
	if err := GetDB(ctx, r.db).Preload("Items", byPosition).First(&inspection, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inspection, nil
}

func (r *inspectionRepository) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]model.WorkOrderInspection, error) {
	var inspections []model.WorkOrderInspection
	err := GetDB(ctx, r.db).
		Preload("Items", byPosition).
		Where("work_order_id = ?", workOrderID).
		Order("created_at asc").
		Find(&inspections).Error
	return inspections, err
}

func (r *inspectionRepository) UpdateInspection(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return GetDB(ctx, r.db).Model(&model.WorkOrderInspection{}).Where("id = ?", id).Updates(fields).Error
}

func (r *inspectionRepository) CreateItem(ctx context.Context, item *model.InspectionChecklistItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *inspectionRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*model.InspectionChecklistItem, error) {
	var item model.InspectionChecklistItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inspectionRepository) SaveItem(ctx context.Context, item *model.InspectionChecklistItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *inspectionRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.InspectionChecklistItem{}).Error
}

func (r *inspectionRepository) NextItemPosition(ctx context.Context, inspectionID uuid.UUID) (int, error) {
	var max int
	err := GetDB(ctx, r.db).Model(&model.InspectionChecklistItem{}).
		Where("inspection_id = ?", inspectionID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
