package repository

import (
	"context"

	"garage/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository covers the service catalog and the parts inventory.
type CatalogRepository interface {
	CreateService(ctx context.Context, svc *model.CatalogService) error
	FindServiceByID(ctx context.Context, id uuid.UUID) (*model.CatalogService, error)
	ListServices(ctx context.Context, activeOnly bool) ([]model.CatalogService, error)

	CreatePart(ctx context.Context, part *model.InventoryPart) error
	FindPartByID(ctx context.Context, id uuid.UUID) (*model.InventoryPart, error)
	FindPartByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryPart, error)
	ListParts(ctx context.Context, search string, offset, limit int) ([]model.InventoryPart, int64, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
	CreateMovement(ctx context.Context, movement *model.InventoryTransaction) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateService(ctx context.Context, svc *model.CatalogService) error {
	return GetDB(ctx, r.db).Create(svc).Error
}

func (r *catalogRepository) FindServiceByID(ctx context.Context, id uuid.UUID) (*model.CatalogService, error) {
	var svc model.CatalogService
	if err := GetDB(ctx, r.db).First(&svc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *catalogRepository) ListServices(ctx context.Context, activeOnly bool) ([]model.CatalogService, error) {
	var services []model.CatalogService
	query := GetDB(ctx, r.db)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name asc").Find(&services).Error
	return services, err
}

func (r *catalogRepository) CreatePart(ctx context.Context, part *model.InventoryPart) error {
	return GetDB(ctx, r.db).Create(part).Error
}

func (r *catalogRepository) FindPartByID(ctx context.Context, id uuid.UUID) (*model.InventoryPart, error) {
	var part model.InventoryPart
	if err := GetDB(ctx, r.db).First(&part, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// FindPartByIDForUpdate locks the part row (SELECT ... FOR UPDATE) for stock changes.
func (r *catalogRepository) FindPartByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryPart, error) {
	var part model.InventoryPart
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&part, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *catalogRepository) ListParts(ctx context.Context, search string, offset, limit int) ([]model.InventoryPart, int64, error) {
	var parts []model.InventoryPart
	var total int64

	query := GetDB(ctx, r.db).Model(&model.InventoryPart{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ?", like, like)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("name asc").Offset(offset).Limit(limit).Find(&parts).Error; err != nil {
		return nil, 0, err
	}
	return parts, total, nil
}

func (r *catalogRepository) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	return GetDB(ctx, r.db).Model(&model.InventoryPart{}).Where("id = ?", id).Update("current_stock", stock).Error
}

func (r *catalogRepository) CreateMovement(ctx context.Context, movement *model.InventoryTransaction) error {
	return GetDB(ctx, r.db).Create(movement).Error
}
