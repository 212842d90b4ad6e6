package service

import (
	"context"
	"fmt"

	"garage/internal/model"
	"garage/internal/notification"
	"garage/internal/repository"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- DTOs ---

type CreateCatalogServiceRequest struct {
	Code             string `json:"code" binding:"required"`
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	BasePrice        string `json:"base_price" binding:"required"`
	EstimatedMinutes int    `json:"estimated_minutes" binding:"gte=0"`
}

type CatalogServiceResponse struct {
	ID               string `json:"id"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	BasePrice        string `json:"base_price"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	IsActive         bool   `json:"is_active"`
}

type CreatePartRequest struct {
	SKU          string `json:"sku" binding:"required"`
	Name         string `json:"name" binding:"required"`
	UnitPrice    string `json:"unit_price" binding:"required"`
	InitialStock int    `json:"initial_stock" binding:"gte=0"`
}

type AdjustStockRequest struct {
	Delta int    `json:"delta" binding:"required"`
	Note  string `json:"note"`
}

type PartResponse struct {
	ID           string `json:"id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	UnitPrice    string `json:"unit_price"`
}

// --- Interface ---

type CatalogService interface {
	CreateService(ctx context.Context, req CreateCatalogServiceRequest) (CatalogServiceResponse, error)
	ListServices(ctx context.Context, activeOnly bool) ([]CatalogServiceResponse, error)
	GetService(ctx context.Context, id uuid.UUID) (CatalogServiceResponse, error)

	CreatePart(ctx context.Context, req CreatePartRequest, actorID *uuid.UUID) (PartResponse, error)
	ListParts(ctx context.Context, search string, page, limit int) ([]PartResponse, int64, error)
	GetPart(ctx context.Context, id uuid.UUID) (PartResponse, error)
	AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest, actorID *uuid.UUID) (PartResponse, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	publisher   notification.Publisher
	log         *zap.Logger
}

func NewCatalogService(
	catalogRepo repository.CatalogRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher notification.Publisher,
	log *zap.Logger,
) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		publisher:   publisher,
		log:         log,
	}
}

// --- Implementation ---

func (s *catalogService) CreateService(ctx context.Context, req CreateCatalogServiceRequest) (CatalogServiceResponse, error) {
	price, err := parseMoney(req.BasePrice, "base_price")
	if err != nil {
		return CatalogServiceResponse{}, err
	}
	svc := model.CatalogService{
		Code:             req.Code,
		Name:             req.Name,
		Description:      req.Description,
		BasePrice:        price,
		EstimatedMinutes: req.EstimatedMinutes,
		IsActive:         true,
	}
	if err := s.catalogRepo.CreateService(ctx, &svc); err != nil {
		if repository.IsUniqueViolation(err) {
			return CatalogServiceResponse{}, apperror.Conflict("service code " + req.Code + " already exists")
		}
		return CatalogServiceResponse{}, fmt.Errorf("failed to create service: %w", err)
	}
	return toCatalogServiceResponse(svc), nil
}

func (s *catalogService) ListServices(ctx context.Context, activeOnly bool) ([]CatalogServiceResponse, error) {
	services, err := s.catalogRepo.ListServices(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch services: %w", err)
	}
	res := make([]CatalogServiceResponse, 0, len(services))
	for _, svc := range services {
		res = append(res, toCatalogServiceResponse(svc))
	}
	return res, nil
}

func (s *catalogService) GetService(ctx context.Context, id uuid.UUID) (CatalogServiceResponse, error) {
	svc, err := s.catalogRepo.FindServiceByID(ctx, id)
	if err != nil {
		return CatalogServiceResponse{}, notFound(err, "service")
	}
	return toCatalogServiceResponse(*svc), nil
}

func (s *catalogService) CreatePart(ctx context.Context, req CreatePartRequest, actorID *uuid.UUID) (PartResponse, error) {
	price, err := parseMoney(req.UnitPrice, "unit_price")
	if err != nil {
		return PartResponse{}, err
	}
	part := model.InventoryPart{
		SKU:          req.SKU,
		Name:         req.Name,
		UnitPrice:    price,
		CurrentStock: req.InitialStock,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.catalogRepo.CreatePart(txCtx, &part); err != nil {
			if repository.IsUniqueViolation(err) {
				return apperror.Conflict("part sku " + req.SKU + " already exists")
			}
			return fmt.Errorf("failed to create part: %w", err)
		}
		if req.InitialStock == 0 {
			return nil
		}
		return s.catalogRepo.CreateMovement(txCtx, &model.InventoryTransaction{
			PartID:          part.ID,
			TransactionType: model.StockMovementIn,
			QuantityChanged: req.InitialStock,
			StockAfter:      req.InitialStock,
			Note:            "initial stock",
		})
	})
	if err != nil {
		return PartResponse{}, err
	}
	return toPartResponse(part), nil
}

func (s *catalogService) ListParts(ctx context.Context, search string, page, limit int) ([]PartResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	parts, total, err := s.catalogRepo.ListParts(ctx, search, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch parts: %w", err)
	}

	res := make([]PartResponse, 0, len(parts))
	for _, p := range parts {
		res = append(res, toPartResponse(p))
	}
	return res, total, nil
}

func (s *catalogService) GetPart(ctx context.Context, id uuid.UUID) (PartResponse, error) {
	part, err := s.catalogRepo.FindPartByID(ctx, id)
	if err != nil {
		return PartResponse{}, notFound(err, "part")
	}
	return toPartResponse(*part), nil
}

// AdjustStock applies a manual stock correction. Stock never goes negative.
func (s *catalogService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest, actorID *uuid.UUID) (PartResponse, error) {
	if req.Delta == 0 {
		return PartResponse{}, apperror.Validation("delta must not be zero")
	}

	var part *model.InventoryPart
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		part, err = s.catalogRepo.FindPartByIDForUpdate(txCtx, id)
		if err != nil {
			return notFound(err, "part")
		}

		stockAfter := part.CurrentStock + req.Delta
		if stockAfter < 0 {
			return apperror.Validation(fmt.Sprintf("insufficient stock for %s: have %d, removing %d", part.SKU, part.CurrentStock, -req.Delta))
		}

		movement := model.InventoryTransaction{
			PartID:          part.ID,
			TransactionType: model.StockMovementIn,
			QuantityChanged: req.Delta,
			StockAfter:      stockAfter,
			Note:            req.Note,
		}
		if req.Delta < 0 {
			movement.TransactionType = model.StockMovementOut
			movement.QuantityChanged = -req.Delta
		}

		if err := s.catalogRepo.UpdateStock(txCtx, part.ID, stockAfter); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		if err := s.catalogRepo.CreateMovement(txCtx, &movement); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}
		part.CurrentStock = stockAfter

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionAdjustStock, "inventory_part", part.ID.String(), part.Name, req)
	})
	if err != nil {
		return PartResponse{}, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(notification.EventStockChanged, map[string]interface{}{
			"part_id":       part.ID.String(),
			"sku":           part.SKU,
			"current_stock": part.CurrentStock,
		}); err != nil {
			s.log.Warn("stock event not published", zap.String("part_id", part.ID.String()), zap.Error(err))
		}
	}
	return toPartResponse(*part), nil
}

// --- Mapping ---

func toCatalogServiceResponse(svc model.CatalogService) CatalogServiceResponse {
	return CatalogServiceResponse{
		ID:               svc.ID.String(),
		Code:             svc.Code,
		Name:             svc.Name,
		Description:      svc.Description,
		BasePrice:        money(svc.BasePrice),
		EstimatedMinutes: svc.EstimatedMinutes,
		IsActive:         svc.IsActive,
	}
}

func toPartResponse(p model.InventoryPart) PartResponse {
	return PartResponse{
		ID:           p.ID.String(),
		SKU:          p.SKU,
		Name:         p.Name,
		CurrentStock: p.CurrentStock,
		UnitPrice:    money(p.UnitPrice),
	}
}
