package repository

import (
	"context"
	"time"

	"garage/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaxRuleFilter struct {
	TaxType string
	Offset  int
	Limit   int
}

type TaxRuleRepository interface {
	Create(ctx context.Context, rule *model.TaxRule) error
	Save(ctx context.Context, rule *model.TaxRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TaxRule, error)
	List(ctx context.Context, filter TaxRuleFilter) ([]model.TaxRule, int64, error)
	// FindEffective returns the newest rule of taxType whose window contains at.
	FindEffective(ctx context.Context, taxType string, at time.Time) (*model.TaxRule, error)
	// HasOverlap reports whether another rule of the same type shares any
	// day with rule's window.
	HasOverlap(ctx context.Context, rule *model.TaxRule) (bool, error)
}

type taxRuleRepository struct {
	db *gorm.DB
}

func NewTaxRuleRepository(db *gorm.DB) TaxRuleRepository {
	return &taxRuleRepository{db: db}
}

// effectiveOn keeps rules whose [effective_from, effective_to] window covers at.
func effectiveOn(at time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("effective_from <= ?", at).
			Where("effective_to IS NULL OR effective_to >= ?", at)
	}
}

func (r *taxRuleRepository) Create(ctx context.Context, rule *model.TaxRule) error {
	return GetDB(ctx, r.db).Create(rule).Error
}

func (r *taxRuleRepository) Save(ctx context.Context, rule *model.TaxRule) error {
	return GetDB(ctx, r.db).Save(rule).Error
}

func (r *taxRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.TaxRule{}, "id = ?", id).Error
}

func (r *taxRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TaxRule, error) {
	var rule model.TaxRule
	if err := GetDB(ctx, r.db).Where("id = ?", id).Take(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *taxRuleRepository) List(ctx context.Context, filter TaxRuleFilter) ([]model.TaxRule, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.TaxRule{})
	if filter.TaxType != "" {
		query = query.Where("tax_type = ?", filter.TaxType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rules []model.TaxRule
	err := query.Order("tax_type").Order("effective_from DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&rules).Error
	return rules, total, err
}

func (r *taxRuleRepository) FindEffective(ctx context.Context, taxType string, at time.Time) (*model.TaxRule, error) {
	var rule model.TaxRule
	err := GetDB(ctx, r.db).
		Scopes(effectiveOn(at)).
		Where("tax_type = ?", taxType).
		Order("effective_from DESC").
		Take(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *taxRuleRepository) HasOverlap(ctx context.Context, rule *model.TaxRule) (bool, error) {
	query := GetDB(ctx, r.db).Model(&model.TaxRule{}).
		Where("tax_type = ?", rule.TaxType).
		Where("effective_to IS NULL OR effective_to >= ?", rule.EffectiveFrom)
	if rule.EffectiveTo != nil {
		query = query.Where("effective_from <= ?", *rule.EffectiveTo)
	}
	if rule.ID != uuid.Nil {
		query = query.Where("id <> ?", rule.ID)
	}

	var ids []uuid.UUID
	if err := query.Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}
