package service

import (
	"context"
	"fmt"
	"time"

	"garage/internal/model"
	"garage/internal/repository"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// --- DTOs ---

type TaxRuleRequest struct {
	TaxType       string `json:"tax_type" binding:"required,oneof=SALES PARTS"`
	Rate          string `json:"rate" binding:"required"`           // fraction, "0.18" is 18%
	EffectiveFrom string `json:"effective_from" binding:"required"` // YYYY-MM-DD
	EffectiveTo   string `json:"effective_to"`                      // YYYY-MM-DD, empty for open ended
	Description   string `json:"description"`
}

type TaxRuleResponse struct {
	ID            string  `json:"id"`
	TaxType       string  `json:"tax_type"`
	Rate          string  `json:"rate"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to"`
	Description   string  `json:"description"`
	InEffect      bool    `json:"in_effect"`
	CreatedAt     string  `json:"created_at"`
}

type ActiveTaxRateResponse struct {
	TaxType string `json:"tax_type"`
	Rate    string `json:"rate"`
	RuleID  string `json:"rule_id"`
}

// --- Interface ---

// TaxService manages dated tax rules. The SALES rule in effect on the
// invoice date is what CreateInvoice applies; invoices keep their own copy.
type TaxService interface {
	ListTaxRules(ctx context.Context, taxType string, page, limit int) ([]TaxRuleResponse, int64, error)
	CreateTaxRule(ctx context.Context, req TaxRuleRequest, actorID *uuid.UUID) (TaxRuleResponse, error)
	UpdateTaxRule(ctx context.Context, id uuid.UUID, req TaxRuleRequest, actorID *uuid.UUID) (TaxRuleResponse, error)
	DeleteTaxRule(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
	GetActiveTaxRate(ctx context.Context, taxType string) (*ActiveTaxRateResponse, error)
}

type taxService struct {
	taxRuleRepo repository.TaxRuleRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	now         Clock
}

func NewTaxService(taxRuleRepo repository.TaxRuleRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager, now Clock) TaxService {
	return &taxService{taxRuleRepo: taxRuleRepo, auditRepo: auditRepo, txManager: txManager, now: now}
}

// --- Implementation ---

func (s *taxService) ListTaxRules(ctx context.Context, taxType string, page, limit int) ([]TaxRuleResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	rules, total, err := s.taxRuleRepo.List(ctx, repository.TaxRuleFilter{
		TaxType: taxType,
		Offset:  (page - 1) * limit,
		Limit:   limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tax rules: %w", err)
	}

	today := s.now()
	res := make([]TaxRuleResponse, 0, len(rules))
	for _, r := range rules {
		res = append(res, toTaxRuleResponse(r, today))
	}
	return res, total, nil
}

func (s *taxService) CreateTaxRule(ctx context.Context, req TaxRuleRequest, actorID *uuid.UUID) (TaxRuleResponse, error) {
	var rule model.TaxRule
	if err := applyTaxRuleRequest(&rule, req); err != nil {
		return TaxRuleResponse{}, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureNoOverlap(txCtx, &rule); err != nil {
			return err
		}
		if err := s.taxRuleRepo.Create(txCtx, &rule); err != nil {
			return fmt.Errorf("failed to create tax rule: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateTaxRule, "tax_rule", rule.ID.String(), taxRuleLabel(rule), req)
	})
	if err != nil {
		return TaxRuleResponse{}, err
	}
	return toTaxRuleResponse(rule, s.now()), nil
}

func (s *taxService) UpdateTaxRule(ctx context.Context, id uuid.UUID, req TaxRuleRequest, actorID *uuid.UUID) (TaxRuleResponse, error) {
	var rule *model.TaxRule
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		rule, err = s.taxRuleRepo.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "tax rule")
		}
		before := taxRuleLabel(*rule)
		if err := applyTaxRuleRequest(rule, req); err != nil {
			return err
		}
		if err := s.ensureNoOverlap(txCtx, rule); err != nil {
			return err
		}
		if err := s.taxRuleRepo.Save(txCtx, rule); err != nil {
			return fmt.Errorf("failed to update tax rule: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionUpdateTaxRule, "tax_rule", rule.ID.String(), taxRuleLabel(*rule), map[string]string{
			"before": before,
		})
	})
	if err != nil {
		return TaxRuleResponse{}, err
	}
	return toTaxRuleResponse(*rule, s.now()), nil
}

// DeleteTaxRule removes the rule. Invoices keep the rate they were issued with.
func (s *taxService) DeleteTaxRule(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rule, err := s.taxRuleRepo.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "tax rule")
		}
		if err := s.taxRuleRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete tax rule: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionDeleteTaxRule, "tax_rule", id.String(), taxRuleLabel(*rule), nil)
	})
}

// GetActiveTaxRate returns nil without error when no rule is in effect.
func (s *taxService) GetActiveTaxRate(ctx context.Context, taxType string) (*ActiveTaxRateResponse, error) {
	rule, err := s.taxRuleRepo.FindEffective(ctx, taxType, s.now())
	if repository.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query active tax rate: %w", err)
	}
	return &ActiveTaxRateResponse{
		TaxType: rule.TaxType,
		Rate:    rule.Rate.StringFixed(4),
		RuleID:  rule.ID.String(),
	}, nil
}

func (s *taxService) ensureNoOverlap(ctx context.Context, rule *model.TaxRule) error {
	overlaps, err := s.taxRuleRepo.HasOverlap(ctx, rule)
	if err != nil {
		return fmt.Errorf("failed to check overlap: %w", err)
	}
	if overlaps {
		return apperror.Conflict(fmt.Sprintf("another %s tax rule is in effect between %s and %s",
			rule.TaxType, rule.EffectiveFrom.Format(dateLayout), formatOpenDate(rule.EffectiveTo)))
	}
	return nil
}

// applyTaxRuleRequest validates req and copies it onto rule.
func applyTaxRuleRequest(rule *model.TaxRule, req TaxRuleRequest) error {
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		return apperror.Validation("invalid rate value")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return apperror.Validation("rate must be between 0 and 1")
	}

	from, err := time.Parse(dateLayout, req.EffectiveFrom)
	if err != nil {
		return apperror.Validation("invalid effective_from date format (expected YYYY-MM-DD)")
	}
	var to *time.Time
	if req.EffectiveTo != "" {
		t, err := time.Parse(dateLayout, req.EffectiveTo)
		if err != nil {
			return apperror.Validation("invalid effective_to date format (expected YYYY-MM-DD)")
		}
		if t.Before(from) {
			return apperror.Validation("effective_to must not be before effective_from")
		}
		to = &t
	}

	rule.TaxType = req.TaxType
	rule.Rate = rate
	rule.EffectiveFrom = from
	rule.EffectiveTo = to
	rule.Description = req.Description
	return nil
}

// --- Mapping ---

func taxRuleLabel(r model.TaxRule) string {
	return r.TaxType + " " + r.Rate.StringFixed(4) + " from " + r.EffectiveFrom.Format(dateLayout)
}

func formatOpenDate(t *time.Time) string {
	if t == nil {
		return "open end"
	}
	return t.Format(dateLayout)
}

func toTaxRuleResponse(r model.TaxRule, today time.Time) TaxRuleResponse {
	resp := TaxRuleResponse{
		ID:            r.ID.String(),
		TaxType:       r.TaxType,
		Rate:          r.Rate.StringFixed(4),
		EffectiveFrom: r.EffectiveFrom.Format(dateLayout),
		Description:   r.Description,
		InEffect:      !r.EffectiveFrom.After(today) && (r.EffectiveTo == nil || !r.EffectiveTo.Before(today)),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.EffectiveTo != nil {
		s := r.EffectiveTo.Format(dateLayout)
		resp.EffectiveTo = &s
	}
	return resp
}
