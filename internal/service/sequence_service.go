package service

import (
	"context"
	"fmt"
	"time"

	"garage/internal/repository"
)

// Sequence scopes
const (
	ScopeWorkOrder = "WO"
	ScopeInvoice   = "INV"
)

// SequenceGenerator hands out human readable identifiers. Work order numbers
// restart every UTC day, invoice numbers every UTC month.
type SequenceGenerator interface {
	Next(ctx context.Context, scope string, now time.Time) (string, error)
}

type sequenceGenerator struct {
	repo repository.SequenceRepository
}

func NewSequenceGenerator(repo repository.SequenceRepository) SequenceGenerator {
	return &sequenceGenerator{repo: repo}
}

func (g *sequenceGenerator) Next(ctx context.Context, scope string, now time.Time) (string, error) {
	now = now.UTC()

	var period, format string
	switch scope {
	case ScopeWorkOrder:
		period, format = now.Format("20060102"), "WO-%s-%03d"
	case ScopeInvoice:
		period, format = now.Format("200601"), "INV-%s-%04d"
	default:
		return "", fmt.Errorf("unknown sequence scope %q", scope)
	}

	n, err := g.repo.Next(ctx, scope, period)
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s number: %w", scope, err)
	}
	return fmt.Sprintf(format, period, n), nil
}
