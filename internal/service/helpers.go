package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"garage/internal/model"
	"garage/internal/repository"
	"garage/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

// notFound maps gorm.ErrRecordNotFound to a NotFound error and wraps the rest.
func notFound(err error, what string) error {
	if repository.IsNotFound(err) {
		return apperror.NotFound(what + " not found")
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func parseOptionalUUID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.Validation("invalid " + field)
	}
	return &id, nil
}

func parseMoney(raw, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.Validation("invalid " + field)
	}
	if d.IsNegative() {
		return decimal.Zero, apperror.Validation(field + " must not be negative")
	}
	return d, nil
}

// writeAudit records an audit row in the caller's transaction.
func writeAudit(ctx context.Context, repo repository.AuditRepository, actorID *uuid.UUID, action, entityType, entityID, entityName string, details interface{}) error {
	entry := model.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		EntityName: entityName,
	}
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
		entry.Details = string(b)
	}
	if err := repo.Log(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// createWithNumber allocates a sequence number and hands it to create. A
// unique violation is retried once with a fresh number; a second one is a
// Conflict.
func createWithNumber(ctx context.Context, seq SequenceGenerator, scope string, now time.Time, create func(number string) error) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		number, err := seq.Next(ctx, scope, now)
		if err != nil {
			return err
		}
		lastErr = create(number)
		if lastErr == nil || !repository.IsUniqueViolation(lastErr) {
			return lastErr
		}
	}
	return apperror.Wrap(apperror.KindConflict, "could not allocate a unique "+scope+" number", lastErr)
}
