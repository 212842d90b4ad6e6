package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// SequenceRepository hands out monotonically increasing counters per (scope, period).
type SequenceRepository interface {
	Next(ctx context.Context, scope, period string) (int64, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

const nextSequenceSQL = `
INSERT INTO sequence_counters (scope, period, value, updated_at)
VALUES (?, ?, 1, ?)
ON CONFLICT (scope, period) DO UPDATE
SET value = sequence_counters.value + 1, updated_at = excluded.updated_at
RETURNING value`

// Next increments and reads the counter in one statement. It always runs
// on the root pool, outside any caller transaction, so a rolled back
// caller burns a number instead of handing it out twice.
func (r *sequenceRepository) Next(ctx context.Context, scope, period string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).
		Raw(nextSequenceSQL, scope, period, time.Now().UTC()).
		Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
