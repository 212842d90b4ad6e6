package model

import "time"

// SequenceCounter is the last value handed out for a scope within a period.
type SequenceCounter struct {
	Scope     string    `gorm:"type:varchar(20);primaryKey" json:"scope"`
	Period    string    `gorm:"type:varchar(10);primaryKey" json:"period"`
	Value     int64     `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
