package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer owns vehicles and is the actor in approval decisions.
// ExternalID is the subject issued by the identity provider.
type Customer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID *string   `gorm:"type:varchar(100);uniqueIndex" json:"external_id,omitempty"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255);index" json:"email"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type Vehicle struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Make         string    `gorm:"type:varchar(100);not null" json:"make"`
	Model        string    `gorm:"type:varchar(100);not null" json:"model"`
	Year         int       `gorm:"type:int" json:"year"`
	VIN          string    `gorm:"type:varchar(32);index" json:"vin"`
	LicensePlate string    `gorm:"type:varchar(20);index" json:"license_plate"`
	Mileage      int       `gorm:"type:int" json:"mileage"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

// Label is the short description used in notifications and invoices.
func (v Vehicle) Label() string {
	label := fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
	if v.Year == 0 {
		label = v.Make + " " + v.Model
	}
	if v.LicensePlate != "" {
		label += " (" + v.LicensePlate + ")"
	}
	return label
}
