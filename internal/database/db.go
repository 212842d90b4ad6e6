package database

import (
	"fmt"

	"garage/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the postgres pool and migrates the schema.
// TranslateError maps unique violations to gorm.ErrDuplicatedKey.
func NewConnection(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Customer{},
		&model.Vehicle{},
		&model.CatalogService{},
		&model.InventoryPart{},
		&model.InventoryTransaction{},
		&model.WorkOrder{},
		&model.WorkOrderService{},
		&model.WorkOrderPart{},
		&model.WorkOrderLabor{},
		&model.Payment{},
		&model.InspectionTemplate{},
		&model.InspectionTemplateItem{},
		&model.WorkOrderInspection{},
		&model.InspectionChecklistItem{},
		&model.Invoice{},
		&model.InvoiceLineItem{},
		&model.SequenceCounter{},
		&model.TaxRule{},
		&model.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	return nil
}
