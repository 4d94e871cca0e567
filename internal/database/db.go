package database

import (
	"log"

	"scolaris/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.School{},
		&model.Section{},
		&model.Class{},
		&model.Student{},
		&model.User{},
		&model.RefreshToken{},
		&model.FeeType{},
		&model.BillingRule{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.DocumentSequence{},
		&model.Payment{},
		&model.Expense{},
		&model.Supplier{},
		&model.AccountingEntry{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
