package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod enum constants
const (
	MethodCash         = "CASH"
	MethodBankTransfer = "BANK_TRANSFER"
	MethodCheck        = "CHECK"
	MethodMobileMoney  = "MOBILE_MONEY"
)

// Payment records money received from a student. A payment may settle part of
// an invoice or stand alone (ad-hoc collection); either way it drives a pair
// of ledger postings. Payments are immutable after creation: corrections go
// through a reversal plus a fresh payment, never an in-place edit.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"school_id"`
	StudentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"student_id"`
	Student   *Student        `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	InvoiceID *uuid.UUID      `gorm:"type:uuid;index" json:"invoice_id"`
	FeeTypeID *uuid.UUID      `gorm:"type:uuid;index" json:"fee_type_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Method    string          `gorm:"type:varchar(20);not null" json:"method"` // CASH, BANK_TRANSFER, CHECK, MOBILE_MONEY
	Reference string          `gorm:"type:varchar(100)" json:"reference"`      // bank slip / mobile money txn id
	PaidAt    time.Time       `gorm:"not null;index" json:"paid_at"`
	Reversed  bool            `gorm:"default:false;index" json:"reversed"`
	CreatedBy uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
