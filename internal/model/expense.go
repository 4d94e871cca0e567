package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory enum constants. Each category maps to exactly one charge
// account in the chart of accounts; adding a category is a code change there
// too, never data entry.
const (
	CategorySalaries    = "SALARIES"
	CategoryUtilities   = "UTILITIES"
	CategorySupplies    = "SUPPLIES"
	CategoryMaintenance = "MAINTENANCE"
	CategoryOther       = "OTHER"
)

// Expense is money paid out by the school. It bypasses the invoice path but
// still drives a pair of ledger postings (debit charge account, credit cash).
// Like payments, expenses are corrected by reversal, never edited in place.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"school_id"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Category    string          `gorm:"type:varchar(20);not null;index" json:"category"` // SALARIES, UTILITIES, SUPPLIES, MAINTENANCE, OTHER
	SupplierID  *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier    *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	ReceiptURL  string          `gorm:"type:text" json:"receipt_url"`
	SpentAt     time.Time       `gorm:"not null;index" json:"spent_at"`
	Reversed    bool            `gorm:"default:false;index" json:"reversed"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
