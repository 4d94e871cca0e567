package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReferenceType enum constants: the financial event a posting records.
const (
	RefTypePayment = "PAYMENT"
	RefTypeInvoice = "INVOICE"
	RefTypeExpense = "EXPENSE"
)

// AccountingEntry is a single posting line: exactly one of DebitAmount /
// CreditAmount is non-zero. Entries are written only by the ledger posting
// engine, never mutated, and undone only by an offsetting reversal pair.
type AccountingEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"school_id"`
	EntryNo       string          `gorm:"type:varchar(30);not null;index" json:"entry_no"` // JRN-<YYYYMM>-<seq>, shared by both lines of a pair
	EntryDate     time.Time       `gorm:"not null;index" json:"entry_date"`
	Description   string          `gorm:"type:varchar(255);not null" json:"description"`
	ReferenceType string          `gorm:"type:varchar(20);not null;index:idx_entry_reference" json:"reference_type"` // PAYMENT, INVOICE, EXPENSE
	ReferenceID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_entry_reference" json:"reference_id"`
	AccountCode   string          `gorm:"type:varchar(10);not null;index" json:"account_code"`
	DebitAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"debit_amount"`
	CreditAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"credit_amount"`
	Currency      string          `gorm:"type:varchar(3);not null" json:"currency"`
	IsReversal    bool            `gorm:"default:false;index" json:"is_reversal"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}
