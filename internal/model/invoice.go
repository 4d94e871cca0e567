package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants. OVERDUE is a read-time view (due date passed
// while still PENDING), never stored.
const (
	InvoicePending   = "PENDING"
	InvoicePaid      = "PAID"
	InvoiceOverdue   = "OVERDUE"
	InvoiceCancelled = "CANCELLED"
)

// Invoice bills a student for a set of fee items. TotalAmount is always the
// sum of its item totals; PaidAmount is the sum of non-reversed payments
// applied to it and never exceeds TotalAmount.
type Invoice struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"school_id"`
	InvoiceNo   string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"` // FAC-<SCHOOLCODE>-<YYYYMM>-<seq>
	StudentID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"student_id"`
	Student     *Student        `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Items       []InvoiceItem   `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"paid_amount"`
	Status      string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	IssueDate   time.Time       `gorm:"not null" json:"issue_date"`
	DueDate     *time.Time      `gorm:"index" json:"due_date"`
	CancelledAt *time.Time      `json:"cancelled_at"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// EffectiveStatus derives the OVERDUE view without persisting it: an unpaid
// invoice past its due date reads as overdue but stays PENDING in storage.
func (inv *Invoice) EffectiveStatus(now time.Time) string {
	if inv.Status == InvoicePending && inv.DueDate != nil && inv.DueDate.Before(now) {
		return InvoiceOverdue
	}
	return inv.Status
}

// Outstanding returns the remaining balance on the invoice.
func (inv *Invoice) Outstanding() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.PaidAmount)
}

// InvoiceItem is one fee line on an invoice. Description is a snapshot taken
// at composition time so later fee type renames leave history intact.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	FeeTypeID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"fee_type_id"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_price"` // quantity * unit price
	CreatedAt   time.Time       `json:"created_at"`
}

// DocumentSequence hands out per-school, per-period counters for invoice and
// ledger entry numbering. Rows are incremented under a SELECT ... FOR UPDATE
// so concurrent requests for the same school cannot draw the same number.
type DocumentSequence struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_doc_sequence,priority:1" json:"school_id"`
	Kind     string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_doc_sequence,priority:2" json:"kind"` // FAC, JRN
	Period   string    `gorm:"type:varchar(6);not null;uniqueIndex:idx_doc_sequence,priority:3" json:"period"` // YYYYMM
	NextSeq  int64     `gorm:"not null;default:1" json:"next_seq"`
}
