package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateStudent     = "CREATE_STUDENT"
	ActionCreateFeeType     = "CREATE_FEE_TYPE"
	ActionCreateBillingRule = "CREATE_BILLING_RULE"
	ActionComposeInvoice    = "COMPOSE_INVOICE"
	ActionCancelInvoice     = "CANCEL_INVOICE"
	ActionApplyPayment      = "APPLY_PAYMENT"
	ActionReversePayment    = "REVERSE_PAYMENT"
	ActionCreateExpense     = "CREATE_EXPENSE"
	ActionReverseExpense    = "REVERSE_EXPENSE"
)

// AuditLog tracks Who, What, and When for every financial mutation
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"school_id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // uuid or document number
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // human readable label
	Details    string     `gorm:"type:jsonb" json:"details"`                      // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
