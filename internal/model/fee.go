package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingFrequency enum constants
const (
	FrequencyOneTime   = "ONE_TIME"
	FrequencyMonthly   = "MONTHLY"
	FrequencyQuarterly = "QUARTERLY"
	FrequencyAnnual    = "ANNUAL"
)

// BillingRule target scope constants, from most to least specific.
const (
	TargetClass   = "CLASS"
	TargetSection = "SECTION"
	TargetSchool  = "SCHOOL"
)

// FeeType is a billable fee category owned by a school (tuition, enrollment,
// exam fee, ...). Once an invoice line references it, amendments go through a
// new FeeType rather than editing in place; historical invoices keep their
// description snapshot.
type FeeType struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"school_id"`
	Name       string          `gorm:"type:varchar(150);not null" json:"name"`
	BaseAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"base_amount"`
	Mandatory  bool            `gorm:"default:false" json:"mandatory"`
	Frequency  string          `gorm:"type:varchar(20);not null;default:'ONE_TIME'" json:"frequency"` // ONE_TIME, MONTHLY, QUARTERLY, ANNUAL
	Active     bool            `gorm:"default:true;index" json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// BillingRule overrides the amount of a FeeType for a given target. At most
// one rule may exist per (fee type, target); resolution walks targets from
// CLASS to SECTION to SCHOOL and the first match wins.
type BillingRule struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"school_id"`
	FeeTypeID  uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_billing_rule_target,priority:1" json:"fee_type_id"`
	FeeType    *FeeType         `gorm:"foreignKey:FeeTypeID" json:"fee_type,omitempty"`
	TargetType string           `gorm:"type:varchar(10);not null;uniqueIndex:idx_billing_rule_target,priority:2" json:"target_type"` // CLASS, SECTION, SCHOOL
	ClassID    *uuid.UUID       `gorm:"type:uuid;index;uniqueIndex:idx_billing_rule_target,priority:3" json:"class_id"`
	SectionID  *uuid.UUID       `gorm:"type:uuid;index;uniqueIndex:idx_billing_rule_target,priority:4" json:"section_id"`
	Amount     *decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"` // nil = rule matches but falls back to the fee type base amount
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
