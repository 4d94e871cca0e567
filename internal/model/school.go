package model

import (
	"time"

	"github.com/google/uuid"
)

// School is the tenant boundary: invoice numbering, ledger balances and
// reports are all scoped to one school.
type School struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Code      string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"code"` // short code used in invoice numbers, e.g. "KIN"
	Currency  string    `gorm:"type:varchar(3);not null;default:'CDF'" json:"currency"`
	Address   string    `gorm:"type:text" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section groups classes (e.g. primary, secondary).
type Section struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID  uuid.UUID `gorm:"type:uuid;not null;index" json:"school_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Class is a single class within a section. Billing rules may target a class
// directly, its section, or the whole school.
type Class struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID  uuid.UUID `gorm:"type:uuid;not null;index" json:"school_id"`
	SectionID uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`
	Section   *Section  `gorm:"foreignKey:SectionID" json:"section,omitempty"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Level     int       `gorm:"not null;default:1" json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Student is the billing target of invoices and payments.
type Student struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"school_id"`
	ClassID        *uuid.UUID `gorm:"type:uuid;index" json:"class_id"`
	Class          *Class     `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	FirstName      string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string     `gorm:"type:varchar(100);not null" json:"last_name"`
	RegistrationNo string     `gorm:"type:varchar(30);index" json:"registration_no"`
	GuardianName   string     `gorm:"type:varchar(200)" json:"guardian_name"`
	GuardianPhone  string     `gorm:"type:varchar(20)" json:"guardian_phone"`
	Active         bool       `gorm:"default:true;index" json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
