package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSnapshot is the computed summary of one student's account for one
// academic year. It is derived on every read and never persisted.
type LedgerSnapshot struct {
	BaseFee          decimal.Decimal `json:"base_fee"`
	OptionalDue      decimal.Decimal `json:"optional_due"`
	TotalDue         decimal.Decimal `json:"total_due"`
	GrossPaid        decimal.Decimal `json:"gross_paid"`
	TotalRefunded    decimal.Decimal `json:"total_refunded"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalAdjustments decimal.Decimal `json:"total_adjustments"` // positive = net additional, negative = net discount
	Balance          decimal.Decimal `json:"balance"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`

	// Stored flags, not derived. Day counting is a presentation concern.
	IsLatePayment bool       `json:"is_late_payment"`
	LateSince     *time.Time `json:"late_since,omitempty"`
}

// LedgerFlag holds the manually toggled late-payment marker for one
// student-year.
type LedgerFlag struct {
	StudentID      string     `json:"student_id" gorm:"primaryKey;type:uuid"`
	AcademicYearID string     `json:"academic_year_id" gorm:"primaryKey;type:uuid"`
	IsLatePayment  bool       `json:"is_late_payment" gorm:"default:false"`
	LateSince      *time.Time `json:"late_since,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}
