package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one payment received against a student's account for an academic
// year. Once created, AmountPaid, PaymentMethod and ReferenceNumber are
// immutable; only Remarks may be edited after the fact.
type Payment struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID       string          `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AcademicYearID  string          `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AmountPaid      decimal.Decimal `json:"amount_paid" gorm:"not null;type:numeric(12,2)" validate:"required"`
	PaymentDate     time.Time       `json:"payment_date" gorm:"not null;index"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"not null;type:varchar(20)" validate:"required"`
	ReferenceNumber string          `json:"reference_number" gorm:"uniqueIndex;not null"`
	Remarks         *string         `json:"remarks,omitempty" gorm:"type:text"`
	RecordedBy      *string         `json:"recorded_by,omitempty" gorm:"type:uuid"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"autoUpdateTime"`

	LineItems []*PaymentLineItem `json:"line_items,omitempty" gorm:"foreignKey:PaymentID;references:ID"`
}

// LineItemTotal sums the payment's itemized allocations. When line items are
// present their total must equal AmountPaid within the rounding epsilon.
func (p *Payment) LineItemTotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range p.LineItems {
		total = total.Add(li.Amount)
	}
	return total
}

// PaymentLineItem allocates part of a payment to one breakdown of the fee
// template, for itemized tracking.
type PaymentLineItem struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PaymentID   string          `json:"payment_id" gorm:"not null;index;type:uuid"`
	BreakdownID string          `json:"breakdown_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)" validate:"required"`
	Position    int             `json:"position" gorm:"not null"`
}
