package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Refund reverses part of exactly one payment. Refunds across a payment may
// never exceed that payment's AmountPaid, and a payment touching any
// non-refundable breakdown cannot be refunded at all.
type Refund struct {
	ID         string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PaymentID  string          `json:"payment_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)" validate:"required"`
	Reason     string          `json:"reason" gorm:"not null" validate:"required"`
	RefundDate time.Time       `json:"refund_date" gorm:"not null"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
}
