package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Adjustment is a manual discount or surcharge on a student's account,
// independent of payments. Adjustments are immutable; a mistake is reversed by
// recording a new adjustment of the opposite type, never by editing.
type Adjustment struct {
	ID             string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID      string          `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AcademicYearID string          `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Type           AdjustmentType  `json:"type" gorm:"not null;type:varchar(15)" validate:"required"`
	Amount         decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)" validate:"required"`
	Reason         string          `json:"reason" gorm:"not null" validate:"required"`
	Description    *string         `json:"description,omitempty" gorm:"type:text"`
	CreatedBy      *string         `json:"created_by,omitempty" gorm:"type:uuid"`
	CreatedAt      time.Time       `json:"created_at" gorm:"autoCreateTime"`
}
