package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeTemplate is the full itemized base charge for one grade level in one
// academic year. Exactly one active template may exist per (grade, year).
type FeeTemplate struct {
	ID             string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AcademicYearID string          `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	GradeLevel     int             `json:"grade_level" gorm:"not null;index" validate:"gte=0"`
	Name           string          `json:"name" gorm:"not null" validate:"required"`
	Description    *string         `json:"description,omitempty" gorm:"type:text"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"not null;type:numeric(12,2)"`
	IsActive       bool            `json:"is_active" gorm:"default:true;index"`
	CreatedAt      time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty" gorm:"index"`

	Breakdowns []*Breakdown `json:"breakdowns,omitempty" gorm:"foreignKey:TemplateID;references:ID"`
}

// BreakdownTotal sums the template's line items. The stored TotalAmount must
// always equal this sum; ReplaceBreakdowns recomputes it on every change.
func (t *FeeTemplate) BreakdownTotal() decimal.Decimal {
	total := decimal.Zero
	for _, b := range t.Breakdowns {
		total = total.Add(b.Amount)
	}
	return total
}

// Breakdown is one line item of a fee template (e.g. "Tuition Fee: 7,000").
type Breakdown struct {
	ID           string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TemplateID   string            `json:"template_id" gorm:"not null;index;type:uuid"`
	Description  string            `json:"description" gorm:"not null" validate:"required"`
	Amount       decimal.Decimal   `json:"amount" gorm:"not null;type:numeric(12,2)" validate:"required"`
	Category     BreakdownCategory `json:"category" gorm:"not null;type:varchar(20)" validate:"required"`
	Order        int               `json:"order" gorm:"column:sort_order;not null"`
	IsRefundable bool              `json:"is_refundable" gorm:"default:true"`
	CreatedAt    time.Time         `json:"created_at" gorm:"autoCreateTime"`
}
