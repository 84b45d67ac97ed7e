package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// OptionalFee is an elective charge (uniform, ID card, field trip) that can be
// assigned to individual students. A fee either has a flat Amount or carries
// named Variations, each with its own amount.
type OptionalFee struct {
	ID                    string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AcademicYearID        string            `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Name                  string            `json:"name" gorm:"not null" validate:"required"`
	Category              BreakdownCategory `json:"category" gorm:"not null;type:varchar(20)" validate:"required"`
	Amount                decimal.Decimal   `json:"amount" gorm:"type:numeric(12,2)"`
	HasVariations         bool              `json:"has_variations" gorm:"default:false"`
	ApplicableGradeLevels pq.Int64Array     `json:"applicable_grade_levels" gorm:"type:integer[]"`
	IsActive              bool              `json:"is_active" gorm:"default:true;index"`
	CreatedAt             time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt             time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt             *time.Time        `json:"deleted_at,omitempty" gorm:"index"`

	Variations []*FeeVariation `json:"variations,omitempty" gorm:"foreignKey:OptionalFeeID;references:ID"`
}

// AppliesTo reports whether the fee is available to the given grade level.
// An empty ApplicableGradeLevels list means all grades.
func (f *OptionalFee) AppliesTo(gradeLevel int) bool {
	if len(f.ApplicableGradeLevels) == 0 {
		return true
	}
	for _, g := range f.ApplicableGradeLevels {
		if int(g) == gradeLevel {
			return true
		}
	}
	return false
}

// FeeVariation is one named amount option of an optional fee
// (e.g. "Uniform - Small" vs "Uniform - Large").
type FeeVariation struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OptionalFeeID string          `json:"optional_fee_id" gorm:"not null;index;type:uuid"`
	Name          string          `json:"name" gorm:"not null" validate:"required"`
	Amount        decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)" validate:"required"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// StudentOptionalFee binds an optional fee (and optionally one variation) to a
// student for one academic year. Amount is captured at assignment time so
// later edits to the fee definition never change what the student owes.
type StudentOptionalFee struct {
	ID             string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID      string          `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	OptionalFeeID  string          `json:"optional_fee_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	VariationID    *string         `json:"variation_id,omitempty" gorm:"index;type:uuid"`
	AcademicYearID string          `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Amount         decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)"`
	CreatedAt      time.Time       `json:"created_at" gorm:"autoCreateTime"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty" gorm:"index"`

	OptionalFee *OptionalFee  `json:"optional_fee,omitempty" gorm:"foreignKey:OptionalFeeID;references:ID"`
	Variation   *FeeVariation `json:"variation,omitempty" gorm:"foreignKey:VariationID;references:ID"`
}
