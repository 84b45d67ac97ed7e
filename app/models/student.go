package models

import "time"

// Student carries the minimum identity the ledger needs: who the student is
// and which grade level's fee template applies. Enrollment details live in the
// wider system.
type Student struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentNo  string     `json:"student_no" gorm:"uniqueIndex;not null" validate:"required"`
	FirstName  string     `json:"first_name" gorm:"not null" validate:"required"`
	LastName   string     `json:"last_name" gorm:"not null" validate:"required"`
	GradeLevel int        `json:"grade_level" gorm:"not null;index" validate:"gte=0"`
	IsActive   bool       `json:"is_active" gorm:"default:true;index"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}
