package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanReview records an admin decision on a loan.
// It is written in the same transaction as the status change.
type LoanReview struct {
	ID         uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	LoanID     uint       `json:"loan_id" gorm:"not null;index"`
	ReviewerID uint       `json:"reviewer_id" gorm:"not null;index"`
	Status     LoanStatus `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time  `json:"created_at"`

	// Relations
	Loan     *Loan `json:"-" gorm:"foreignKey:LoanID"`
	Reviewer *User `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *LoanReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
