package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus represents the review status of a loan application.
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "Pending"
	LoanStatusApproved LoanStatus = "Approved"
	LoanStatusRejected LoanStatus = "Rejected"
)

// IsReviewOutcome reports whether s is a status an admin may set.
func (s LoanStatus) IsReviewOutcome() bool {
	return s == LoanStatusApproved || s == LoanStatusRejected
}

// Loan represents a loan application submitted by a user.
// A user may hold at most one application per purpose.
type Loan struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"not null;uniqueIndex:idx_loans_user_purpose,priority:1"`
	Amount    decimal.Decimal `json:"loan_amount" gorm:"type:decimal(20,2);not null"`
	Tenure    int             `json:"tenure" gorm:"not null"`
	Purpose   string          `json:"purpose" gorm:"size:200;not null;uniqueIndex:idx_loans_user_purpose,priority:2"`
	Status    LoanStatus      `json:"status" gorm:"type:varchar(20);not null;default:'Pending';index"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
