package repository

import (
	"context"

	"gorm.io/gorm"

	"loanflow/internal/model"
)

// LoanRepository defines loan persistence operations.
type LoanRepository interface {
	Create(ctx context.Context, loan *model.Loan) error
	FindByID(ctx context.Context, id uint) (*model.Loan, error)
	FindByOwnerAndPurpose(ctx context.Context, userID uint, purpose string) (*model.Loan, error)
	ListByOwner(ctx context.Context, userID uint) ([]model.Loan, error)
	List(ctx context.Context) ([]model.Loan, error)
	// UpdateStatusIfPending sets the status only while the loan is still
	// Pending, records the review and reports whether a row changed.
	UpdateStatusIfPending(ctx context.Context, id uint, status model.LoanStatus, reviewerID uint) (bool, error)
	ListReviews(ctx context.Context, loanID uint) ([]model.LoanReview, error)
}

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository.
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan application. A second application for the same
// (user, purpose) fails with gorm.ErrDuplicatedKey.
func (r *loanRepository) Create(ctx context.Context, loan *model.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// FindByID finds a loan by ID.
func (r *loanRepository) FindByID(ctx context.Context, id uint) (*model.Loan, error) {
	var loan model.Loan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

// FindByOwnerAndPurpose finds the owner's application for a purpose.
func (r *loanRepository) FindByOwnerAndPurpose(ctx context.Context, userID uint, purpose string) (*model.Loan, error) {
	var loan model.Loan
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ?", userID, purpose).
		First(&loan).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListByOwner lists the owner's loans in insertion order.
func (r *loanRepository) ListByOwner(ctx context.Context, userID uint) ([]model.Loan, error) {
	loans := []model.Loan{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// List lists every loan in insertion order together with its owner.
func (r *loanRepository) List(ctx context.Context) ([]model.Loan, error) {
	loans := []model.Loan{}
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("id").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// UpdateStatusIfPending updates the status with a compare-and-set on Pending.
// The review row is only written when the update wins.
func (r *loanRepository) UpdateStatusIfPending(ctx context.Context, id uint, status model.LoanStatus, reviewerID uint) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Loan{}).
			Where("id = ? AND status = ?", id, model.LoanStatusPending).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return nil
		}
		changed = true
		return tx.Create(&model.LoanReview{LoanID: id, ReviewerID: reviewerID, Status: status}).Error
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// ListReviews lists the reviews of a loan, oldest first, with the reviewer.
func (r *loanRepository) ListReviews(ctx context.Context, loanID uint) ([]model.LoanReview, error) {
	reviews := []model.LoanReview{}
	if err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("loan_id = ?", loanID).
		Order("created_at").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
