package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "loanflow/internal/errors"
	"loanflow/internal/model"
	"loanflow/internal/repository"
)

// LoanApplication is the user supplied part of a loan request.
type LoanApplication struct {
	Amount  decimal.Decimal
	Tenure  int
	Purpose string
}

// LoanService owns the loan lifecycle: submission, listing and review.
// Every operation takes the caller's identity explicitly.
type LoanService interface {
	Submit(ctx context.Context, who model.Identity, app LoanApplication) (*model.Loan, error)
	ListOwn(ctx context.Context, who model.Identity) ([]model.Loan, error)
	ListAll(ctx context.Context, who model.Identity) ([]model.Loan, error)
	UpdateStatus(ctx context.Context, who model.Identity, loanID uint, status string) (*model.Loan, error)
	Reviews(ctx context.Context, who model.Identity, loanID uint) ([]model.LoanReview, error)
}

type loanService struct {
	repo repository.LoanRepository
}

// NewLoanService creates a new loan service.
func NewLoanService(repo repository.LoanRepository) LoanService {
	return &loanService{repo: repo}
}

// Submit validates the application and stores it as Pending.
func (s *loanService) Submit(ctx context.Context, who model.Identity, app LoanApplication) (*model.Loan, error) {
	if !who.Authenticated() {
		return nil, apperrors.ErrNotAuthenticated
	}
	if err := validateLoan(app.Amount, app.Tenure, app.Purpose); err != nil {
		return nil, err
	}

	_, err := s.repo.FindByOwnerAndPurpose(ctx, who.UserID, app.Purpose)
	if err == nil {
		return nil, apperrors.Conflict(apperrors.ReasonDuplicatePurpose)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check duplicate purpose: %w", err)
	}

	loan := &model.Loan{
		UserID:  who.UserID,
		Amount:  app.Amount,
		Tenure:  app.Tenure,
		Purpose: app.Purpose,
		Status:  model.LoanStatusPending,
	}
	if err := s.repo.Create(ctx, loan); err != nil {
		// the unique index catches submissions racing past the check above
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict(apperrors.ReasonDuplicatePurpose)
		}
		return nil, fmt.Errorf("create loan: %w", err)
	}
	return loan, nil
}

// ListOwn returns the caller's loans in submission order.
func (s *loanService) ListOwn(ctx context.Context, who model.Identity) ([]model.Loan, error) {
	if !who.Authenticated() {
		return nil, apperrors.ErrNotAuthenticated
	}
	loans, err := s.repo.ListByOwner(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// ListAll returns every loan. Admin only.
func (s *loanService) ListAll(ctx context.Context, who model.Identity) ([]model.Loan, error) {
	if err := requireAdmin(who); err != nil {
		return nil, err
	}
	loans, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// UpdateStatus approves or rejects a Pending loan. Admin only.
// Reviewed loans are final: a second review fails with ErrAlreadyReviewed.
func (s *loanService) UpdateStatus(ctx context.Context, who model.Identity, loanID uint, status string) (*model.Loan, error) {
	if err := requireAdmin(who); err != nil {
		return nil, err
	}

	target := model.LoanStatus(status)
	if !target.IsReviewOutcome() {
		return nil, apperrors.InvalidInput(apperrors.ReasonStatus)
	}

	loan, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLoanNotFound
		}
		return nil, fmt.Errorf("find loan: %w", err)
	}
	if loan.Status != model.LoanStatusPending {
		return nil, apperrors.ErrAlreadyReviewed
	}

	changed, err := s.repo.UpdateStatusIfPending(ctx, loanID, target, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("update loan status: %w", err)
	}
	if !changed {
		// another admin reviewed it between the read and the write
		return nil, apperrors.ErrAlreadyReviewed
	}

	updated, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("reload loan: %w", err)
	}
	return updated, nil
}

// Reviews returns the review history of a loan. Admin only.
func (s *loanService) Reviews(ctx context.Context, who model.Identity, loanID uint) ([]model.LoanReview, error) {
	if err := requireAdmin(who); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, loanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLoanNotFound
		}
		return nil, fmt.Errorf("find loan: %w", err)
	}

	reviews, err := s.repo.ListReviews(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
