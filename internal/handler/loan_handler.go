package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"loanflow/internal/model"
	"loanflow/internal/service"
)

// LoanHandler handles the applicant side of the loan lifecycle.
type LoanHandler struct {
	loanService service.LoanService
}

// NewLoanHandler creates a new loan handler.
func NewLoanHandler(loanService service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// Amount is a decimal bound from a JSON number, a JSON string or a form value.
type Amount struct {
	decimal.Decimal
}

// UnmarshalParam implements echo.BindUnmarshaler for form and query values.
func (a *Amount) UnmarshalParam(param string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(param))
	if err != nil {
		return err
	}
	a.Decimal = d
	return nil
}

// SubmitLoanRequest represents a loan application.
type SubmitLoanRequest struct {
	LoanAmount Amount `json:"loan_amount" form:"loan_amount" swaggertype:"number"`
	Tenure     int    `json:"tenure" form:"tenure"`
	Purpose    string `json:"purpose" form:"purpose"`
}

// LoanResponse wraps a single loan with the follow-up page.
type LoanResponse struct {
	Message  string      `json:"message"`
	Loan     *model.Loan `json:"loan"`
	Redirect string      `json:"redirect,omitempty"`
}

// LoanListResponse represents a list of loans.
type LoanListResponse struct {
	Loans []model.Loan `json:"loans"`
}

// Submit godoc
// @Summary Apply for a loan
// @Tags loans
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body SubmitLoanRequest true "Loan application"
// @Success 201 {object} LoanResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /loans [post]
func (h *LoanHandler) Submit(c echo.Context) error {
	var req SubmitLoanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST", pageApplyLoan)
	}

	loan, err := h.loanService.Submit(c.Request().Context(), currentIdentity(c), service.LoanApplication{
		Amount:  req.LoanAmount.Decimal,
		Tenure:  req.Tenure,
		Purpose: req.Purpose,
	})
	if err != nil {
		return fail(err, pageApplyLoan)
	}

	return c.JSON(http.StatusCreated, LoanResponse{
		Message:  "Loan application submitted successfully!",
		Loan:     loan,
		Redirect: pageDashboard,
	})
}

// ListOwn godoc
// @Summary Loan status of the current user
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} LoanListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /loans [get]
func (h *LoanHandler) ListOwn(c echo.Context) error {
	loans, err := h.loanService.ListOwn(c.Request().Context(), currentIdentity(c))
	if err != nil {
		return fail(err, pageDashboard)
	}
	return c.JSON(http.StatusOK, LoanListResponse{Loans: loans})
}
