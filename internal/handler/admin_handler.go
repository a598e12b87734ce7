package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "loanflow/internal/errors"
	"loanflow/internal/model"
	"loanflow/internal/service"
)

// AdminHandler handles loan review endpoints.
type AdminHandler struct {
	loanService service.LoanService
	userService service.UserService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(loanService service.LoanService, userService service.UserService) *AdminHandler {
	return &AdminHandler{loanService: loanService, userService: userService}
}

// UpdateLoanStatusRequest carries the review outcome.
type UpdateLoanStatusRequest struct {
	Status string `json:"status" form:"status" enums:"Approved,Rejected"`
}

// ListLoans godoc
// @Summary Admin dashboard: all loans
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} LoanListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/loans [get]
func (h *AdminHandler) ListLoans(c echo.Context) error {
	loans, err := h.loanService.ListAll(c.Request().Context(), currentIdentity(c))
	if err != nil {
		return fail(err, pageAdminDashboard)
	}
	return c.JSON(http.StatusOK, LoanListResponse{Loans: loans})
}

// UpdateLoanStatus godoc
// @Summary Approve or reject a pending loan
// @Tags admin
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param request body UpdateLoanStatusRequest true "Review outcome"
// @Success 200 {object} LoanResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/loans/{id}/status [post]
func (h *AdminHandler) UpdateLoanStatus(c echo.Context) error {
	who := currentIdentity(c)
	// Checked before binding so a non-admin never learns the body format.
	if !who.IsAdmin {
		return fail(apperrors.ErrAdminOnly, pageAdminDashboard)
	}

	var req UpdateLoanStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST", pageAdminDashboard)
	}

	id, err := h.loanID(c, who)
	if err != nil {
		return err
	}

	loan, err := h.loanService.UpdateStatus(c.Request().Context(), who, id, req.Status)
	if err != nil {
		return fail(err, pageAdminDashboard)
	}

	return c.JSON(http.StatusOK, LoanResponse{
		Message:  fmt.Sprintf("Loan %d status updated to %s.", loan.ID, loan.Status),
		Loan:     loan,
		Redirect: pageAdminDashboard,
	})
}

// ReviewListResponse represents the review history of a loan.
type ReviewListResponse struct {
	Reviews []model.LoanReview `json:"reviews"`
}

// ListReviews godoc
// @Summary Review history of a loan
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} ReviewListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/loans/{id}/reviews [get]
func (h *AdminHandler) ListReviews(c echo.Context) error {
	who := currentIdentity(c)

	id, err := h.loanID(c, who)
	if err != nil {
		return err
	}

	reviews, err := h.loanService.Reviews(c.Request().Context(), who, id)
	if err != nil {
		return fail(err, pageAdminDashboard)
	}
	return c.JSON(http.StatusOK, ReviewListResponse{Reviews: reviews})
}

// loanID parses the :id path parameter. Non-admins learn nothing about
// which ids exist.
func (h *AdminHandler) loanID(c echo.Context, who model.Identity) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		if !who.IsAdmin {
			return 0, fail(apperrors.ErrAdminOnly, pageAdminDashboard)
		}
		return 0, fail(apperrors.ErrLoanNotFound, pageAdminDashboard)
	}
	return uint(id), nil
}

// ListUsers godoc
// @Summary List registered users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context(), currentIdentity(c))
	if err != nil {
		return fail(err, pageAdminDashboard)
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, users)
}
