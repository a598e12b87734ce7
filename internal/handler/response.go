package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "loanflow/internal/errors"
)

// Pages a browser client is sent to after an action.
const (
	pageRegister       = "/register"
	pageLogin          = "/login"
	pageDashboard      = "/dashboard"
	pageApplyLoan      = "/apply_loan"
	pageAdminDashboard = "/admin/dashboard"
)

// MessageResponse is the body of a successful state-changing action.
type MessageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// fail converts err into an echo error whose body names the page to return to.
// Missing identities go to the login page and non-admins to their own dashboard
// whatever page they came from.
func fail(err error, from string) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	resp := httpErr.ToErrorResponse()

	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		resp.Redirect = pageDashboard
	case errors.Is(err, apperrors.ErrUnauthorized) && from != pageLogin:
		resp.Redirect = pageLogin
	default:
		resp.Redirect = from
	}
	return echo.NewHTTPError(httpErr.StatusCode, resp)
}

func badRequest(message, code, from string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error:    message,
		Code:     code,
		Redirect: from,
	})
}
