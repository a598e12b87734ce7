package handler

import (
	"github.com/labstack/echo/v4"

	"loanflow/internal/auth"
	apperrors "loanflow/internal/errors"
	"loanflow/internal/model"
	"loanflow/internal/service"
)

const (
	// ClaimsContextKey is where the JWT middleware stores *auth.Claims.
	ClaimsContextKey   = "claims"
	identityContextKey = "identity"
)

// Unauthorized is the JWT middleware error handler.
func Unauthorized(c echo.Context, err error) error {
	return fail(apperrors.ErrInvalidToken, pageLogin)
}

// RequireIdentity resolves the token subject into a model.Identity for the
// handlers behind it. Must run after the JWT middleware.
func RequireIdentity(users service.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ClaimsContextKey).(*auth.Claims)
			if !ok {
				return fail(apperrors.ErrNotAuthenticated, pageLogin)
			}
			who, err := users.Identify(c.Request().Context(), claims.UserID)
			if err != nil {
				return fail(err, pageLogin)
			}
			c.Set(identityContextKey, who)
			return next(c)
		}
	}
}

// currentIdentity returns the caller, or the anonymous identity when the
// route is not behind RequireIdentity.
func currentIdentity(c echo.Context) model.Identity {
	who, _ := c.Get(identityContextKey).(model.Identity)
	return who
}

func currentClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ClaimsContextKey).(*auth.Claims)
	return claims
}
