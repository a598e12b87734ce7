package errors

import (
	"errors"
	"net/http"
	"strings"
)

// Error kinds. Every DomainError unwraps to exactly one of these.
var (
	// ErrInvalidInput is returned when a field fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is returned when the input collides with an existing record.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is returned for bad credentials or a missing identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the caller lacks the admin privilege.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when a referenced loan does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned when a reviewed loan is reviewed again.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Reason codes carried by DomainError.
const (
	ReasonEmail              = "email"
	ReasonPassword           = "password"
	ReasonName               = "name"
	ReasonEmailTaken         = "email_taken"
	ReasonAmountRange        = "amount_range"
	ReasonAmountPrecision    = "amount_precision"
	ReasonTenureRange        = "tenure_range"
	ReasonPurpose            = "purpose"
	ReasonDuplicatePurpose   = "duplicate_purpose"
	ReasonStatus             = "status"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonInvalidToken       = "invalid_token"
	ReasonNotAuthenticated   = "not_authenticated"
	ReasonAdminOnly          = "admin_only"
	ReasonLoanNotFound       = "loan_not_found"
	ReasonAlreadyReviewed    = "already_reviewed"
)

var messages = map[string]string{
	ReasonEmail:              "Invalid email!",
	ReasonPassword:           "Password must be at least 8 characters!",
	ReasonName:               "Name must be at least 2 characters!",
	ReasonEmailTaken:         "Email already registered!",
	ReasonAmountRange:        "Loan amount must be between 50,000 and 1,000,000!",
	ReasonAmountPrecision:    "Loan amount can have at most 2 decimal places!",
	ReasonTenureRange:        "Tenure must be between 1 and 5 years!",
	ReasonPurpose:            "Purpose must be non-empty and less than 200 characters!",
	ReasonDuplicatePurpose:   "Loan application already exists for this purpose!",
	ReasonStatus:             "Invalid status. Choose either Approved or Rejected.",
	ReasonInvalidCredentials: "Login failed! Check your email and password.",
	ReasonInvalidToken:       "Invalid or expired token.",
	ReasonNotAuthenticated:   "Please log in to access this page.",
	ReasonAdminOnly:          "Unauthorized access!",
	ReasonLoanNotFound:       "Loan not found.",
	ReasonAlreadyReviewed:    "Loan has already been reviewed.",
}

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// Unknown email and wrong password are deliberately the same error.
	ErrInvalidCredentials = newError(ErrUnauthorized, ReasonInvalidCredentials)
	// ErrInvalidToken is returned for a bad, expired or revoked token.
	ErrInvalidToken = newError(ErrUnauthorized, ReasonInvalidToken)
	// ErrNotAuthenticated is returned when no identity accompanies a call.
	ErrNotAuthenticated = newError(ErrUnauthorized, ReasonNotAuthenticated)
	// ErrAdminOnly is returned when a non-admin calls an admin operation.
	ErrAdminOnly = newError(ErrForbidden, ReasonAdminOnly)
	// ErrLoanNotFound is returned when a loan id does not resolve.
	ErrLoanNotFound = newError(ErrNotFound, ReasonLoanNotFound)
	// ErrAlreadyReviewed is returned when the loan is no longer Pending.
	ErrAlreadyReviewed = newError(ErrInvalidTransition, ReasonAlreadyReviewed)
)

// DomainError is a user-facing failure with a machine readable reason.
type DomainError struct {
	Kind    error
	Reason  string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the kind so errors.Is(err, ErrConflict) works.
func (e *DomainError) Unwrap() error {
	return e.Kind
}

func newError(kind error, reason string) *DomainError {
	msg, ok := messages[reason]
	if !ok {
		msg = kind.Error()
	}
	return &DomainError{Kind: kind, Reason: reason, Message: msg}
}

// InvalidInput builds a field validation failure.
func InvalidInput(reason string) error {
	return newError(ErrInvalidInput, reason)
}

// Conflict builds a uniqueness failure.
func Conflict(reason string) error {
	return newError(ErrConflict, reason)
}

// Reason returns the reason code of err, or "" when err is not a DomainError.
func Reason(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Reason
	}
	return ""
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Redirect string `json:"redirect,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var statusByKind = []struct {
	kind   error
	status int
}{
	{ErrInvalidInput, http.StatusBadRequest},
	{ErrConflict, http.StatusConflict},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrNotFound, http.StatusNotFound},
	{ErrInvalidTransition, http.StatusConflict},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything that is not a
// DomainError is reported as an opaque internal error.
func MapErrorToHTTP(err error) *HTTPError {
	var de *DomainError
	if errors.As(err, &de) {
		for _, m := range statusByKind {
			if errors.Is(de.Kind, m.kind) {
				return NewHTTPError(m.status, de.Message, strings.ToUpper(de.Reason))
			}
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
