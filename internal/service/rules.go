package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "loanflow/internal/errors"
)

// Loan limits. Both ends of each range are accepted.
var (
	MinLoanAmount = decimal.NewFromInt(50000)
	MaxLoanAmount = decimal.NewFromInt(1000000)
)

const (
	AmountDecimals    = 2
	MinTenureYears    = 1
	MaxTenureYears    = 5
	MaxPurposeLength  = 200
	minEmailLength    = 4
	minPasswordLength = 8
	minNameLength     = 2
)

// fieldRule pairs a validator tag with the reason reported when it fails.
// String lengths in tags are counted in characters.
type fieldRule struct {
	value  interface{}
	tag    string
	reason string
}

var validate = validator.New()

// firstViolation returns the error for the first failing rule, in order.
func firstViolation(rules ...fieldRule) error {
	for _, r := range rules {
		if err := validate.Var(r.value, r.tag); err != nil {
			return apperrors.InvalidInput(r.reason)
		}
	}
	return nil
}

func validateRegistration(email, password, name string) error {
	return firstViolation(
		fieldRule{email, fmt.Sprintf("min=%d,contains=@", minEmailLength), apperrors.ReasonEmail},
		fieldRule{password, fmt.Sprintf("min=%d", minPasswordLength), apperrors.ReasonPassword},
		fieldRule{name, fmt.Sprintf("min=%d", minNameLength), apperrors.ReasonName},
	)
}

func validateLoan(amount decimal.Decimal, tenure int, purpose string) error {
	if amount.LessThan(MinLoanAmount) || amount.GreaterThan(MaxLoanAmount) {
		return apperrors.InvalidInput(apperrors.ReasonAmountRange)
	}
	// Amounts are stored as decimal(20,2); anything finer would be rounded silently.
	if !amount.Equal(amount.Truncate(AmountDecimals)) {
		return apperrors.InvalidInput(apperrors.ReasonAmountPrecision)
	}
	return firstViolation(
		fieldRule{tenure, fmt.Sprintf("min=%d,max=%d", MinTenureYears, MaxTenureYears), apperrors.ReasonTenureRange},
		fieldRule{purpose, fmt.Sprintf("required,max=%d", MaxPurposeLength), apperrors.ReasonPurpose},
	)
}
