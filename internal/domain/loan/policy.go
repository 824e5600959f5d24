package loan

import (
	"banking-ledger/internal/domain/errs"

	"github.com/shopspring/decimal"
)

// Policy holds the configurable bounds applied at application time and the
// balance floor enforced on payments.
type Policy struct {
	MinLoanAmount   decimal.Decimal
	MaxLoanAmount   decimal.Decimal
	MinInterestRate decimal.Decimal
	MaxInterestRate decimal.Decimal
	MinTermMonths   int
	MaxTermMonths   int
	MinBalance      decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		MinLoanAmount:   decimal.NewFromInt(1_000),
		MaxLoanAmount:   decimal.NewFromInt(1_000_000),
		MinInterestRate: decimal.NewFromInt(3),
		MaxInterestRate: decimal.NewFromInt(25),
		MinTermMonths:   6,
		MaxTermMonths:   360,
		MinBalance:      decimal.Zero,
	}
}

// Check validates an application against the bounds, principal first.
func (p Policy) Check(principal, rate decimal.Decimal, termMonths int) error {
	if principal.LessThan(p.MinLoanAmount) || principal.GreaterThan(p.MaxLoanAmount) {
		return errs.Invalid("principal_amount", "must be between %s and %s",
			p.MinLoanAmount.StringFixed(2), p.MaxLoanAmount.StringFixed(2))
	}
	if !principal.Equal(principal.Round(2)) {
		return errs.Invalid("principal_amount", "must have at most 2 decimal places")
	}
	if rate.LessThan(p.MinInterestRate) || rate.GreaterThan(p.MaxInterestRate) {
		return errs.Invalid("interest_rate", "must be between %s%% and %s%%",
			p.MinInterestRate.String(), p.MaxInterestRate.String())
	}
	if !rate.Equal(rate.Round(3)) {
		return errs.Invalid("interest_rate", "must have at most 3 decimal places")
	}
	if termMonths < p.MinTermMonths || termMonths > p.MaxTermMonths {
		return errs.Invalid("term_months", "must be between %d and %d months", p.MinTermMonths, p.MaxTermMonths)
	}
	return nil
}

// Validate rejects bounds that could never admit a loan.
func (p Policy) Validate() error {
	switch {
	case !p.MinLoanAmount.IsPositive():
		return errs.Invalid("min_loan_amount", "must be positive")
	case p.MaxLoanAmount.LessThan(p.MinLoanAmount):
		return errs.Invalid("max_loan_amount", "must not be below min_loan_amount")
	case p.MinInterestRate.IsNegative():
		return errs.Invalid("min_interest_rate", "must not be negative")
	case p.MaxInterestRate.LessThan(p.MinInterestRate):
		return errs.Invalid("max_interest_rate", "must not be below min_interest_rate")
	case p.MinTermMonths <= 0:
		return errs.Invalid("min_term_months", "must be positive")
	case p.MaxTermMonths < p.MinTermMonths:
		return errs.Invalid("max_term_months", "must not be below min_term_months")
	}
	return nil
}
