package loan

import (
	"strings"
	"time"

	"banking-ledger/internal/domain/errs"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusActive    Status = "active"
	StatusClosed    Status = "closed"
	StatusDefaulted Status = "defaulted"
)

// DaysPerMonth is the fixed month length used for maturity and due dates.
const DaysPerMonth = 30

const DefaultRejectReason = "Application rejected"

// Allowed edges of the lifecycle. Defaulted has no operation leading to it yet.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusActive},
	StatusActive:   {StatusClosed, StatusDefaulted},
}

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusApproved, StatusRejected, StatusActive, StatusClosed, StatusDefaulted:
		return s, nil
	default:
		return "", errs.Invalid("status", "unknown loan status %q", raw)
	}
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool { return len(transitions[s]) == 0 }

func (l *Loan) transition(to Status, op string) error {
	if !l.Status.CanTransitionTo(to) {
		return &errs.TransitionError{Loan: l.LoanNumber, From: string(l.Status), Op: op}
	}
	l.Status = to
	return nil
}

func (l *Loan) Approve(now time.Time) error {
	if err := l.transition(StatusApproved, "approved"); err != nil {
		return err
	}
	l.ApprovalDate = &now
	return nil
}

func (l *Loan) Reject(reason string, now time.Time) error {
	if err := l.transition(StatusRejected, "rejected"); err != nil {
		return err
	}
	if reason = strings.TrimSpace(reason); reason == "" {
		reason = DefaultRejectReason
	}
	l.Notes = reason
	return nil
}

func (l *Loan) Disburse(now time.Time) error {
	if err := l.transition(StatusActive, "disbursed"); err != nil {
		return err
	}
	maturity := now.AddDate(0, 0, l.TermMonths*DaysPerMonth)
	l.DisbursementDate = &now
	l.MaturityDate = &maturity
	return nil
}

// ValidatePayment checks a payment against the loan without touching it.
// Payments above the outstanding balance are refused rather than absorbed.
func (l *Loan) ValidatePayment(amount decimal.Decimal) error {
	if l.Status != StatusActive {
		return &errs.TransitionError{Loan: l.LoanNumber, From: string(l.Status), Op: "paid"}
	}
	if !amount.IsPositive() {
		return errs.Invalid("payment_amount", "must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return errs.Invalid("payment_amount", "must have at most 2 decimal places")
	}
	if amount.GreaterThan(l.OutstandingBalance) {
		return errs.Invalid("payment_amount", "exceeds outstanding balance %s", l.OutstandingBalance.StringFixed(2))
	}
	return nil
}

// ApplyPayment reduces the outstanding balance and closes the loan when it
// reaches zero. It reports whether the loan was closed.
func (l *Loan) ApplyPayment(amount decimal.Decimal, now time.Time) (bool, error) {
	if err := l.ValidatePayment(amount); err != nil {
		return false, err
	}
	l.OutstandingBalance = decimal.Max(l.OutstandingBalance.Sub(amount), decimal.Zero)
	if !l.OutstandingBalance.IsZero() {
		return false, nil
	}
	if err := l.transition(StatusClosed, "closed"); err != nil {
		return false, err
	}
	l.ClosedDate = &now
	return true, nil
}
