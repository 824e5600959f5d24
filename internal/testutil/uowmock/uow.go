package uowmock

import (
	"context"
	"errors"
	"strconv"

	"banking-ledger/internal/domain/account"
	"banking-ledger/internal/domain/errs"
	"banking-ledger/internal/domain/loan"
	"banking-ledger/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, loanNumber string, fn func(r uow.Repos, l *loan.Loan, a *account.Account) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every callback directly against repos with no real transaction.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinLoanTxFn: func(ctx context.Context, number string, fn func(uow.Repos, *loan.Loan, *account.Account) error) error {
			l, err := repos.Loans.GetByNumberForUpdate(ctx, number)
			if err != nil {
				return err
			}
			a, err := repos.Accounts.GetByIDForUpdate(ctx, l.AccountID)
			if err != nil {
				return errs.FromStore(err, "account", strconv.FormatUint(l.AccountID, 10))
			}
			return fn(repos, l, a)
		},
	}
}

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinLoanTx(fn func(context.Context, string, func(uow.Repos, *loan.Loan, *account.Account) error) error) *UoW {
	m.WithinLoanTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinLoanTx(ctx context.Context, loanNumber string, fn func(r uow.Repos, l *loan.Loan, a *account.Account) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanNumber, fn)
	}
	return errUnimplemented
}
