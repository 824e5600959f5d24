package uow

import (
	"context"

	"banking-ledger/internal/domain/account"
	"banking-ledger/internal/domain/loan"
	"banking-ledger/internal/domain/transaction"
)

// Repos are bound to one transaction; nothing written through them is
// visible to others until the surrounding call returns nil.
type Repos struct {
	Accounts     account.Repository
	Loans        loan.Repository
	Transactions transaction.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock loan first, then its account, then pass both in
	WithinLoanTx(ctx context.Context, loanNumber string, fn func(r Repos, l *loan.Loan, a *account.Account) error) error
}
