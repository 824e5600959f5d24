package mysql

import (
	"context"
	"strconv"

	"banking-ledger/internal/domain/account"
	"banking-ledger/internal/domain/errs"
	"banking-ledger/internal/domain/loan"
	"banking-ledger/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Accounts:     &AccountRepository{db: tx},
		Loans:        &LoanRepository{db: tx},
		Transactions: &TransactionRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

// WithinLoanTx locks the loan row, then its account row, in that order for
// every caller so two operations on the same loan cannot deadlock.
func (u *GormUoW) WithinLoanTx(ctx context.Context, loanNumber string, fn func(r uow.Repos, l *loan.Loan, a *account.Account) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		l, err := r.Loans.GetByNumberForUpdate(ctx, loanNumber)
		if err != nil {
			return err
		}
		a, err := r.Accounts.GetByIDForUpdate(ctx, l.AccountID)
		if err != nil {
			// a missing account is reported as such, not as the loan
			return errs.FromStore(err, "account", strconv.FormatUint(l.AccountID, 10))
		}
		return fn(r, l, a)
	})
}
