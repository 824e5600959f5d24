package approval

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"banking-ledger/internal/domain/account"
	"banking-ledger/internal/domain/errs"
	domainLoan "banking-ledger/internal/domain/loan"
	"banking-ledger/internal/domain/uow"
	"banking-ledger/internal/infrastructure/metrics"
)

// Usecase decides pending applications. Each decision runs in its own
// transaction with the loan row locked.
type Usecase struct {
	uow uow.UnitOfWork
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork) *Usecase {
	return &Usecase{uow: tx, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) Approve(ctx context.Context, loanNumber string) (_ *DecisionDTO, err error) {
	defer metrics.Track(metrics.OpApprove, time.Now(), &err)
	return u.decide(ctx, loanNumber, func(l *domainLoan.Loan, at time.Time) error {
		return l.Approve(at)
	})
}

func (u *Usecase) Reject(ctx context.Context, in RejectInput) (_ *DecisionDTO, err error) {
	defer metrics.Track(metrics.OpReject, time.Now(), &err)
	if utf8.RuneCountInString(strings.TrimSpace(in.Reason)) > MaxReasonLength {
		return nil, errs.Invalid("reason", "must be at most %d characters", MaxReasonLength)
	}
	return u.decide(ctx, in.LoanNumber, func(l *domainLoan.Loan, at time.Time) error {
		return l.Reject(in.Reason, at)
	})
}

func (u *Usecase) decide(ctx context.Context, loanNumber string, apply func(*domainLoan.Loan, time.Time) error) (*DecisionDTO, error) {
	var dto *DecisionDTO
	err := u.uow.WithinLoanTx(ctx, loanNumber, func(r uow.Repos, l *domainLoan.Loan, _ *account.Account) error {
		from := l.Status
		at := u.now()
		if err := apply(l, at); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		log.Printf("loan %s: %s -> %s", l.LoanNumber, from, l.Status)

		dto = &DecisionDTO{
			LoanNumber:   l.LoanNumber,
			Status:       string(l.Status),
			ApprovalDate: l.ApprovalDate,
			Notes:        l.Notes,
			DecidedAt:    at,
		}
		return nil
	})
	if err != nil {
		return nil, errs.FromStore(err, "loan", loanNumber)
	}
	return dto, nil
}
