package loan

import (
	"context"
	"log"
	"strings"
	"time"

	"banking-ledger/internal/domain/account"
	"banking-ledger/internal/domain/errs"
	"banking-ledger/internal/domain/loan"
	"banking-ledger/internal/domain/transaction"
	"banking-ledger/internal/domain/uow"
	"banking-ledger/internal/infrastructure/metrics"
	"banking-ledger/internal/usecase/shared"
	"banking-ledger/pkg/id"
)

type Usecase struct {
	uow      uow.UnitOfWork
	loans    loan.Repository
	accounts account.Repository
	txns     transaction.Repository
	policy   loan.Policy
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, loans loan.Repository, accounts account.Repository, txns transaction.Repository, policy loan.Policy) *Usecase {
	return &Usecase{
		uow:      tx,
		loans:    loans,
		accounts: accounts,
		txns:     txns,
		policy:   policy,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Apply records a pending loan for an existing account. Nothing is written
// when the application falls outside the configured bounds.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (_ *shared.LoanDTO, err error) {
	defer metrics.Track(metrics.OpApply, time.Now(), &err)

	typ, err := loan.ParseType(in.LoanType)
	if err != nil {
		return nil, err
	}
	if err := u.policy.Check(in.PrincipalAmount, in.InterestRate, in.TermMonths); err != nil {
		return nil, err
	}
	sched, err := loan.ComputeSchedule(in.PrincipalAmount, in.InterestRate, in.TermMonths)
	if err != nil {
		return nil, err
	}
	purpose := strings.TrimSpace(in.Purpose)
	if len(purpose) > 500 {
		return nil, errs.Invalid("purpose", "must be at most 500 characters")
	}

	l := &loan.Loan{
		LoanType:           typ,
		Status:             loan.StatusPending,
		PrincipalAmount:    in.PrincipalAmount,
		InterestRate:       in.InterestRate,
		TermMonths:         in.TermMonths,
		MonthlyPayment:     sched.MonthlyPayment,
		OutstandingBalance: in.PrincipalAmount,
		ApplicationDate:    u.now(),
		Purpose:            purpose,
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Accounts.GetByNumber(ctx, in.AccountNumber)
		if err != nil {
			return errs.FromStore(err, "account", in.AccountNumber)
		}
		l.AccountID = a.ID
		return shared.CreateNumbered(ctx, id.LoanNumber, r.Loans.ExistsByNumber, func(number string) error {
			l.LoanNumber = number
			return r.Loans.Create(ctx, l)
		})
	})
	if err != nil {
		return nil, errs.FromStore(err, "loan", l.LoanNumber)
	}

	log.Printf("loan %s applied: account=%s principal=%s status=%s", l.LoanNumber, in.AccountNumber, shared.Money(l.PrincipalAmount), l.Status)
	dto := shared.NewLoanDTO(l, in.AccountNumber)
	return &dto, nil
}

func (u *Usecase) Get(ctx context.Context, number string) (*LoanDetailDTO, error) {
	l, err := u.loans.GetByNumber(ctx, number)
	if err != nil {
		return nil, errs.FromStore(err, "loan", number)
	}
	a, err := u.accounts.GetByID(ctx, l.AccountID)
	if err != nil {
		return nil, errs.Persistence(err)
	}
	txns, err := u.txns.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, errs.Persistence(err)
	}
	return &LoanDetailDTO{
		LoanDTO:      shared.NewLoanDTO(l, a.AccountNumber),
		Transactions: shared.TransactionDTOs(txns, a.AccountNumber, l.LoanNumber),
	}, nil
}

// List returns loans newest application first. An empty status or "all"
// lists every loan; an unknown status is a validation error.
func (u *Usecase) List(ctx context.Context, status string) ([]shared.LoanDTO, error) {
	var f loan.Filter
	if s := strings.TrimSpace(status); s != "" && !strings.EqualFold(s, "all") {
		parsed, err := loan.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		f.Status = &parsed
	}

	loans, err := u.loans.List(ctx, f)
	if err != nil {
		return nil, errs.Persistence(err)
	}

	numbers := make(map[uint64]string)
	out := make([]shared.LoanDTO, 0, len(loans))
	for i := range loans {
		accountID := loans[i].AccountID
		if _, ok := numbers[accountID]; !ok {
			a, err := u.accounts.GetByID(ctx, accountID)
			if err != nil {
				return nil, errs.Persistence(err)
			}
			numbers[accountID] = a.AccountNumber
		}
		out = append(out, shared.NewLoanDTO(&loans[i], numbers[accountID]))
	}
	return out, nil
}

// Calculate previews the amortization of a prospective loan without storing anything.
func (u *Usecase) Calculate(in CalculateInput) (*ScheduleDTO, error) {
	sched, err := loan.ComputeSchedule(in.PrincipalAmount, in.InterestRate, in.TermMonths)
	if err != nil {
		return nil, err
	}
	return &ScheduleDTO{
		PrincipalAmount: shared.Money(in.PrincipalAmount),
		InterestRate:    in.InterestRate.String(),
		TermMonths:      in.TermMonths,
		MonthlyPayment:  shared.Money(sched.MonthlyPayment),
		TotalPayment:    shared.Money(sched.TotalPayment),
		TotalInterest:   shared.Money(sched.TotalInterest),
	}, nil
}

// Schedule lists the installments of a stored loan. Due dates count from the
// disbursement date once the loan is disbursed, else from the application date.
func (u *Usecase) Schedule(ctx context.Context, number string) ([]InstallmentDTO, error) {
	l, err := u.loans.GetByNumber(ctx, number)
	if err != nil {
		return nil, errs.FromStore(err, "loan", number)
	}
	start := l.ApplicationDate
	if l.DisbursementDate != nil {
		start = *l.DisbursementDate
	}
	rows, err := loan.BuildInstallments(l.PrincipalAmount, l.InterestRate, l.TermMonths, start)
	if err != nil {
		return nil, err
	}
	out := make([]InstallmentDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, InstallmentDTO{
			Period:           r.Period,
			DueDate:          r.DueDate,
			Payment:          shared.Money(r.Payment),
			Principal:        shared.Money(r.Principal),
			Interest:         shared.Money(r.Interest),
			RemainingBalance: shared.Money(r.RemainingBalance),
		})
	}
	return out, nil
}
