// Package ledger moves money between a loan and its account. Every balance
// change is written together with exactly one ledger row, inside one
// transaction holding the loan and account locks.
package ledger

import (
	"context"
	"fmt"
	"log"
	"time"

	"banking-ledger/internal/domain/account"
	"banking-ledger/internal/domain/errs"
	"banking-ledger/internal/domain/loan"
	"banking-ledger/internal/domain/transaction"
	"banking-ledger/internal/domain/uow"
	"banking-ledger/internal/infrastructure/metrics"
	"banking-ledger/internal/usecase/shared"
	"banking-ledger/pkg/id"

	"github.com/shopspring/decimal"
)

type Usecase struct {
	uow      uow.UnitOfWork
	accounts account.Repository
	loans    loan.Repository
	txns     transaction.Repository
	policy   loan.Policy
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, accounts account.Repository, loans loan.Repository, txns transaction.Repository, policy loan.Policy) *Usecase {
	return &Usecase{
		uow:      tx,
		accounts: accounts,
		loans:    loans,
		txns:     txns,
		policy:   policy,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Disburse activates an approved loan and credits the principal to its account.
func (u *Usecase) Disburse(ctx context.Context, loanNumber string) (_ *EntryDTO, err error) {
	defer metrics.Track(metrics.OpDisburse, time.Now(), &err)

	var (
		out      *EntryDTO
		credited decimal.Decimal
	)
	err = u.uow.WithinLoanTx(ctx, loanNumber, func(r uow.Repos, l *loan.Loan, a *account.Account) error {
		from := l.Status
		at := u.now()
		if err := l.Disburse(at); err != nil {
			return err
		}
		credited = l.PrincipalAmount
		balance := a.Credit(credited)

		t, err := u.record(ctx, r, l, a, transaction.TypeLoanDisbursement, l.PrincipalAmount, balance, at)
		if err != nil {
			return err
		}
		log.Printf("loan %s: %s -> %s (disbursed %s to %s)", l.LoanNumber, from, l.Status, shared.Money(l.PrincipalAmount), a.AccountNumber)

		out = entry(l, a, t, false)
		return nil
	})
	if err != nil {
		return nil, errs.FromStore(err, "loan", loanNumber)
	}
	metrics.RecordLedgerEntry(string(transaction.TypeLoanDisbursement), credited)
	return out, nil
}

// Pay debits the account and reduces the outstanding balance. Paying the
// exact outstanding balance closes the loan; paying more is refused.
func (u *Usecase) Pay(ctx context.Context, in PayInput) (_ *EntryDTO, err error) {
	defer metrics.Track(metrics.OpPay, time.Now(), &err)

	var out *EntryDTO
	err = u.uow.WithinLoanTx(ctx, in.LoanNumber, func(r uow.Repos, l *loan.Loan, a *account.Account) error {
		if err := l.ValidatePayment(in.PaymentAmount); err != nil {
			return err
		}
		balance, err := a.Debit(in.PaymentAmount, u.policy.MinBalance)
		if err != nil {
			return err
		}
		at := u.now()
		closed, err := l.ApplyPayment(in.PaymentAmount, at)
		if err != nil {
			return err
		}

		t, err := u.record(ctx, r, l, a, transaction.TypeLoanPayment, in.PaymentAmount, balance, at)
		if err != nil {
			return err
		}
		if closed {
			log.Printf("loan %s: %s -> %s (paid off)", l.LoanNumber, loan.StatusActive, l.Status)
		}

		out = entry(l, a, t, closed)
		return nil
	})
	if err != nil {
		return nil, errs.FromStore(err, "loan", in.LoanNumber)
	}
	metrics.RecordLedgerEntry(string(transaction.TypeLoanPayment), in.PaymentAmount)
	return out, nil
}

// record persists the loan and account and appends the ledger row for the change.
func (u *Usecase) record(ctx context.Context, r uow.Repos, l *loan.Loan, a *account.Account,
	typ transaction.Type, amount, balanceAfter decimal.Decimal, at time.Time) (*transaction.Transaction, error) {
	if err := r.Loans.Save(ctx, l); err != nil {
		return nil, err
	}
	if err := r.Accounts.Save(ctx, a); err != nil {
		return nil, err
	}

	loanID := l.ID
	t := &transaction.Transaction{
		AccountID:       a.ID,
		LoanID:          &loanID,
		TransactionType: typ,
		Amount:          amount,
		BalanceAfter:    balanceAfter,
		Description:     describe(typ, l.LoanNumber),
		TransactionDate: at,
	}
	err := shared.CreateNumbered(ctx, id.TransactionNumber, r.Transactions.ExistsByNumber, func(number string) error {
		t.TransactionNumber = number
		return r.Transactions.Create(ctx, t)
	})
	return t, err
}

func describe(typ transaction.Type, loanNumber string) string {
	switch typ {
	case transaction.TypeLoanDisbursement:
		return fmt.Sprintf("Loan disbursement for %s", loanNumber)
	case transaction.TypeLoanPayment:
		return fmt.Sprintf("Loan payment for %s", loanNumber)
	default:
		return string(typ)
	}
}

func entry(l *loan.Loan, a *account.Account, t *transaction.Transaction, closed bool) *EntryDTO {
	return &EntryDTO{
		Loan:           shared.NewLoanDTO(l, a.AccountNumber),
		AccountBalance: shared.Money(a.Balance),
		Transaction:    shared.NewTransactionDTO(t, a.AccountNumber, l.LoanNumber),
		Closed:         closed,
	}
}

// List returns one page of the whole ledger, newest first. page is 1-based;
// pageSize defaults to DefaultPageSize and is capped at MaxPageSize.
func (u *Usecase) List(ctx context.Context, page, pageSize int) (*PageDTO, error) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize <= 0:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}

	items, total, err := u.txns.List(ctx, page, pageSize)
	if err != nil {
		return nil, errs.Persistence(err)
	}
	if (transaction.Page{Page: page, PageSize: pageSize, Total: total}).Beyond() {
		items = nil
	}
	accountNumbers, err := u.accountNumbers(ctx, items)
	if err != nil {
		return nil, err
	}

	p := transaction.Page{Items: items, Page: page, PageSize: pageSize, Total: total}
	out := &PageDTO{
		Items:    make([]shared.TransactionDTO, 0, len(items)),
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
		HasNext:  p.HasNext(),
	}
	for i := range items {
		out.Items = append(out.Items, shared.NewTransactionDTO(&items[i], accountNumbers[items[i].AccountID], ""))
	}
	return out, nil
}

func (u *Usecase) accountNumbers(ctx context.Context, items []transaction.Transaction) (map[uint64]string, error) {
	out := make(map[uint64]string)
	for _, t := range items {
		if _, ok := out[t.AccountID]; ok {
			continue
		}
		a, err := u.accounts.GetByID(ctx, t.AccountID)
		if err != nil {
			return nil, errs.Persistence(err)
		}
		out[t.AccountID] = a.AccountNumber
	}
	return out, nil
}

// LoanTransactions lists the ledger rows of one loan, newest first.
func (u *Usecase) LoanTransactions(ctx context.Context, loanNumber string) ([]shared.TransactionDTO, error) {
	l, err := u.loans.GetByNumber(ctx, loanNumber)
	if err != nil {
		return nil, errs.FromStore(err, "loan", loanNumber)
	}
	a, err := u.accounts.GetByID(ctx, l.AccountID)
	if err != nil {
		return nil, errs.Persistence(err)
	}
	items, err := u.txns.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, errs.Persistence(err)
	}
	return shared.TransactionDTOs(items, a.AccountNumber, l.LoanNumber), nil
}

// AccountTransactions lists at most limit ledger rows of one account, newest
// first. A non-positive limit means DefaultPageSize.
func (u *Usecase) AccountTransactions(ctx context.Context, accountNumber string, limit int) ([]shared.TransactionDTO, error) {
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	a, err := u.accounts.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, errs.FromStore(err, "account", accountNumber)
	}
	items, err := u.txns.ListByAccount(ctx, a.ID, limit)
	if err != nil {
		return nil, errs.Persistence(err)
	}
	return shared.TransactionDTOs(items, a.AccountNumber, ""), nil
}
