package account

import (
	"context"
	"log"
	"net/mail"
	"strings"
	"time"

	"banking-ledger/internal/domain/account"
	"banking-ledger/internal/domain/errs"
	"banking-ledger/internal/domain/loan"
	"banking-ledger/internal/domain/transaction"
	"banking-ledger/internal/infrastructure/metrics"
	"banking-ledger/internal/usecase/shared"
	"banking-ledger/pkg/id"
)

type Usecase struct {
	accounts account.Repository
	loans    loan.Repository
	txns     transaction.Repository
	policy   loan.Policy
}

func NewUsecase(accounts account.Repository, loans loan.Repository, txns transaction.Repository, policy loan.Policy) *Usecase {
	return &Usecase{accounts: accounts, loans: loans, txns: txns, policy: policy}
}

// Open creates an account with a fresh number. An initial balance is stored
// as-is; it does not produce a ledger entry.
func (u *Usecase) Open(ctx context.Context, in OpenAccountInput) (_ *shared.AccountDTO, err error) {
	defer metrics.Track(metrics.OpOpenAccount, time.Now(), &err)

	typ, err := account.ParseType(in.AccountType)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" || len(name) > 100 {
		return nil, errs.Invalid("customer_name", "must be 1 to 100 characters")
	}
	email := strings.TrimSpace(in.CustomerEmail)
	if addr, perr := mail.ParseAddress(email); perr != nil || addr.Address != email || len(email) > 100 {
		return nil, errs.Invalid("customer_email", "must be a valid address")
	}
	if in.InitialBalance.LessThan(u.policy.MinBalance) {
		return nil, errs.Invalid("initial_balance", "must be at least %s", shared.Money(u.policy.MinBalance))
	}
	if !in.InitialBalance.Equal(in.InitialBalance.Round(2)) {
		return nil, errs.Invalid("initial_balance", "must have at most 2 decimal places")
	}

	a := &account.Account{
		AccountType:   typ,
		CustomerName:  name,
		CustomerEmail: email,
		Balance:       in.InitialBalance,
	}
	err = shared.CreateNumbered(ctx, id.AccountNumber, u.accounts.ExistsByNumber, func(number string) error {
		a.AccountNumber = number
		return u.accounts.Create(ctx, a)
	})
	if err != nil {
		return nil, errs.FromStore(err, "account", a.AccountNumber)
	}

	log.Printf("account %s opened (%s)", a.AccountNumber, a.AccountType)
	dto := shared.NewAccountDTO(a)
	return &dto, nil
}

func (u *Usecase) Get(ctx context.Context, number string) (*AccountDetailDTO, error) {
	a, err := u.accounts.GetByNumber(ctx, number)
	if err != nil {
		return nil, errs.FromStore(err, "account", number)
	}
	loans, err := u.loans.List(ctx, loan.Filter{AccountID: &a.ID})
	if err != nil {
		return nil, errs.Persistence(err)
	}
	recent, err := u.txns.ListByAccount(ctx, a.ID, RecentTransactions)
	if err != nil {
		return nil, errs.Persistence(err)
	}

	out := &AccountDetailDTO{
		AccountDTO:         shared.NewAccountDTO(a),
		Loans:              make([]shared.LoanDTO, 0, len(loans)),
		RecentTransactions: shared.TransactionDTOs(recent, a.AccountNumber, ""),
	}
	for i := range loans {
		out.Loans = append(out.Loans, shared.NewLoanDTO(&loans[i], a.AccountNumber))
	}
	return out, nil
}

func (u *Usecase) List(ctx context.Context) ([]shared.AccountDTO, error) {
	accounts, err := u.accounts.List(ctx)
	if err != nil {
		return nil, errs.Persistence(err)
	}
	out := make([]shared.AccountDTO, 0, len(accounts))
	for i := range accounts {
		out = append(out, shared.NewAccountDTO(&accounts[i]))
	}
	return out, nil
}
