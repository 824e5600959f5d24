package ledger

import (
	"context"
	"errors"
	"testing"

	"banking-ledger/internal/adapter/repository/mysql"
	"banking-ledger/internal/domain/account"
	"banking-ledger/internal/domain/errs"
	"banking-ledger/internal/domain/loan"
	"banking-ledger/internal/domain/transaction"
	"banking-ledger/internal/testutil/testdb"
	accountUsecase "banking-ledger/internal/usecase/account"
	"banking-ledger/internal/usecase/approval"
	loanUsecase "banking-ledger/internal/usecase/loan"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// harness wires the real gorm repositories over in-memory SQLite.
type harness struct {
	db        *gorm.DB
	accounts  *accountUsecase.Usecase
	loans     *loanUsecase.Usecase
	approvals *approval.Usecase
	ledger    *Usecase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gdb := testdb.Open(t)
	accounts := mysql.NewAccountRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	txns := mysql.NewTransactionRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	policy := loan.DefaultPolicy()

	return &harness{
		db:        gdb,
		accounts:  accountUsecase.NewUsecase(accounts, loans, txns, policy),
		loans:     loanUsecase.NewUsecase(tx, loans, accounts, txns, policy),
		approvals: approval.NewUsecase(tx),
		ledger:    NewUsecase(tx, accounts, loans, txns, policy),
	}
}

func (h *harness) openAccount(t *testing.T, balance string) string {
	t.Helper()
	a, err := h.accounts.Open(context.Background(), accountUsecase.OpenAccountInput{
		AccountType:    "savings",
		CustomerName:   "Grace Hopper",
		CustomerEmail:  "grace@example.com",
		InitialBalance: d(balance),
	})
	if err != nil {
		t.Fatalf("open account: %v", err)
	}
	return a.AccountNumber
}

func (h *harness) apply(t *testing.T, accountNumber, principal string) string {
	t.Helper()
	l, err := h.loans.Apply(context.Background(), loanUsecase.ApplyInput{
		AccountNumber:   accountNumber,
		LoanType:        "auto",
		PrincipalAmount: d(principal),
		InterestRate:    d("6.5"),
		TermMonths:      12,
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return l.LoanNumber
}

// activeLoan applies, approves and disburses a loan.
func (h *harness) activeLoan(t *testing.T, accountNumber, principal string) string {
	t.Helper()
	number := h.apply(t, accountNumber, principal)
	if _, err := h.approvals.Approve(context.Background(), number); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := h.ledger.Disburse(context.Background(), number); err != nil {
		t.Fatalf("disburse: %v", err)
	}
	return number
}

func (h *harness) account(t *testing.T, number string) account.Account {
	t.Helper()
	var a account.Account
	if err := h.db.Where("account_number = ?", number).First(&a).Error; err != nil {
		t.Fatalf("load account: %v", err)
	}
	return a
}

func (h *harness) loan(t *testing.T, number string) loan.Loan {
	t.Helper()
	var l loan.Loan
	if err := h.db.Where("loan_number = ?", number).First(&l).Error; err != nil {
		t.Fatalf("load loan: %v", err)
	}
	return l
}

func (h *harness) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := h.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestLifecycle_FullPayoff(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acct := h.openAccount(t, "1000")
	number := h.activeLoan(t, acct, "5000")

	got, err := h.ledger.Pay(ctx, PayInput{LoanNumber: number, PaymentAmount: d("5000")})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if !got.Closed {
		t.Fatalf("payoff did not close the loan")
	}

	l := h.loan(t, number)
	if l.Status != loan.StatusClosed || !l.OutstandingBalance.IsZero() || l.ClosedDate == nil {
		t.Fatalf("unexpected loan: status=%s outstanding=%s closed=%v", l.Status, l.OutstandingBalance, l.ClosedDate)
	}
	// initial + principal - paid
	if a := h.account(t, acct); !a.Balance.Equal(d("1000")) {
		t.Fatalf("balance = %s, want 1000", a.Balance)
	}
	if n := h.count(t, &transaction.Transaction{}); n != 2 {
		t.Fatalf("ledger rows = %d, want 2", n)
	}
}

func TestLifecycle_PaymentScenarios(t *testing.T) {
	tests := []struct {
		name            string
		pay             string
		wantOutstanding string
		wantBalance     string
		wantStatus      loan.Status
	}{
		{"partial payment stays active", "500", "4500", "4500", loan.StatusActive},
		{"full payment closes", "5000", "0", "0", loan.StatusClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			acct := h.openAccount(t, "0")
			number := h.activeLoan(t, acct, "5000")
			if a := h.account(t, acct); !a.Balance.Equal(d("5000")) {
				t.Fatalf("balance after disbursement = %s", a.Balance)
			}

			if _, err := h.ledger.Pay(context.Background(), PayInput{LoanNumber: number, PaymentAmount: d(tt.pay)}); err != nil {
				t.Fatalf("pay: %v", err)
			}
			l := h.loan(t, number)
			if l.Status != tt.wantStatus || !l.OutstandingBalance.Equal(d(tt.wantOutstanding)) {
				t.Fatalf("loan status=%s outstanding=%s", l.Status, l.OutstandingBalance)
			}
			if (l.ClosedDate != nil) != (tt.wantStatus == loan.StatusClosed) {
				t.Fatalf("closed_date = %v", l.ClosedDate)
			}
			if a := h.account(t, acct); !a.Balance.Equal(d(tt.wantBalance)) {
				t.Fatalf("balance = %s, want %s", a.Balance, tt.wantBalance)
			}
		})
	}
}

func TestLifecycle_DisbursePendingLeavesBalance(t *testing.T) {
	h := newHarness(t)
	acct := h.openAccount(t, "750")
	number := h.apply(t, acct, "5000")

	_, err := h.ledger.Disburse(context.Background(), number)
	if !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("want invalid transition, got %v", err)
	}
	if a := h.account(t, acct); !a.Balance.Equal(d("750")) {
		t.Fatalf("balance = %s, want 750", a.Balance)
	}
	if l := h.loan(t, number); l.Status != loan.StatusPending || l.DisbursementDate != nil {
		t.Fatalf("loan changed: %+v", l)
	}
	if n := h.count(t, &transaction.Transaction{}); n != 0 {
		t.Fatalf("ledger rows = %d, want 0", n)
	}
}

func TestLifecycle_InsufficientFundsLeavesState(t *testing.T) {
	h := newHarness(t)
	acct := h.openAccount(t, "0")
	number := h.activeLoan(t, acct, "5000")
	if err := h.db.Model(&account.Account{}).Where("account_number = ?", acct).Update("balance", decimal.NewFromInt(200)).Error; err != nil {
		t.Fatalf("drain account: %v", err)
	}

	_, err := h.ledger.Pay(context.Background(), PayInput{LoanNumber: number, PaymentAmount: d("250")})
	if !errors.Is(err, errs.ErrInsufficientFunds) {
		t.Fatalf("want insufficient funds, got %v", err)
	}
	if a := h.account(t, acct); !a.Balance.Equal(d("200")) {
		t.Fatalf("balance = %s, want 200", a.Balance)
	}
	if l := h.loan(t, number); !l.OutstandingBalance.Equal(d("5000")) || l.Status != loan.StatusActive {
		t.Fatalf("loan changed: status=%s outstanding=%s", l.Status, l.OutstandingBalance)
	}
	if n := h.count(t, &transaction.Transaction{}); n != 1 {
		t.Fatalf("ledger rows = %d, want only the disbursement", n)
	}
}

func TestLifecycle_BalanceAfterMatchesAccount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acct := h.openAccount(t, "300")
	number := h.activeLoan(t, acct, "2000")

	for _, amt := range []string{"125.50", "74.50", "1000"} {
		got, err := h.ledger.Pay(ctx, PayInput{LoanNumber: number, PaymentAmount: d(amt)})
		if err != nil {
			t.Fatalf("pay %s: %v", amt, err)
		}
		a := h.account(t, acct)
		if got.Transaction.BalanceAfter != a.Balance.StringFixed(2) {
			t.Fatalf("balance_after %s != account balance %s", got.Transaction.BalanceAfter, a.Balance)
		}
	}

	items, err := h.ledger.LoanTransactions(ctx, number)
	if err != nil {
		t.Fatalf("loan transactions: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("entries = %d, want 4", len(items))
	}
	if items[len(items)-1].TransactionType != string(transaction.TypeLoanDisbursement) || items[len(items)-1].BalanceAfter != "2300.00" {
		t.Fatalf("oldest entry should be the disbursement: %+v", items[len(items)-1])
	}
}

func TestLifecycle_ApplicationBelowMinimumWritesNothing(t *testing.T) {
	h := newHarness(t)
	acct := h.openAccount(t, "0")

	_, err := h.loans.Apply(context.Background(), loanUsecase.ApplyInput{
		AccountNumber:   acct,
		LoanType:        "personal",
		PrincipalAmount: d("999.99"),
		InterestRate:    d("5"),
		TermMonths:      12,
	})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if n := h.count(t, &loan.Loan{}); n != 0 {
		t.Fatalf("loan rows = %d, want 0", n)
	}
}

func TestLifecycle_RejectedLoanCannotBeDisbursed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	number := h.apply(t, h.openAccount(t, "0"), "3000")

	if _, err := h.approvals.Reject(ctx, approval.RejectInput{LoanNumber: number}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := h.ledger.Disburse(ctx, number); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("want invalid transition, got %v", err)
	}
	if l := h.loan(t, number); l.Status != loan.StatusRejected || l.Notes != loan.DefaultRejectReason {
		t.Fatalf("unexpected loan: %s %q", l.Status, l.Notes)
	}
}

func TestLifecycle_ReadModels(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acct := h.openAccount(t, "0")
	number := h.activeLoan(t, acct, "1500")
	h.apply(t, acct, "2500")

	detail, err := h.accounts.Get(ctx, acct)
	if err != nil {
		t.Fatalf("account detail: %v", err)
	}
	if len(detail.Loans) != 2 || len(detail.RecentTransactions) != 1 || detail.Balance != "1500.00" {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	active, err := h.loans.List(ctx, "active")
	if err != nil || len(active) != 1 || active[0].LoanNumber != number {
		t.Fatalf("active loans = %+v, %v", active, err)
	}

	page, err := h.ledger.List(ctx, 1, 0)
	if err != nil || page.Total != 1 || page.HasNext || page.Items[0].AccountNumber != acct {
		t.Fatalf("ledger page = %+v, %v", page, err)
	}

	recent, err := h.ledger.AccountTransactions(ctx, acct, 0)
	if err != nil || len(recent) != 1 {
		t.Fatalf("account transactions = %+v, %v", recent, err)
	}
}
