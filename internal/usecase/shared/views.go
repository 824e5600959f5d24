// Package shared holds the read models and helpers used by more than one
// usecase package.
package shared

import (
	"time"

	"banking-ledger/internal/domain/account"
	"banking-ledger/internal/domain/loan"
	"banking-ledger/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

// Money renders an amount the way every response carries it.
func Money(d decimal.Decimal) string { return d.StringFixed(2) }

type AccountDTO struct {
	AccountNumber string    `json:"account_number"`
	AccountType   string    `json:"account_type"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Balance       string    `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewAccountDTO(a *account.Account) AccountDTO {
	return AccountDTO{
		AccountNumber: a.AccountNumber,
		AccountType:   string(a.AccountType),
		CustomerName:  a.CustomerName,
		CustomerEmail: a.CustomerEmail,
		Balance:       Money(a.Balance),
		CreatedAt:     a.CreatedAt,
	}
}

type LoanDTO struct {
	LoanNumber         string     `json:"loan_number"`
	AccountNumber      string     `json:"account_number"`
	LoanType           string     `json:"loan_type"`
	Status             string     `json:"loan_status"`
	PrincipalAmount    string     `json:"principal_amount"`
	InterestRate       string     `json:"interest_rate"`
	TermMonths         int        `json:"term_months"`
	MonthlyPayment     string     `json:"monthly_payment"`
	OutstandingBalance string     `json:"outstanding_balance"`
	ApplicationDate    time.Time  `json:"application_date"`
	ApprovalDate       *time.Time `json:"approval_date,omitempty"`
	DisbursementDate   *time.Time `json:"disbursement_date,omitempty"`
	MaturityDate       *time.Time `json:"maturity_date,omitempty"`
	ClosedDate         *time.Time `json:"closed_date,omitempty"`
	Purpose            string     `json:"purpose,omitempty"`
	Notes              string     `json:"notes,omitempty"`
}

func NewLoanDTO(l *loan.Loan, accountNumber string) LoanDTO {
	return LoanDTO{
		LoanNumber:         l.LoanNumber,
		AccountNumber:      accountNumber,
		LoanType:           string(l.LoanType),
		Status:             string(l.Status),
		PrincipalAmount:    Money(l.PrincipalAmount),
		InterestRate:       l.InterestRate.StringFixed(3),
		TermMonths:         l.TermMonths,
		MonthlyPayment:     Money(l.MonthlyPayment),
		OutstandingBalance: Money(l.OutstandingBalance),
		ApplicationDate:    l.ApplicationDate,
		ApprovalDate:       l.ApprovalDate,
		DisbursementDate:   l.DisbursementDate,
		MaturityDate:       l.MaturityDate,
		ClosedDate:         l.ClosedDate,
		Purpose:            l.Purpose,
		Notes:              l.Notes,
	}
}

type TransactionDTO struct {
	TransactionNumber string    `json:"transaction_number"`
	AccountNumber     string    `json:"account_number,omitempty"`
	LoanNumber        string    `json:"loan_number,omitempty"`
	TransactionType   string    `json:"transaction_type"`
	Amount            string    `json:"amount"`
	BalanceAfter      string    `json:"balance_after"`
	Description       string    `json:"description"`
	TransactionDate   time.Time `json:"transaction_date"`
}

// NewTransactionDTO fills the parent numbers only when the caller knows them.
func NewTransactionDTO(t *transaction.Transaction, accountNumber, loanNumber string) TransactionDTO {
	return TransactionDTO{
		TransactionNumber: t.TransactionNumber,
		AccountNumber:     accountNumber,
		LoanNumber:        loanNumber,
		TransactionType:   string(t.TransactionType),
		Amount:            Money(t.Amount),
		BalanceAfter:      Money(t.BalanceAfter),
		Description:       t.Description,
		TransactionDate:   t.TransactionDate,
	}
}

func TransactionDTOs(items []transaction.Transaction, accountNumber, loanNumber string) []TransactionDTO {
	out := make([]TransactionDTO, 0, len(items))
	for i := range items {
		out = append(out, NewTransactionDTO(&items[i], accountNumber, loanNumber))
	}
	return out
}
