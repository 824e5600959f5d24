package mysql

import (
	"testing"
	"time"

	"banking-ledger/internal/domain/account"
	"banking-ledger/internal/domain/loan"
	"banking-ledger/internal/domain/transaction"
	"banking-ledger/internal/testutil/testdb"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testdb.Open(t)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func makeAccount(number, balance string) *account.Account {
	return &account.Account{
		AccountNumber: number,
		AccountType:   account.TypeChecking,
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Balance:       dec(balance),
	}
}

func makeLoan(number string, accountID uint64, status loan.Status, appliedAt time.Time) *loan.Loan {
	return &loan.Loan{
		LoanNumber:         number,
		AccountID:          accountID,
		LoanType:           loan.TypePersonal,
		Status:             status,
		PrincipalAmount:    dec("5000"),
		InterestRate:       dec("6.5"),
		TermMonths:         12,
		MonthlyPayment:     dec("431.48"),
		OutstandingBalance: dec("5000"),
		ApplicationDate:    appliedAt.UTC(),
		Purpose:            "car repair",
	}
}

func makeTxn(number string, accountID uint64, loanID *uint64, at time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		TransactionNumber: number,
		AccountID:         accountID,
		LoanID:            loanID,
		TransactionType:   transaction.TypeLoanPayment,
		Amount:            dec("100"),
		BalanceAfter:      dec("900"),
		Description:       "Loan payment",
		TransactionDate:   at.UTC(),
	}
}
