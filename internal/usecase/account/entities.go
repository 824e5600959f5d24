package account

import (
	"banking-ledger/internal/usecase/shared"

	"github.com/shopspring/decimal"
)

// RecentTransactions is how many ledger rows the account detail carries.
const RecentTransactions = 10

type OpenAccountInput struct {
	AccountType    string          `json:"account_type"`
	CustomerName   string          `json:"customer_name"`
	CustomerEmail  string          `json:"customer_email"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type AccountDetailDTO struct {
	shared.AccountDTO
	Loans              []shared.LoanDTO        `json:"loans"`
	RecentTransactions []shared.TransactionDTO `json:"recent_transactions"`
}
