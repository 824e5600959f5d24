package ledger

import (
	"banking-ledger/internal/usecase/shared"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PayInput struct {
	LoanNumber    string
	PaymentAmount decimal.Decimal `json:"payment_amount"`
}

// EntryDTO is the result of a balance-changing lifecycle operation: the loan
// after the change, the account balance and the ledger row written with it.
type EntryDTO struct {
	Loan           shared.LoanDTO        `json:"loan"`
	AccountBalance string                `json:"account_balance"`
	Transaction    shared.TransactionDTO `json:"transaction"`
	Closed         bool                  `json:"closed"`
}

type PageDTO struct {
	Items    []shared.TransactionDTO `json:"items"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
	Total    int64                   `json:"total"`
	HasNext  bool                    `json:"has_next"`
}
