package transaction

import (
	"strings"
	"time"

	"banking-ledger/internal/domain/errs"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeDeposit          Type = "deposit"
	TypeWithdrawal       Type = "withdrawal"
	TypeLoanDisbursement Type = "loan_disbursement"
	TypeLoanPayment      Type = "loan_payment"
	TypeInterestCharge   Type = "interest_charge"
	TypeFee              Type = "fee"
	TypeTransfer         Type = "transfer"
)

func ParseType(raw string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypeDeposit, TypeWithdrawal, TypeLoanDisbursement, TypeLoanPayment,
		TypeInterestCharge, TypeFee, TypeTransfer:
		return t, nil
	default:
		return "", errs.Invalid("transaction_type", "unknown transaction type %q", raw)
	}
}

// Transaction is an append-only ledger entry. Rows are inserted once and
// never updated; the repository exposes no Save.
type Transaction struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	TransactionNumber string          `gorm:"column:transaction_number;size:20;not null;uniqueIndex:ux_transactions_number" json:"transaction_number"`
	AccountID         uint64          `gorm:"column:account_id;not null;index:idx_transactions_account" json:"-"`
	LoanID            *uint64         `gorm:"column:loan_id;index:idx_transactions_loan" json:"-"`
	TransactionType   Type            `gorm:"column:transaction_type;type:varchar(24);not null" json:"transaction_type"`
	Amount            decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	BalanceAfter      decimal.Decimal `gorm:"column:balance_after;type:decimal(18,2);not null" json:"balance_after"`
	Description       string          `gorm:"column:description;size:500" json:"description"`
	TransactionDate   time.Time       `gorm:"column:transaction_date;not null;index:idx_transactions_date" json:"transaction_date"`
}

func (Transaction) TableName() string { return "transactions" }

// Page is one slice of the ledger ordered newest first.
type Page struct {
	Items    []Transaction `json:"items"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
}

// Pages is the number of pages Total fills at PageSize.
func (p Page) Pages() int64 {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 0
	}
	size := int64(p.PageSize)
	n := p.Total / size
	if p.Total%size != 0 {
		n++
	}
	return n
}

// HasNext compares page counts rather than Page*PageSize so a huge page
// number cannot overflow.
func (p Page) HasNext() bool { return int64(p.Page) < p.Pages() }

// Beyond reports whether Page lies past the last page.
func (p Page) Beyond() bool { return int64(p.Page) > p.Pages() }
