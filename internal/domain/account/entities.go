package account

import (
	"strings"
	"time"

	"banking-ledger/internal/domain/errs"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeSavings  Type = "savings"
	TypeChecking Type = "checking"
	TypeBusiness Type = "business"
)

// ParseType accepts the wire form case-insensitively.
func ParseType(raw string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypeSavings, TypeChecking, TypeBusiness:
		return t, nil
	default:
		return "", errs.Invalid("account_type", "unknown account type %q", raw)
	}
}

// Table: accounts
type Account struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	AccountNumber string          `gorm:"column:account_number;size:20;not null;uniqueIndex:ux_accounts_account_number" json:"account_number"`
	AccountType   Type            `gorm:"column:account_type;type:varchar(16);not null" json:"account_type"`
	CustomerName  string          `gorm:"column:customer_name;size:100;not null" json:"customer_name"`
	CustomerEmail string          `gorm:"column:customer_email;size:100;not null" json:"customer_email"`
	Balance       decimal.Decimal `gorm:"column:balance;type:decimal(18,2);not null;default:0" json:"balance"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// Credit adds amount to the balance and returns the new balance.
func (a *Account) Credit(amount decimal.Decimal) decimal.Decimal {
	a.Balance = a.Balance.Add(amount)
	return a.Balance
}

// Debit removes amount from the balance unless that would take it below floor.
func (a *Account) Debit(amount, floor decimal.Decimal) (decimal.Decimal, error) {
	if a.Balance.Sub(amount).LessThan(floor) {
		return a.Balance, &errs.InsufficientFundsError{
			Account: a.AccountNumber,
			Balance: a.Balance.StringFixed(2),
			Amount:  amount.StringFixed(2),
		}
	}
	a.Balance = a.Balance.Sub(amount)
	return a.Balance, nil
}
