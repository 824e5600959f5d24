package loan

import (
	"strings"
	"time"

	"banking-ledger/internal/domain/errs"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypePersonal  Type = "personal"
	TypeHome      Type = "home"
	TypeAuto      Type = "auto"
	TypeBusiness  Type = "business"
	TypeEducation Type = "education"
)

func ParseType(raw string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypePersonal, TypeHome, TypeAuto, TypeBusiness, TypeEducation:
		return t, nil
	default:
		return "", errs.Invalid("loan_type", "unknown loan type %q", raw)
	}
}

// Table: loans
type Loan struct {
	ID                 uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanNumber         string          `gorm:"column:loan_number;size:20;not null;uniqueIndex:ux_loans_loan_number" json:"loan_number"`
	AccountID          uint64          `gorm:"column:account_id;not null;index:idx_loans_account" json:"-"`
	LoanType           Type            `gorm:"column:loan_type;type:varchar(16);not null" json:"loan_type"`
	Status             Status          `gorm:"column:loan_status;type:varchar(16);not null;default:'pending';index:idx_loans_status" json:"loan_status"`
	PrincipalAmount    decimal.Decimal `gorm:"column:principal_amount;type:decimal(18,2);not null" json:"principal_amount"`
	InterestRate       decimal.Decimal `gorm:"column:interest_rate;type:decimal(6,3);not null" json:"interest_rate"`
	TermMonths         int             `gorm:"column:term_months;not null" json:"term_months"`
	MonthlyPayment     decimal.Decimal `gorm:"column:monthly_payment;type:decimal(18,2);not null" json:"monthly_payment"`
	OutstandingBalance decimal.Decimal `gorm:"column:outstanding_balance;type:decimal(18,2);not null" json:"outstanding_balance"`
	ApplicationDate    time.Time       `gorm:"column:application_date;not null;index:idx_loans_application_date" json:"application_date"`
	ApprovalDate       *time.Time      `gorm:"column:approval_date" json:"approval_date,omitempty"`
	DisbursementDate   *time.Time      `gorm:"column:disbursement_date" json:"disbursement_date,omitempty"`
	MaturityDate       *time.Time      `gorm:"column:maturity_date" json:"maturity_date,omitempty"`
	ClosedDate         *time.Time      `gorm:"column:closed_date" json:"closed_date,omitempty"`
	Purpose            string          `gorm:"column:purpose;size:500" json:"purpose"`
	Notes              string          `gorm:"column:notes;size:1000" json:"notes"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }
