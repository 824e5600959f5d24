package loan

import (
	"time"

	"banking-ledger/internal/usecase/shared"

	"github.com/shopspring/decimal"
)

type ApplyInput struct {
	AccountNumber   string          `json:"account_number"`
	LoanType        string          `json:"loan_type"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	TermMonths      int             `json:"term_months"`
	Purpose         string          `json:"purpose"`
}

type CalculateInput struct {
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	TermMonths      int             `json:"term_months"`
}

type ScheduleDTO struct {
	PrincipalAmount string `json:"principal_amount"`
	InterestRate    string `json:"interest_rate"`
	TermMonths      int    `json:"term_months"`
	MonthlyPayment  string `json:"monthly_payment"`
	TotalPayment    string `json:"total_payment"`
	TotalInterest   string `json:"total_interest"`
}

type InstallmentDTO struct {
	Period           int       `json:"period"`
	DueDate          time.Time `json:"due_date"`
	Payment          string    `json:"payment"`
	Principal        string    `json:"principal"`
	Interest         string    `json:"interest"`
	RemainingBalance string    `json:"remaining_balance"`
}

type LoanDetailDTO struct {
	shared.LoanDTO
	Transactions []shared.TransactionDTO `json:"transactions"`
}
