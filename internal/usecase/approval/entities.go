package approval

import (
	"time"
)

// MaxReasonLength matches the size of the loan notes column.
const MaxReasonLength = 1000

type RejectInput struct {
	LoanNumber string
	Reason     string // blank falls back to loan.DefaultRejectReason
}

type DecisionDTO struct {
	LoanNumber   string     `json:"loan_number"`
	Status       string     `json:"loan_status"`
	ApprovalDate *time.Time `json:"approval_date,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	DecidedAt    time.Time  `json:"decided_at"`
}
