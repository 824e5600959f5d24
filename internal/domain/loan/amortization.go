package loan

import (
	"time"

	"banking-ledger/internal/domain/errs"

	"github.com/shopspring/decimal"
)

// Fractional digits kept for intermediate amortization math.
const internalScale = 24

var (
	one             = decimal.NewFromInt(1)
	monthsByPercent = decimal.NewFromInt(100 * 12)
)

// Schedule is the reported summary of a fixed-payment loan, rounded to cents.
type Schedule struct {
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalPayment   decimal.Decimal `json:"total_payment"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
}

type Installment struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"due_date"`
	Payment          decimal.Decimal `json:"payment"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// ComputeSchedule derives monthly payment, total payment and total interest
// from the principal, the annual rate in percent and the term.
func ComputeSchedule(principal, annualRatePercent decimal.Decimal, termMonths int) (Schedule, error) {
	payment, err := monthlyPayment(principal, annualRatePercent, termMonths)
	if err != nil {
		return Schedule{}, err
	}
	total := payment.Mul(decimal.NewFromInt(int64(termMonths)))
	return Schedule{
		MonthlyPayment: payment.Round(2),
		TotalPayment:   total.Round(2),
		TotalInterest:  total.Sub(principal).Round(2),
	}, nil
}

// BuildInstallments splits the loan into per-period rows. Due dates follow
// the fixed 30-day month from start. The final row takes whatever principal
// remains so the balance ends at exactly zero.
func BuildInstallments(principal, annualRatePercent decimal.Decimal, termMonths int, start time.Time) ([]Installment, error) {
	exact, err := monthlyPayment(principal, annualRatePercent, termMonths)
	if err != nil {
		return nil, err
	}
	rate := monthlyRate(annualRatePercent)
	payment := exact.Round(2)
	remaining := principal

	out := make([]Installment, 0, termMonths)
	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(rate).Round(2)
		principalPart := payment.Sub(interest)
		if period == termMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}
		remaining = remaining.Sub(principalPart)
		out = append(out, Installment{
			Period:           period,
			DueDate:          start.AddDate(0, 0, period*DaysPerMonth),
			Payment:          principalPart.Add(interest),
			Principal:        principalPart,
			Interest:         interest,
			RemainingBalance: remaining,
		})
	}
	return out, nil
}

func monthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.DivRound(monthsByPercent, internalScale)
}

func monthlyPayment(principal, annualRatePercent decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	switch {
	case termMonths <= 0:
		return decimal.Zero, errs.Invalid("term_months", "must be greater than zero")
	case !principal.IsPositive():
		return decimal.Zero, errs.Invalid("principal_amount", "must be greater than zero")
	case annualRatePercent.IsNegative():
		return decimal.Zero, errs.Invalid("interest_rate", "must not be negative")
	}

	n := decimal.NewFromInt(int64(termMonths))
	r := monthlyRate(annualRatePercent)
	if r.IsZero() {
		return principal.DivRound(n, internalScale), nil
	}

	// (1+r)^n, rounded each step to keep the mantissa bounded for long terms
	growth := one
	step := one.Add(r)
	for i := 0; i < termMonths; i++ {
		growth = growth.Mul(step).Round(internalScale)
	}
	return principal.Mul(r).Mul(growth).DivRound(growth.Sub(one), internalScale), nil
}
