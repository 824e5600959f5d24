// Package metrics exposes prometheus collectors for the loan lifecycle and
// the ledger.
package metrics

import (
	"errors"
	"time"

	"banking-ledger/internal/domain/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Operation labels.
const (
	OpOpenAccount = "open_account"
	OpApply       = "apply"
	OpApprove     = "approve"
	OpReject      = "reject"
	OpDisburse    = "disburse"
	OpPay         = "pay"
)

var (
	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "banking",
		Name:      "loan_operations_total",
		Help:      "Lifecycle operations by outcome.",
	}, []string{"operation", "outcome"})

	duration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "banking",
		Name:      "loan_operation_duration_seconds",
		Help:      "Lifecycle operation latency including the store transaction.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	ledgerAmount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "banking",
		Name:      "ledger_amount_total",
		Help:      "Sum of ledger entry amounts by transaction type.",
	}, []string{"type"})
)

// Outcome buckets an operation error into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errs.ErrNotFound):
		return "not_found"
	case errors.Is(err, errs.ErrValidation):
		return "invalid"
	case errors.Is(err, errs.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, errs.ErrInsufficientFunds):
		return "insufficient_funds"
	default:
		return "error"
	}
}

// Track is meant to be deferred with a pointer to the named error result.
func Track(op string, started time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	operations.WithLabelValues(op, Outcome(err)).Inc()
	duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func RecordLedgerEntry(txnType string, amount decimal.Decimal) {
	ledgerAmount.WithLabelValues(txnType).Add(amount.InexactFloat64())
}
