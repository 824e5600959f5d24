package errs

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds surfaced by the core. Every error returned from a usecase
// matches exactly one of these with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrPersistence       = errors.New("persistence failure")
)

type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Entity, e.Key) }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError names the offending field (or bound) and why it failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + " " + e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// TransitionError reports an operation attempted from the wrong lifecycle state.
type TransitionError struct {
	Loan string
	From string
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("loan %s cannot be %s: current status %s", e.Loan, e.Op, e.From)
}
func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

type InsufficientFundsError struct {
	Account string
	Balance string
	Amount  string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("account %s balance %s is less than %s", e.Account, e.Balance, e.Amount)
}
func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// persistenceError keeps the driver error for logs while matching ErrPersistence.
type persistenceError struct{ cause error }

func (e *persistenceError) Error() string   { return "persistence failure: " + e.cause.Error() }
func (e *persistenceError) Unwrap() []error { return []error{ErrPersistence, e.cause} }

func Persistence(err error) error {
	if err == nil {
		return nil
	}
	return &persistenceError{cause: err}
}

// FromStore maps a repository error onto the taxonomy. Errors that already
// belong to it pass through unchanged.
func FromStore(err error, entity, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &NotFoundError{Entity: entity, Key: key}
	case IsBusiness(err), errors.Is(err, ErrPersistence):
		return err
	default:
		return Persistence(err)
	}
}

// IsBusiness reports whether err is one of the four caller-recoverable kinds.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrInsufficientFunds)
}
