package loan

import "context"

// Filter narrows List. A nil Status lists every loan.
type Filter struct {
	Status    *Status
	AccountID *uint64
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error

	GetByNumber(ctx context.Context, number string) (*Loan, error)
	// Locks the row until the surrounding transaction ends.
	GetByNumberForUpdate(ctx context.Context, number string) (*Loan, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// List orders by application_date desc.
	List(ctx context.Context, f Filter) ([]Loan, error)
}
