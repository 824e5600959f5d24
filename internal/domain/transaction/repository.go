package transaction

import "context"

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// List returns one page (1-based) ordered by transaction_date desc plus the total row count.
	List(ctx context.Context, page, pageSize int) ([]Transaction, int64, error)
	ListByLoan(ctx context.Context, loanID uint64) ([]Transaction, error)
	ListByAccount(ctx context.Context, accountID uint64, limit int) ([]Transaction, error)
}
