package account

import "context"

type Repository interface {
	Create(ctx context.Context, a *Account) error
	Save(ctx context.Context, a *Account) error

	GetByID(ctx context.Context, id uint64) (*Account, error)
	GetByNumber(ctx context.Context, number string) (*Account, error)
	// Locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Account, error)

	ExistsByNumber(ctx context.Context, number string) (bool, error)
	List(ctx context.Context) ([]Account, error)
}
