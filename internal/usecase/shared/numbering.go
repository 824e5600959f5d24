package shared

import (
	"context"
	"errors"

	"banking-ledger/internal/domain/errs"
	"banking-ledger/pkg/id"

	"gorm.io/gorm"
)

// insertAttempts bounds retries when a concurrent writer claims the same
// number between the uniqueness check and the insert.
const insertAttempts = 3

// CreateNumbered draws a free business number and inserts the row with it.
// A unique-index violation on insert means another writer won the race, so
// a fresh number is drawn.
func CreateNumbered(
	ctx context.Context,
	next func() string,
	taken func(ctx context.Context, v string) (bool, error),
	insert func(number string) error,
) error {
	for attempt := 0; attempt < insertAttempts; attempt++ {
		number, err := id.Unique(ctx, next, taken)
		if err != nil {
			return errs.Persistence(err)
		}
		err = insert(number)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return err
	}
	return errs.Persistence(id.ErrExhausted)
}
