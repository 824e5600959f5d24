package transactionmock

import (
	"context"

	domain "banking-ledger/internal/domain/transaction"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository. Created
// collects every row passed to Create so tests can inspect the ledger.
type Repo struct {
	CreateFn         func(ctx context.Context, t *domain.Transaction) error
	ExistsByNumberFn func(ctx context.Context, number string) (bool, error)
	ListFn           func(ctx context.Context, page, pageSize int) ([]domain.Transaction, int64, error)
	ListByLoanFn     func(ctx context.Context, loanID uint64) ([]domain.Transaction, error)
	ListByAccountFn  func(ctx context.Context, accountID uint64, limit int) ([]domain.Transaction, error)

	Created []domain.Transaction
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, t); err != nil {
			return err
		}
	}
	m.Created = append(m.Created, *t)
	return nil
}

func (m *Repo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	if m.ExistsByNumberFn != nil {
		return m.ExistsByNumberFn(ctx, number)
	}
	return false, nil
}

func (m *Repo) List(ctx context.Context, page, pageSize int) ([]domain.Transaction, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page, pageSize)
	}
	return nil, 0, nil
}

func (m *Repo) ListByLoan(ctx context.Context, loanID uint64) ([]domain.Transaction, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) ListByAccount(ctx context.Context, accountID uint64, limit int) ([]domain.Transaction, error) {
	if m.ListByAccountFn != nil {
		return m.ListByAccountFn(ctx, accountID, limit)
	}
	return nil, nil
}
