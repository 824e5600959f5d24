package accountmock

import (
	"context"

	domain "banking-ledger/internal/domain/account"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, a *domain.Account) error
	SaveFn             func(ctx context.Context, a *domain.Account) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Account, error)
	GetByNumberFn      func(ctx context.Context, number string) (*domain.Account, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Account, error)
	ExistsByNumberFn   func(ctx context.Context, number string) (bool, error)
	ListFn             func(ctx context.Context) ([]domain.Account, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, a *domain.Account) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	if m.GetByNumberFn != nil {
		return m.GetByNumberFn(ctx, number)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Account, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	if m.ExistsByNumberFn != nil {
		return m.ExistsByNumberFn(ctx, number)
	}
	return false, nil
}

func (m *Repo) List(ctx context.Context) ([]domain.Account, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}
