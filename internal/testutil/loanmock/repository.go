package loanmock

import (
	"context"

	domain "banking-ledger/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled so a missing stub fails loudly.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	GetByNumberFn          func(ctx context.Context, number string) (*domain.Loan, error)
	GetByNumberForUpdateFn func(ctx context.Context, number string) (*domain.Loan, error)
	ExistsByNumberFn       func(ctx context.Context, number string) (bool, error)
	ListFn                 func(ctx context.Context, f domain.Filter) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByNumber(ctx context.Context, number string) (*domain.Loan, error) {
	if m.GetByNumberFn != nil {
		return m.GetByNumberFn(ctx, number)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByNumberForUpdate(ctx context.Context, number string) (*domain.Loan, error) {
	if m.GetByNumberForUpdateFn != nil {
		return m.GetByNumberForUpdateFn(ctx, number)
	}
	return nil, context.Canceled
}

func (m *Repo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	if m.ExistsByNumberFn != nil {
		return m.ExistsByNumberFn(ctx, number)
	}
	return false, nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}
