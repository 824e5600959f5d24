package mysql

import (
	"context"

	loanDomain "banking-ledger/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByNumber(ctx context.Context, number string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_number = ?", number).First(&out)
	return &out, res.Error
}

// GetByNumberForUpdate takes a row lock (SELECT ... FOR UPDATE). SQLite
// drops the clause and relies on its single writer.
func (r *LoanRepository) GetByNumberForUpdate(ctx context.Context, number string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_number = ?", number).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("loan_number = ?", number).
		Count(&n).Error
	return n > 0, err
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{})
	if f.Status != nil {
		q = q.Where("loan_status = ?", *f.Status)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	var out []loanDomain.Loan
	err := q.Order("application_date DESC, id DESC").Find(&out).Error
	return out, err
}
