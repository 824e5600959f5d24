package mysql

import (
	"context"

	txnDomain "banking-ledger/internal/domain/transaction"

	"gorm.io/gorm"
)

// TransactionRepository only ever inserts; ledger rows are immutable.
type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *txnDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&txnDomain.Transaction{}).
		Where("transaction_number = ?", number).
		Count(&n).Error
	return n > 0, err
}

func (r *TransactionRepository) List(ctx context.Context, page, pageSize int) ([]txnDomain.Transaction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&txnDomain.Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	// past the last page; also keeps (page-1)*pageSize from overflowing
	if (txnDomain.Page{Page: page, PageSize: pageSize, Total: total}).Beyond() {
		return []txnDomain.Transaction{}, total, nil
	}
	var out []txnDomain.Transaction
	err := r.db.WithContext(ctx).
		Order("transaction_date DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&out).Error
	return out, total, err
}

func (r *TransactionRepository) ListByLoan(ctx context.Context, loanID uint64) ([]txnDomain.Transaction, error) {
	var out []txnDomain.Transaction
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("transaction_date DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID uint64, limit int) ([]txnDomain.Transaction, error) {
	var out []txnDomain.Transaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("transaction_date DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
