package repository

import (
	"context"

	"gorm.io/gorm"

	"fintrack/internal/model"
)

// LedgerTotals holds the aggregate amounts for a user's dashboard.
// Both totals are non-negative; TotalExpenses is the absolute value of the
// summed negative amounts.
type LedgerTotals struct {
	TotalIncome   int64
	TotalExpenses int64
}

// TransactionRepository defines ledger persistence operations.
type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	ListByUser(ctx context.Context, userID uint) ([]model.Transaction, error)
	SummaryByUser(ctx context.Context, userID uint) (*LedgerTotals, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository builds a GORM-backed repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uint) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// SummaryByUser aggregates income and expenses in a single query.
// COALESCE keeps a user with no transactions at zero rather than NULL.
func (r *transactionRepository) SummaryByUser(ctx context.Context, userID uint) (*LedgerTotals, error) {
	var totals LedgerTotals
	err := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) AS total_income, " +
			"COALESCE(-SUM(CASE WHEN amount < 0 THEN amount ELSE 0 END), 0) AS total_expenses").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
