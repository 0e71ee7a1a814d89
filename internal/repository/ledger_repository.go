package repository

import (
	"context"

	"cleanup-ventures/internal/models"
)

// CreateVentureTransaction appends an entry to a venture's money ledger.
// Ledger rows are never updated or deleted.
func (r *Repository) CreateVentureTransaction(ctx context.Context, tx *models.VentureTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// GetVentureTransactions retrieves a venture's full ledger, newest first
func (r *Repository) GetVentureTransactions(ctx context.Context, ventureID uint) ([]*models.VentureTransaction, error) {
	var transactions []*models.VentureTransaction
	err := r.db.WithContext(ctx).
		Where("venture_id = ?", ventureID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// VentureBalance computes the venture's current balance as the signed sum
// over every ledger row.
func (r *Repository) VentureBalance(ctx context.Context, ventureID uint) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).
		Model(&models.VentureTransaction{}).
		Where("venture_id = ?", ventureID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// SettlementBase computes the pot available for proportional payout:
// contributions plus purchases (purchases carry negative amounts). Refund
// and cashout rows represent prior payouts and are excluded.
func (r *Repository) SettlementBase(ctx context.Context, ventureID uint) (int64, error) {
	var base int64
	err := r.db.WithContext(ctx).
		Model(&models.VentureTransaction{}).
		Where("venture_id = ? AND type IN ?", ventureID, []models.VentureTransactionType{
			models.VentureTransactionTypeContribution,
			models.VentureTransactionTypePurchase,
		}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&base).Error
	if err != nil {
		return 0, err
	}
	if base < 0 {
		base = 0
	}
	return base, nil
}
