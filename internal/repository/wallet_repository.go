package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cleanup-ventures/internal/models"
)

// GetWallet retrieves a wallet. Returns (nil, nil) when none exists; lazy
// provisioning is the wallet service's decision, not the store's.
func (r *Repository) GetWallet(ctx context.Context, authUsername string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Where("auth_username = ?", authUsername).
		First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// CreateWallet creates a wallet row. A concurrent provision for the same
// user may have won the race; the conflict is ignored and the stored row
// stands.
func (r *Repository) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(wallet).Error
}

// CreditWalletBalance atomically increases a wallet balance in place.
func (r *Repository) CreditWalletBalance(ctx context.Context, authUsername string, amount int64) error {
	return r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("auth_username = ?", authUsername).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}

// DebitWalletBalance atomically decreases a wallet balance, guarded so the
// balance never goes negative. The guard and the write are one statement,
// holding the row lock through commit. Reports whether the debit applied.
func (r *Repository) DebitWalletBalance(ctx context.Context, authUsername string, amount int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("auth_username = ? AND balance >= ?", authUsername, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// CreateWalletTransaction appends an entry to a user's wallet history
func (r *Repository) CreateWalletTransaction(ctx context.Context, tx *models.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// GetWalletTransactions retrieves a user's wallet history, newest first
func (r *Repository) GetWalletTransactions(ctx context.Context, authUsername string) ([]*models.WalletTransaction, error) {
	var transactions []*models.WalletTransaction
	err := r.db.WithContext(ctx).
		Where("auth_username = ?", authUsername).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
