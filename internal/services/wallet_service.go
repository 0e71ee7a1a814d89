package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanup-ventures/internal/models"
	"cleanup-ventures/internal/repository"
)

// WalletService owns per-user balances and their append-only transaction
// logs. No other component writes wallet state directly.
type WalletService struct {
	db              *gorm.DB
	repo            *repository.Repository
	startingBalance int64
	logger          *zap.Logger

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewWalletService creates a new WalletService. Unknown users are
// provisioned lazily with startingBalance on first touch.
func NewWalletService(db *gorm.DB, repo *repository.Repository, startingBalance int64, logger *zap.Logger) *WalletService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletService{
		db:              db,
		repo:            repo,
		startingBalance: startingBalance,
		logger:          logger,
		userLocks:       make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing the direct wallet operations for
// one user, held through transaction commit. Settlement flows touching the
// same wallet from other ventures are covered by the in-place balance
// updates instead.
func (s *WalletService) userLock(authUsername string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[authUsername]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[authUsername] = lock
	}
	return lock
}

// GetBalance returns the user's current balance, provisioning the wallet
// with the configured starting balance if none exists.
func (s *WalletService) GetBalance(ctx context.Context, authUsername string) (int64, error) {
	lock := s.userLock(authUsername)
	lock.Lock()
	defer lock.Unlock()

	wallet, err := s.loadWallet(ctx, s.repo, authUsername)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// GetTransactions returns the user's wallet history, newest first.
func (s *WalletService) GetTransactions(ctx context.Context, authUsername string) ([]*models.WalletTransaction, error) {
	return s.repo.GetWalletTransactions(ctx, authUsername)
}

// Topup credits the wallet. Amount must be positive; no upper bound is
// enforced. Exactly one transaction record is appended per call. The user
// lock is held through commit.
func (s *WalletService) Topup(ctx context.Context, authUsername string, amount int64, label string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	lock := s.userLock(authUsername)
	lock.Lock()
	defer lock.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.credit(ctx, s.repo.WithTx(tx), authUsername, amount, label)
	})
}

// Deduct debits the wallet. Amount must be positive and no greater than the
// current balance; an overdraft fails with ErrInsufficientFunds and writes
// nothing. The user lock is held through commit.
func (s *WalletService) Deduct(ctx context.Context, authUsername string, amount int64, label string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	lock := s.userLock(authUsername)
	lock.Lock()
	defer lock.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.debit(ctx, s.repo.WithTx(tx), authUsername, amount, label)
	})
}

// loadWallet fetches or lazily provisions a wallet through the given
// repository handle. A concurrent provision is resolved by the store; the
// returned row is whatever won.
func (s *WalletService) loadWallet(ctx context.Context, r *repository.Repository, authUsername string) (*models.Wallet, error) {
	wallet, err := r.GetWallet(ctx, authUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	if wallet != nil {
		return wallet, nil
	}

	wallet = &models.Wallet{
		AuthUsername: authUsername,
		Balance:      s.startingBalance,
	}
	if err := r.CreateWallet(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to provision wallet: %w", err)
	}
	// Read back: a racing provision may have won the insert.
	wallet, err = r.GetWallet(ctx, authUsername)
	if err != nil || wallet == nil {
		return nil, fmt.Errorf("failed to load provisioned wallet: %w", err)
	}

	s.logger.Info("wallet provisioned",
		zap.String("user", authUsername),
		zap.Int64("starting_balance", s.startingBalance),
	)
	return wallet, nil
}

// credit increases the balance and appends a topup record. The balance
// moves via an in-place update, so settlement flows crediting several users
// in one transaction stay correct without taking every user lock.
func (s *WalletService) credit(ctx context.Context, r *repository.Repository, authUsername string, amount int64, label string) error {
	if _, err := s.loadWallet(ctx, r, authUsername); err != nil {
		return err
	}

	if err := r.CreditWalletBalance(ctx, authUsername, amount); err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}

	return r.CreateWalletTransaction(ctx, &models.WalletTransaction{
		ID:           uuid.New(),
		AuthUsername: authUsername,
		Type:         models.WalletTransactionTypeTopup,
		Amount:       amount,
		Label:        label,
		CreatedAt:    time.Now(),
	})
}

// debit decreases the balance and appends a deduct record, failing with
// ErrInsufficientFunds when the balance does not cover the amount. The
// guard and the write are one statement, so the check cannot pass against
// a balance another transaction is about to spend.
func (s *WalletService) debit(ctx context.Context, r *repository.Repository, authUsername string, amount int64, label string) error {
	wallet, err := s.loadWallet(ctx, r, authUsername)
	if err != nil {
		return err
	}

	applied, err := r.DebitWalletBalance(ctx, authUsername, amount)
	if err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}
	if !applied {
		return fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientFunds, wallet.Balance, amount)
	}

	return r.CreateWalletTransaction(ctx, &models.WalletTransaction{
		ID:           uuid.New(),
		AuthUsername: authUsername,
		Type:         models.WalletTransactionTypeDeduct,
		Amount:       amount,
		Label:        label,
		CreatedAt:    time.Now(),
	})
}
