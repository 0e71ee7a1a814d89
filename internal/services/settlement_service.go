package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanup-ventures/internal/models"
	"cleanup-ventures/internal/repository"
)

// SettlementService records pledges, moves wallet funds tied to membership
// changes, and computes the proportional payout when a venture finishes.
// All financial operations on one venture are serialized through a
// per-venture mutex.
type SettlementService struct {
	db      *gorm.DB
	repo    *repository.Repository
	wallets *WalletService
	logger  *zap.Logger

	mu           sync.Mutex
	ventureLocks map[uint]*sync.Mutex
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(db *gorm.DB, repo *repository.Repository, wallets *WalletService, logger *zap.Logger) *SettlementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementService{
		db:           db,
		repo:         repo,
		wallets:      wallets,
		logger:       logger,
		ventureLocks: make(map[uint]*sync.Mutex),
	}
}

func (s *SettlementService) ventureLock(ventureID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.ventureLocks[ventureID]
	if !ok {
		lock = &sync.Mutex{}
		s.ventureLocks[ventureID] = lock
	}
	return lock
}

// GetPledges returns every current pledge on a venture.
func (s *SettlementService) GetPledges(ctx context.Context, ventureID uint) ([]*models.Pledge, error) {
	return s.repo.GetPledges(ctx, ventureID)
}

// GetLedger returns a venture's full transaction ledger, newest first.
func (s *SettlementService) GetLedger(ctx context.Context, ventureID uint) ([]*models.VentureTransaction, error) {
	return s.repo.GetVentureTransactions(ctx, ventureID)
}

// GetVentureBalance returns the signed sum over the venture's ledger.
func (s *SettlementService) GetVentureBalance(ctx context.Context, ventureID uint) (int64, error) {
	return s.repo.VentureBalance(ctx, ventureID)
}

// RecordPledge debits the pledger's wallet, records (or overwrites) the
// pledge, and appends a contribution ledger entry -- the pledge and the
// ledger always move together.
func (s *SettlementService) RecordPledge(ctx context.Context, ventureID uint, authUsername, displayName string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	lock := s.ventureLock(ventureID)
	lock.Lock()
	defer lock.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.deductPledge(ctx, s.repo.WithTx(tx), ventureID, authUsername, displayName, amount)
	})
}

// Refund returns a departed member's pledge to their wallet. A missing or
// non-positive pledge is a no-op, which makes a second refund for the same
// member harmless.
func (s *SettlementService) Refund(ctx context.Context, ventureID uint, authUsername string) error {
	lock := s.ventureLock(ventureID)
	lock.Lock()
	defer lock.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.refundPledge(ctx, s.repo.WithTx(tx), ventureID, authUsername)
	})
}

// Settle runs the completion settlement for a venture: proportional payout
// of the remaining pot, pledge clearing, and bulk denial of still-pending
// join requests. Re-running after pledges are cleared is a no-op.
func (s *SettlementService) Settle(ctx context.Context, ventureID uint) error {
	lock := s.ventureLock(ventureID)
	lock.Lock()
	defer lock.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.settle(ctx, s.repo.WithTx(tx), ventureID)
	})
}

// Contribute records a voluntary contribution: wallet debit plus a
// contribution ledger entry, with no pledge backing it.
func (s *SettlementService) Contribute(ctx context.Context, ventureID uint, authUsername, displayName string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	lock := s.ventureLock(ventureID)
	lock.Lock()
	defer lock.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if err := s.wallets.debit(ctx, r, authUsername, amount, "Contribution to venture"); err != nil {
			return err
		}
		return r.CreateVentureTransaction(ctx, &models.VentureTransaction{
			ID:        uuid.New(),
			VentureID: ventureID,
			Type:      models.VentureTransactionTypeContribution,
			Username:  displayName,
			Amount:    amount,
			Label:     "Contribution",
			CreatedAt: time.Now(),
		})
	})
}

// RecordPurchase appends a supplies purchase to the venture ledger. The
// purchase is rejected when it would overdraw the venture's balance.
func (s *SettlementService) RecordPurchase(ctx context.Context, ventureID uint, displayName string, amount int64, label string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	lock := s.ventureLock(ventureID)
	lock.Lock()
	defer lock.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		balance, err := r.VentureBalance(ctx, ventureID)
		if err != nil {
			return err
		}
		if balance < amount {
			return fmt.Errorf("%w: venture balance %d, purchase %d", ErrInsufficientFunds, balance, amount)
		}
		return r.CreateVentureTransaction(ctx, &models.VentureTransaction{
			ID:        uuid.New(),
			VentureID: ventureID,
			Type:      models.VentureTransactionTypePurchase,
			Username:  displayName,
			Amount:    -amount,
			Label:     label,
			CreatedAt: time.Now(),
		})
	})
}

// deductPledge runs flow (a) inside an enclosing transaction: wallet debit,
// pledge upsert, contribution ledger entry. A non-positive amount writes
// nothing.
func (s *SettlementService) deductPledge(ctx context.Context, r *repository.Repository, ventureID uint, authUsername, displayName string, amount int64) error {
	if amount <= 0 {
		return nil
	}

	if err := s.wallets.debit(ctx, r, authUsername, amount, "Pledge to venture"); err != nil {
		return err
	}

	if err := r.UpsertPledge(ctx, &models.Pledge{
		VentureID:    ventureID,
		AuthUsername: authUsername,
		DisplayName:  displayName,
		Amount:       amount,
	}); err != nil {
		return fmt.Errorf("failed to record pledge: %w", err)
	}

	return r.CreateVentureTransaction(ctx, &models.VentureTransaction{
		ID:        uuid.New(),
		VentureID: ventureID,
		Type:      models.VentureTransactionTypeContribution,
		Username:  displayName,
		Amount:    amount,
		Label:     "Pledge",
		CreatedAt: time.Now(),
	})
}

// refundPledge runs flow (b) inside an enclosing transaction. The pledge
// row is deleted in the same transaction as the wallet credit, so a refund
// can issue at most once per pledge.
func (s *SettlementService) refundPledge(ctx context.Context, r *repository.Repository, ventureID uint, authUsername string) error {
	pledge, err := r.GetPledge(ctx, ventureID, authUsername)
	if err != nil {
		return fmt.Errorf("failed to look up pledge: %w", err)
	}
	if pledge == nil || pledge.Amount <= 0 {
		return nil
	}

	if err := s.wallets.credit(ctx, r, authUsername, pledge.Amount, "Refund"); err != nil {
		return err
	}

	if err := r.DeletePledge(ctx, ventureID, authUsername); err != nil {
		return fmt.Errorf("failed to delete pledge: %w", err)
	}

	s.logger.Info("pledge refunded",
		zap.Uint("venture_id", ventureID),
		zap.String("user", authUsername),
		zap.Int64("amount", pledge.Amount),
	)

	return r.CreateVentureTransaction(ctx, &models.VentureTransaction{
		ID:        uuid.New(),
		VentureID: ventureID,
		Type:      models.VentureTransactionTypeRefund,
		Username:  pledge.DisplayName,
		Amount:    -pledge.Amount,
		Label:     "Refund",
		CreatedAt: time.Now(),
	})
}

// settle runs flow (c) inside an enclosing transaction. Each member's
// payout is rounded independently, so the summed payouts may drift from the
// remaining pot by up to one unit per member. That slippage is accepted.
func (s *SettlementService) settle(ctx context.Context, r *repository.Repository, ventureID uint) error {
	remaining, err := r.SettlementBase(ctx, ventureID)
	if err != nil {
		return fmt.Errorf("failed to compute settlement base: %w", err)
	}

	pledges, err := r.GetPledges(ctx, ventureID)
	if err != nil {
		return fmt.Errorf("failed to load pledges: %w", err)
	}

	var totalPledged int64
	for _, pledge := range pledges {
		totalPledged += pledge.Amount
	}

	if totalPledged > 0 {
		remainingDec := decimal.NewFromInt(remaining)
		totalDec := decimal.NewFromInt(totalPledged)

		for _, pledge := range pledges {
			payout := remainingDec.
				Mul(decimal.NewFromInt(pledge.Amount)).
				Div(totalDec).
				Round(0).
				IntPart()
			if payout <= 0 {
				continue
			}

			if err := s.wallets.credit(ctx, r, pledge.AuthUsername, payout, "Venture payout"); err != nil {
				return err
			}

			if err := r.CreateVentureTransaction(ctx, &models.VentureTransaction{
				ID:        uuid.New(),
				VentureID: ventureID,
				Type:      models.VentureTransactionTypeCashout,
				Username:  pledge.DisplayName,
				Amount:    -payout,
				Label:     "Settlement payout",
				CreatedAt: time.Now(),
			}); err != nil {
				return fmt.Errorf("failed to record cashout: %w", err)
			}

			s.logger.Info("settlement payout",
				zap.Uint("venture_id", ventureID),
				zap.String("user", pledge.AuthUsername),
				zap.Int64("pledge", pledge.Amount),
				zap.Int64("payout", payout),
			)
		}

		if err := r.DeletePledgesForVenture(ctx, ventureID); err != nil {
			return fmt.Errorf("failed to clear pledges: %w", err)
		}
	}

	// New members cannot meaningfully join a completed venture.
	return r.DenyAllPendingJoinRequests(ctx, ventureID)
}
