package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanup-ventures/internal/models"
)

func TestWalletLazyProvisioning(t *testing.T) {
	s := newTestServices(t, 500)
	ctx := context.Background()

	balance, err := s.wallets.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	// Provisioning itself writes no transaction record.
	transactions, err := s.wallets.GetTransactions(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestWalletTopupAndDeduct(t *testing.T) {
	s := newTestServices(t, 0)
	ctx := context.Background()

	require.NoError(t, s.wallets.Topup(ctx, "bob", 1000, "Initial topup"))
	require.NoError(t, s.wallets.Deduct(ctx, "bob", 300, "Supplies"))

	balance, err := s.wallets.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(700), balance)

	transactions, err := s.wallets.GetTransactions(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	// Newest first.
	assert.Equal(t, models.WalletTransactionTypeDeduct, transactions[0].Type)
	assert.Equal(t, int64(300), transactions[0].Amount)
	assert.Equal(t, models.WalletTransactionTypeTopup, transactions[1].Type)
	assert.Equal(t, int64(1000), transactions[1].Amount)
}

func TestWalletDeductInsufficientFunds(t *testing.T) {
	s := newTestServices(t, 100)
	ctx := context.Background()

	err := s.wallets.Deduct(ctx, "carol", 250, "Too much")
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// The failed deduction wrote nothing.
	balance, err := s.wallets.GetBalance(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	transactions, err := s.wallets.GetTransactions(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestConcurrentDeductsCannotOverdraw(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()

	// Two racing 600 deductions from a 1000 balance: exactly one may apply.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.wallets.Deduct(ctx, "alice", 600, "Supplies")
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientFunds)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	balance, err := s.wallets.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(400), balance)

	transactions, err := s.wallets.GetTransactions(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}

func TestWalletRejectsNonPositiveAmounts(t *testing.T) {
	s := newTestServices(t, 0)
	ctx := context.Background()

	assert.ErrorIs(t, s.wallets.Topup(ctx, "dave", 0, "zero"), ErrInvalidAmount)
	assert.ErrorIs(t, s.wallets.Topup(ctx, "dave", -5, "negative"), ErrInvalidAmount)
	assert.ErrorIs(t, s.wallets.Deduct(ctx, "dave", 0, "zero"), ErrInvalidAmount)
	assert.ErrorIs(t, s.wallets.Deduct(ctx, "dave", -5, "negative"), ErrInvalidAmount)
}
