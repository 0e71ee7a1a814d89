package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanup-ventures/internal/models"
)

func TestPledgeSupersedesPreviousPledge(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	require.NoError(t, s.settlement.RecordPledge(ctx, venture.ID, "alice", "Alice", 100))
	require.NoError(t, s.settlement.RecordPledge(ctx, venture.ID, "alice", "Alice", 250))

	pledges, err := s.settlement.GetPledges(ctx, venture.ID)
	require.NoError(t, err)
	require.Len(t, pledges, 1)
	assert.Equal(t, int64(250), pledges[0].Amount)
}

func TestRefundExactlyOnce(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	require.NoError(t, s.settlement.RecordPledge(ctx, venture.ID, "alice", "Alice", 300))

	balance, err := s.wallets.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(700), balance)

	require.NoError(t, s.settlement.Refund(ctx, venture.ID, "alice"))
	// Second refund is a no-op: the pledge was deleted with the credit.
	require.NoError(t, s.settlement.Refund(ctx, venture.ID, "alice"))

	balance, err = s.wallets.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	pledges, err := s.settlement.GetPledges(ctx, venture.ID)
	require.NoError(t, err)
	assert.Empty(t, pledges)

	// One refund ledger entry, not two.
	ledger, err := s.settlement.GetLedger(ctx, venture.ID)
	require.NoError(t, err)
	refunds := 0
	for _, tx := range ledger {
		if tx.Type == models.VentureTransactionTypeRefund {
			refunds++
		}
	}
	assert.Equal(t, 1, refunds)
}

func TestProportionalPayoutRounding(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	// Pledges 100/200/200 (total 500), then purchases bring the pot to 250.
	require.NoError(t, s.settlement.RecordPledge(ctx, venture.ID, "alice", "Alice", 100))
	require.NoError(t, s.settlement.RecordPledge(ctx, venture.ID, "bob", "Bob", 200))
	require.NoError(t, s.settlement.RecordPledge(ctx, venture.ID, "carol", "Carol", 200))
	require.NoError(t, s.settlement.RecordPurchase(ctx, venture.ID, "Owner", 250, "Gloves and bags"))

	require.NoError(t, s.settlement.Settle(ctx, venture.ID))

	for _, tc := range []struct {
		user   string
		payout int64
	}{
		{"alice", 50},
		{"bob", 100},
		{"carol", 100},
	} {
		balance, err := s.wallets.GetBalance(ctx, tc.user)
		require.NoError(t, err)
		// start 1000, pledge deducted, payout credited
		var pledged int64 = 200
		if tc.user == "alice" {
			pledged = 100
		}
		assert.Equal(t, 1000-pledged+tc.payout, balance, "payout for %s", tc.user)
	}
}

func TestSettlementExcludesRefundsAndCashouts(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	// alice:100, bob:150 pledged; 50 spent on supplies.
	require.NoError(t, s.settlement.RecordPledge(ctx, venture.ID, "alice", "Alice", 100))
	require.NoError(t, s.settlement.RecordPledge(ctx, venture.ID, "bob", "Bob", 150))
	require.NoError(t, s.settlement.RecordPurchase(ctx, venture.ID, "Owner", 50, "Trash bags"))

	// remaining=200, totalPledged=250: alice 80, bob 120.
	require.NoError(t, s.settlement.Settle(ctx, venture.ID))

	aliceBalance, err := s.wallets.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000-100+80), aliceBalance)

	bobBalance, err := s.wallets.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1000-150+120), bobBalance)
}

func TestSettleTwiceIsNoOp(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	require.NoError(t, s.settlement.RecordPledge(ctx, venture.ID, "alice", "Alice", 100))
	require.NoError(t, s.settlement.Settle(ctx, venture.ID))

	balance, err := s.wallets.GetBalance(ctx, "alice")
	require.NoError(t, err)

	// All pledges were cleared, so a second run pays nothing.
	require.NoError(t, s.settlement.Settle(ctx, venture.ID))

	after, err := s.wallets.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, balance, after)
}

func TestSettleWithNoPledges(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	// Voluntary contribution but no pledges: nothing to divide, no panic.
	require.NoError(t, s.settlement.Contribute(ctx, venture.ID, "alice", "Alice", 100))
	require.NoError(t, s.settlement.Settle(ctx, venture.ID))

	ledger, err := s.settlement.GetLedger(ctx, venture.ID)
	require.NoError(t, err)
	for _, tx := range ledger {
		assert.NotEqual(t, models.VentureTransactionTypeCashout, tx.Type)
	}
}

func TestVoluntaryContributionHasNoPledge(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	require.NoError(t, s.settlement.Contribute(ctx, venture.ID, "alice", "Alice", 120))

	balance, err := s.wallets.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(880), balance)

	pledges, err := s.settlement.GetPledges(ctx, venture.ID)
	require.NoError(t, err)
	assert.Empty(t, pledges)

	ventureBalance, err := s.settlement.GetVentureBalance(ctx, venture.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(120), ventureBalance)
}

func TestPurchaseCannotOverdrawVenture(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	require.NoError(t, s.settlement.RecordPledge(ctx, venture.ID, "alice", "Alice", 100))

	err := s.settlement.RecordPurchase(ctx, venture.ID, "Owner", 150, "Too expensive")
	require.ErrorIs(t, err, ErrInsufficientFunds)

	balance, err := s.settlement.GetVentureBalance(ctx, venture.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
}

func TestPledgeFailsOnEmptyWallet(t *testing.T) {
	s := newTestServices(t, 50)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	err := s.settlement.RecordPledge(ctx, venture.ID, "alice", "Alice", 300)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// No partial state: no pledge, no ledger entry, wallet untouched.
	pledges, err := s.settlement.GetPledges(ctx, venture.ID)
	require.NoError(t, err)
	assert.Empty(t, pledges)

	ledger, err := s.settlement.GetLedger(ctx, venture.ID)
	require.NoError(t, err)
	assert.Empty(t, ledger)

	balance, err := s.wallets.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(50), balance)
}

func TestVentureBalanceIsSignedLedgerSum(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	require.NoError(t, s.settlement.RecordPledge(ctx, venture.ID, "alice", "Alice", 300))
	require.NoError(t, s.settlement.RecordPurchase(ctx, venture.ID, "Owner", 50, "Bags"))

	balance, err := s.settlement.GetVentureBalance(ctx, venture.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), balance)

	// The refund outflow shows up in the raw sum.
	require.NoError(t, s.settlement.Refund(ctx, venture.ID, "alice"))
	balance, err = s.settlement.GetVentureBalance(ctx, venture.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-50), balance)
}
