package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanup-ventures/internal/models"
)

func TestJoinApprovalMovesPitchIntoVenture(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	request, err := s.requests.Submit(ctx, SubmitJoinRequestInput{
		VentureID:    venture.ID,
		AuthUsername: "bob",
		DisplayName:  "Bob",
		Role:         models.RoleContributingVolunteer,
		Pitch:        300,
	})
	require.NoError(t, err)

	_, err = s.requests.Approve(ctx, venture.ID, request.ID)
	require.NoError(t, err)

	// Bob's wallet: 1000 - 300.
	balance, err := s.wallets.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(700), balance)

	// Bob is on the roster.
	member, err := s.membership.GetMemberForUser(ctx, venture.ID, "bob")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.False(t, member.IsOwner)

	// A pledge and a contribution ledger entry exist for 300.
	pledges, err := s.settlement.GetPledges(ctx, venture.ID)
	require.NoError(t, err)
	require.Len(t, pledges, 1)
	assert.Equal(t, "bob", pledges[0].AuthUsername)
	assert.Equal(t, int64(300), pledges[0].Amount)

	ventureBalance, err := s.settlement.GetVentureBalance(ctx, venture.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), ventureBalance)

	// Removing bob refunds the pledge.
	require.NoError(t, s.membership.RemoveMember(ctx, venture.ID, member.ID))

	balance, err = s.wallets.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	pledges, err = s.settlement.GetPledges(ctx, venture.ID)
	require.NoError(t, err)
	assert.Empty(t, pledges)
}

func TestApprovalAbortsWhenWalletCannotCoverPitch(t *testing.T) {
	s := newTestServices(t, 100)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	request, err := s.requests.Submit(ctx, SubmitJoinRequestInput{
		VentureID:    venture.ID,
		AuthUsername: "bob",
		DisplayName:  "Bob",
		Role:         models.RoleContributingVolunteer,
		Pitch:        300,
	})
	require.NoError(t, err)

	_, err = s.requests.Approve(ctx, venture.ID, request.ID)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// The whole approval rolled back: no member, request still pending.
	member, err := s.membership.GetMemberForUser(ctx, venture.ID, "bob")
	require.NoError(t, err)
	assert.Nil(t, member)

	pending, err := s.requests.HasPendingRequest(ctx, venture.ID, "bob")
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestDuplicatePendingRequestRejected(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	input := SubmitJoinRequestInput{
		VentureID:    venture.ID,
		AuthUsername: "bob",
		DisplayName:  "Bob",
		Role:         models.RoleVolunteer,
	}

	_, err := s.requests.Submit(ctx, input)
	require.NoError(t, err)

	_, err = s.requests.Submit(ctx, input)
	assert.ErrorIs(t, err, ErrDuplicatePending)
}

func TestPendingRequestScopedToUser(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	_, err := s.requests.Submit(ctx, SubmitJoinRequestInput{
		VentureID:    venture.ID,
		AuthUsername: "bob",
		DisplayName:  "Bob",
		Role:         models.RoleVolunteer,
	})
	require.NoError(t, err)

	pending, err := s.requests.HasPendingRequest(ctx, venture.ID, "bob")
	require.NoError(t, err)
	assert.True(t, pending)

	// Somebody else's pending request must not leak onto alice.
	pending, err = s.requests.HasPendingRequest(ctx, venture.ID, "alice")
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestDecisionIsTerminal(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	request, err := s.requests.Submit(ctx, SubmitJoinRequestInput{
		VentureID:    venture.ID,
		AuthUsername: "bob",
		DisplayName:  "Bob",
		Role:         models.RoleVolunteer,
		Pitch:        100,
	})
	require.NoError(t, err)

	_, err = s.requests.Approve(ctx, venture.ID, request.ID)
	require.NoError(t, err)

	// A second approval must not deduct a second pledge.
	_, err = s.requests.Approve(ctx, venture.ID, request.ID)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	_, err = s.requests.Deny(ctx, venture.ID, request.ID)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	balance, err := s.wallets.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(900), balance)
}

func TestDenyMovesNoMoney(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	request, err := s.requests.Submit(ctx, SubmitJoinRequestInput{
		VentureID:    venture.ID,
		AuthUsername: "bob",
		DisplayName:  "Bob",
		Role:         models.RoleVolunteer,
		Pitch:        400,
	})
	require.NoError(t, err)

	_, err = s.requests.Deny(ctx, venture.ID, request.ID)
	require.NoError(t, err)

	balance, err := s.wallets.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	member, err := s.membership.GetMemberForUser(ctx, venture.ID, "bob")
	require.NoError(t, err)
	assert.Nil(t, member)
}

func TestConcurrentApprovalsDeductOnce(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	request, err := s.requests.Submit(ctx, SubmitJoinRequestInput{
		VentureID:    venture.ID,
		AuthUsername: "bob",
		DisplayName:  "Bob",
		Role:         models.RoleContributingVolunteer,
		Pitch:        100,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.requests.Approve(ctx, venture.ID, request.ID)
		}(i)
	}
	wg.Wait()

	approved := 0
	for _, err := range errs {
		if err == nil {
			approved++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyDecided)
		}
	}
	assert.Equal(t, 1, approved)

	// Exactly one deduction, one contribution row, one new member.
	balance, err := s.wallets.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(900), balance)

	ledger, err := s.settlement.GetLedger(ctx, venture.ID)
	require.NoError(t, err)
	assert.Len(t, ledger, 1)

	members, err := s.membership.GetMembers(ctx, venture.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestConcurrentApproveAndDenyStayConsistent(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	request, err := s.requests.Submit(ctx, SubmitJoinRequestInput{
		VentureID:    venture.ID,
		AuthUsername: "bob",
		DisplayName:  "Bob",
		Role:         models.RoleContributingVolunteer,
		Pitch:        250,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = s.requests.Approve(ctx, venture.ID, request.ID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = s.requests.Deny(ctx, venture.ID, request.ID)
	}()
	wg.Wait()

	// Whichever decision lost must have seen the committed one.
	decided := 0
	for _, err := range errs {
		if err == nil {
			decided++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyDecided)
		}
	}
	require.Equal(t, 1, decided)

	balance, err := s.wallets.GetBalance(ctx, "bob")
	require.NoError(t, err)
	member, err := s.membership.GetMemberForUser(ctx, venture.ID, "bob")
	require.NoError(t, err)
	pledges, err := s.settlement.GetPledges(ctx, venture.ID)
	require.NoError(t, err)

	if errs[0] == nil {
		// Approval won: pledge deducted, member on roster.
		assert.Equal(t, int64(750), balance)
		assert.NotNil(t, member)
		assert.Len(t, pledges, 1)
	} else {
		// Denial won: nothing moved.
		assert.Equal(t, int64(1000), balance)
		assert.Nil(t, member)
		assert.Empty(t, pledges)
	}
}

func TestSubmitToFinishedVentureRefused(t *testing.T) {
	s := newTestServices(t, 1000)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	_, err := s.ventures.UpdateStatus(ctx, venture.ID, models.VentureStatusOngoing)
	require.NoError(t, err)
	_, err = s.ventures.UpdateStatus(ctx, venture.ID, models.VentureStatusFinished)
	require.NoError(t, err)

	_, err = s.requests.Submit(ctx, SubmitJoinRequestInput{
		VentureID:    venture.ID,
		AuthUsername: "bob",
		DisplayName:  "Bob",
		Role:         models.RoleVolunteer,
	})
	assert.ErrorIs(t, err, ErrVentureFinished)
}
