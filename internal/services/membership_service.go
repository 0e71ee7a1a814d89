package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanup-ventures/internal/models"
	"cleanup-ventures/internal/repository"
)

// UpdateMemberInput carries optional privilege/role edits.
type UpdateMemberInput struct {
	Role      *models.Role
	Privilege *models.Privilege
}

// MembershipService owns the per-venture roster. Removal and voluntary
// departure both funnel through the same primitive, with the pledge refund
// running in the same transaction.
type MembershipService struct {
	db         *gorm.DB
	repo       *repository.Repository
	settlement *SettlementService
	logger     *zap.Logger
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(db *gorm.DB, repo *repository.Repository, settlement *SettlementService, logger *zap.Logger) *MembershipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MembershipService{db: db, repo: repo, settlement: settlement, logger: logger}
}

// GetMembers returns the roster for a venture.
func (s *MembershipService) GetMembers(ctx context.Context, ventureID uint) ([]*models.Member, error) {
	if _, err := s.repo.GetVentureByID(ctx, ventureID); err != nil {
		return nil, err
	}
	return s.repo.GetMembers(ctx, ventureID)
}

// GetMemberForUser returns the member row for an identity, or nil when the
// user is not on the roster. This is the canonical standing probe used
// before every permission-gated action.
func (s *MembershipService) GetMemberForUser(ctx context.Context, ventureID uint, authUsername string) (*models.Member, error) {
	return s.repo.GetMemberForUser(ctx, ventureID, authUsername)
}

// AddMember puts a member on the roster. Idempotent on duplicate ID.
func (s *MembershipService) AddMember(ctx context.Context, member *models.Member) error {
	if _, err := s.repo.GetVentureByID(ctx, member.VentureID); err != nil {
		return err
	}
	return s.repo.CreateMember(ctx, member)
}

// UpdateMember applies privilege/role edits. There is deliberately no
// self-demotion guard; a co-owner may demote themselves.
func (s *MembershipService) UpdateMember(ctx context.Context, ventureID uint, memberID uuid.UUID, input UpdateMemberInput) (*models.Member, error) {
	member, err := s.repo.GetMemberByID(ctx, ventureID, memberID)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		member.Role = *input.Role
	}
	if input.Privilege != nil {
		member.Privilege = *input.Privilege
	}

	if err := s.repo.SaveMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember takes a member off the roster and refunds their pledge in
// the same transaction. Removal-for-cause and voluntary departure both land
// here.
func (s *MembershipService) RemoveMember(ctx context.Context, ventureID uint, memberID uuid.UUID) error {
	member, err := s.repo.GetMemberByID(ctx, ventureID, memberID)
	if err != nil {
		return err
	}

	lock := s.settlement.ventureLock(ventureID)
	lock.Lock()
	defer lock.Unlock()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if err := r.DeleteMember(ctx, ventureID, memberID); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		return s.settlement.refundPledge(ctx, r, ventureID, member.AuthUsername)
	})
	if err != nil {
		return err
	}

	s.logger.Info("member removed",
		zap.Uint("venture_id", ventureID),
		zap.String("user", member.AuthUsername),
	)
	return nil
}

// Leave is a member's voluntary departure. Owners cannot leave: a venture
// never exists without an owner member.
func (s *MembershipService) Leave(ctx context.Context, ventureID uint, authUsername string) error {
	member, err := s.repo.GetMemberForUser(ctx, ventureID, authUsername)
	if err != nil {
		return err
	}
	if member == nil {
		return repository.ErrNotFound
	}
	if member.IsOwner {
		return ErrOwnerCannotLeave
	}
	return s.RemoveMember(ctx, ventureID, member.ID)
}
