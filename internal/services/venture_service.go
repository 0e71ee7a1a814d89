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

// CreateVentureInput describes a new venture and its owner. The owner
// member is written in the same transaction as the venture, so no venture
// ever exists without an owner.
type CreateVentureInput struct {
	Name               string
	Description        string
	IsFree             bool
	Budget             int64
	EAC                int64
	VolunteersRequired int
	Images             []string
	OwnerUsername      string
	OwnerDisplayName   string
	OwnerRole          models.Role
}

// PatchVentureInput carries optional field updates. The venture ID is
// immutable and the status only moves through UpdateStatus.
type PatchVentureInput struct {
	Name               *string
	Description        *string
	Images             *[]string
	VolunteersRequired *int
	EAC                *int64
}

// VentureService handles venture lifecycle and gallery management.
type VentureService struct {
	db         *gorm.DB
	repo       *repository.Repository
	settlement *SettlementService
	logger     *zap.Logger
}

// NewVentureService creates a new VentureService.
func NewVentureService(db *gorm.DB, repo *repository.Repository, settlement *SettlementService, logger *zap.Logger) *VentureService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VentureService{db: db, repo: repo, settlement: settlement, logger: logger}
}

// Create launches a venture in PROPOSED status with its owner attached.
func (s *VentureService) Create(ctx context.Context, input CreateVentureInput) (*models.Venture, error) {
	if input.Budget < 0 || input.EAC < 0 {
		return nil, ErrInvalidAmount
	}
	if input.IsFree {
		input.Budget = 0
		input.EAC = 0
	}

	venture := &models.Venture{
		Name:               input.Name,
		Description:        input.Description,
		Status:             models.VentureStatusProposed,
		IsFree:             input.IsFree,
		Budget:             input.Budget,
		EAC:                input.EAC,
		VolunteersRequired: input.VolunteersRequired,
		Images:             input.Images,
	}

	role := input.OwnerRole
	if role == "" {
		role = models.RoleVolunteer
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if err := r.CreateVenture(ctx, venture); err != nil {
			return fmt.Errorf("failed to create venture: %w", err)
		}
		owner := &models.Member{
			ID:           uuid.New(),
			VentureID:    venture.ID,
			AuthUsername: input.OwnerUsername,
			DisplayName:  input.OwnerDisplayName,
			Role:         role,
			Privilege:    models.PrivilegeCoOwner,
			IsOwner:      true,
		}
		if err := r.CreateMember(ctx, owner); err != nil {
			return fmt.Errorf("failed to create owner member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("venture created",
		zap.Uint("venture_id", venture.ID),
		zap.String("owner", input.OwnerUsername),
	)
	return venture, nil
}

// Get retrieves a venture by ID.
func (s *VentureService) Get(ctx context.Context, ventureID uint) (*models.Venture, error) {
	return s.repo.GetVentureByID(ctx, ventureID)
}

// List retrieves all ventures, newest first.
func (s *VentureService) List(ctx context.Context) ([]*models.Venture, error) {
	return s.repo.ListVentures(ctx)
}

// Patch applies partial field updates to a venture.
func (s *VentureService) Patch(ctx context.Context, ventureID uint, input PatchVentureInput) (*models.Venture, error) {
	venture, err := s.repo.GetVentureByID(ctx, ventureID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		venture.Name = *input.Name
	}
	if input.Description != nil {
		venture.Description = *input.Description
	}
	if input.Images != nil {
		venture.Images = *input.Images
	}
	if input.VolunteersRequired != nil {
		venture.VolunteersRequired = *input.VolunteersRequired
	}
	if input.EAC != nil {
		if *input.EAC < 0 {
			return nil, ErrInvalidAmount
		}
		venture.EAC = *input.EAC
	}

	if err := s.repo.SaveVenture(ctx, venture); err != nil {
		return nil, err
	}
	return venture, nil
}

// UpdateStatus moves a venture through its lifecycle. Only
// proposed->ongoing and ongoing->finished are legal; FINISHED is terminal.
// The finished transition runs the completion settlement in the same
// transaction as the status write, so it applies exactly once.
func (s *VentureService) UpdateStatus(ctx context.Context, ventureID uint, newStatus models.VentureStatus) (*models.Venture, error) {
	venture, err := s.repo.GetVentureByID(ctx, ventureID)
	if err != nil {
		return nil, err
	}

	if !models.ValidStatusTransition(venture.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, venture.Status, newStatus)
	}

	if newStatus != models.VentureStatusFinished {
		venture.Status = newStatus
		if err := s.repo.SaveVenture(ctx, venture); err != nil {
			return nil, err
		}
		return venture, nil
	}

	lock := s.settlement.ventureLock(ventureID)
	lock.Lock()
	defer lock.Unlock()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		venture.Status = models.VentureStatusFinished
		if err := r.SaveVenture(ctx, venture); err != nil {
			return err
		}
		return s.settlement.settle(ctx, r, ventureID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("venture finished", zap.Uint("venture_id", ventureID))
	return venture, nil
}
