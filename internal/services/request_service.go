package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanup-ventures/internal/models"
	"cleanup-ventures/internal/repository"
)

// SubmitJoinRequestInput describes a user's application to join a venture.
type SubmitJoinRequestInput struct {
	VentureID    uint
	AuthUsername string
	DisplayName  string
	Role         models.Role
	Privilege    models.Privilege
	Pitch        int64
}

// RequestService manages the per-venture queue of join requests and the
// approval workflow. Approval records the decision, creates the member, and
// deducts the pledge as one transaction -- partial completion is never
// observable.
type RequestService struct {
	db         *gorm.DB
	repo       *repository.Repository
	settlement *SettlementService
	logger     *zap.Logger
}

// NewRequestService creates a new RequestService.
func NewRequestService(db *gorm.DB, repo *repository.Repository, settlement *SettlementService, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{db: db, repo: repo, settlement: settlement, logger: logger}
}

// Submit appends a pending request. A second pending request by the same
// user on the same venture is rejected, and requests against finished
// ventures are refused outright.
func (s *RequestService) Submit(ctx context.Context, input SubmitJoinRequestInput) (*models.JoinRequest, error) {
	if input.Pitch < 0 {
		return nil, ErrInvalidAmount
	}

	venture, err := s.repo.GetVentureByID(ctx, input.VentureID)
	if err != nil {
		return nil, err
	}
	if venture.Status == models.VentureStatusFinished {
		return nil, ErrVentureFinished
	}

	pending, err := s.repo.HasPendingJoinRequest(ctx, input.VentureID, input.AuthUsername)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrDuplicatePending
	}

	request := &models.JoinRequest{
		ID:           uuid.New(),
		VentureID:    input.VentureID,
		AuthUsername: input.AuthUsername,
		DisplayName:  input.DisplayName,
		Role:         input.Role,
		Privilege:    input.Privilege,
		Pitch:        input.Pitch,
		Status:       models.JoinRequestStatusPending,
	}
	if err := s.repo.CreateJoinRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to submit request: %w", err)
	}
	return request, nil
}

// ListForVenture returns a venture's join-request queue, oldest first.
func (s *RequestService) ListForVenture(ctx context.Context, ventureID uint) ([]*models.JoinRequest, error) {
	if _, err := s.repo.GetVentureByID(ctx, ventureID); err != nil {
		return nil, err
	}
	return s.repo.GetJoinRequests(ctx, ventureID)
}

// HasPendingRequest reports whether this identity -- not anyone else -- has
// an undecided request on the venture.
func (s *RequestService) HasPendingRequest(ctx context.Context, ventureID uint, authUsername string) (bool, error) {
	return s.repo.HasPendingJoinRequest(ctx, ventureID, authUsername)
}

// Approve transitions a pending request to approved, puts the requester on
// the roster, and deducts their pitch as a pledge -- all in one
// transaction. An insufficient wallet aborts the whole approval and leaves
// the request pending.
func (s *RequestService) Approve(ctx context.Context, ventureID uint, requestID uuid.UUID) (*models.JoinRequest, error) {
	lock := s.settlement.ventureLock(ventureID)
	lock.Lock()
	defer lock.Unlock()

	var request *models.JoinRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		var err error
		request, err = r.GetJoinRequestByID(ctx, ventureID, requestID)
		if err != nil {
			return err
		}
		// The terminal-decision check lives inside the lock and transaction,
		// so a racing second decision sees the committed status.
		if request.Status != models.JoinRequestStatusPending {
			return ErrAlreadyDecided
		}

		now := time.Now()
		request.Status = models.JoinRequestStatusApproved
		request.DecidedAt = &now
		if err := r.SaveJoinRequest(ctx, request); err != nil {
			return fmt.Errorf("failed to record decision: %w", err)
		}

		// The member ID is derived from the request, so a racing second
		// approval creates nothing new.
		member := &models.Member{
			ID:           request.ID,
			VentureID:    ventureID,
			AuthUsername: request.AuthUsername,
			DisplayName:  request.DisplayName,
			Role:         request.Role,
			Privilege:    request.Privilege,
		}
		if err := r.CreateMember(ctx, member); err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}

		return s.settlement.deductPledge(ctx, r, ventureID, request.AuthUsername, request.DisplayName, request.Pitch)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("join request approved",
		zap.Uint("venture_id", ventureID),
		zap.String("user", request.AuthUsername),
		zap.Int64("pitch", request.Pitch),
	)
	return request, nil
}

// Deny transitions a pending request to denied. No member is created and
// no money moves.
func (s *RequestService) Deny(ctx context.Context, ventureID uint, requestID uuid.UUID) (*models.JoinRequest, error) {
	lock := s.settlement.ventureLock(ventureID)
	lock.Lock()
	defer lock.Unlock()

	var request *models.JoinRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		var err error
		request, err = r.GetJoinRequestByID(ctx, ventureID, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.JoinRequestStatusPending {
			return ErrAlreadyDecided
		}

		now := time.Now()
		request.Status = models.JoinRequestStatusDenied
		request.DecidedAt = &now
		return r.SaveJoinRequest(ctx, request)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// RejectAllPending bulk-denies every still-pending request on a venture.
func (s *RequestService) RejectAllPending(ctx context.Context, ventureID uint) error {
	return s.repo.DenyAllPendingJoinRequests(ctx, ventureID)
}
