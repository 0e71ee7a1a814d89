package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cleanup-ventures/internal/models"
)

// CreateJoinRequest creates a join request. A request with the same ID is
// silently ignored so a double-submit cannot duplicate the queue entry.
func (r *Repository) CreateJoinRequest(ctx context.Context, request *models.JoinRequest) error {
	var existing models.JoinRequest
	err := r.db.WithContext(ctx).Where("id = ?", request.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(request).Error
}

// GetJoinRequestByID retrieves a join request within a venture
func (r *Repository) GetJoinRequestByID(ctx context.Context, ventureID uint, requestID uuid.UUID) (*models.JoinRequest, error) {
	var request models.JoinRequest
	err := r.db.WithContext(ctx).
		Where("venture_id = ? AND id = ?", ventureID, requestID).
		First(&request).Error
	if err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

// GetJoinRequests retrieves all join requests for a venture, oldest first
func (r *Repository) GetJoinRequests(ctx context.Context, ventureID uint) ([]*models.JoinRequest, error) {
	var requests []*models.JoinRequest
	err := r.db.WithContext(ctx).
		Where("venture_id = ?", ventureID).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// HasPendingJoinRequest reports whether the given identity has a still
// undecided request on the venture. The check is scoped strictly to
// (venture, user) -- never to the venture as a whole.
func (r *Repository) HasPendingJoinRequest(ctx context.Context, ventureID uint, authUsername string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("venture_id = ? AND auth_username = ? AND status = ?",
			ventureID, authUsername, models.JoinRequestStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveJoinRequest persists changes to a join request
func (r *Repository) SaveJoinRequest(ctx context.Context, request *models.JoinRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// DenyAllPendingJoinRequests bulk-transitions every pending request on a
// venture to denied
func (r *Repository) DenyAllPendingJoinRequests(ctx context.Context, ventureID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("venture_id = ? AND status = ?", ventureID, models.JoinRequestStatusPending).
		Updates(map[string]interface{}{
			"status":     models.JoinRequestStatusDenied,
			"decided_at": now,
		}).Error
}
