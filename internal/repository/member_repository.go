package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cleanup-ventures/internal/models"
)

// CreateMember creates a member row. It is a no-op if a member with the
// same ID already exists, which guards against a double-approval race.
func (r *Repository) CreateMember(ctx context.Context, member *models.Member) error {
	var existing models.Member
	err := r.db.WithContext(ctx).Where("id = ?", member.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(member).Error
}

// GetMembers retrieves the full roster for a venture
func (r *Repository) GetMembers(ctx context.Context, ventureID uint) ([]*models.Member, error) {
	var members []*models.Member
	err := r.db.WithContext(ctx).
		Where("venture_id = ?", ventureID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// GetMemberByID retrieves a member by its row ID within a venture
func (r *Repository) GetMemberByID(ctx context.Context, ventureID uint, memberID uuid.UUID) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("venture_id = ? AND id = ?", ventureID, memberID).
		First(&member).Error
	if err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

// GetMemberForUser retrieves the member row for an identity on a venture.
// Returns (nil, nil) when the user is not a member.
func (r *Repository) GetMemberForUser(ctx context.Context, ventureID uint, authUsername string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("venture_id = ? AND auth_username = ?", ventureID, authUsername).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// SaveMember persists changes to a member
func (r *Repository) SaveMember(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// DeleteMember removes a member row
func (r *Repository) DeleteMember(ctx context.Context, ventureID uint, memberID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("venture_id = ? AND id = ?", ventureID, memberID).
		Delete(&models.Member{}).Error
}
