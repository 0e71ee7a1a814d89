package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cleanup-ventures/internal/models"
)

// UpsertPledge records a pledge, overwriting any existing pledge for the
// same (venture, user). At most one pledge row exists per pair.
func (r *Repository) UpsertPledge(ctx context.Context, pledge *models.Pledge) error {
	var existing models.Pledge
	err := r.db.WithContext(ctx).
		Where("venture_id = ? AND auth_username = ?", pledge.VentureID, pledge.AuthUsername).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(pledge).Error
	}
	if err != nil {
		return err
	}

	existing.Amount = pledge.Amount
	existing.DisplayName = pledge.DisplayName
	return r.db.WithContext(ctx).Save(&existing).Error
}

// GetPledge retrieves the pledge for an identity on a venture. Returns
// (nil, nil) when no pledge exists.
func (r *Repository) GetPledge(ctx context.Context, ventureID uint, authUsername string) (*models.Pledge, error) {
	var pledge models.Pledge
	err := r.db.WithContext(ctx).
		Where("venture_id = ? AND auth_username = ?", ventureID, authUsername).
		First(&pledge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pledge, nil
}

// GetPledges retrieves all pledges on a venture
func (r *Repository) GetPledges(ctx context.Context, ventureID uint) ([]*models.Pledge, error) {
	var pledges []*models.Pledge
	err := r.db.WithContext(ctx).
		Where("venture_id = ?", ventureID).
		Order("auth_username ASC").
		Find(&pledges).Error
	if err != nil {
		return nil, err
	}
	return pledges, nil
}

// DeletePledge removes the pledge for an identity on a venture
func (r *Repository) DeletePledge(ctx context.Context, ventureID uint, authUsername string) error {
	return r.db.WithContext(ctx).
		Where("venture_id = ? AND auth_username = ?", ventureID, authUsername).
		Delete(&models.Pledge{}).Error
}

// DeletePledgesForVenture clears every pledge on a venture after settlement
func (r *Repository) DeletePledgesForVenture(ctx context.Context, ventureID uint) error {
	return r.db.WithContext(ctx).
		Where("venture_id = ?", ventureID).
		Delete(&models.Pledge{}).Error
}
