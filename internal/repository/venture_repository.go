package repository

import (
	"context"

	"cleanup-ventures/internal/models"
)

// CreateVenture creates a new venture
func (r *Repository) CreateVenture(ctx context.Context, venture *models.Venture) error {
	return r.db.WithContext(ctx).Create(venture).Error
}

// GetVentureByID retrieves a venture by ID
func (r *Repository) GetVentureByID(ctx context.Context, ventureID uint) (*models.Venture, error) {
	var venture models.Venture
	err := r.db.WithContext(ctx).Where("id = ?", ventureID).First(&venture).Error
	if err != nil {
		return nil, translate(err)
	}
	return &venture, nil
}

// ListVentures retrieves all ventures, newest first
func (r *Repository) ListVentures(ctx context.Context) ([]*models.Venture, error) {
	var ventures []*models.Venture
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ventures).Error
	if err != nil {
		return nil, err
	}
	return ventures, nil
}

// SaveVenture persists changes to a venture
func (r *Repository) SaveVenture(ctx context.Context, venture *models.Venture) error {
	return r.db.WithContext(ctx).Save(venture).Error
}
