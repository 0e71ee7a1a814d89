package repository

import (
	"context"

	"github.com/google/uuid"

	"cleanup-ventures/internal/models"
)

// CreateTask creates a task on a venture
func (r *Repository) CreateTask(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetTaskByID retrieves a task within a venture
func (r *Repository) GetTaskByID(ctx context.Context, ventureID uint, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Where("venture_id = ? AND id = ?", ventureID, taskID).
		First(&task).Error
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// GetTasks retrieves all tasks for a venture, oldest first
func (r *Repository) GetTasks(ctx context.Context, ventureID uint) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Where("venture_id = ?", ventureID).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveTask persists changes to a task
func (r *Repository) SaveTask(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}
