package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cleanup-ventures/internal/models"
	"cleanup-ventures/internal/repository"
)

// TaskService manages per-venture cleanup tasks.
type TaskService struct {
	db   *gorm.DB
	repo *repository.Repository
}

func NewTaskService(db *gorm.DB, repo *repository.Repository) *TaskService {
	return &TaskService{db: db, repo: repo}
}

func (s *TaskService) Create(ctx context.Context, ventureID uint, title, description, assignedTo string) (*models.Task, error) {
	venture, err := s.repo.GetVentureByID(ctx, ventureID)
	if err != nil {
		return nil, err
	}
	if venture.Status == models.VentureStatusFinished {
		return nil, ErrVentureFinished
	}

	task := &models.Task{
		ID:          uuid.New(),
		VentureID:   ventureID,
		Title:       title,
		Description: description,
		AssignedTo:  assignedTo,
		Status:      models.TaskStatusOpen,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, ventureID uint) ([]*models.Task, error) {
	if _, err := s.repo.GetVentureByID(ctx, ventureID); err != nil {
		return nil, err
	}
	return s.repo.GetTasks(ctx, ventureID)
}

// Complete marks a task done. Completing an already-done task is a no-op.
func (s *TaskService) Complete(ctx context.Context, ventureID uint, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.repo.GetTaskByID(ctx, ventureID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == models.TaskStatusDone {
		return task, nil
	}

	now := time.Now()
	task.Status = models.TaskStatusDone
	task.CompletedAt = &now
	if err := s.repo.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}
