package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusOpen TaskStatus = "OPEN"
	TaskStatusDone TaskStatus = "DONE"
)

// Task is a unit of cleanup work on a venture. DONE is terminal.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	VentureID   uint       `gorm:"not null;index" json:"venture_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	AssignedTo  string     `gorm:"size:255" json:"assigned_to"` // auth username, empty if unassigned
	Status      TaskStatus `gorm:"size:50;not null;default:OPEN;index" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (Task) TableName() string {
	return "tasks"
}
