package models

import (
	"time"

	"github.com/google/uuid"
)

type JoinRequestStatus string

const (
	JoinRequestStatusPending  JoinRequestStatus = "PENDING"
	JoinRequestStatusApproved JoinRequestStatus = "APPROVED"
	JoinRequestStatusDenied   JoinRequestStatus = "DENIED"
)

// JoinRequest is a user's application to join a venture. Pitch is the
// amount the requester offers to pledge on approval. At most one PENDING
// request may exist per (venture, auth username).
type JoinRequest struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	VentureID    uint              `gorm:"not null;index" json:"venture_id"`
	AuthUsername string            `gorm:"size:255;not null;index" json:"auth_username"`
	DisplayName  string            `gorm:"size:255" json:"display_name"`
	Role         Role              `gorm:"size:50;not null" json:"role"`
	Privilege    Privilege         `gorm:"size:50" json:"privilege"` // requested, not granted
	Pitch        int64             `gorm:"not null;default:0" json:"pitch"`
	Status       JoinRequestStatus `gorm:"size:50;not null;default:PENDING;index" json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	DecidedAt    *time.Time        `json:"decided_at"`
}

func (JoinRequest) TableName() string {
	return "join_requests"
}
