package models

import (
	"time"
)

type VentureStatus string

const (
	VentureStatusProposed VentureStatus = "PROPOSED"
	VentureStatusOngoing  VentureStatus = "ONGOING"
	VentureStatusFinished VentureStatus = "FINISHED"
)

// Venture represents a community cleanup project with a lifecycle and
// optional budget. Amounts are integer currency units.
type Venture struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	Name               string        `gorm:"size:255;not null" json:"name"`
	Description        string        `gorm:"type:text" json:"description"`
	Status             VentureStatus `gorm:"size:50;not null;default:PROPOSED;index" json:"status"`
	IsFree             bool          `gorm:"not null;default:false" json:"is_free"`
	Budget             int64         `gorm:"not null;default:0" json:"budget"`
	EAC                int64         `gorm:"column:eac;not null;default:0" json:"eac"` // suggested per-member contribution
	VolunteersRequired int           `gorm:"not null;default:0" json:"volunteers_required"`
	Images             []string      `gorm:"serializer:json" json:"images"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

func (Venture) TableName() string {
	return "ventures"
}

// ValidStatusTransition reports whether a venture may move from one status
// to another. FINISHED is terminal.
func ValidStatusTransition(from, to VentureStatus) bool {
	switch {
	case from == VentureStatusProposed && to == VentureStatusOngoing:
		return true
	case from == VentureStatusOngoing && to == VentureStatusFinished:
		return true
	}
	return false
}
