package models

import (
	"time"
)

// Pledge is the amount a member currently has at stake in a venture,
// refundable until settlement. One row per (venture, auth username);
// re-pledging overwrites, refunding deletes.
type Pledge struct {
	VentureID    uint      `gorm:"primaryKey;autoIncrement:false" json:"venture_id"`
	AuthUsername string    `gorm:"size:255;primaryKey" json:"auth_username"`
	DisplayName  string    `gorm:"size:255" json:"display_name"`
	Amount       int64     `gorm:"not null" json:"amount"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Pledge) TableName() string {
	return "pledges"
}
