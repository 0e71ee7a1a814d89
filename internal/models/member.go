package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleVolunteer             Role = "VOLUNTEER"
	RoleContributingVolunteer Role = "CONTRIBUTING_VOLUNTEER"
	RoleSponsor               Role = "SPONSOR"
)

type Privilege string

const (
	// PrivilegeNone is the sentinel for non-members and for members that
	// were never granted a privilege.
	PrivilegeNone    Privilege = ""
	PrivilegeCoOwner Privilege = "CO_OWNER"
	PrivilegeAdmin   Privilege = "ADMIN"
	PrivilegeBuyer   Privilege = "BUYER"
	PrivilegeViewer  Privilege = "VIEWER"
)

// Member is a user's standing on a venture. At most one row exists per
// (venture, auth username).
type Member struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VentureID    uint      `gorm:"not null;index;uniqueIndex:idx_member_venture_user" json:"venture_id"`
	AuthUsername string    `gorm:"size:255;not null;uniqueIndex:idx_member_venture_user" json:"auth_username"`
	DisplayName  string    `gorm:"size:255" json:"display_name"`
	Role         Role      `gorm:"size:50;not null" json:"role"`
	Privilege    Privilege `gorm:"size:50" json:"privilege"`
	IsOwner      bool      `gorm:"not null;default:false" json:"is_owner"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}
