package permissions

import (
	"cleanup-ventures/internal/models"
)

type Permission string

const (
	PermissionViewVenture  Permission = "VIEW_VENTURE"
	PermissionViewWallet   Permission = "VIEW_WALLET"
	PermissionViewRequests Permission = "VIEW_REQUESTS"
	PermissionViewSupplies Permission = "VIEW_SUPPLIES"

	PermissionCreateTask          Permission = "CREATE_TASK"
	PermissionCompleteTask        Permission = "COMPLETE_TASK"
	PermissionContributeFunds     Permission = "CONTRIBUTE_FUNDS"
	PermissionPurchaseSupplies    Permission = "PURCHASE_SUPPLIES"
	PermissionManageRequests      Permission = "MANAGE_REQUESTS"
	PermissionRemoveMember        Permission = "REMOVE_MEMBER"
	PermissionChangeMemberRole    Permission = "CHANGE_MEMBER_ROLE"
	PermissionChangeVentureStatus Permission = "CHANGE_VENTURE_STATUS"
	PermissionAddPhoto            Permission = "ADD_PHOTO"
	PermissionDeletePhoto         Permission = "DELETE_PHOTO"
)

// privilegeGrants maps each privilege to its allowed permission set. The
// models.PrivilegeNone entry covers non-members. Co-owners never reach this
// table in practice because the owner flag short-circuits, but the full set
// is kept here so the table stands on its own.
var privilegeGrants = map[models.Privilege]map[Permission]bool{
	models.PrivilegeCoOwner: {
		PermissionViewVenture:         true,
		PermissionViewWallet:          true,
		PermissionViewRequests:        true,
		PermissionViewSupplies:        true,
		PermissionCreateTask:          true,
		PermissionCompleteTask:        true,
		PermissionContributeFunds:     true,
		PermissionPurchaseSupplies:    true,
		PermissionManageRequests:      true,
		PermissionRemoveMember:        true,
		PermissionChangeMemberRole:    true,
		PermissionChangeVentureStatus: true,
		PermissionAddPhoto:            true,
		PermissionDeletePhoto:         true,
	},
	models.PrivilegeAdmin: {
		PermissionViewVenture:      true,
		PermissionViewWallet:       true,
		PermissionViewRequests:     true,
		PermissionViewSupplies:     true,
		PermissionCreateTask:       true,
		PermissionCompleteTask:     true,
		PermissionContributeFunds:  true,
		PermissionPurchaseSupplies: true,
		PermissionManageRequests:   true,
		PermissionAddPhoto:         true,
		PermissionDeletePhoto:      true,
	},
	models.PrivilegeBuyer: {
		PermissionViewVenture:      true,
		PermissionViewWallet:       true,
		PermissionViewSupplies:     true,
		PermissionPurchaseSupplies: true,
	},
	models.PrivilegeViewer: {
		PermissionViewVenture:  true,
		PermissionViewWallet:   true,
		PermissionViewSupplies: true,
	},
	models.PrivilegeNone: {
		PermissionViewVenture: true,
	},
}

// Can reports whether a member with the given privilege may perform the
// given action. Owners (and therefore co-owners carrying the owner flag)
// pass every check unconditionally. Unknown privileges and unknown
// permissions are denied.
func Can(privilege models.Privilege, permission Permission, isOwner bool) bool {
	if isOwner {
		return true
	}
	grants, ok := privilegeGrants[privilege]
	if !ok {
		return false
	}
	return grants[permission]
}
