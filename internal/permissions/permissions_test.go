package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cleanup-ventures/internal/models"
)

func TestOwnerOverride(t *testing.T) {
	// Owner passes everything, even a permission that does not exist.
	assert.True(t, Can(models.PrivilegeViewer, PermissionChangeVentureStatus, true))
	assert.True(t, Can(models.PrivilegeNone, Permission("ANYTHING"), true))
}

func TestPrivilegeTable(t *testing.T) {
	tests := []struct {
		name       string
		privilege  models.Privilege
		permission Permission
		want       bool
	}{
		{"viewer cannot complete tasks", models.PrivilegeViewer, PermissionCompleteTask, false},
		{"viewer can view venture", models.PrivilegeViewer, PermissionViewVenture, true},
		{"viewer can view wallet", models.PrivilegeViewer, PermissionViewWallet, true},
		{"non-member can view venture", models.PrivilegeNone, PermissionViewVenture, true},
		{"non-member cannot view wallet", models.PrivilegeNone, PermissionViewWallet, false},
		{"buyer can purchase", models.PrivilegeBuyer, PermissionPurchaseSupplies, true},
		{"buyer cannot manage requests", models.PrivilegeBuyer, PermissionManageRequests, false},
		{"admin can manage requests", models.PrivilegeAdmin, PermissionManageRequests, true},
		{"admin cannot change status", models.PrivilegeAdmin, PermissionChangeVentureStatus, false},
		{"admin cannot remove members", models.PrivilegeAdmin, PermissionRemoveMember, false},
		{"admin cannot change roles", models.PrivilegeAdmin, PermissionChangeMemberRole, false},
		{"co-owner has full set", models.PrivilegeCoOwner, PermissionChangeVentureStatus, true},
		{"unknown privilege denied", models.Privilege("JANITOR"), PermissionViewVenture, false},
		{"unknown permission denied", models.PrivilegeCoOwner, Permission("LAUNCH_ROCKET"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.privilege, tt.permission, false))
		})
	}
}
