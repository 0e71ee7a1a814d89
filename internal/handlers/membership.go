package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cleanup-ventures/internal/models"
	"cleanup-ventures/internal/permissions"
	"cleanup-ventures/internal/services"
)

// MembershipHandler handles roster endpoints
type MembershipHandler struct {
	membership *services.MembershipService
	logger     *zap.Logger
}

// NewMembershipHandler creates a new MembershipHandler
func NewMembershipHandler(membership *services.MembershipService, logger *zap.Logger) *MembershipHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MembershipHandler{membership: membership, logger: logger}
}

// List handles GET /ventures/:id/members
func (h *MembershipHandler) List(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionViewVenture); !ok {
		return
	}

	members, err := h.membership.GetMembers(c.Request.Context(), ventureID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// Me handles GET /ventures/:id/members/me. Returns the caller's standing,
// or member: null for non-members.
func (h *MembershipHandler) Me(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	username, _, ok := identity(c)
	if !ok {
		return
	}

	member, err := h.membership.GetMemberForUser(c.Request.Context(), ventureID, username)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

type addMemberRequest struct {
	AuthUsername string `json:"auth_username" binding:"required"`
	DisplayName  string `json:"display_name"`
	Role         string `json:"role" binding:"required"`
	Privilege    string `json:"privilege"`
}

// Add handles POST /ventures/:id/members
func (h *MembershipHandler) Add(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionManageRequests); !ok {
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	member := &models.Member{
		ID:           uuid.New(),
		VentureID:    ventureID,
		AuthUsername: req.AuthUsername,
		DisplayName:  req.DisplayName,
		Role:         models.Role(req.Role),
		Privilege:    models.Privilege(req.Privilege),
	}
	if err := h.membership.AddMember(c.Request.Context(), member); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": member})
}

type updateMemberRequest struct {
	Role      *string `json:"role"`
	Privilege *string `json:"privilege"`
}

// Update handles PATCH /ventures/:id/members/:memberId
func (h *MembershipHandler) Update(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionChangeMemberRole); !ok {
		return
	}

	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member id"})
		return
	}

	var req updateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input := services.UpdateMemberInput{}
	if req.Role != nil {
		role := models.Role(*req.Role)
		input.Role = &role
	}
	if req.Privilege != nil {
		privilege := models.Privilege(*req.Privilege)
		input.Privilege = &privilege
	}

	member, err := h.membership.UpdateMember(c.Request.Context(), ventureID, memberID, input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

// Remove handles DELETE /ventures/:id/members/:memberId. The pledge refund
// runs in the same transaction as the removal.
func (h *MembershipHandler) Remove(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	if _, ok := requirePermission(c, h.membership, ventureID, permissions.PermissionRemoveMember); !ok {
		return
	}

	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member id"})
		return
	}

	if err := h.membership.RemoveMember(c.Request.Context(), ventureID, memberID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// Leave handles POST /ventures/:id/leave
func (h *MembershipHandler) Leave(c *gin.Context) {
	ventureID, ok := ventureIDParam(c)
	if !ok {
		return
	}
	username, _, ok := identity(c)
	if !ok {
		return
	}

	if err := h.membership.Leave(c.Request.Context(), ventureID, username); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"left": true})
}
