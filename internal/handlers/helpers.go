package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cleanup-ventures/internal/auth"
	"cleanup-ventures/internal/models"
	"cleanup-ventures/internal/permissions"
	"cleanup-ventures/internal/repository"
	"cleanup-ventures/internal/services"
)

func ventureIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid venture id",
		})
		return 0, false
	}
	return uint(id), true
}

// identity pulls the authenticated username and display name from context.
func identity(c *gin.Context) (username, displayName string, ok bool) {
	username, ok = auth.GetAuthUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return "", "", false
	}
	displayName, _ = auth.GetDisplayName(c)
	return username, displayName, true
}

// requirePermission resolves the caller's standing on the venture and
// applies the permission table. Writes the HTTP error response itself and
// returns the member row (nil for non-members) on success.
func requirePermission(c *gin.Context, membership *services.MembershipService, ventureID uint, permission permissions.Permission) (*models.Member, bool) {
	username, _, ok := identity(c)
	if !ok {
		return nil, false
	}

	member, err := membership.GetMemberForUser(c.Request.Context(), ventureID, username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve membership",
		})
		return nil, false
	}

	privilege := models.PrivilegeNone
	isOwner := false
	if member != nil {
		privilege = member.Privilege
		isOwner = member.IsOwner
	}

	if !permissions.Can(privilege, permission, isOwner) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Permission denied",
		})
		return nil, false
	}
	return member, true
}

// handleError maps service errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicatePending),
		errors.Is(err, services.ErrAlreadyDecided),
		errors.Is(err, services.ErrVentureFinished),
		errors.Is(err, services.ErrOwnerCannotLeave):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
